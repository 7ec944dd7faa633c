// Package database opens the client's local SQLite file and keeps its
// schema current.
//
// The file stores per-user preferences (client and location options) so
// a restarted client comes back with the same grid colours and view. It
// is opened with one connection, WAL journaling and a busy timeout.
//
// Schema changes are SQL files embedded by the migrations package:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
