// Package migrations embeds the SQL migrations for the local preferences
// database and registers them with the database package on import.
package migrations

import (
	"embed"

	"github.com/hktrpg/PlanarAlly/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
