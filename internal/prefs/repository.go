// Package prefs persists the display preferences of the local user.
//
// Client options are stored per room and user, the pan and zoom of each
// location per room, user and location. They are restored when a session
// starts and saved while it runs, so the view survives a restart.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hktrpg/PlanarAlly/internal/scene"
)

// ErrNotFound is returned when no preferences are stored for a key.
var ErrNotFound = errors.New("prefs: not found")

// Key identifies a user in a room.
type Key struct {
	RoomCreator string
	RoomName    string
	Username    string
}

// Repository loads and stores user preferences.
type Repository interface {
	// ClientOptions returns ErrNotFound when nothing is stored for key.
	ClientOptions(ctx context.Context, key Key) (scene.ClientOptions, error)
	SaveClientOptions(ctx context.Context, key Key, o scene.ClientOptions) error

	// LocationOptions returns ErrNotFound when nothing is stored for the location.
	LocationOptions(ctx context.Context, key Key, location int) (scene.LocationOptions, error)
	SaveLocationOptions(ctx context.Context, key Key, location int, o scene.LocationOptions) error

	// DeleteLocation forgets the view of a removed location.
	DeleteLocation(ctx context.Context, key Key, location int) error
}

// SQLiteRepository implements Repository on the tables created by the
// client_options and location_options migrations.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over an open connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ClientOptions loads the display options of key.
func (r *SQLiteRepository) ClientOptions(ctx context.Context, key Key) (scene.ClientOptions, error) {
	query := `
		SELECT grid_colour, fow_colour, ruler_colour, invert_alt, grid_size
		FROM client_options
		WHERE room_creator = ? AND room_name = ? AND username = ?`

	var o scene.ClientOptions
	err := r.db.QueryRowContext(ctx, query, key.RoomCreator, key.RoomName, key.Username).
		Scan(&o.GridColour, &o.FOWColour, &o.RulerColour, &o.InvertAlt, &o.GridSize)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scene.ClientOptions{}, ErrNotFound
		}
		return scene.ClientOptions{}, fmt.Errorf("querying client options: %w", err)
	}
	return o, nil
}

// SaveClientOptions inserts or replaces the display options of key.
func (r *SQLiteRepository) SaveClientOptions(ctx context.Context, key Key, o scene.ClientOptions) error {
	query := `
		INSERT INTO client_options (
			room_creator, room_name, username,
			grid_colour, fow_colour, ruler_colour, invert_alt, grid_size, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (room_creator, room_name, username) DO UPDATE SET
			grid_colour = excluded.grid_colour,
			fow_colour = excluded.fow_colour,
			ruler_colour = excluded.ruler_colour,
			invert_alt = excluded.invert_alt,
			grid_size = excluded.grid_size,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		key.RoomCreator, key.RoomName, key.Username,
		o.GridColour, o.FOWColour, o.RulerColour, o.InvertAlt, o.GridSize,
		now(),
	)
	if err != nil {
		return fmt.Errorf("saving client options: %w", err)
	}
	return nil
}

// LocationOptions loads the view of one location.
func (r *SQLiteRepository) LocationOptions(ctx context.Context, key Key, location int) (scene.LocationOptions, error) {
	query := `
		SELECT pan_x, pan_y, zoom_display
		FROM location_options
		WHERE room_creator = ? AND room_name = ? AND username = ? AND location_id = ?`

	var o scene.LocationOptions
	err := r.db.QueryRowContext(ctx, query, key.RoomCreator, key.RoomName, key.Username, location).
		Scan(&o.PanX, &o.PanY, &o.ZoomDisplay)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scene.LocationOptions{}, ErrNotFound
		}
		return scene.LocationOptions{}, fmt.Errorf("querying location options: %w", err)
	}
	return o, nil
}

// SaveLocationOptions inserts or replaces the view of one location.
func (r *SQLiteRepository) SaveLocationOptions(ctx context.Context, key Key, location int, o scene.LocationOptions) error {
	query := `
		INSERT INTO location_options (
			room_creator, room_name, username, location_id,
			pan_x, pan_y, zoom_display, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (room_creator, room_name, username, location_id) DO UPDATE SET
			pan_x = excluded.pan_x,
			pan_y = excluded.pan_y,
			zoom_display = excluded.zoom_display,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		key.RoomCreator, key.RoomName, key.Username, location,
		o.PanX, o.PanY, o.ZoomDisplay,
		now(),
	)
	if err != nil {
		return fmt.Errorf("saving location options: %w", err)
	}
	return nil
}

// DeleteLocation removes the stored view of a location. Deleting a
// location with nothing stored is not an error.
func (r *SQLiteRepository) DeleteLocation(ctx context.Context, key Key, location int) error {
	query := `
		DELETE FROM location_options
		WHERE room_creator = ? AND room_name = ? AND username = ? AND location_id = ?`

	if _, err := r.db.ExecContext(ctx, query, key.RoomCreator, key.RoomName, key.Username, location); err != nil {
		return fmt.Errorf("deleting location options: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
