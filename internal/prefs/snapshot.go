package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hktrpg/PlanarAlly/internal/scene"
)

// Snapshot is the persistable part of a store at one point in time.
type Snapshot struct {
	Key             Key
	Location        int
	ClientOptions   scene.ClientOptions
	LocationOptions scene.LocationOptions
}

// Capture reads the preferences out of s. Must run on the goroutine that
// owns s.
func Capture(s *scene.Store) Snapshot {
	return Snapshot{
		Key:             KeyOf(s),
		Location:        s.LocationID(),
		ClientOptions:   s.ClientOptions(),
		LocationOptions: s.LocationOptions(),
	}
}

// KeyOf returns the preference key of the session held by s.
func KeyOf(s *scene.Store) Key {
	return Key{RoomCreator: s.RoomCreator(), RoomName: s.RoomName(), Username: s.Username()}
}

// Save writes a snapshot.
func Save(ctx context.Context, repo Repository, snap Snapshot) error {
	if err := repo.SaveClientOptions(ctx, snap.Key, snap.ClientOptions); err != nil {
		return err
	}
	return repo.SaveLocationOptions(ctx, snap.Key, snap.Location, snap.LocationOptions)
}

// Load reads the stored preferences for key and location. Missing rows are
// reported through the found flags, not as errors.
func Load(ctx context.Context, repo Repository, key Key, location int) (snap Snapshot, clientFound, locationFound bool, err error) {
	snap = Snapshot{Key: key, Location: location}

	snap.ClientOptions, err = repo.ClientOptions(ctx, key)
	switch {
	case err == nil:
		clientFound = true
	case !errors.Is(err, ErrNotFound):
		return Snapshot{}, false, false, fmt.Errorf("loading client options: %w", err)
	}

	snap.LocationOptions, err = repo.LocationOptions(ctx, key, location)
	switch {
	case err == nil:
		locationFound = true
	case !errors.Is(err, ErrNotFound):
		return Snapshot{}, false, false, fmt.Errorf("loading location options: %w", err)
	}

	return snap, clientFound, locationFound, nil
}

// Restore loads the stored preferences for the session in the runner's
// store and applies them locally, without syncing. Nothing stored is not
// an error.
func Restore(ctx context.Context, repo Repository, runner *scene.Runner) error {
	var key Key
	var location int
	if err := runner.Do(ctx, func(s *scene.Store) {
		key, location = KeyOf(s), s.LocationID()
	}); err != nil {
		return err
	}

	snap, clientFound, locationFound, err := Load(ctx, repo, key, location)
	if err != nil {
		return err
	}

	return runner.Do(ctx, func(s *scene.Store) {
		if clientFound {
			s.SetClientOptions(snap.ClientOptions)
		}
		if locationFound {
			s.SetLocationOptions(snap.LocationOptions)
		}
	})
}
