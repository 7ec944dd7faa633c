package prefs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/layers"
	"github.com/hktrpg/PlanarAlly/internal/scene"
)

// ============================================================================
// Test Helpers
// ============================================================================

type locationKey struct {
	key      Key
	location int
}

// memoryRepo is an in-memory Repository counting writes.
type memoryRepo struct {
	client   map[Key]scene.ClientOptions
	location map[locationKey]scene.LocationOptions
	saves    int
	failWith error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		client:   make(map[Key]scene.ClientOptions),
		location: make(map[locationKey]scene.LocationOptions),
	}
}

func (r *memoryRepo) ClientOptions(_ context.Context, key Key) (scene.ClientOptions, error) {
	if r.failWith != nil {
		return scene.ClientOptions{}, r.failWith
	}
	o, ok := r.client[key]
	if !ok {
		return scene.ClientOptions{}, ErrNotFound
	}
	return o, nil
}

func (r *memoryRepo) SaveClientOptions(_ context.Context, key Key, o scene.ClientOptions) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.client[key] = o
	r.saves++
	return nil
}

func (r *memoryRepo) LocationOptions(_ context.Context, key Key, location int) (scene.LocationOptions, error) {
	o, ok := r.location[locationKey{key, location}]
	if !ok {
		return scene.LocationOptions{}, ErrNotFound
	}
	return o, nil
}

func (r *memoryRepo) SaveLocationOptions(_ context.Context, key Key, location int, o scene.LocationOptions) error {
	r.location[locationKey{key, location}] = o
	return nil
}

func (r *memoryRepo) DeleteLocation(_ context.Context, key Key, location int) error {
	delete(r.location, locationKey{key, location})
	return nil
}

// startRunner runs a store for the session alice/dungeon as bob on
// location 3.
func startRunner(t *testing.T) *scene.Runner {
	t.Helper()

	m := layers.NewManager()
	m.AddFloor("ground").AddLayer(layers.LayerConfig{Name: "grid", IsGrid: true})
	s := scene.New(m, &dispatch.Recorder{})
	s.SetRoomCreator("alice")
	s.SetRoomName("dungeon")
	s.SetUsername("bob")
	s.SetLocationID(3)

	runner := scene.NewRunner(s)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return runner
}

// ============================================================================
// Restore
// ============================================================================

func TestRestore(t *testing.T) {
	runner := startRunner(t)
	repo := newMemoryRepo()
	repo.client[testKey] = scene.ClientOptions{GridColour: "red", FOWColour: "blue", RulerColour: "green", GridSize: 60}
	repo.location[locationKey{testKey, 3}] = scene.LocationOptions{PanX: 5, PanY: 6, ZoomDisplay: 0.7}
	repo.location[locationKey{testKey, 4}] = scene.LocationOptions{PanX: 99}

	ctx := context.Background()
	if err := Restore(ctx, repo, runner); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	var snap Snapshot
	if err := runner.Do(ctx, func(s *scene.Store) { snap = Capture(s) }); err != nil {
		t.Fatal(err)
	}
	if snap.ClientOptions != repo.client[testKey] {
		t.Errorf("client options = %+v, want %+v", snap.ClientOptions, repo.client[testKey])
	}
	if snap.LocationOptions != (scene.LocationOptions{PanX: 5, PanY: 6, ZoomDisplay: 0.7}) {
		t.Errorf("location options = %+v", snap.LocationOptions)
	}
}

func TestRestore_NothingStored(t *testing.T) {
	runner := startRunner(t)
	ctx := context.Background()

	if err := Restore(ctx, newMemoryRepo(), runner); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	var opts scene.ClientOptions
	if err := runner.Do(ctx, func(s *scene.Store) { opts = s.ClientOptions() }); err != nil {
		t.Fatal(err)
	}
	if opts.GridColour != scene.DefaultGridColour {
		t.Errorf("GridColour = %q, want default", opts.GridColour)
	}
}

func TestRestore_RepositoryError(t *testing.T) {
	runner := startRunner(t)
	repo := newMemoryRepo()
	boom := errors.New("disk gone")
	repo.failWith = boom

	if err := Restore(context.Background(), repo, runner); !errors.Is(err, boom) {
		t.Errorf("Restore() error = %v, want %v", err, boom)
	}
}

// ============================================================================
// Autosaver
// ============================================================================

func TestAutosaver_SaveNowSkipsUnchanged(t *testing.T) {
	runner := startRunner(t)
	repo := newMemoryRepo()
	a, err := NewAutosaver(runner, repo, "")
	if err != nil {
		t.Fatalf("NewAutosaver() error = %v", err)
	}
	ctx := context.Background()

	saved, err := a.SaveNow(ctx)
	if err != nil || !saved {
		t.Fatalf("first SaveNow() = %v, %v; want true, nil", saved, err)
	}
	saved, err = a.SaveNow(ctx)
	if err != nil || saved {
		t.Fatalf("second SaveNow() = %v, %v; want false, nil", saved, err)
	}

	if err := runner.Do(ctx, func(s *scene.Store) { s.SetRulerColour("pink", false) }); err != nil {
		t.Fatal(err)
	}
	if saved, _ := a.SaveNow(ctx); !saved {
		t.Error("SaveNow() after change did not save")
	}
	if repo.saves != 2 {
		t.Errorf("saves = %d, want 2", repo.saves)
	}
	if repo.client[testKey].RulerColour != "pink" {
		t.Errorf("stored ruler colour = %q", repo.client[testKey].RulerColour)
	}
	if _, ok := repo.location[locationKey{testKey, 3}]; !ok {
		t.Error("location options not stored for the active location")
	}
}

func TestAutosaver_InvalidSchedule(t *testing.T) {
	if _, err := NewAutosaver(nil, newMemoryRepo(), "every now and then"); err == nil {
		t.Error("NewAutosaver() error = nil, want schedule error")
	}
}

func TestAutosaver_StopWritesFinalSnapshot(t *testing.T) {
	runner := startRunner(t)
	repo := newMemoryRepo()
	a, err := NewAutosaver(runner, repo, "@every 1h")
	if err != nil {
		t.Fatalf("NewAutosaver() error = %v", err)
	}
	a.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

type autosaveRecorder struct {
	mu    sync.Mutex
	saved []bool
}

func (r *autosaveRecorder) RecordAutosave(saved bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, saved)
}

func TestAutosaver_TickRecordsMetrics(t *testing.T) {
	runner := startRunner(t)
	a, err := NewAutosaver(runner, newMemoryRepo(), "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	rec := &autosaveRecorder{}
	a.SetMetrics(rec)

	a.tick()
	a.tick()

	if len(rec.saved) != 2 || !rec.saved[0] || rec.saved[1] {
		t.Errorf("recorded = %v, want [true false]", rec.saved)
	}
}
