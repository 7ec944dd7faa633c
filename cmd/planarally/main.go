// PlanarAlly client - headless session sync core.
//
// The binary joins one room of a PlanarAlly session server, keeps the
// room's scene in memory, exchanges changes with the other clients over
// MQTT or a websocket, persists the user's view preferences locally and
// offers an operator console on stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/hktrpg/PlanarAlly/migrations"

	"github.com/hktrpg/PlanarAlly/internal/admin"
	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/config"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/database"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/influxdb"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/logging"
	"github.com/hktrpg/PlanarAlly/internal/layers"
	"github.com/hktrpg/PlanarAlly/internal/prefs"
	"github.com/hktrpg/PlanarAlly/internal/remote"
	"github.com/hktrpg/PlanarAlly/internal/scene"
	"github.com/hktrpg/PlanarAlly/internal/units"
)

// Set at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"
	shutdownTimeout   = 10 * time.Second
)

// errConnectionLost ends run when the session server drops the socket.
var errConnectionLost = errors.New("session connection lost")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the client together and blocks until ctx is cancelled, the
// console quits or the transport fails.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting PlanarAlly client", "version", version, "commit", commit, "build_date", date)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version).With(
		"room", cfg.Session.RoomCreator+"/"+cfg.Session.RoomName,
		"user", cfg.Session.Username,
	)
	log.Info("configuration loaded", "path", configPath, "transport", cfg.Transport.Type)

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	// Telemetry (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB, cfg.Session)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	// Transport
	tr, err := openTransport(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := tr.close(); closeErr != nil {
			log.Error("error closing transport", "error", closeErr)
		}
	}()

	outbox := dispatch.NewOutbox(tr.sink, dispatch.OutboxConfig{
		BufferSize:  cfg.Transport.OutboxBuffer,
		SendTimeout: cfg.GetSendTimeout(),
	})
	outbox.SetLogger(log.Component("outbox"))
	if influxClient != nil {
		outbox.SetMetrics(influxClient)
	}

	// Scene
	store := newStore(cfg, outbox, log)
	runner := scene.NewRunner(store)
	runnerCtx, stopRunner := context.WithCancel(context.Background())
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		_ = runner.Run(runnerCtx) //nolint:errcheck // Always context.Canceled
	}()
	outbox.Start(runnerCtx)
	log.Info("scene started", "location", cfg.Session.LocationID, "dm", cfg.Session.IsDM)

	applier := remote.NewApplier(runner)
	applier.SetLogger(log.Component("remote"))
	if influxClient != nil {
		applier.SetMetrics(influxClient)
	}
	if err := tr.listen(applier.HandleFunc(runnerCtx)); err != nil {
		stopRunner()
		<-runnerDone
		return fmt.Errorf("subscribing to session events: %w", err)
	}

	// Preferences
	var autosaver *prefs.Autosaver
	if cfg.Prefs.Enabled {
		db, repo, err := openPrefs(ctx, cfg)
		if err != nil {
			stopRunner()
			<-runnerDone
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		if err := prefs.Restore(ctx, repo, runner); err != nil {
			log.Warn("restoring preferences failed", "error", err)
		}
		autosaver, err = prefs.NewAutosaver(runner, repo, cfg.Prefs.Autosave)
		if err != nil {
			stopRunner()
			<-runnerDone
			return err
		}
		autosaver.SetLogger(log.Component("prefs"))
		if influxClient != nil {
			autosaver.SetMetrics(influxClient)
		}
		autosaver.Start()
		log.Info("preferences loaded", "path", cfg.Database.Path, "autosave", cfg.Prefs.Autosave)
	}

	// Console
	if cfg.Console.Enabled {
		startConsole(ctx, stop, cfg, configPath, runner, log)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case <-tr.done:
		runErr = errConnectionLost
		log.Error("session connection lost")
	}

	// Autosave reads the store, so it stops before the runner; the outbox
	// drains before the transport closes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if autosaver != nil {
		if err := autosaver.Stop(shutdownCtx); err != nil {
			log.Warn("final preference save failed", "error", err)
		}
	}
	stopRunner()
	<-runnerDone
	if err := outbox.Close(shutdownCtx); err != nil {
		log.Warn("outbox did not drain", "error", err, "pending", outbox.Pending())
	}

	log.Info("PlanarAlly client stopped")
	return runErr
}

// getConfigPath returns PLANARALLY_CONFIG or the default path.
func getConfigPath() string {
	if path := os.Getenv("PLANARALLY_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// newLayers builds the default floor of a fresh location.
func newLayers() *layers.Manager {
	m := layers.NewManager()
	f := m.AddFloor("ground")
	f.AddLayer(layers.LayerConfig{Name: "map", PlayerVisible: true, Selectable: true})
	f.AddLayer(layers.LayerConfig{Name: "grid", IsGrid: true, PlayerVisible: true})
	f.AddLayer(layers.LayerConfig{Name: "tokens", PlayerVisible: true, PlayerEditable: true, Selectable: true})
	f.AddLayer(layers.LayerConfig{Name: "dm", Selectable: true})
	f.AddLayer(layers.LayerConfig{Name: "fow", PlayerVisible: true})
	f.AddLayer(layers.LayerConfig{Name: "fow-players", PlayerVisible: true})
	return m
}

// newStore creates the scene store for the configured session.
func newStore(cfg *config.Config, e dispatch.Emitter, log *logging.Logger) *scene.Store {
	m := newLayers()
	m.SetLogger(log.Component("layers"))

	s := scene.New(m, e)
	s.SetLogger(log.Component("scene"))
	s.SetRoomCreator(cfg.Session.RoomCreator)
	s.SetRoomName(cfg.Session.RoomName)
	s.SetUsername(cfg.Session.Username)
	s.SetLocationID(cfg.Session.LocationID)
	s.SetDM(cfg.Session.IsDM)
	s.SetGridSize(cfg.Grid.Size, false)
	return s
}

// openPrefs opens and migrates the preferences database.
func openPrefs(ctx context.Context, cfg *config.Config) (*database.DB, *prefs.SQLiteRepository, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, prefs.NewSQLiteRepository(db.DB), nil
}

// startConsole runs the operator console on stdin. Quitting it, or
// closing stdin, stops the client.
func startConsole(ctx context.Context, stop context.CancelFunc, cfg *config.Config, configPath string, runner *scene.Runner, log *logging.Logger) {
	console := admin.NewConsole(runner,
		admin.NewRescaler(visionLog{log.Component("vision")}),
		units.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		os.Stdout)
	console.SetLogger(log.Component("console"))

	go func() {
		if err := console.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("console stopped", "error", err)
		}
		stop()
	}()

	if cfg.Console.WatchConfig {
		go func() {
			err := config.Watch(ctx, configPath, func(c *config.Config) {
				console.SetViewport(units.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height})
			}, log.Component("config"))
			if err != nil {
				log.Warn("config watch unavailable", "error", err)
			}
		}()
	}
}

// visionLog stands in for the renderer's vision and movement blockers,
// which a headless client does not compute.
type visionLog struct {
	log *logging.Logger
}

func (v visionLog) RecalculateVision(floorID int) {
	v.log.Debug("vision recalculation requested", "floor", floorID)
}

func (v visionLog) RecalculateMovement(floorID int) {
	v.log.Debug("movement recalculation requested", "floor", floorID)
}
