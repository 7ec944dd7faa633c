package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to config.yaml in a temporary directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

const validYAML = `
session:
  room_creator: "alice"
  room_name: "dungeon"
  username: "bob"
  location_id: 4
  is_dm: true
viewport:
  width: 1280
  height: 720
transport:
  type: "mqtt"
mqtt:
  broker:
    host: "broker.local"
    port: 1884
  qos: 2
database:
  path: "/tmp/planarally-test.db"
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.RoomName != "dungeon" {
		t.Errorf("Session.RoomName = %q, want %q", cfg.Session.RoomName, "dungeon")
	}
	if !cfg.Session.IsDM || cfg.Session.LocationID != 4 {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Viewport.Width != 1280 || cfg.Viewport.Height != 720 {
		t.Errorf("Viewport = %+v, want 1280x720", cfg.Viewport)
	}
	if cfg.MQTT.Broker.Host != "broker.local" || cfg.MQTT.QoS != 2 {
		t.Errorf("MQTT = %+v", cfg.MQTT)
	}
	// Untouched sections keep their defaults.
	if cfg.MQTT.TopicPrefix != "planarally" {
		t.Errorf("MQTT.TopicPrefix = %q, want default", cfg.MQTT.TopicPrefix)
	}
	if cfg.Grid.Size != 50 {
		t.Errorf("Grid.Size = %v, want 50", cfg.Grid.Size)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "session: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "session:\n  room_name: \"dungeon\"\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "session.username is required") {
		t.Errorf("error = %v, want mention of session.username", err)
	}
}

// validConfig returns a default config with a complete session.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Session = SessionConfig{RoomCreator: "alice", RoomName: "dungeon", Username: "bob"}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults with session",
			modify: func(*Config) {},
		},
		{
			name:    "missing room creator",
			modify:  func(c *Config) { c.Session.RoomCreator = "" },
			wantErr: "session.room_creator",
		},
		{
			name:    "missing username",
			modify:  func(c *Config) { c.Session.Username = "" },
			wantErr: "session.username",
		},
		{
			name:    "zero viewport",
			modify:  func(c *Config) { c.Viewport.Height = 0 },
			wantErr: "viewport",
		},
		{
			name:    "negative grid",
			modify:  func(c *Config) { c.Grid.Size = -1 },
			wantErr: "grid.size",
		},
		{
			name:    "unknown transport",
			modify:  func(c *Config) { c.Transport.Type = "carrier-pigeon" },
			wantErr: "transport.type",
		},
		{
			name: "mqtt qos out of range",
			modify: func(c *Config) {
				c.Transport.Type = TransportMQTT
				c.MQTT.QoS = 3
			},
			wantErr: "mqtt.qos",
		},
		{
			name: "mqtt without topic prefix",
			modify: func(c *Config) {
				c.Transport.Type = TransportMQTT
				c.MQTT.TopicPrefix = ""
			},
			wantErr: "mqtt.topic_prefix",
		},
		{
			name: "websocket with http url",
			modify: func(c *Config) {
				c.Transport.Type = TransportWebSocket
				c.WebSocket.URL = "http://localhost:8000/socket"
			},
			wantErr: "websocket.url",
		},
		{
			name: "websocket with wss url",
			modify: func(c *Config) {
				c.Transport.Type = TransportWebSocket
				c.WebSocket.URL = "wss://planarally.example/socket"
			},
		},
		{
			name:    "empty outbox",
			modify:  func(c *Config) { c.Transport.OutboxBuffer = 0 },
			wantErr: "transport.outbox_buffer",
		},
		{
			name:    "prefs without database",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name: "prefs disabled without database",
			modify: func(c *Config) {
				c.Prefs.Enabled = false
				c.Database.Path = ""
			},
		},
		{
			name:    "influx without url",
			modify:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		Transport: TransportConfig{SendTimeout: 3},
		WebSocket: WebSocketConfig{HandshakeTimeout: 7, WriteTimeout: 2},
	}

	if got := cfg.GetSendTimeout(); got != 3*time.Second {
		t.Errorf("GetSendTimeout() = %v, want %v", got, 3*time.Second)
	}
	if got := cfg.GetHandshakeTimeout(); got != 7*time.Second {
		t.Errorf("GetHandshakeTimeout() = %v, want %v", got, 7*time.Second)
	}
	if got := cfg.GetWriteTimeout(); got != 2*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want %v", got, 2*time.Second)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PLANARALLY_SESSION_USERNAME", "carol")
	t.Setenv("PLANARALLY_SESSION_IS_DM", "true")
	t.Setenv("PLANARALLY_TRANSPORT_TYPE", "websocket")
	t.Setenv("PLANARALLY_WEBSOCKET_URL", "ws://env-host/socket")
	t.Setenv("PLANARALLY_MQTT_PASSWORD", "s3cret")
	t.Setenv("PLANARALLY_DATABASE_PATH", "/env/db.sqlite")
	t.Setenv("PLANARALLY_LOG_LEVEL", "debug")

	cfg := validConfig()
	applyEnvOverrides(cfg)

	if cfg.Session.Username != "carol" {
		t.Errorf("Session.Username = %q, want %q", cfg.Session.Username, "carol")
	}
	if !cfg.Session.IsDM {
		t.Error("Session.IsDM = false, want true")
	}
	if cfg.Transport.Type != TransportWebSocket || cfg.WebSocket.URL != "ws://env-host/socket" {
		t.Errorf("transport = %q %q", cfg.Transport.Type, cfg.WebSocket.URL)
	}
	if cfg.MQTT.Auth.Password != "s3cret" {
		t.Errorf("MQTT.Auth.Password = %q", cfg.MQTT.Auth.Password)
	}
	if cfg.Database.Path != "/env/db.sqlite" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after overrides error = %v", err)
	}
}

func TestApplyEnvOverrides_BadBool(t *testing.T) {
	t.Setenv("PLANARALLY_SESSION_IS_DM", "perhaps")

	cfg := validConfig()
	cfg.Session.IsDM = true
	applyEnvOverrides(cfg)

	if !cfg.Session.IsDM {
		t.Error("unparseable PLANARALLY_SESSION_IS_DM changed IsDM")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Transport.Type != TransportNone {
		t.Errorf("Transport.Type = %q, want %q", cfg.Transport.Type, TransportNone)
	}
	if cfg.Transport.OutboxBuffer != 256 {
		t.Errorf("Transport.OutboxBuffer = %d, want 256", cfg.Transport.OutboxBuffer)
	}
	if cfg.Prefs.Autosave != "@every 30s" {
		t.Errorf("Prefs.Autosave = %q", cfg.Prefs.Autosave)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Output != "stderr" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Database.WALMode {
		t.Error("Database.WALMode = false, want true")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() on bare defaults succeeded, want missing session error")
	}
}
