package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport types.
const (
	TransportMQTT      = "mqtt"
	TransportWebSocket = "websocket"
	TransportNone      = "none"
)

// Config is the root configuration of a PlanarAlly client.
// It is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Session   SessionConfig   `yaml:"session"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Grid      GridConfig      `yaml:"grid"`
	Transport TransportConfig `yaml:"transport"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Database  DatabaseConfig  `yaml:"database"`
	Prefs     PrefsConfig     `yaml:"prefs"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Console   ConsoleConfig   `yaml:"console"`
}

// SessionConfig identifies the room and user this client joins.
type SessionConfig struct {
	RoomCreator string `yaml:"room_creator"`
	RoomName    string `yaml:"room_name"`
	Username    string `yaml:"username"`
	LocationID  int    `yaml:"location_id"`
	IsDM        bool   `yaml:"is_dm"`
}

// ViewportConfig is the size of the drawing surface in pixels.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GridConfig contains the grid defaults of a new session.
type GridConfig struct {
	Size float64 `yaml:"size"`
}

// TransportConfig selects how changes reach the session server.
type TransportConfig struct {
	Type         string `yaml:"type"`
	OutboxBuffer int    `yaml:"outbox_buffer"`
	SendTimeout  int    `yaml:"send_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
	TopicPrefix string              `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// WebSocketConfig contains the session server websocket settings.
type WebSocketConfig struct {
	URL              string `yaml:"url"`
	HandshakeTimeout int    `yaml:"handshake_timeout"`
	WriteTimeout     int    `yaml:"write_timeout"`
	PingInterval     int    `yaml:"ping_interval"`
	PongTimeout      int    `yaml:"pong_timeout"`
	MaxMessageSize   int64  `yaml:"max_message_size"`
}

// DatabaseConfig contains the local SQLite settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// PrefsConfig controls preference persistence.
type PrefsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Autosave string `yaml:"autosave"`
}

// InfluxDBConfig contains InfluxDB connection settings for sync telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ConsoleConfig controls the operator console on stdin.
type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
	// WatchConfig reloads the viewport when the config file changes.
	WatchConfig bool `yaml:"watch_config"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern PLANARALLY_SECTION_KEY, for
// example PLANARALLY_SESSION_USERNAME or PLANARALLY_MQTT_HOST.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  1920,
			Height: 1080,
		},
		Grid: GridConfig{
			Size: 50,
		},
		Transport: TransportConfig{
			Type:         TransportNone,
			OutboxBuffer: 256,
			SendTimeout:  5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "planarally-client",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			TopicPrefix: "planarally",
		},
		WebSocket: WebSocketConfig{
			HandshakeTimeout: 10,
			WriteTimeout:     10,
			PingInterval:     30,
			PongTimeout:      60,
			MaxMessageSize:   1 << 20,
		},
		Database: DatabaseConfig{
			Path:        "./data/planarally.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Prefs: PrefsConfig{
			Enabled:  true,
			Autosave: "@every 30s",
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Console: ConsoleConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides applies PLANARALLY_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Session
	if v := os.Getenv("PLANARALLY_SESSION_ROOM_CREATOR"); v != "" {
		cfg.Session.RoomCreator = v
	}
	if v := os.Getenv("PLANARALLY_SESSION_ROOM_NAME"); v != "" {
		cfg.Session.RoomName = v
	}
	if v := os.Getenv("PLANARALLY_SESSION_USERNAME"); v != "" {
		cfg.Session.Username = v
	}
	if v := os.Getenv("PLANARALLY_SESSION_IS_DM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Session.IsDM = b
		}
	}

	// Transport
	if v := os.Getenv("PLANARALLY_TRANSPORT_TYPE"); v != "" {
		cfg.Transport.Type = v
	}

	// MQTT
	if v := os.Getenv("PLANARALLY_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PLANARALLY_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PLANARALLY_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// WebSocket
	if v := os.Getenv("PLANARALLY_WEBSOCKET_URL"); v != "" {
		cfg.WebSocket.URL = v
	}

	// Database
	if v := os.Getenv("PLANARALLY_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// InfluxDB
	if v := os.Getenv("PLANARALLY_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("PLANARALLY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Session.RoomCreator == "" {
		errs = append(errs, "session.room_creator is required")
	}
	if c.Session.RoomName == "" {
		errs = append(errs, "session.room_name is required")
	}
	if c.Session.Username == "" {
		errs = append(errs, "session.username is required")
	}

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, "viewport.width and viewport.height must be positive")
	}
	if c.Grid.Size <= 0 {
		errs = append(errs, "grid.size must be positive")
	}

	switch c.Transport.Type {
	case TransportMQTT:
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required")
		}
	case TransportWebSocket:
		if !strings.HasPrefix(c.WebSocket.URL, "ws://") && !strings.HasPrefix(c.WebSocket.URL, "wss://") {
			errs = append(errs, "websocket.url must start with ws:// or wss://")
		}
	case TransportNone:
	default:
		errs = append(errs, fmt.Sprintf("transport.type must be %s, %s or %s", TransportMQTT, TransportWebSocket, TransportNone))
	}
	if c.Transport.OutboxBuffer < 1 {
		errs = append(errs, "transport.outbox_buffer must be at least 1")
	}

	if c.Prefs.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when prefs are enabled")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetSendTimeout returns the per-message transport timeout as a Duration.
func (c *Config) GetSendTimeout() time.Duration {
	return time.Duration(c.Transport.SendTimeout) * time.Second
}

// GetHandshakeTimeout returns the websocket handshake timeout as a Duration.
func (c *Config) GetHandshakeTimeout() time.Duration {
	return time.Duration(c.WebSocket.HandshakeTimeout) * time.Second
}

// GetWriteTimeout returns the websocket write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.WebSocket.WriteTimeout) * time.Second
}
