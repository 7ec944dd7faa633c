// Package logging provides the structured logger shared by every part of
// the PlanarAlly client.
//
// It is a thin layer over log/slog. Entries carry the service name and
// build version, and subsystems derive tagged children with Component.
//
// Configuration lives in the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stderr, stdout, discard
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Component("runner").Info("store started", "location", 3)
//
// Never log broker passwords or InfluxDB tokens.
package logging
