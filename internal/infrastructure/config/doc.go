// Package config handles loading and validating the client configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with PLANARALLY_* environment variables
//   - Validation of required fields
//   - Watching the file for viewport changes while the client runs
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Session.RoomName)
package config
