/*
file: rudis/internal/config/config.go
*/

// Package config loads the server's bootstrap settings from environment
// variables: the listen address, optional TLS material, and log verbosity.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the settings needed to start a server.
type Config struct {
	// Addr is the TCP address to listen on, "host:port".
	Addr string

	// TLSCertFile and TLSKeyFile, if both set, switch the listener to TLS.
	TLSCertFile string
	TLSKeyFile  string

	// LogLevel gates which levels rlog.Logger actually emits; one of
	// "INFO", "WARN", "ERROR".
	LogLevel string
}

const (
	defaultAddr     = "127.0.0.1:6379"
	defaultLogLevel = "INFO"
)

// Load builds a Config from environment variables:
//
//	RUDIS_ADDR       listen address (default "127.0.0.1:6379")
//	RUDIS_TLS_CERT   PEM certificate path; requires RUDIS_TLS_KEY
//	RUDIS_TLS_KEY    PEM private key path; requires RUDIS_TLS_CERT
//	RUDIS_LOG_LEVEL  INFO | WARN | ERROR (default "INFO")
func Load() (*Config, error) {
	cfg := &Config{
		Addr:        envOr("RUDIS_ADDR", defaultAddr),
		TLSCertFile: os.Getenv("RUDIS_TLS_CERT"),
		TLSKeyFile:  os.Getenv("RUDIS_TLS_KEY"),
		LogLevel:    strings.ToUpper(envOr("RUDIS_LOG_LEVEL", defaultLogLevel)),
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("config: RUDIS_TLS_CERT and RUDIS_TLS_KEY must both be set or both be empty")
	}
	switch cfg.LogLevel {
	case "INFO", "WARN", "ERROR":
	default:
		return nil, fmt.Errorf("config: invalid RUDIS_LOG_LEVEL %q", cfg.LogLevel)
	}
	return cfg, nil
}

// TLSEnabled reports whether both TLS settings are present.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
