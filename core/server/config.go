package server

import "fmt"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// SessionLimit caps the number of live tracker sessions.
	SessionLimit int `mapstructure:"session_limit" default:"256"`
}

// DefaultSessionLimit is used when SessionLimit is not positive.
const DefaultSessionLimit = 256

// Validate checks that the server settings are usable.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.SessionLimit < 0 {
		return fmt.Errorf("session limit must not be negative, got %d", c.SessionLimit)
	}
	return nil
}

// Sessions returns the effective session limit.
func (c Config) Sessions() int {
	if c.SessionLimit <= 0 {
		return DefaultSessionLimit
	}
	return c.SessionLimit
}
