package kv

const (
	DriverDatabase = "database"
	DriverObject   = "object"
	DriverMemory   = "memory"
)

// Config holds configuration for cursor persistence.
type Config struct {
	// Driver selects the backend (database, object, memory).
	Driver string `mapstructure:"driver" default:"database"`
	// Prefix is the object name prefix used by the object backend.
	Prefix string `mapstructure:"prefix" default:"feedmark"`
}

// IsValidDriver checks if the configured driver is supported.
func (c Config) IsValidDriver() bool {
	switch c.Driver {
	case DriverDatabase, DriverObject, DriverMemory:
		return true
	default:
		return false
	}
}
