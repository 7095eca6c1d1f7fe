// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure and its validation.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the maximum number
// of live tracker sessions kept in memory.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the tracker feature to size its session table.
package server
