// Package config provides configuration management for feedmark.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, session limit)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Store: cursor persistence backend (database, object, memory)
//   - Feed: feed host, page selectors and tag resolver limits
//   - Marker: separator highlight and jump control visibility
//   - Log: Logging level and format
//
// Environment variables map onto nested keys, so FEED_SELECTORS_ITEM sets
// feed.selectors.item.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
