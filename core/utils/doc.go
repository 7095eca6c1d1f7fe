// Package utils provides small conversion helpers shared by the feed adapters,
// HTTP handlers and CLI commands.
package utils
