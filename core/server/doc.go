// Package server holds the status HTTP server configuration.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key protecting every
// route except /health, and the request read timeout.
//
// # Usage
//
// This package is embedded by core/config and read by the start command.
package server
