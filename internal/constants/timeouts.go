// Package constants provides shared constant values used throughout the application.
//
// The timeouts.go file defines duration constants for server lifecycle and
// token expiry. Centralizing these values keeps timeout behavior consistent
// and easy to tune.
package constants

import "time"

// Server Timeouts define the HTTP server's lifecycle durations.
const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out response writes.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum time to wait for the next request on a
	// kept-alive connection.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the grace period for in-flight requests during
	// shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Token Expiry Durations define the default lifetimes of issued tokens.
const (
	// DefaultJWTExpiry is the default lifetime of access tokens.
	DefaultJWTExpiry = 15 * time.Minute

	// DefaultJWTRefreshExpiry is the default lifetime of refresh tokens.
	DefaultJWTRefreshExpiry = 7 * 24 * time.Hour
)
