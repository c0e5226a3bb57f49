// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings, establish boundaries for resource usage, and define storage
// parameters. Changes to these values may significantly impact application
// behavior and performance.
package constants

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of items per page when not specified.
	DefaultPageSize = 20

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// MinPageSize is the minimum allowable page size.
	MinPageSize = 1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDataDir is the default directory for collection files.
	DefaultDataDir = "./data"

	// DefaultBackupDir is the default directory for backup snapshots.
	DefaultBackupDir = "./data/backups"

	// DefaultBackupPrefix is the filename prefix for backup snapshots.
	DefaultBackupPrefix = "backup"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultJWTIssuer is the default issuer claim for generated tokens.
	DefaultJWTIssuer = "planhub-api"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Limits define the maximum allowed sizes for inbound payloads.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1 << 20 // 1 MiB

	// MaxAuditBodyBytes is the maximum number of request body bytes captured
	// into an audit entry. Larger bodies are truncated before masking.
	MaxAuditBodyBytes = 16 << 10 // 16 KiB
)

// Storage Values define fixed parameters of the file-backed store.
const (
	// CollectionFileExt is the extension of collection backing files.
	CollectionFileExt = ".json"

	// FirstRecordID is the identifier allocated to the first record of an
	// empty collection.
	FirstRecordID = 1

	// LogRedactedValue replaces sensitive values in masked output.
	LogRedactedValue = "***"

	// BackupTimestampLayout formats the sortable timestamp embedded in
	// snapshot filenames.
	BackupTimestampLayout = "2006-01-02_15-04-05"
)
