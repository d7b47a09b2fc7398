package constants

import "time"

// AppDisplayName is the human-readable service name used in logs and banners.
const AppDisplayName = "Groundwork"

// Paths
const (
	DefaultDataDir  = "data"
	DatabaseFile    = "groundwork.db"
	ConfigFileName  = "groundwork.yaml"
	DirPermissions  = 0o755
	FilePermissions = 0o644
)

// API
const (
	DefaultPort = 4000
)

// Database pragmas applied to every connection.
// _txlock=immediate is set on the DSN so write transactions acquire their
// lock at BEGIN, serializing read-then-write sequences like the login
// lockout counter update.
var SQLitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// Logging
const (
	DefaultLogLevel    = "info"
	LogsDir            = "logs"
	LogFileExtension   = ".log"
	LogTimestampFormat = "2006-01-02 15:04:05"
)

// Lifecycle
const (
	// ShutdownGracePeriod bounds total shutdown latency: if cleanup has not
	// finished within this window the process is forced to exit with status 1.
	ShutdownGracePeriod = 10 * time.Second

	// ShutdownDrainTimeout is the listener's own in-flight request drain
	// budget. Deliberately shorter than the grace period so the normal path
	// can still disconnect storage before the deadline watcher fires.
	ShutdownDrainTimeout = 8 * time.Second
)

// Rate limiting (per client IP)
const (
	RateLimitPerSecond     = 10
	RateLimitBurst         = 30
	RateLimitIdleEviction  = 3 * time.Minute
	RateLimitSweepInterval = time.Minute
)

// Compression
const (
	CompressionMinSizeBytes = 1024
)

// Pagination
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Notes validation
const (
	MaxNoteTitleLength = 256
	MaxNoteBodyBytes   = 65536
)
