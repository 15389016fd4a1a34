package config

const (
	AppName = "bedelia"

	// EnvPrefix namespaces every environment variable, e.g. BEDELIA_SERVER_PORT.
	EnvPrefix = "BEDELIA"

	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 32 << 20

	// Directories relative to the base directory
	DefaultDataDir    = "data"
	DefaultExportsDir = "exports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/bedelia.log"

	// Attendance policy
	DefaultPassPercentage = 75.0
	DefaultTotalClasses   = 20
	MaxTotalClasses       = 100

	// DefaultImportWorkers bounds how many files of a batch parse at once.
	DefaultImportWorkers = 4
)
