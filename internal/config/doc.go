// Package config loads bedelia's configuration and resolves its directories.
//
// # Configuration Sources
//
// Values are applied in this order, later sources winning:
//
//	1. Default()
//	2. A YAML file: $BEDELIA_CONFIG, bedelia.yaml, config.yaml or configs/config.yaml
//	3. A .env file in the working directory
//	4. BEDELIA_* environment variables
//
// # Environment Variables
//
//	BEDELIA_SERVER_PORT=8080
//	BEDELIA_LOGGING_OUTPUT=both
//	BEDELIA_PATHS_BASE_DIR=/home/bedel/asistencia
//	BEDELIA_ATTENDANCE_PASS_PERCENTAGE=75
//
// # Path Management
//
// Paths holds the data, exports and logs directories. Relative entries are
// joined onto PathsConfig.BaseDir or, when it is empty, the directory of the
// running executable:
//
//	paths, err := cfg.GetPaths()
//	paths.GetDataPath("students-data.json")
package config
