// Package files provides file system operations for bedelia.
//
// Manager reads and writes files under the configured data, exports and
// logs directories. Its WriteFileAtomic is what the JSON store uses to
// replace collections without exposing half-written files.
//
// Discovery helpers find attendance spreadsheets (.csv, .xlsx, .xls) in a
// directory so a whole folder of exports can be imported at once:
//
//	paths, err := files.ExpandAttendancePaths([]string{"exports/marzo", "extra.csv"})
package files
