// Package dataprocessing turns attendance exports into class sessions.
//
// An export is a spreadsheet (CSV, XLSX or legacy XLS) whose first sheet
// starts with the header cell "Nombre completo" in A1 and lists one present
// student per row below it. Every distinct name becomes an AttendanceRecord
// marked present; repeated names (compared with attendance.Normalize) are
// dropped, keeping the first one.
//
// # Architecture
//
//  1. Grid decoding: decodeGrid picks the CSV, XLSX or XLS reader and returns
//     the first sheet as rows of strings.
//  2. Parser: validates the header, extracts records and builds the session.
//  3. Helpers: ExtractDate reads a date from the file name, ParseDuration
//     reads an informational connection time.
//
// # Usage
//
//	p := dataprocessing.NewParser(logger)
//	session, err := p.Parse(ctx, "tango_15-03-24.csv", data, dataprocessing.DetectCSV("tango_15-03-24.csv"))
//	if errors.IsType(err, errors.ErrTypeFormat) {
//	    // header missing, nothing was imported
//	}
//
// # Error Handling
//
// Undecodable bytes produce an IO error, a missing header produces a FORMAT
// error. Neither produces a partial session. Presence is decided only by a
// name appearing in the file; durations never change it.
package dataprocessing
