// Package exporter writes bedelia data out as spreadsheets.
//
// WriteBackup produces the multi-sheet backup workbook (Estudiantes,
// Diplomaturas, Clases, Asistencia Detallada and Resumen) with excelize.
// WriteSessionWorkbook exports the attendance list of one class session.
// CSVWriter writes the filtered student list as CSV with a UTF-8 BOM so
// Excel opens accented names correctly.
//
// Example usage:
//
//	f, _ := os.Create(exporter.BackupFileName(time.Now()))
//	defer f.Close()
//	err := exporter.WriteBackup(f, data, time.Now())
package exporter
