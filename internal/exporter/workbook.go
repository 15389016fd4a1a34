package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// Sheet names of the backup workbook, in order.
const (
	SheetStudents     = "Estudiantes"
	SheetDiplomaturas = "Diplomaturas"
	SheetSessions     = "Clases"
	SheetDetail       = "Asistencia Detallada"
	SheetSummary      = "Resumen"

	SheetSessionAttendance = "Asistencia"
)

// ExportData is everything a backup contains.
type ExportData struct {
	Students     []domain.StudentWithAttendance
	Sessions     []domain.ClassSession
	Diplomaturas []domain.Diplomatura
}

// BackupFileName returns Backup-DD-MM-YYYY.xlsx for now.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("Backup-%s.xlsx", now.Format("02-01-2006"))
}

// SessionFileName returns asistencia_<date>.xlsx for the session.
func SessionFileName(s domain.ClassSession) string {
	return fmt.Sprintf("asistencia_%s.xlsx", s.Date)
}

// WriteBackup writes the full backup workbook to w. The detailed
// attendance sheet is omitted when there are no attendance records.
func WriteBackup(w io.Writer, data ExportData, now time.Time) error {
	students := make([][]interface{}, 0, len(data.Students))
	for _, s := range data.Students {
		students = append(students, studentRow(s))
	}

	sheets := []sheet{
		{name: SheetStudents, headers: StudentHeaders, rows: students},
		{name: SheetDiplomaturas, headers: diplomaturaHeaders, rows: diplomaturaRows(data)},
		{name: SheetSessions, headers: sessionHeaders, rows: sessionRows(data.Sessions)},
	}
	if detail := detailRows(data); len(detail) > 0 {
		sheets = append(sheets, sheet{name: SheetDetail, headers: detailHeaders, rows: detail})
	}
	sheets = append(sheets, sheet{
		name:    SheetSummary,
		headers: summaryHeaders,
		rows:    summaryRows(data, now.Format("02/01/2006 15:04:05")),
	})

	return writeWorkbook(w, sheets)
}

// WriteSessionWorkbook writes one session's attendance list to w.
func WriteSessionWorkbook(w io.Writer, s domain.ClassSession) error {
	rows := make([][]interface{}, 0, len(s.AttendanceRecords))
	for _, r := range s.AttendanceRecords {
		var duration interface{} = ""
		if r.Duration != nil {
			duration = *r.Duration
		}
		rows = append(rows, []interface{}{r.StudentName, duration, formatPresent(r.Present)})
	}

	return writeWorkbook(w, []sheet{{
		name:    SheetSessionAttendance,
		headers: []string{"Nombre", "Duración (min)", "Presente"},
		rows:    rows,
	}})
}

type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
}

func writeWorkbook(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	header := make([]interface{}, len(sh.headers))
	for i, h := range sh.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sh.name, err)
	}

	last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sh.name, err)
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sh.name, i+1, err)
		}
	}
	return nil
}
