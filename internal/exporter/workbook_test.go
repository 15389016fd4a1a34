package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

func sampleExport() ExportData {
	return ExportData{
		Diplomaturas: []domain.Diplomatura{
			{ID: "d1", Name: "TANGO", TotalClasses: 20, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		Students: []domain.StudentWithAttendance{
			{
				Student:                    domain.Student{ID: "s1", Nombre: "Ana", Apellido: "Diaz", Email: "ana@example.com", Telefono: "1", Diplomatura: "TANGO", IDEstudiante: "A1"},
				AttendedClasses:            16,
				TotalClassesForDiplomatura: 20,
				AttendancePercentage:       80,
				Aprobado:                   true,
			},
			{
				Student:                    domain.Student{ID: "s2", Nombre: "Luis", Apellido: "Paz", Email: "luis@example.com", Telefono: "2", Diplomatura: "TANGO", IDEstudiante: "L2"},
				AttendedClasses:            5,
				TotalClassesForDiplomatura: 20,
				AttendancePercentage:       25,
			},
		},
		Sessions: []domain.ClassSession{{
			ID:          "c1",
			Date:        "2024-03-15",
			FileName:    "tango_15-03-24.csv",
			Diplomatura: "TANGO",
			AttendanceRecords: []domain.AttendanceRecord{
				{ID: "r1", StudentName: "ANA  diaz", Date: "2024-03-15", Present: true},
				{ID: "r2", StudentName: "Invitado", Date: "2024-03-15", Present: true},
			},
			TotalStudents:   2,
			PresentStudents: 2,
		}},
	}
}

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteBackup(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 20, 10, 30, 0, 0, time.UTC)
	require.NoError(t, WriteBackup(&buf, sampleExport(), now))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{SheetStudents, SheetDiplomaturas, SheetSessions, SheetDetail, SheetSummary}, f.GetSheetList())

	students, err := f.GetRows(SheetStudents)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, StudentHeaders, students[0])
	assert.Equal(t, []string{"A1", "Ana", "Diaz", "ana@example.com", "1", "TANGO", "16", "20", "80.0%", "Aprobado"}, students[1])
	assert.Equal(t, "No Aprobado", students[2][9])

	diplomaturas, err := f.GetRows(SheetDiplomaturas)
	require.NoError(t, err)
	assert.Equal(t, []string{"TANGO", "20", "15", "2", "1", "50.0%", "01/02/2024"}, diplomaturas[1])

	sessions, err := f.GetRows(SheetSessions)
	require.NoError(t, err)
	assert.Equal(t, []string{"15/03/2024", "TANGO", "tango_15-03-24.csv", "2", "2", "0", "100%"}, sessions[1])

	detail, err := f.GetRows(SheetDetail)
	require.NoError(t, err)
	require.Len(t, detail, 3)
	assert.Equal(t, "A1", detail[1][3], "matched by normalized name")
	assert.Equal(t, "N/A", detail[2][3])
	assert.Equal(t, "Sí", detail[1][4])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Métrica", "Valor"}, summary[0])
	assert.Equal(t, []string{"Total Estudiantes", "2"}, summary[1])
	assert.Equal(t, []string{"Tasa de Aprobación", "50.0%"}, summary[4])
	assert.Equal(t, []string{"Promedio de Asistencia", "52.5%"}, summary[5])
	assert.Equal(t, []string{"Fecha de Exportación", "20/03/2024 10:30:00"}, summary[8])
}

func TestWriteBackupWithoutAttendance(t *testing.T) {
	data := sampleExport()
	data.Sessions = nil

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, data, time.Now()))

	f := openWorkbook(t, &buf)
	assert.NotContains(t, f.GetSheetList(), SheetDetail)
	assert.Len(t, f.GetSheetList(), 4)
}

func TestWriteSessionWorkbook(t *testing.T) {
	minutes := 45
	session := sampleExport().Sessions[0]
	session.AttendanceRecords[0].Duration = &minutes

	var buf bytes.Buffer
	require.NoError(t, WriteSessionWorkbook(&buf, session))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{SheetSessionAttendance}, f.GetSheetList())

	rows, err := f.GetRows(SheetSessionAttendance)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nombre", "Duración (min)", "Presente"}, rows[0])
	assert.Equal(t, []string{"ANA  diaz", "45", "Sí"}, rows[1])
	assert.Equal(t, "Invitado", rows[2][0])
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "Backup-05-03-2024.xlsx", BackupFileName(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "asistencia_2024-03-15.xlsx", SessionFileName(domain.ClassSession{Date: "2024-03-15"}))
}
