package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// AttendanceCSV builds the minimal attendance export: a header row and one
// name per line.
func AttendanceCSV(names ...string) []byte {
	return []byte("Nombre completo\n" + strings.Join(names, "\n") + "\n")
}

// AttendanceXLSX writes rows into the first sheet of a new workbook,
// header first.
func AttendanceXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// StudentInput returns a valid input for the named student.
func StudentInput(nombre, apellido, diplomatura, id string) domain.StudentInput {
	return domain.StudentInput{
		Nombre:       nombre,
		Apellido:     apellido,
		Telefono:     "+54 11 0000-0000",
		Email:        strings.ToLower(nombre) + "@example.com",
		Diplomatura:  diplomatura,
		IDEstudiante: id,
	}
}
