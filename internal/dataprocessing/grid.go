package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
)

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// decodeGrid returns the first sheet of an attendance export as rows of
// cell text.
func decodeGrid(data []byte, isCSV bool) ([][]string, error) {
	if isCSV {
		return decodeCSV(data)
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return decodeXLSX(data)
	case bytes.HasPrefix(data, ole2Magic):
		return decodeXLS(data)
	default:
		return nil, errors.NewIOError("Error leyendo el archivo: formato de planilla no reconocido", nil)
	}
}

// decodeCSV accepts UTF-8 with or without BOM and BOM-marked UTF-16.
func decodeCSV(data []byte) ([][]string, error) {
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, errors.NewIOError("Error leyendo el archivo", err)
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.NewIOError("Error leyendo el archivo CSV", err)
	}
	return rows, nil
}

// sniffDelimiter looks at the first line only: tab wins when present,
// semicolon when it outnumbers commas.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	switch {
	case bytes.IndexByte(line, '\t') >= 0:
		return '\t'
	case bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}):
		return ';'
	default:
		return ','
	}
}

func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewIOError("Error leyendo el archivo Excel", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewIOError("Error leyendo la hoja "+sheet, err)
	}
	return rows, nil
}

func decodeXLS(data []byte) (rows [][]string, err error) {
	// The xls reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, errors.NewIOError("Error leyendo el archivo Excel", fmt.Errorf("xls: %v", r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, errors.NewIOError("Error leyendo el archivo Excel", err)
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, strings.TrimRight(row.Col(c), "\x00"))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// sheetRow returns row i, or nil when the sheet has no cells in it.
// WorkSheet.Row panics on rows it never recorded.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
