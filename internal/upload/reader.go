package upload

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dkapoor/ledgerlens/internal/domain"
)

// ErrNotXLSX is returned for files that are not .xlsx workbooks.
var ErrNotXLSX = fmt.Errorf("upload: only .xlsx files are supported")

// ValidateFilename rejects anything but .xlsx uploads before the file is
// opened.
func ValidateFilename(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return ErrNotXLSX
	}
	return nil
}

// OpenWorkbook parses an uploaded workbook and returns the handle plus the
// first sheet's name. Columns are positional, so the sheet name itself does
// not matter.
func OpenWorkbook(r io.Reader) (*excelize.File, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("upload: open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, "", fmt.Errorf("upload: workbook has no sheets")
	}
	return f, sheets[0], nil
}

// countDataRows streams through the sheet once to count non-header rows, so
// progress can be reported as a percentage during the insert pass.
func countDataRows(f *excelize.File, sheet string) (int, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, fmt.Errorf("upload: scan rows: %w", err)
	}
	defer rows.Close()

	total := 0
	rowNum := 0
	for rows.Next() {
		rowNum++
		if rowNum == 1 {
			continue
		}
		total++
	}
	return total, rows.Error()
}

// entryFromRow maps one spreadsheet row onto an Entry by column position.
// Missing trailing cells become empty strings; every value is kept as raw
// text and normalized later at query time.
func entryFromRow(cells []string, rowNum int) domain.Entry {
	var e domain.Entry
	for i, name := range domain.Fields {
		if i < len(cells) {
			e.SetField(name, strings.TrimSpace(cells[i]))
		}
	}
	e.ExcelRowNumber = rowNum
	return e
}
