// Package excel adapts xlsx workbooks to the domain sheet types.
package excel

import (
	"fmt"
	"strings"

	"churnboard/domain/sheet"
	"churnboard/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader reads sheets from one workbook file. A reader is opened
// fresh per request; nothing is cached across requests and nothing is
// ever written back to the source file.
type WorkbookReader struct {
	path string
}

// NewWorkbookReader creates a reader for the workbook at path.
func NewWorkbookReader(path string) *WorkbookReader {
	return &WorkbookReader{path: path}
}

// SheetNames lists the worksheet names in workbook order.
func (r *WorkbookReader) SheetNames() ([]string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadSheet loads one worksheet into the domain representation. Headers
// come from the first row, trimmed; data rows shorter than the header are
// padded with empty cells. A missing sheet is a NotFound error.
func (r *WorkbookReader) ReadSheet(name string) (sheet.Sheet, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return sheet.Sheet{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return sheet.Sheet{}, errors.NotFound(fmt.Sprintf("sheet %q", name))
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return sheet.Sheet{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return sheet.Sheet{Name: name, Headers: []string{}, Rows: []sheet.Row{}}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([]sheet.Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(sheet.Row, len(headers))
		for j, header := range headers {
			if j < len(raw) {
				row[header] = strings.TrimSpace(raw[j])
			} else {
				row[header] = ""
			}
		}
		data = append(data, row)
	}

	return sheet.Sheet{Name: name, Headers: headers, Rows: data}, nil
}
