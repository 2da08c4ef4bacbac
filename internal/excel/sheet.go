package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ValidationError marks failures the uploader can fix in the file:
// missing columns, bad cell values, unknown references. Handlers map it
// to a client error instead of a server error.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Rows opens a workbook stream and returns the rows of its first sheet.
// Row 1 is the header; data starts at row 2.
func Rows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// ResolveColumns matches required column names against the header row,
// order-independent. Header cells are trimmed and lowercased; required
// names must already be lowercase.
func ResolveColumns(header []string, required ...string) (map[string]int, bool) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		if _, taken := index[name]; !taken {
			index[name] = i
		}
	}

	resolved := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := index[name]
		if !ok {
			return nil, false
		}
		resolved[name] = i
	}
	return resolved, true
}

// cell reads a trimmed value by index; rows from excelize can be ragged.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// RowErrors accumulates one message per failing data row so a batch
// keeps going after a bad row. Rows are numbered as in the sheet:
// header is row 1.
type RowErrors struct {
	errs []string
}

func (e *RowErrors) Addf(row int, format string, args ...any) {
	e.errs = append(e.errs, fmt.Sprintf("Row %d: %s", row, fmt.Sprintf(format, args...)))
}

func (e *RowErrors) Any() bool { return len(e.errs) > 0 }

func (e *RowErrors) Join() string { return strings.Join(e.errs, "\n") }

// Err returns all accumulated messages as one ValidationError, or nil.
func (e *RowErrors) Err() error {
	if !e.Any() {
		return nil
	}
	return &ValidationError{msg: e.Join()}
}
