// Package sheet is a typed facade over excelize workbooks: cell and range
// access by 1-based coordinates or A1 references, with the engine's own
// value coercion and formatting left untouched.
package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoPath is returned by Save on a workbook that was built in memory and
// never given a path.
var ErrNoPath = errors.New("sheet: book has no path, use SaveAs")

// Book wraps one excelize workbook.
type Book struct {
	f    *excelize.File
	path string
}

// New creates an empty in-memory workbook with the engine's default sheet.
func New() *Book {
	return &Book{f: excelize.NewFile()}
}

// Open loads a workbook from path.
func Open(path string) (*Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", path, err)
	}
	return &Book{f: f, path: path}, nil
}

// Save writes the workbook back to the path it was opened from or last
// saved to.
func (b *Book) Save() error {
	if b.path == "" {
		return ErrNoPath
	}
	if err := b.f.SaveAs(b.path); err != nil {
		return fmt.Errorf("sheet: save %s: %w", b.path, err)
	}
	return nil
}

// SaveAs writes the workbook to path and makes it the book's path.
func (b *Book) SaveAs(path string) error {
	if err := b.f.SaveAs(path); err != nil {
		return fmt.Errorf("sheet: save %s: %w", path, err)
	}
	b.path = path
	return nil
}

// Close releases the workbook.
func (b *Book) Close() error {
	if err := b.f.Close(); err != nil {
		return fmt.Errorf("sheet: close: %w", err)
	}
	return nil
}

// Sheet returns an accessor for the named sheet, creating the sheet when it
// does not exist yet.
func (b *Book) Sheet(name string) (*Sheet, error) {
	idx, err := b.f.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("sheet: lookup %q: %w", name, err)
	}
	if idx < 0 {
		if _, err := b.f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("sheet: create %q: %w", name, err)
		}
	}
	return &Sheet{book: b, name: name}, nil
}

// SheetNames returns the sheet names in workbook order.
func (b *Book) SheetNames() []string {
	return b.f.GetSheetList()
}

// DeleteSheet removes the named sheet. The engine refuses to delete the
// last remaining sheet.
func (b *Book) DeleteSheet(name string) error {
	if err := b.f.DeleteSheet(name); err != nil {
		return fmt.Errorf("sheet: delete %q: %w", name, err)
	}
	return nil
}

// File exposes the underlying excelize workbook for operations the facade
// does not cover.
func (b *Book) File() *excelize.File {
	return b.f
}

// Sheet is an accessor bound to one sheet of a Book.
type Sheet struct {
	book *Book
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// Cell reads the formatted value at the given 1-based row and column.
// Cells outside the written area read as "".
func (s *Sheet) Cell(row, col int) (string, error) {
	ref, err := refOf(row, col)
	if err != nil {
		return "", err
	}
	return s.CellAt(ref)
}

// SetCell writes v at the given 1-based row and column. Strings, numbers,
// booleans and times pass through the engine's own coercion.
func (s *Sheet) SetCell(row, col int, v any) error {
	ref, err := refOf(row, col)
	if err != nil {
		return err
	}
	return s.SetCellAt(ref, v)
}

// CellAt reads the formatted value at an A1 reference.
func (s *Sheet) CellAt(ref string) (string, error) {
	v, err := s.book.f.GetCellValue(s.name, ref)
	if err != nil {
		return "", fmt.Errorf("sheet: read %s!%s: %w", s.name, ref, err)
	}
	return v, nil
}

// SetCellAt writes v at an A1 reference.
func (s *Sheet) SetCellAt(ref string, v any) error {
	if err := s.book.f.SetCellValue(s.name, ref, v); err != nil {
		return fmt.Errorf("sheet: write %s!%s: %w", s.name, ref, err)
	}
	return nil
}

// Range reads a rectangular block given as "A1:C5". The result always has
// the full dimensions of the reference; unwritten cells read as "".
func (s *Sheet) Range(ref string) ([][]string, error) {
	r1, c1, r2, c2, err := parseRange(ref)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, r2-r1+1)
	for r := r1; r <= r2; r++ {
		row := make([]string, 0, c2-c1+1)
		for c := c1; c <= c2; c++ {
			v, err := s.Cell(r, c)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SetRange writes rows as a rectangular block starting at the top-left cell
// of ref (a single cell like "B2" or a range like "B2:D4" both work).
func (s *Sheet) SetRange(ref string, rows [][]any) error {
	r1, c1, _, _, err := parseRange(ref)
	if err != nil {
		return err
	}

	for i, row := range rows {
		for j, v := range row {
			if err := s.SetCell(r1+i, c1+j, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Rows returns all written rows of the sheet as formatted strings.
func (s *Sheet) Rows() ([][]string, error) {
	rows, err := s.book.f.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("sheet: rows %s: %w", s.name, err)
	}
	return rows, nil
}

// AppendRow writes values on the first row after the current data.
func (s *Sheet) AppendRow(values ...any) error {
	rows, err := s.Rows()
	if err != nil {
		return err
	}
	next := len(rows) + 1
	for j, v := range values {
		if err := s.SetCell(next, j+1, v); err != nil {
			return err
		}
	}
	return nil
}

// SetColWidth sets the width of the given 1-based column.
func (s *Sheet) SetColWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Errorf("sheet: column %d: %w", col, err)
	}
	if err := s.book.f.SetColWidth(s.name, name, name, width); err != nil {
		return fmt.Errorf("sheet: col width %s: %w", name, err)
	}
	return nil
}

// Freeze pins the top rows so they stay visible while scrolling.
func (s *Sheet) Freeze(rows int) error {
	topLeft, err := refOf(rows+1, 1)
	if err != nil {
		return err
	}
	err = s.book.f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      rows,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("sheet: freeze: %w", err)
	}
	return nil
}

// SetHeaderStyle makes the first cols cells of row 1 bold.
func (s *Sheet) SetHeaderStyle(cols int) error {
	styleID, err := s.book.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("sheet: header style: %w", err)
	}

	start, err := refOf(1, 1)
	if err != nil {
		return err
	}
	end, err := refOf(1, cols)
	if err != nil {
		return err
	}
	if err := s.book.f.SetCellStyle(s.name, start, end, styleID); err != nil {
		return fmt.Errorf("sheet: header style: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// A1 coordinate helpers
// ---------------------------------------------------------------------------

// Ref converts 1-based row and column to an A1 reference. Invalid
// coordinates yield "".
func Ref(row, col int) string {
	ref, err := refOf(row, col)
	if err != nil {
		return ""
	}
	return ref
}

// ParseRef converts an A1 reference to 1-based row and column.
func ParseRef(ref string) (row, col int, err error) {
	col, row, err = excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, 0, fmt.Errorf("sheet: parse ref %q: %w", ref, err)
	}
	return row, col, nil
}

func refOf(row, col int) (string, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("sheet: ref (%d,%d): %w", row, col, err)
	}
	return ref, nil
}

// parseRange splits "A1:C5" (or a single cell) into its 1-based corners.
func parseRange(ref string) (r1, c1, r2, c2 int, err error) {
	first, rest, found := strings.Cut(ref, ":")
	r1, c1, err = ParseRef(first)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if !found {
		return r1, c1, r1, c1, nil
	}
	r2, c2, err = ParseRef(rest)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if r2 < r1 || c2 < c1 {
		return 0, 0, 0, 0, fmt.Errorf("sheet: inverted range %q", ref)
	}
	return r1, c1, r2, c2, nil
}
