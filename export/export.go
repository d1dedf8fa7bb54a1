// Package export writes query results to CSV, JSON and XLSX files. The
// plain variants take a full (columns, rows) table; the Stream variants
// consume an adapter.RowReader page by page so large result sets never
// have to be held in memory at once.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/sheet"
)

// DefaultSheetName is used for XLSX output when no sheet name is given.
const DefaultSheetName = "Results"

// Format names a supported output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ForPath picks the output format from the file extension.
func ForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("export: cannot infer format from %q (want .csv, .json or .xlsx)", path)
}

// CSV writes the given columns and rows to a CSV file at path.
func CSV(path string, columns []adapter.ColumnMeta, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(columnNames(columns)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// JSON writes the given columns and rows as a JSON array of objects to a
// file at path. Each object maps column names to string values.
func JSON(path string, columns []adapter.ColumnMeta, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	colNames := columnNames(columns)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	// The plain variant holds the whole table already, so build the full
	// array and encode it in one shot.
	objects := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, rowObject(colNames, row))
	}

	return enc.Encode(objects)
}

// XLSX writes the given columns and rows to a workbook at path, with a bold
// frozen header row on the named sheet.
func XLSX(path, sheetName string, columns []adapter.ColumnMeta, rows [][]string) error {
	b, s, err := newWorkbook(sheetName)
	if err != nil {
		return err
	}
	defer b.Close()

	for i, name := range columnNames(columns) {
		if err := s.SetCell(1, i+1, name); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for j, v := range row {
			if err := s.SetCell(i+2, j+1, v); err != nil {
				return err
			}
		}
	}

	if err := finishSheet(s, len(columns)); err != nil {
		return err
	}
	return b.SaveAs(path)
}

// CSVStream streams rows from an adapter.RowReader into a CSV file. It
// writes incrementally so that arbitrarily large result sets can be
// exported without holding all rows in memory. It returns the number of
// rows written.
func CSVStream(ctx context.Context, path string, r adapter.RowReader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(columnNames(r.Columns())); err != nil {
		return 0, err
	}

	var count int64
	for {
		if ctx.Err() != nil {
			w.Flush()
			return count, ctx.Err()
		}

		rows, err := r.Next(ctx)
		if err != nil {
			if adapter.SentinelEOF(err) {
				break
			}
			w.Flush()
			return count, err
		}

		for _, row := range rows {
			if writeErr := w.Write(row); writeErr != nil {
				w.Flush()
				return count, writeErr
			}
			count++
		}

		// Flush after each page to keep memory usage low.
		w.Flush()
		if flushErr := w.Error(); flushErr != nil {
			return count, flushErr
		}
	}

	w.Flush()
	return count, w.Error()
}

// JSONStream streams rows from an adapter.RowReader into a JSON file as an
// array of objects, flushing each page to disk. It returns the number of
// rows written.
func JSONStream(ctx context.Context, path string, r adapter.RowReader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	colNames := columnNames(r.Columns())

	if _, err := io.WriteString(f, "[\n"); err != nil {
		return 0, err
	}

	var count int64
	for {
		if ctx.Err() != nil {
			// Close the array even on cancellation so the partial file
			// stays parseable.
			io.WriteString(f, "\n]\n") //nolint:errcheck
			return count, ctx.Err()
		}

		rows, err := r.Next(ctx)
		if err != nil {
			if adapter.SentinelEOF(err) {
				break
			}
			io.WriteString(f, "\n]\n") //nolint:errcheck
			return count, err
		}

		for _, row := range rows {
			if count > 0 {
				if _, err := io.WriteString(f, ",\n"); err != nil {
					return count, err
				}
			} else {
				if _, err := io.WriteString(f, "  "); err != nil {
					return count, err
				}
			}

			data, err := json.MarshalIndent(rowObject(colNames, row), "  ", "  ")
			if err != nil {
				return count, err
			}
			if _, err := f.Write(data); err != nil {
				return count, err
			}

			count++
		}
	}

	if _, err := io.WriteString(f, "\n]\n"); err != nil {
		return count, err
	}

	return count, nil
}

// XLSXStream consumes an adapter.RowReader page by page into a workbook at
// path. The workbook is only written on success; XLSX has no valid partial
// form, so cancellation or a read error leaves no file behind. It returns
// the number of rows written.
func XLSXStream(ctx context.Context, path, sheetName string, r adapter.RowReader) (int64, error) {
	b, s, err := newWorkbook(sheetName)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	cols := r.Columns()
	for i, name := range columnNames(cols) {
		if err := s.SetCell(1, i+1, name); err != nil {
			return 0, err
		}
	}

	var count int64
	next := 2
	for {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}

		rows, err := r.Next(ctx)
		if err != nil {
			if adapter.SentinelEOF(err) {
				break
			}
			return count, err
		}

		for _, row := range rows {
			for j, v := range row {
				if err := s.SetCell(next, j+1, v); err != nil {
					return count, err
				}
			}
			next++
			count++
		}
	}

	if err := finishSheet(s, len(cols)); err != nil {
		return count, err
	}
	return count, b.SaveAs(path)
}

// newWorkbook builds an in-memory workbook holding exactly the named sheet.
func newWorkbook(sheetName string) (*sheet.Book, *sheet.Sheet, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	b := sheet.New()
	s, err := b.Sheet(sheetName)
	if err != nil {
		b.Close() //nolint:errcheck
		return nil, nil, err
	}
	if sheetName != "Sheet1" {
		if err := b.DeleteSheet("Sheet1"); err != nil {
			b.Close() //nolint:errcheck
			return nil, nil, err
		}
	}
	return b, s, nil
}

// finishSheet applies the header band and freezes it.
func finishSheet(s *sheet.Sheet, cols int) error {
	if cols == 0 {
		return nil
	}
	if err := s.SetHeaderStyle(cols); err != nil {
		return err
	}
	return s.Freeze(1)
}

func columnNames(columns []adapter.ColumnMeta) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

func rowObject(colNames []string, row []string) map[string]string {
	obj := make(map[string]string, len(colNames))
	for j, name := range colNames {
		if j < len(row) {
			obj[name] = row[j]
		} else {
			obj[name] = ""
		}
	}
	return obj
}
