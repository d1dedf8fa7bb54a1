package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/tui/theme"
)

const maxColWidth = 50

// printResult renders a buffered result as an aligned table: header band,
// separator, cells with NULL dimmed, then a summary line.
func printResult(w io.Writer, res *adapter.Result) {
	th := theme.Current

	if !res.IsSelect {
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("%d row(s) affected", res.RowCount)
		}
		fmt.Fprintln(w, th.SuccessText.Render(fmt.Sprintf("%s (%s)", msg, res.Duration.Round(time.Millisecond))))
		return
	}

	if len(res.Columns) == 0 {
		fmt.Fprintln(w, th.MutedText.Render("(no columns)"))
		return
	}

	widths := columnWidths(res.Columns, res.Rows)

	var header strings.Builder
	total := 0
	for i, c := range res.Columns {
		if i > 0 {
			header.WriteString("  ")
			total += 2
		}
		header.WriteString(th.TableHeader.Render(padRight(truncCell(c.Name, widths[i]), widths[i])))
		total += widths[i]
	}
	fmt.Fprintln(w, header.String())
	fmt.Fprintln(w, th.TableBorder.Render(strings.Repeat("─", total)))

	for _, row := range res.Rows {
		var line strings.Builder
		for i := range res.Columns {
			if i > 0 {
				line.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cell := padRight(truncCell(val, widths[i]), widths[i])
			if val == "NULL" {
				line.WriteString(th.TableNull.Render(cell))
			} else {
				line.WriteString(th.TableCell.Render(cell))
			}
		}
		fmt.Fprintln(w, line.String())
	}

	summary := fmt.Sprintf("%d rows in set (%s)", res.RowCount, res.Duration.Round(time.Millisecond))
	if res.Truncated {
		summary += fmt.Sprintf(", showing first %d", len(res.Rows))
	}
	fmt.Fprintln(w, th.MutedText.Render(summary))
}

// columnWidths sizes columns from header names and a sample of the data,
// capping each column at maxColWidth.
func columnWidths(cols []adapter.ColumnMeta, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.Name)
		if widths[i] < 4 {
			widths[i] = 4 // minimum column width
		}
	}

	// Sample up to 100 rows to estimate content widths.
	sample := len(rows)
	if sample > 100 {
		sample = 100
	}
	for i := 0; i < sample; i++ {
		for j := 0; j < len(cols) && j < len(rows[i]); j++ {
			if cw := runewidth.StringWidth(rows[i][j]); cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

func truncCell(s string, w int) string {
	return runewidth.Truncate(s, w, "…")
}

// padRight pads s with spaces on the right so its display width equals w.
func padRight(s string, w int) string {
	sw := runewidth.StringWidth(s)
	if sw >= w {
		return s
	}
	return s + strings.Repeat(" ", w-sw)
}
