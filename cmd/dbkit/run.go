package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/audit"
	"github.com/dbkit/dbkit/config"
	"github.com/dbkit/dbkit/export"
	"github.com/dbkit/dbkit/history"
	"github.com/dbkit/dbkit/sqlprint"
)

func newRunCmd() *cobra.Command {
	var (
		flags    connFlags
		outFlag  string
		stream   bool
		printSQL bool
	)

	cmd := &cobra.Command{
		Use:   "run [sql]",
		Short: "Execute a SQL statement",
		Long: `Execute a SQL statement and print the result as an aligned table, or
export it with --out. Pass "-" (or no argument) to read the statement
from stdin.

Examples:
  dbkit run "SELECT * FROM users LIMIT 10" --dsn ./app.db
  dbkit run --conn staging --out users.xlsx
  cat report.sql | dbkit run - --conn staging --out report.csv --stream`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			query, err := readQuery(args)
			if err != nil {
				return err
			}
			if outFlag != "" {
				// Reject an unusable output path before touching the database.
				if _, err := export.ForPath(outFlag); err != nil {
					return err
				}
			}

			driver, dsn, err := flags.resolve(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if printSQL {
				if err := sqlprint.Fprint(os.Stdout, query); err != nil {
					return err
				}
			}

			conn, err := openConn(ctx, driver, dsn)
			if err != nil {
				return err
			}
			defer conn.Close()

			hist, err := history.New()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
			}
			if hist != nil {
				defer hist.Close()
			}

			auditLog := openAudit()
			if auditLog != nil {
				defer auditLog.Close()
			}

			start := time.Now()
			record := func(rowCount int64, execErr error) {
				elapsed := time.Since(start)
				now := time.Now()
				auditLog.Log(audit.Entry{
					Timestamp:  now,
					Query:      query,
					Driver:     driver,
					Database:   conn.DatabaseName(),
					DurationMS: elapsed.Milliseconds(),
					RowCount:   rowCount,
					IsError:    execErr != nil,
					DSN:        audit.SanitizeDSN(dsn),
				})
				if hist == nil {
					return
				}
				err := hist.Add(history.Entry{
					Query:      query,
					Driver:     driver,
					Database:   conn.DatabaseName(),
					ExecutedAt: now,
					DurationMS: elapsed.Milliseconds(),
					RowCount:   rowCount,
					IsError:    execErr != nil,
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not record history: %v\n", err)
				}
			}

			if outFlag != "" && stream {
				count, err := runStreamed(ctx, cfg, conn, query, outFlag)
				record(count, err)
				if err != nil {
					return err
				}
				fmt.Printf("Exported %d rows to %s\n", count, outFlag)
				return nil
			}

			var res *adapter.Result
			var execErr error
			if adapter.IsSelect(query) {
				res, execErr = conn.Query(ctx, query)
			} else {
				res, execErr = conn.Exec(ctx, query)
			}
			if execErr != nil {
				record(0, execErr)
				return execErr
			}
			record(res.RowCount, nil)

			if outFlag != "" {
				if err := writeResult(cfg, res, outFlag); err != nil {
					return err
				}
				fmt.Printf("Exported %d rows to %s\n", len(res.Rows), outFlag)
				return nil
			}

			printResult(os.Stdout, res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Export results to a file (.csv, .json or .xlsx)")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream rows to --out page by page instead of buffering")
	cmd.Flags().BoolVar(&printSQL, "print-sql", false, "Echo the highlighted statement before running it")
	return cmd
}

// runStreamed exports a result-returning statement page by page.
func runStreamed(ctx context.Context, cfg *config.Config, conn adapter.Conn, query, out string) (int64, error) {
	if !adapter.IsSelect(query) {
		return 0, fmt.Errorf("--stream needs a result-returning statement")
	}

	format, err := export.ForPath(out)
	if err != nil {
		return 0, err
	}

	r, err := conn.Stream(ctx, query, streamPageSize)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	switch format {
	case export.FormatCSV:
		return export.CSVStream(ctx, out, r)
	case export.FormatJSON:
		return export.JSONStream(ctx, out, r)
	default:
		return export.XLSXStream(ctx, out, cfg.Export.SheetName, r)
	}
}

// writeResult exports a buffered result in the format implied by the path.
func writeResult(cfg *config.Config, res *adapter.Result, out string) error {
	format, err := export.ForPath(out)
	if err != nil {
		return err
	}

	switch format {
	case export.FormatCSV:
		return export.CSV(out, res.Columns, res.Rows)
	case export.FormatJSON:
		return export.JSON(out, res.Columns, res.Rows)
	default:
		return export.XLSX(out, cfg.Export.SheetName, res.Columns, res.Rows)
	}
}

// openAudit opens the audit log at its default location. Failures degrade
// to a warning; the Logger's methods are nil-safe.
func openAudit() *audit.Logger {
	dir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open audit log: %v\n", err)
		return nil
	}
	log, err := audit.New(filepath.Join(dir, "audit.jsonl"), auditMaxSizeMB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open audit log: %v\n", err)
		return nil
	}
	return log
}

// readQuery takes the statement from the argument, or from stdin when the
// argument is "-" or absent.
func readQuery(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("empty query")
	}
	return query, nil
}
