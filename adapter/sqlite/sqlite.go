// Package sqlite implements the adapter.Driver interface over
// database/sql and the pure-Go modernc.org/sqlite driver. It registers
// itself as "sqlite".
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/schema"
)

func init() {
	adapter.Register(&sqliteDriver{})
}

// sqliteDriver implements adapter.Driver for SQLite databases.
type sqliteDriver struct{}

func (d *sqliteDriver) Name() string     { return "sqlite" }
func (d *sqliteDriver) DefaultPort() int { return 0 }

func (d *sqliteDriver) Open(ctx context.Context, dsn string) (adapter.Conn, error) {
	dsn = normalizeDSN(dsn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite enable foreign keys: %w", err)
	}

	dbName := dsn
	if dsn != ":memory:" {
		dbName = filepath.Base(dsn)
	}

	return &sqliteConn{
		db:     db,
		dsn:    dsn,
		dbName: dbName,
	}, nil
}

// normalizeDSN strips common SQLite URI prefixes.
func normalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "sqlite://") {
		return strings.TrimPrefix(dsn, "sqlite://")
	}
	if strings.HasPrefix(dsn, "file:") {
		return strings.TrimPrefix(dsn, "file:")
	}
	return dsn
}

// sqliteConn implements adapter.Conn.
type sqliteConn struct {
	db     *sql.DB
	dsn    string
	dbName string

	mu       sync.Mutex
	cancelFn context.CancelFunc
}

func (c *sqliteConn) DriverName() string   { return "sqlite" }
func (c *sqliteConn) DatabaseName() string { return c.dbName }

func (c *sqliteConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqliteConn) Close() error {
	return c.db.Close()
}

// Cancel cancels any in-flight command.
func (c *sqliteConn) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelFn != nil {
		c.cancelFn()
	}
	return nil
}

func (c *sqliteConn) armCancel(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFn = cancel
	c.mu.Unlock()
	return ctx, func() {
		c.mu.Lock()
		c.cancelFn = nil
		c.mu.Unlock()
		cancel()
	}
}

// Exec runs a statement without a result set.
func (c *sqliteConn) Exec(ctx context.Context, query string) (*adapter.Result, error) {
	ctx, done := c.armCancel(ctx)
	defer done()

	start := time.Now()
	result, err := c.db.ExecContext(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("sqlite exec: %w", err)
	}

	affected, _ := result.RowsAffected()

	return &adapter.Result{
		RowCount: affected,
		Duration: time.Since(start),
		IsSelect: false,
		Message:  fmt.Sprintf("%d row(s) affected", affected),
	}, nil
}

// Query runs a statement and buffers the result set, truncating at
// adapter.DefaultMaxRows.
func (c *sqliteConn) Query(ctx context.Context, query string) (*adapter.Result, error) {
	ctx, done := c.armCancel(ctx)
	defer done()

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("sqlite query: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("sqlite column types: %w", err)
	}

	cols := make([]adapter.ColumnMeta, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = adapter.ColumnMeta{
			Name: ct.Name(),
			Type: ct.DatabaseTypeName(),
		}
		if nullable, ok := ct.Nullable(); ok {
			cols[i].Nullable = nullable
		}
	}

	var resultRows [][]string
	truncated := false

	for rows.Next() {
		if len(resultRows) >= adapter.DefaultMaxRows {
			truncated = true
			break
		}
		row, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, err
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("sqlite rows: %w", err)
	}

	return &adapter.Result{
		Columns:   cols,
		Rows:      resultRows,
		RowCount:  int64(len(resultRows)),
		Duration:  time.Since(start),
		IsSelect:  true,
		Truncated: truncated,
	}, nil
}

// Stream returns a RowReader for paginated access to query results.
func (c *sqliteConn) Stream(ctx context.Context, query string, pageSize int) (adapter.RowReader, error) {
	// First, execute a probe query to discover column metadata.
	probeQuery := fmt.Sprintf("SELECT * FROM (%s) LIMIT 0", query)
	rows, err := c.db.QueryContext(ctx, probeQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite stream probe: %w", err)
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqlite stream column types: %w", err)
	}

	cols := make([]adapter.ColumnMeta, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = adapter.ColumnMeta{
			Name: ct.Name(),
			Type: ct.DatabaseTypeName(),
		}
		if nullable, ok := ct.Nullable(); ok {
			cols[i].Nullable = nullable
		}
	}
	rows.Close()

	return &rowReader{
		db:       c.db,
		query:    query,
		pageSize: pageSize,
		cols:     cols,
	}, nil
}

// rowReader implements adapter.RowReader with LIMIT/OFFSET pagination.
type rowReader struct {
	db       *sql.DB
	query    string
	pageSize int
	offset   int
	cols     []adapter.ColumnMeta
}

func (r *rowReader) Columns() []adapter.ColumnMeta { return r.cols }
func (r *rowReader) Close() error                  { return nil }

func (r *rowReader) Next(ctx context.Context) ([][]string, error) {
	paged := fmt.Sprintf("SELECT * FROM (%s) LIMIT %d OFFSET %d", r.query, r.pageSize, r.offset)
	rows, err := r.db.QueryContext(ctx, paged)
	if err != nil {
		return nil, fmt.Errorf("sqlite fetch page: %w", err)
	}
	defer rows.Close()

	var page [][]string
	for rows.Next() {
		row, err := scanRow(rows, len(r.cols))
		if err != nil {
			return nil, err
		}
		page = append(page, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite fetch rows: %w", err)
	}

	if len(page) == 0 {
		return nil, io.EOF
	}

	r.offset += len(page)
	return page, nil
}

// scanRow scans one row through sql.NullString so SQL NULL renders as
// the literal "NULL".
func scanRow(rows *sql.Rows, colCount int) ([]string, error) {
	values := make([]sql.NullString, colCount)
	ptrs := make([]any, colCount)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("sqlite scan: %w", err)
	}
	row := make([]string, colCount)
	for i, v := range values {
		if v.Valid {
			row[i] = v.String
		} else {
			row[i] = "NULL"
		}
	}
	return row, nil
}

// Tables returns all user tables in the database.
func (c *sqliteConn) Tables(ctx context.Context) ([]schema.Table, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("sqlite tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

// Columns returns column metadata for the given table using PRAGMA table_info.
func (c *sqliteConn) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("sqlite columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("sqlite columns scan: %w", err)
		}
		col := schema.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
			IsPK:     pk > 0,
		}
		if dfltValue.Valid {
			col.Default = dfltValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
