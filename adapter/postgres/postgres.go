// Package postgres implements the adapter.Driver interface over
// jackc/pgx. It registers itself as "postgres".
package postgres

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dbkit/dbkit/adapter"
	"github.com/dbkit/dbkit/schema"
)

func init() {
	adapter.Register(&postgresDriver{})
}

// postgresDriver implements adapter.Driver for PostgreSQL.
type postgresDriver struct{}

func (d *postgresDriver) Name() string     { return "postgres" }
func (d *postgresDriver) DefaultPort() int { return 5432 }

func (d *postgresDriver) Open(ctx context.Context, dsn string) (adapter.Conn, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	dbName := extractDBName(dsn)

	return &pgConn{
		pool:   pool,
		dsn:    dsn,
		dbName: dbName,
	}, nil
}

// extractDBName parses the database name from the DSN.
func extractDBName(dsn string) string {
	if dsn == "" {
		return ""
	}
	// Try URL format first (postgres://... or postgresql://...)
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" {
		return strings.TrimPrefix(u.Path, "/")
	}
	// Fallback: keyword=value format (e.g. "host=localhost dbname=myapp")
	for _, part := range strings.Fields(dsn) {
		if strings.HasPrefix(part, "dbname=") {
			return strings.TrimPrefix(part, "dbname=")
		}
	}
	return ""
}

// pgConn implements adapter.Conn for PostgreSQL.
type pgConn struct {
	pool     *pgxpool.Pool
	dsn      string
	dbName   string
	cancelMu sync.Mutex
	cancelFn context.CancelFunc
}

func (c *pgConn) DatabaseName() string { return c.dbName }
func (c *pgConn) DriverName() string   { return "postgres" }

func (c *pgConn) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConn) Close() error {
	c.pool.Close()
	return nil
}

// Cancel cancels the currently running command, if any.
func (c *pgConn) Cancel() error {
	c.cancelMu.Lock()
	fn := c.cancelFn
	c.cancelMu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

func (c *pgConn) setCancel(fn context.CancelFunc) {
	c.cancelMu.Lock()
	c.cancelFn = fn
	c.cancelMu.Unlock()
}

func (c *pgConn) clearCancel() {
	c.cancelMu.Lock()
	c.cancelFn = nil
	c.cancelMu.Unlock()
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (c *pgConn) Exec(ctx context.Context, query string) (*adapter.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	c.setCancel(cancel)
	defer func() {
		c.clearCancel()
		cancel()
	}()

	start := time.Now()
	tag, err := c.pool.Exec(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("postgres exec: %w", err)
	}

	return &adapter.Result{
		RowCount: tag.RowsAffected(),
		Duration: time.Since(start),
		IsSelect: false,
		Message:  tag.String(),
	}, nil
}

func (c *pgConn) Query(ctx context.Context, query string) (*adapter.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	c.setCancel(cancel)
	defer func() {
		c.clearCancel()
		cancel()
	}()

	start := time.Now()
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("postgres query: %w", err)
	}
	defer rows.Close()

	cols := fieldDescToMeta(rows.FieldDescriptions())

	var result [][]string
	truncated := false
	for rows.Next() {
		if len(result) >= adapter.DefaultMaxRows {
			truncated = true
			break
		}
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres query values: %w", err)
		}
		result = append(result, valuesToStrings(vals))
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("postgres query rows: %w", err)
	}

	return &adapter.Result{
		Columns:   cols,
		Rows:      result,
		RowCount:  int64(len(result)),
		Duration:  time.Since(start),
		IsSelect:  true,
		Truncated: truncated,
	}, nil
}

// ---------------------------------------------------------------------------
// Streaming with server-side cursors
// ---------------------------------------------------------------------------

func (c *pgConn) Stream(ctx context.Context, query string, pageSize int) (adapter.RowReader, error) {
	ctx, cancel := context.WithCancel(ctx)
	c.setCancel(cancel)

	// Open a direct connection (not from the pool) for the cursor transaction.
	conn, err := pgx.Connect(ctx, c.dsn)
	if err != nil {
		cancel()
		c.clearCancel()
		return nil, fmt.Errorf("postgres stream connect: %w", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Close(ctx)
		cancel()
		c.clearCancel()
		return nil, fmt.Errorf("postgres stream begin tx: %w", err)
	}

	cursorName := "dbkit_cursor"
	_, err = tx.Exec(ctx, fmt.Sprintf("DECLARE %s CURSOR FOR %s", cursorName, query))
	if err != nil {
		tx.Rollback(ctx)
		conn.Close(ctx)
		cancel()
		c.clearCancel()
		return nil, fmt.Errorf("postgres declare cursor: %w", err)
	}

	// Fetch the first batch to obtain column metadata.
	rows, err := tx.Query(ctx, fmt.Sprintf("FETCH FORWARD %d FROM %s", pageSize, cursorName))
	if err != nil {
		tx.Rollback(ctx)
		conn.Close(ctx)
		cancel()
		c.clearCancel()
		return nil, fmt.Errorf("postgres initial fetch: %w", err)
	}

	cols := fieldDescToMeta(rows.FieldDescriptions())

	var firstBatch [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			rows.Close()
			tx.Rollback(ctx)
			conn.Close(ctx)
			cancel()
			c.clearCancel()
			return nil, fmt.Errorf("postgres initial fetch values: %w", err)
		}
		firstBatch = append(firstBatch, valuesToStrings(vals))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		tx.Rollback(ctx)
		conn.Close(ctx)
		cancel()
		c.clearCancel()
		return nil, fmt.Errorf("postgres initial fetch rows: %w", err)
	}

	return &pgRowReader{
		conn:       conn,
		tx:         tx,
		cursorName: cursorName,
		pageSize:   pageSize,
		cols:       cols,
		cancel:     cancel,
		parentConn: c,
		firstBatch: firstBatch,
	}, nil
}

// pgRowReader implements adapter.RowReader using server-side cursors.
type pgRowReader struct {
	conn       *pgx.Conn
	tx         pgx.Tx
	cursorName string
	pageSize   int
	cols       []adapter.ColumnMeta
	cancel     context.CancelFunc
	parentConn *pgConn
	closed     atomic.Bool

	// firstBatch holds data from the initial FETCH during construction.
	// It is returned on the first call to Next and then set to nil.
	firstBatch [][]string
}

func (r *pgRowReader) Columns() []adapter.ColumnMeta {
	return r.cols
}

func (r *pgRowReader) Next(ctx context.Context) ([][]string, error) {
	if r.closed.Load() {
		return nil, io.EOF
	}

	// Return the first batch if available.
	if r.firstBatch != nil {
		batch := r.firstBatch
		r.firstBatch = nil
		if len(batch) == 0 {
			return nil, io.EOF
		}
		return batch, nil
	}

	rows, err := r.tx.Query(ctx, fmt.Sprintf("FETCH FORWARD %d FROM %s", r.pageSize, r.cursorName))
	if err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("postgres cursor fetch: %w", err)
	}
	defer rows.Close()

	var batch [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres cursor fetch values: %w", err)
		}
		batch = append(batch, valuesToStrings(vals))
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, adapter.ErrCancelled
		}
		return nil, fmt.Errorf("postgres cursor fetch rows: %w", err)
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

func (r *pgRowReader) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil // already closed
	}

	// Close cursor, rollback transaction, close connection.
	ctx := context.Background()

	r.tx.Exec(ctx, fmt.Sprintf("CLOSE %s", r.cursorName))
	r.tx.Rollback(ctx)
	err := r.conn.Close(ctx)

	r.cancel()
	r.parentConn.clearCancel()
	return err
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

func (c *pgConn) Tables(ctx context.Context) ([]schema.Table, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT table_name
		 FROM information_schema.tables
		 WHERE table_catalog = current_database()
		   AND table_schema  = 'public'
		   AND table_type    = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("postgres tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

func (c *pgConn) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	// Fetch primary key column names for this table.
	pkSet, err := c.primaryKeyColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx,
		`SELECT column_name,
		        data_type,
		        is_nullable,
		        COALESCE(column_default, '')
		 FROM information_schema.columns
		 WHERE table_catalog = current_database()
		   AND table_schema  = 'public'
		   AND table_name    = $1
		 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("postgres columns: %w", err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var name, dtype, nullable, dflt string
		if err := rows.Scan(&name, &dtype, &nullable, &dflt); err != nil {
			return nil, fmt.Errorf("postgres columns scan: %w", err)
		}
		cols = append(cols, schema.Column{
			Name:     name,
			Type:     dtype,
			Nullable: nullable == "YES",
			Default:  dflt,
			IsPK:     pkSet[name],
		})
	}
	return cols, rows.Err()
}

// primaryKeyColumns returns a set of column names that belong to the primary key.
func (c *pgConn) primaryKeyColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT a.attname
		 FROM pg_index i
		 JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		 WHERE i.indrelid = ('public.' || $1)::regclass
		   AND i.indisprimary`, table)
	if err != nil {
		return nil, fmt.Errorf("postgres primary keys: %w", err)
	}
	defer rows.Close()

	pk := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres primary keys scan: %w", err)
		}
		pk[name] = true
	}
	return pk, rows.Err()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fieldDescToMeta converts pgx field descriptions to adapter ColumnMeta.
func fieldDescToMeta(fds []pgconn.FieldDescription) []adapter.ColumnMeta {
	cols := make([]adapter.ColumnMeta, len(fds))
	for i, fd := range fds {
		cols[i] = adapter.ColumnMeta{
			Name: fd.Name,
			Type: pgTypeOIDToName(fd.DataTypeOID),
		}
	}
	return cols
}

// valuesToStrings converts a row of interface{} values to strings.
func valuesToStrings(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = valueToString(v)
	}
	return out
}

// valueToString converts a single database value to a string
// representation. SQL NULL renders as the literal "NULL", matching the
// other drivers.
func valueToString(v any) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int8:
		return fmt.Sprintf("%d", val)
	case int16:
		return fmt.Sprintf("%d", val)
	case int32:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float32:
		return fmt.Sprintf("%g", val)
	case float64:
		return fmt.Sprintf("%g", val)
	case [16]byte:
		// UUID
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case []string:
		return "{" + strings.Join(val, ",") + "}"
	case []int32:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []int64:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []float64:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprintf("%g", n)
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []bool:
		parts := make([]string, len(val))
		for i, b := range val {
			if b {
				parts[i] = "true"
			} else {
				parts[i] = "false"
			}
		}
		return "{" + strings.Join(parts, ",") + "}"
	case pgtype.Numeric:
		dv, err := val.Value()
		if err != nil || dv == nil {
			return ""
		}
		if s, ok := dv.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", dv)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// pgTypeOIDToName maps common PostgreSQL type OIDs to human-readable names.
func pgTypeOIDToName(oid uint32) string {
	switch oid {
	case 16:
		return "bool"
	case 17:
		return "bytea"
	case 18:
		return "char"
	case 20:
		return "int8"
	case 21:
		return "int2"
	case 23:
		return "int4"
	case 25:
		return "text"
	case 26:
		return "oid"
	case 114:
		return "json"
	case 142:
		return "xml"
	case 700:
		return "float4"
	case 701:
		return "float8"
	case 790:
		return "money"
	case 1000:
		return "bool[]"
	case 1005:
		return "int2[]"
	case 1007:
		return "int4[]"
	case 1009:
		return "text[]"
	case 1016:
		return "int8[]"
	case 1021:
		return "float4[]"
	case 1022:
		return "float8[]"
	case 1042:
		return "bpchar"
	case 1043:
		return "varchar"
	case 1082:
		return "date"
	case 1083:
		return "time"
	case 1114:
		return "timestamp"
	case 1184:
		return "timestamptz"
	case 1186:
		return "interval"
	case 1266:
		return "timetz"
	case 1700:
		return "numeric"
	case 2249:
		return "record"
	case 2278:
		return "void"
	case 2950:
		return "uuid"
	case 3802:
		return "jsonb"
	case 3807:
		return "jsonb[]"
	default:
		return fmt.Sprintf("oid:%d", oid)
	}
}
