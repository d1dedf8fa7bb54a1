// Package adapter defines the driver-neutral connection lifecycle: a
// Driver opens a Conn, a Conn runs one command at a time, and results
// come back either buffered in a Result or paged through a RowReader.
//
// A Conn wraps a single live session. It is not safe for concurrent use;
// callers that need parallel queries open one Conn per goroutine.
package adapter

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dbkit/dbkit/schema"
)

var (
	ErrNotConnected = errors.New("not connected to database")
	ErrCancelled    = errors.New("query cancelled")
)

// DefaultMaxRows caps how many rows Query buffers before flagging the
// result truncated. Stream has no cap.
const DefaultMaxRows = 10000

// Driver opens database connections for one driver name.
type Driver interface {
	Open(ctx context.Context, dsn string) (Conn, error)
	Name() string
	DefaultPort() int
}

// Conn represents an active database session.
type Conn interface {
	// Command execution. Exec is for statements without a result set,
	// Query buffers up to DefaultMaxRows, Stream pages without a cap.
	Exec(ctx context.Context, query string) (*Result, error)
	Query(ctx context.Context, query string) (*Result, error)
	Stream(ctx context.Context, query string, pageSize int) (RowReader, error)

	// Introspection of the connected database.
	Tables(ctx context.Context) ([]schema.Table, error)
	Columns(ctx context.Context, table string) ([]schema.Column, error)

	// Cancel interrupts the in-flight command, if any.
	Cancel() error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Info
	DriverName() string
	DatabaseName() string
}

// RowReader provides paginated access to a result set.
type RowReader interface {
	// Next returns the next page of rows, or io.EOF when exhausted.
	Next(ctx context.Context) ([][]string, error)
	Columns() []ColumnMeta
	Close() error
}

// Result holds the outcome of one command.
type Result struct {
	Columns   []ColumnMeta
	Rows      [][]string
	RowCount  int64 // -1 if unknown
	Duration  time.Duration
	IsSelect  bool
	Truncated bool
	Message   string
}

// ColumnMeta holds metadata about a result column.
type ColumnMeta struct {
	Name     string
	Type     string
	Nullable bool
}

// SentinelEOF returns true if err is io.EOF.
func SentinelEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// Registry holds registered drivers by name.
var Registry = map[string]Driver{}

// Register adds a driver to the global registry.
func Register(d Driver) {
	Registry[d.Name()] = d
}

// Open looks up a registered driver and opens a connection with it.
func Open(ctx context.Context, driver, dsn string) (Conn, error) {
	d, ok := Registry[driver]
	if !ok {
		return nil, errors.New("unknown driver: " + driver)
	}
	return d.Open(ctx, dsn)
}
