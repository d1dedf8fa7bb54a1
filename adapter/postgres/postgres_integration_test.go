package postgres

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/dbkit/dbkit/adapter"
)

// Default DSN for a local PostgreSQL.
// Override with DBKIT_PG_DSN env var.
const defaultTestDSN = "postgres://localhost:5432/dbkit_test?sslmode=disable"

func testDSN() string {
	if dsn := os.Getenv("DBKIT_PG_DSN"); dsn != "" {
		return dsn
	}
	return defaultTestDSN
}

func openForTest(t *testing.T) adapter.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	d := &postgresDriver{}
	conn, err := d.Open(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: cannot connect to PostgreSQL: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestIntegration_OpenAndPing(t *testing.T) {
	conn := openForTest(t)

	ctx := context.Background()
	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if conn.DriverName() != "postgres" {
		t.Errorf("DriverName() = %q, want %q", conn.DriverName(), "postgres")
	}
}

func TestIntegration_ExecAndQuery(t *testing.T) {
	conn := openForTest(t)
	ctx := context.Background()

	// Cleanup from any previous run
	conn.Exec(ctx, "DROP TABLE IF EXISTS dbkit_users")

	if _, err := conn.Exec(ctx,
		"CREATE TABLE dbkit_users (id SERIAL PRIMARY KEY, name TEXT NOT NULL, note TEXT)"); err != nil {
		t.Fatalf("CREATE TABLE error: %v", err)
	}
	t.Cleanup(func() { conn.Exec(ctx, "DROP TABLE IF EXISTS dbkit_users") })

	result, err := conn.Exec(ctx,
		"INSERT INTO dbkit_users (name, note) VALUES ('Alice', NULL), ('Bob', 'second')")
	if err != nil {
		t.Fatalf("INSERT error: %v", err)
	}
	if result.RowCount != 2 {
		t.Errorf("INSERT RowCount = %d, want 2", result.RowCount)
	}

	qr, err := conn.Query(ctx, "SELECT id, name, note FROM dbkit_users ORDER BY id")
	if err != nil {
		t.Fatalf("SELECT error: %v", err)
	}
	if !qr.IsSelect {
		t.Error("SELECT should be IsSelect")
	}
	if len(qr.Rows) != 2 {
		t.Fatalf("SELECT returned %d rows, want 2", len(qr.Rows))
	}
	if qr.Rows[0][1] != "Alice" {
		t.Errorf("Row[0][1] = %q, want %q", qr.Rows[0][1], "Alice")
	}
	if qr.Rows[0][2] != "NULL" {
		t.Errorf("Row[0][2] = %q, want %q (NULL representation)", qr.Rows[0][2], "NULL")
	}

	tables, err := conn.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables() error: %v", err)
	}
	found := false
	for _, tbl := range tables {
		if tbl.Name == "dbkit_users" {
			found = true
		}
	}
	if !found {
		t.Error("dbkit_users not found in Tables()")
	}

	cols, err := conn.Columns(ctx, "dbkit_users")
	if err != nil {
		t.Fatalf("Columns() error: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("Columns() returned %d, want 3", len(cols))
	}
	if !cols[0].IsPK {
		t.Error("Columns()[0].IsPK = false, want true")
	}
}

func TestIntegration_Stream(t *testing.T) {
	conn := openForTest(t)
	ctx := context.Background()

	conn.Exec(ctx, "DROP TABLE IF EXISTS dbkit_stream")
	if _, err := conn.Exec(ctx, "CREATE TABLE dbkit_stream (id INT)"); err != nil {
		t.Fatalf("CREATE TABLE error: %v", err)
	}
	t.Cleanup(func() { conn.Exec(ctx, "DROP TABLE IF EXISTS dbkit_stream") })

	if _, err := conn.Exec(ctx,
		"INSERT INTO dbkit_stream SELECT generate_series(1, 10)"); err != nil {
		t.Fatalf("INSERT error: %v", err)
	}

	reader, err := conn.Stream(ctx, "SELECT id FROM dbkit_stream ORDER BY id", 4)
	if err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	defer reader.Close()

	if len(reader.Columns()) != 1 {
		t.Fatalf("Columns() = %d, want 1", len(reader.Columns()))
	}

	var total int
	for {
		page, err := reader.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next error after %d rows: %v", total, err)
		}
		total += len(page)
	}
	if total != 10 {
		t.Errorf("streamed %d rows, want 10", total)
	}
}
