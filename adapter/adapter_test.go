package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

// mockDriver is a minimal driver for testing the registry.
type mockDriver struct {
	name string
	port int
}

func (m *mockDriver) Name() string     { return m.name }
func (m *mockDriver) DefaultPort() int { return m.port }
func (m *mockDriver) Open(_ context.Context, _ string) (Conn, error) {
	return nil, errors.New("mock: not implemented")
}

func TestRegister(t *testing.T) {
	// Save and restore original registry state.
	orig := make(map[string]Driver)
	for k, v := range Registry {
		orig[k] = v
	}
	defer func() {
		Registry = orig
	}()

	// Clear registry for this test.
	Registry = map[string]Driver{}

	mock := &mockDriver{name: "testdb", port: 9999}
	Register(mock)

	got, ok := Registry["testdb"]
	if !ok {
		t.Fatal("expected driver 'testdb' to be registered")
	}
	if got.Name() != "testdb" {
		t.Errorf("Name() = %q, want %q", got.Name(), "testdb")
	}
	if got.DefaultPort() != 9999 {
		t.Errorf("DefaultPort() = %d, want %d", got.DefaultPort(), 9999)
	}
}

func TestRegister_Multiple(t *testing.T) {
	orig := make(map[string]Driver)
	for k, v := range Registry {
		orig[k] = v
	}
	defer func() {
		Registry = orig
	}()

	Registry = map[string]Driver{}

	drivers := []struct {
		name string
		port int
	}{
		{"alpha", 1111},
		{"bravo", 2222},
		{"charlie", 3333},
	}

	for _, d := range drivers {
		Register(&mockDriver{name: d.name, port: d.port})
	}

	if len(Registry) != 3 {
		t.Fatalf("expected 3 drivers in registry, got %d", len(Registry))
	}

	for _, d := range drivers {
		got, ok := Registry[d.name]
		if !ok {
			t.Errorf("driver %q not found in registry", d.name)
			continue
		}
		if got.Name() != d.name {
			t.Errorf("Name() = %q, want %q", got.Name(), d.name)
		}
		if got.DefaultPort() != d.port {
			t.Errorf("DefaultPort() for %q = %d, want %d", d.name, got.DefaultPort(), d.port)
		}
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	orig := make(map[string]Driver)
	for k, v := range Registry {
		orig[k] = v
	}
	defer func() {
		Registry = orig
	}()

	Registry = map[string]Driver{}

	if _, err := Open(context.Background(), "nosuch", "dsn"); err == nil {
		t.Error("Open with unknown driver expected error, got nil")
	}
}

func TestSentinelEOF(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"io.EOF returns true", io.EOF, true},
		{"nil returns false", nil, false},
		{"other error returns false", errors.New("some error"), false},
		{"wrapped io.EOF returns true", fmt.Errorf("wrap: %w", io.EOF), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SentinelEOF(tt.err); got != tt.want {
				t.Errorf("SentinelEOF(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsSelect(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"simple SELECT", "SELECT * FROM users", true},
		{"INSERT", "INSERT INTO users (name) VALUES ('alice')", false},
		{"UPDATE", "UPDATE users SET name = 'bob'", false},
		{"DELETE", "DELETE FROM users WHERE id = 1", false},
		{"lowercase select with leading space", "  select * from t", true},
		{"WITH CTE", "WITH cte AS (SELECT 1) SELECT * FROM cte", true},
		{"EXPLAIN", "EXPLAIN SELECT * FROM users", true},
		{"SHOW", "SHOW search_path", true},
		{"VALUES", "VALUES (1, 'a'), (2, 'b')", true},
		{"TABLE", "TABLE users", true},
		{"DESCRIBE", "DESCRIBE users", true},
		{"DESC", "DESC users", true},
		{"PRAGMA", "PRAGMA table_info('users')", true},
		{"CREATE TABLE", "CREATE TABLE foo (id int)", false},
		{"DROP TABLE", "DROP TABLE foo", false},
		{"ALTER TABLE", "ALTER TABLE foo ADD COLUMN bar int", false},
		{"TRUNCATE", "TRUNCATE TABLE foo", false},
		{"mixed case SELECT", "SeLeCt 1", true},
		{"line comment before SELECT", "-- comment\nSELECT 1", true},
		{"block comment before SELECT", "/* comment */ SELECT 1", true},
		{"line comment before INSERT", "-- comment\nINSERT INTO t VALUES (1)", false},
		{"empty string", "", false},
		{"only whitespace", "   ", false},
		{"GRANT", "GRANT ALL ON users TO admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsSelect(tt.query)
			if got != tt.want {
				t.Errorf("IsSelect(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	// All sentinel errors must be non-nil and distinct.
	if ErrNotConnected == nil {
		t.Error("ErrNotConnected is nil")
	}
	if ErrCancelled == nil {
		t.Error("ErrCancelled is nil")
	}
	if errors.Is(ErrNotConnected, ErrCancelled) {
		t.Error("ErrNotConnected and ErrCancelled should be distinct")
	}
}

func TestColumnMeta(t *testing.T) {
	col := ColumnMeta{
		Name:     "user_id",
		Type:     "int4",
		Nullable: true,
	}

	if col.Name != "user_id" {
		t.Errorf("Name = %q, want %q", col.Name, "user_id")
	}
	if col.Type != "int4" {
		t.Errorf("Type = %q, want %q", col.Type, "int4")
	}
	if !col.Nullable {
		t.Error("expected Nullable to be true")
	}
}
