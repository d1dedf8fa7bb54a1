// Package schema holds the introspection records shared by the driver
// adapters.
package schema

// Table represents a database table.
type Table struct {
	Name    string
	Columns []Column
}

// Column represents a table column.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	IsPK     bool
}
