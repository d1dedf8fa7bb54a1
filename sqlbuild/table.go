package sqlbuild

import "fmt"

// TableRef names a relation, optionally schema-qualified and aliased.
type TableRef struct {
	Schema string
	Name   string
	Alias  string
}

// T is shorthand for a TableRef with just a name.
func T(name string) TableRef {
	return TableRef{Name: name}
}

func (r TableRef) render(d Dialect) string {
	out := d.QuoteIdent(r.Name)
	if r.Schema != "" {
		out = d.QuoteIdent(r.Schema) + "." + out
	}
	if r.Alias != "" {
		out += " AS " + d.QuoteIdent(r.Alias)
	}
	return out
}

// renderBare renders the reference without its alias, for statements
// where an alias has no place (INSERT, TRUNCATE).
func (r TableRef) renderBare(d Dialect) string {
	out := d.QuoteIdent(r.Name)
	if r.Schema != "" {
		out = d.QuoteIdent(r.Schema) + "." + out
	}
	return out
}

// ColumnRef names a column through its table (or table alias).
type ColumnRef struct {
	Table  string
	Column string
}

// Col is shorthand for a ColumnRef.
func Col(table, column string) ColumnRef {
	return ColumnRef{Table: table, Column: column}
}

func (r ColumnRef) render(d Dialect) string {
	if r.Table == "" {
		return d.QuoteIdent(r.Column)
	}
	return d.QuoteIdent(r.Table) + "." + d.QuoteIdent(r.Column)
}

// Table is a symbolic relation handle. Callers define their own constant
// set and register the physical names in a Catalog, so statements can be
// built against enum-like ids instead of inline strings.
type Table int

// Catalog maps Table handles to physical table references.
type Catalog struct {
	refs map[Table]TableRef
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{refs: make(map[Table]TableRef)}
}

// Define registers the reference for a handle, replacing any previous
// definition.
func (c *Catalog) Define(t Table, ref TableRef) {
	c.refs[t] = ref
}

// Ref resolves a handle to its reference. Unknown handles resolve to a
// zero TableRef, which builders reject at Build time.
func (c *Catalog) Ref(t Table) TableRef {
	return c.refs[t]
}

// Lookup resolves a handle and reports whether it is defined.
func (c *Catalog) Lookup(t Table) (TableRef, bool) {
	ref, ok := c.refs[t]
	return ref, ok
}

// Name returns the physical table name for a handle, or "" when the
// handle is not defined.
func (c *Catalog) Name(t Table) string {
	return c.refs[t].Name
}

// errMissingTable is the shared Build failure for builders whose table
// was never set or resolved through an undefined Catalog handle.
func errMissingTable(stmt string) error {
	return fmt.Errorf("sqlbuild: %s has no table", stmt)
}

func errNoValues(stmt string) error {
	return fmt.Errorf("sqlbuild: %s has no values", stmt)
}
