package sqlbuild

import (
	"strings"
)

// InsertBuilder assembles a single-row INSERT statement.
type InsertBuilder struct {
	dialect Dialect
	table   TableRef
	values  []Value
}

// NewInsert returns an INSERT builder for the dialect.
func NewInsert(d Dialect) *InsertBuilder {
	return &InsertBuilder{dialect: d}
}

// Into sets the target table by name.
func (b *InsertBuilder) Into(table string) *InsertBuilder {
	b.table = TableRef{Name: table}
	return b
}

// IntoRef sets the target table from a full reference. Any alias on the
// reference is ignored; INSERT does not take one.
func (b *InsertBuilder) IntoRef(ref TableRef) *InsertBuilder {
	b.table = ref
	return b
}

// Set appends column values. Columns render in the order given, so
// repeated calls accumulate.
func (b *InsertBuilder) Set(values ...Value) *InsertBuilder {
	b.values = append(b.values, values...)
	return b
}

// Build renders the statement.
func (b *InsertBuilder) Build() (string, error) {
	if b.table.Name == "" {
		return "", errMissingTable("INSERT")
	}
	if len(b.values) == 0 {
		return "", errNoValues("INSERT")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.table.renderBare(b.dialect))
	sb.WriteString(" (")
	for i, v := range b.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.dialect.QuoteIdent(v.Column))
	}
	sb.WriteString(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.dialect.Literal(v))
	}
	sb.WriteString(")")
	return sb.String(), nil
}
