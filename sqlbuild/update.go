package sqlbuild

import (
	"strings"
)

// UpdateBuilder assembles an UPDATE statement. Without Where the
// statement updates every row; that is rendered as-is and left to the
// caller to confirm.
type UpdateBuilder struct {
	dialect Dialect
	table   TableRef
	values  []Value
	where   []Cond
}

// NewUpdate returns an UPDATE builder for the dialect.
func NewUpdate(d Dialect) *UpdateBuilder {
	return &UpdateBuilder{dialect: d}
}

// Table sets the target table by name.
func (b *UpdateBuilder) Table(table string) *UpdateBuilder {
	b.table = TableRef{Name: table}
	return b
}

// TableRef sets the target table from a full reference.
func (b *UpdateBuilder) TableRef(ref TableRef) *UpdateBuilder {
	b.table = ref
	return b
}

// Set appends SET assignments in the order given.
func (b *UpdateBuilder) Set(values ...Value) *UpdateBuilder {
	b.values = append(b.values, values...)
	return b
}

// Where appends conditions; all conditions combine with AND.
func (b *UpdateBuilder) Where(conds ...Cond) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

// Build renders the statement.
func (b *UpdateBuilder) Build() (string, error) {
	if b.table.Name == "" {
		return "", errMissingTable("UPDATE")
	}
	if len(b.values) == 0 {
		return "", errNoValues("UPDATE")
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table.render(b.dialect))
	sb.WriteString(" SET ")
	for i, v := range b.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.dialect.QuoteIdent(v.Column))
		sb.WriteString(" = ")
		sb.WriteString(b.dialect.Literal(v))
	}

	where, err := renderWhere(b.dialect, b.where)
	if err != nil {
		return "", err
	}
	sb.WriteString(where)
	return sb.String(), nil
}
