package sqlbuild

import (
	"strings"
)

// DeleteBuilder assembles a DELETE statement. Without Where the
// statement deletes every row; that is rendered as-is and left to the
// caller to confirm.
type DeleteBuilder struct {
	dialect Dialect
	table   TableRef
	where   []Cond
}

// NewDelete returns a DELETE builder for the dialect.
func NewDelete(d Dialect) *DeleteBuilder {
	return &DeleteBuilder{dialect: d}
}

// From sets the target table by name.
func (b *DeleteBuilder) From(table string) *DeleteBuilder {
	b.table = TableRef{Name: table}
	return b
}

// FromRef sets the target table from a full reference.
func (b *DeleteBuilder) FromRef(ref TableRef) *DeleteBuilder {
	b.table = ref
	return b
}

// Where appends conditions; all conditions combine with AND.
func (b *DeleteBuilder) Where(conds ...Cond) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

// Build renders the statement.
func (b *DeleteBuilder) Build() (string, error) {
	if b.table.Name == "" {
		return "", errMissingTable("DELETE")
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table.render(b.dialect))

	where, err := renderWhere(b.dialect, b.where)
	if err != nil {
		return "", err
	}
	sb.WriteString(where)
	return sb.String(), nil
}
