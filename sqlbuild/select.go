package sqlbuild

import (
	"strconv"
	"strings"
)

// On pairs the joined tables' columns for a JOIN condition.
func On(left, right ColumnRef) JoinOn {
	return JoinOn{Left: left, Right: right}
}

// JoinOn is a table/column pair equality in a JOIN ... ON clause.
type JoinOn struct {
	Left  ColumnRef
	Right ColumnRef
}

type join struct {
	kind  string
	table TableRef
	on    []JoinOn
}

type orderTerm struct {
	column string
	dir    string
}

// SelectBuilder assembles a SELECT statement. Methods may be chained in
// any order; Build renders the clauses in fixed grammar order.
type SelectBuilder struct {
	dialect Dialect
	table   TableRef
	columns []string
	joins   []join
	where   []Cond
	groupBy []string
	orderBy []orderTerm
	limit   int
	offset  int
}

// NewSelect returns a SELECT builder for the dialect.
func NewSelect(d Dialect) *SelectBuilder {
	return &SelectBuilder{dialect: d, limit: -1, offset: -1}
}

// From sets the source table by name.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = TableRef{Name: table}
	return b
}

// FromRef sets the source table from a full reference, typically one
// resolved through a Catalog.
func (b *SelectBuilder) FromRef(ref TableRef) *SelectBuilder {
	b.table = ref
	return b
}

// Columns sets the selected column expressions. Bare identifiers are
// quoted; qualified names, stars and function calls pass through
// verbatim. Without a call the statement selects *.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Join appends an INNER JOIN on the given table/column pairs.
func (b *SelectBuilder) Join(table TableRef, on ...JoinOn) *SelectBuilder {
	b.joins = append(b.joins, join{kind: "JOIN", table: table, on: on})
	return b
}

// LeftJoin appends a LEFT JOIN on the given table/column pairs.
func (b *SelectBuilder) LeftJoin(table TableRef, on ...JoinOn) *SelectBuilder {
	b.joins = append(b.joins, join{kind: "LEFT JOIN", table: table, on: on})
	return b
}

// Where appends conditions; all conditions combine with AND.
func (b *SelectBuilder) Where(conds ...Cond) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

// GroupBy appends grouping columns.
func (b *SelectBuilder) GroupBy(cols ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, cols...)
	return b
}

// OrderBy appends an ordering term. dir is normalized to ASC or DESC;
// anything unrecognized falls back to ASC.
func (b *SelectBuilder) OrderBy(column, dir string) *SelectBuilder {
	d := strings.ToUpper(strings.TrimSpace(dir))
	if d != "DESC" {
		d = "ASC"
	}
	b.orderBy = append(b.orderBy, orderTerm{column: column, dir: d})
	return b
}

// Limit caps the row count. Negative values clear the clause.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// Offset skips leading rows. Rendered only together with Limit, which is
// the only portable placement.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = n
	return b
}

// Build renders the statement. It does not mutate the builder and may be
// called repeatedly.
func (b *SelectBuilder) Build() (string, error) {
	if b.table.Name == "" {
		return "", errMissingTable("SELECT")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")

	if len(b.columns) == 0 {
		sb.WriteString("*")
	} else {
		for i, col := range b.columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteColumnExpr(b.dialect, col))
		}
	}

	sb.WriteString(" FROM ")
	sb.WriteString(b.table.render(b.dialect))

	for _, j := range b.joins {
		if j.table.Name == "" {
			return "", errMissingTable("JOIN")
		}
		sb.WriteString(" ")
		sb.WriteString(j.kind)
		sb.WriteString(" ")
		sb.WriteString(j.table.render(b.dialect))
		for i, on := range j.on {
			if i == 0 {
				sb.WriteString(" ON ")
			} else {
				sb.WriteString(" AND ")
			}
			sb.WriteString(on.Left.render(b.dialect))
			sb.WriteString(" = ")
			sb.WriteString(on.Right.render(b.dialect))
		}
	}

	where, err := renderWhere(b.dialect, b.where)
	if err != nil {
		return "", err
	}
	sb.WriteString(where)

	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		for i, col := range b.groupBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteColumnExpr(b.dialect, col))
		}
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, term := range b.orderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteColumnExpr(b.dialect, term.column))
			sb.WriteString(" ")
			sb.WriteString(term.dir)
		}
	}

	if b.limit >= 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
		if b.offset > 0 {
			sb.WriteString(" OFFSET ")
			sb.WriteString(strconv.Itoa(b.offset))
		}
	}

	return sb.String(), nil
}
