package sqlbuild

import (
	"errors"
	"strings"
)

// Cond is a single WHERE predicate. Conditions passed to a builder
// combine with AND; Or groups a parenthesised OR list.
type Cond struct {
	op     string
	value  Value
	values []Value // IN list
	raw    string
	group  []Cond // OR group
}

// Eq compares the value's column for equality. A null value renders as
// IS NULL.
func Eq(v Value) Cond { return Cond{op: "=", value: v} }

// Neq compares for inequality. A null value renders as IS NOT NULL.
func Neq(v Value) Cond { return Cond{op: "<>", value: v} }

// Gt, Gte, Lt and Lte compare with the respective operator.
func Gt(v Value) Cond  { return Cond{op: ">", value: v} }
func Gte(v Value) Cond { return Cond{op: ">=", value: v} }
func Lt(v Value) Cond  { return Cond{op: "<", value: v} }
func Lte(v Value) Cond { return Cond{op: "<=", value: v} }

// Like matches with the LIKE operator.
func Like(v Value) Cond { return Cond{op: "LIKE", value: v} }

// In matches the column against a literal list. The column name comes
// from the first value; Build fails when the list is empty.
func In(column string, vs ...Value) Cond {
	return Cond{op: "IN", value: Value{Column: column}, values: vs}
}

// RawCond injects an already-formed predicate verbatim.
func RawCond(sql string) Cond { return Cond{raw: sql} }

// Or groups conditions into a parenthesised OR list.
func Or(cs ...Cond) Cond { return Cond{op: "OR", group: cs} }

var errEmptyIn = errors.New("sqlbuild: IN condition has no values")
var errEmptyOr = errors.New("sqlbuild: OR group has no conditions")

func (c Cond) render(d Dialect) (string, error) {
	switch {
	case c.raw != "":
		return c.raw, nil

	case c.op == "OR":
		if len(c.group) == 0 {
			return "", errEmptyOr
		}
		parts := make([]string, len(c.group))
		for i, sub := range c.group {
			s, err := sub.render(d)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	case c.op == "IN":
		if len(c.values) == 0 {
			return "", errEmptyIn
		}
		lits := make([]string, len(c.values))
		for i, v := range c.values {
			lits[i] = d.Literal(v)
		}
		return quoteColumnExpr(d, c.value.Column) + " IN (" + strings.Join(lits, ", ") + ")", nil

	default:
		col := quoteColumnExpr(d, c.value.Column)
		if c.value.IsNull || c.value.Tag == TypeNull {
			if c.op == "<>" {
				return col + " IS NOT NULL", nil
			}
			return col + " IS NULL", nil
		}
		return col + " " + c.op + " " + d.Literal(c.value), nil
	}
}

// renderWhere joins conditions with AND, returning "" when there are
// none.
func renderWhere(d Dialect, conds []Cond) (string, error) {
	if len(conds) == 0 {
		return "", nil
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		s, err := c.render(d)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}
