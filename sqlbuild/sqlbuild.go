// Package sqlbuild assembles SQL statement text from typed parts.
//
// The package is a string assembler, nothing more: builders concatenate
// clauses in a fixed grammar order and values are rendered inline as
// escaped literals chosen by a closed set of type tags. There is no
// placeholder mode, no schema validation, and no driver dependency; the
// output is plain statement text for whichever client executes it.
//
// Basic usage:
//
//	sql, err := sqlbuild.NewSelect(sqlbuild.MySQL).
//		From("users").
//		Columns("id", "name").
//		Where(sqlbuild.Eq(sqlbuild.Int("id", 7))).
//		OrderBy("name", "ASC").
//		Limit(10).
//		Build()
//
// yields
//
//	SELECT `id`, `name` FROM `users` WHERE `id` = 7 ORDER BY `name` ASC LIMIT 10
package sqlbuild

import "strings"

// Dialect selects identifier quoting and literal rendering rules.
type Dialect int

const (
	// MySQL quotes identifiers with backticks and escapes string
	// literals with both backslash and quote doubling.
	MySQL Dialect = iota
	// ANSI quotes identifiers with double quotes and escapes string
	// literals by quote doubling only. Suitable for PostgreSQL and
	// SQLite output.
	ANSI
)

func (d Dialect) String() string {
	if d == MySQL {
		return "mysql"
	}
	return "ansi"
}

// QuoteIdent quotes a single bare identifier, doubling any embedded
// quote character.
func (d Dialect) QuoteIdent(name string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString renders a single-quoted string literal with the dialect's
// escaping rules applied.
func (d Dialect) QuoteString(v string) string {
	if d == MySQL {
		v = strings.ReplaceAll(v, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Literal renders a Value as inline statement text. The type tag decides
// the treatment: string-ish and date-ish tags are quoted and escaped,
// numeric tags pass through verbatim, booleans render as 1/0 on MySQL
// and TRUE/FALSE on ANSI, raw expressions are emitted untouched, and
// null renders NULL regardless of tag.
func (d Dialect) Literal(v Value) string {
	if v.IsNull || v.Tag == TypeNull {
		return "NULL"
	}
	switch v.Tag {
	case TypeRaw:
		return v.Raw
	case TypeInt, TypeDecimal, TypeFloat:
		return v.Raw
	case TypeBool:
		return d.boolLiteral(v.Raw)
	default:
		// TypeString, TypeText, TypeDate, TypeDateTime, TypeTime and
		// any future quoted tag.
		return d.QuoteString(v.Raw)
	}
}

func (d Dialect) boolLiteral(raw string) string {
	truthy := false
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "y", "yes", "on":
		truthy = true
	case "0", "f", "false", "n", "no", "off", "":
		truthy = false
	default:
		// Unparseable booleans pass through; the caller owns the text.
		return raw
	}
	if d == MySQL {
		if truthy {
			return "1"
		}
		return "0"
	}
	if truthy {
		return "TRUE"
	}
	return "FALSE"
}

// quoteColumnExpr quotes s when it is a bare identifier and passes it
// through verbatim otherwise, so qualified names ("u.id"), stars and
// function calls survive untouched.
func quoteColumnExpr(d Dialect, s string) string {
	if isBareIdent(s) {
		return d.QuoteIdent(s)
	}
	return s
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
