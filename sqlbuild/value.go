package sqlbuild

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TypeTag is the closed set of value types the quoting switch understands.
type TypeTag int

const (
	TypeString TypeTag = iota
	TypeText
	TypeDate
	TypeDateTime
	TypeTime
	TypeInt
	TypeDecimal
	TypeFloat
	TypeBool
	TypeRaw
	TypeNull
)

var typeTagNames = map[TypeTag]string{
	TypeString:   "string",
	TypeText:     "text",
	TypeDate:     "date",
	TypeDateTime: "datetime",
	TypeTime:     "time",
	TypeInt:      "int",
	TypeDecimal:  "decimal",
	TypeFloat:    "float",
	TypeBool:     "bool",
	TypeRaw:      "raw",
	TypeNull:     "null",
}

func (t TypeTag) String() string {
	if name, ok := typeTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("typetag(%d)", int(t))
}

// ParseTypeTag parses the textual form produced by String.
func ParseTypeTag(s string) (TypeTag, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for tag, name := range typeTagNames {
		if name == want {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("sqlbuild: unknown type tag %q", s)
}

// Value is the recurring record of the builder family: a column name, a
// type tag, and the raw value text. Fields are set at construction and
// read back verbatim or passed through the dialect's quoting switch.
type Value struct {
	Column string
	Tag    TypeTag
	Raw    string
	IsNull bool
}

// Typed builds a Value from an already-stringified raw value.
func Typed(column string, tag TypeTag, raw string) Value {
	return Value{Column: column, Tag: tag, Raw: raw}
}

// String builds a quoted string value.
func String(column, v string) Value {
	return Value{Column: column, Tag: TypeString, Raw: v}
}

// Text builds a quoted long-text value.
func Text(column, v string) Value {
	return Value{Column: column, Tag: TypeText, Raw: v}
}

// Int builds an integer value.
func Int(column string, n int64) Value {
	return Value{Column: column, Tag: TypeInt, Raw: strconv.FormatInt(n, 10)}
}

// Float builds a floating point value.
func Float(column string, f float64) Value {
	return Value{Column: column, Tag: TypeFloat, Raw: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Decimal builds an exact numeric value from pre-formatted text, keeping
// the caller's precision intact.
func Decimal(column, v string) Value {
	return Value{Column: column, Tag: TypeDecimal, Raw: v}
}

// Bool builds a boolean value.
func Bool(column string, b bool) Value {
	raw := "false"
	if b {
		raw = "true"
	}
	return Value{Column: column, Tag: TypeBool, Raw: raw}
}

// Date builds a date value formatted as 2006-01-02.
func Date(column string, t time.Time) Value {
	return Value{Column: column, Tag: TypeDate, Raw: t.Format("2006-01-02")}
}

// DateTime builds a timestamp value formatted as 2006-01-02 15:04:05.
func DateTime(column string, t time.Time) Value {
	return Value{Column: column, Tag: TypeDateTime, Raw: t.Format("2006-01-02 15:04:05")}
}

// Time builds a time-of-day value formatted as 15:04:05.
func Time(column string, t time.Time) Value {
	return Value{Column: column, Tag: TypeTime, Raw: t.Format("15:04:05")}
}

// Raw builds a value whose text is emitted into the statement untouched,
// for expressions like NOW() or counter + 1.
func Raw(column, expr string) Value {
	return Value{Column: column, Tag: TypeRaw, Raw: expr}
}

// Null builds a SQL NULL for the given column.
func Null(column string) Value {
	return Value{Column: column, Tag: TypeNull, IsNull: true}
}
