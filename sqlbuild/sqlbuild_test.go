package sqlbuild

import (
	"testing"
)

func TestDialectString(t *testing.T) {
	if got := MySQL.String(); got != "mysql" {
		t.Errorf("MySQL.String() = %q, want %q", got, "mysql")
	}
	if got := ANSI.String(); got != "ansi" {
		t.Errorf("ANSI.String() = %q, want %q", got, "ansi")
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		input   string
		want    string
	}{
		{"mysql plain", MySQL, "users", "`users`"},
		{"mysql embedded backtick", MySQL, "odd`name", "`odd``name`"},
		{"mysql reserved word", MySQL, "order", "`order`"},
		{"ansi plain", ANSI, "users", `"users"`},
		{"ansi embedded quote", ANSI, `odd"name`, `"odd""name"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.QuoteIdent(tt.input); got != tt.want {
				t.Errorf("QuoteIdent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		input   string
		want    string
	}{
		{"mysql plain", MySQL, "hello", "'hello'"},
		{"mysql empty", MySQL, "", "''"},
		{"mysql single quote", MySQL, "O'Brien", "'O''Brien'"},
		{"mysql two quotes", MySQL, "a'b'c", "'a''b''c'"},
		{"mysql backslash", MySQL, `C:\tmp`, `'C:\\tmp'`},
		{"mysql backslash then quote", MySQL, `\'`, `'\\'''`},
		{"ansi plain", ANSI, "hello", "'hello'"},
		{"ansi single quote", ANSI, "O'Brien", "'O''Brien'"},
		{"ansi backslash untouched", ANSI, `C:\tmp`, `'C:\tmp'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.QuoteString(tt.input); got != tt.want {
				t.Errorf("QuoteString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		value   Value
		want    string
	}{
		{"string quoted", MySQL, String("name", "bob"), "'bob'"},
		{"string escaped", MySQL, String("name", "it's"), "'it''s'"},
		{"text quoted", MySQL, Text("body", "line"), "'line'"},
		{"int verbatim", MySQL, Int("id", 42), "42"},
		{"negative int", MySQL, Int("id", -7), "-7"},
		{"float verbatim", MySQL, Float("score", 1.5), "1.5"},
		{"decimal verbatim", MySQL, Decimal("price", "19.990"), "19.990"},
		{"bool true mysql", MySQL, Bool("active", true), "1"},
		{"bool false mysql", MySQL, Bool("active", false), "0"},
		{"bool true ansi", ANSI, Bool("active", true), "TRUE"},
		{"bool false ansi", ANSI, Bool("active", false), "FALSE"},
		{"raw verbatim", MySQL, Raw("created_at", "NOW()"), "NOW()"},
		{"null", MySQL, Null("deleted_at"), "NULL"},
		{"typed null tag", MySQL, Typed("x", TypeNull, "ignored"), "NULL"},
		{"date quoted", MySQL, Typed("d", TypeDate, "2024-05-01"), "'2024-05-01'"},
		{"datetime quoted", MySQL, Typed("d", TypeDateTime, "2024-05-01 10:30:00"), "'2024-05-01 10:30:00'"},
		{"time quoted", MySQL, Typed("d", TypeTime, "10:30:00"), "'10:30:00'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Literal(tt.value); got != tt.want {
				t.Errorf("Literal(%+v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestBoolLiteralText(t *testing.T) {
	// Textual booleans from Typed() normalize per dialect; unparseable
	// text passes through untouched.
	tests := []struct {
		name    string
		dialect Dialect
		raw     string
		want    string
	}{
		{"yes mysql", MySQL, "yes", "1"},
		{"no mysql", MySQL, "no", "0"},
		{"t ansi", ANSI, "t", "TRUE"},
		{"off ansi", ANSI, "off", "FALSE"},
		{"mixed case", MySQL, "True", "1"},
		{"empty is false", MySQL, "", "0"},
		{"unparseable passthrough", MySQL, "maybe", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dialect.Literal(Typed("flag", TypeBool, tt.raw))
			if got != tt.want {
				t.Errorf("Literal(bool %q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestQuoteColumnExpr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare ident quoted", "name", "`name`"},
		{"underscore ident quoted", "created_at", "`created_at`"},
		{"qualified passthrough", "u.id", "u.id"},
		{"star passthrough", "*", "*"},
		{"function passthrough", "COUNT(*)", "COUNT(*)"},
		{"leading digit passthrough", "1name", "1name"},
		{"empty passthrough", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteColumnExpr(MySQL, tt.input); got != tt.want {
				t.Errorf("quoteColumnExpr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTypeTagRoundTrip(t *testing.T) {
	tags := []TypeTag{
		TypeString, TypeText, TypeDate, TypeDateTime, TypeTime,
		TypeInt, TypeDecimal, TypeFloat, TypeBool, TypeRaw, TypeNull,
	}
	for _, tag := range tags {
		got, err := ParseTypeTag(tag.String())
		if err != nil {
			t.Fatalf("ParseTypeTag(%q) error = %v", tag.String(), err)
		}
		if got != tag {
			t.Errorf("ParseTypeTag(%q) = %v, want %v", tag.String(), got, tag)
		}
	}
}

func TestParseTypeTagUnknown(t *testing.T) {
	if _, err := ParseTypeTag("blob"); err == nil {
		t.Error("ParseTypeTag(\"blob\") expected error, got nil")
	}
}
