package sqlbuild

import (
	"testing"
	"time"
)

func TestValueConstructors(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		value   Value
		wantTag TypeTag
		wantRaw string
	}{
		{"string", String("name", "bob"), TypeString, "bob"},
		{"text", Text("body", "long"), TypeText, "long"},
		{"int", Int("id", 42), TypeInt, "42"},
		{"negative int", Int("id", -1), TypeInt, "-1"},
		{"float", Float("score", 2.25), TypeFloat, "2.25"},
		{"decimal", Decimal("price", "19.990"), TypeDecimal, "19.990"},
		{"bool true", Bool("active", true), TypeBool, "true"},
		{"bool false", Bool("active", false), TypeBool, "false"},
		{"date", Date("d", ts), TypeDate, "2024-05-01"},
		{"datetime", DateTime("d", ts), TypeDateTime, "2024-05-01 10:30:45"},
		{"time", Time("d", ts), TypeTime, "10:30:45"},
		{"raw", Raw("c", "NOW()"), TypeRaw, "NOW()"},
		{"typed", Typed("c", TypeDecimal, "0.10"), TypeDecimal, "0.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Tag != tt.wantTag {
				t.Errorf("Tag = %v, want %v", tt.value.Tag, tt.wantTag)
			}
			if tt.value.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", tt.value.Raw, tt.wantRaw)
			}
			if tt.value.IsNull {
				t.Error("IsNull = true, want false")
			}
		})
	}
}

func TestNullValue(t *testing.T) {
	v := Null("deleted_at")
	if !v.IsNull {
		t.Error("Null() IsNull = false, want true")
	}
	if v.Tag != TypeNull {
		t.Errorf("Null() Tag = %v, want %v", v.Tag, TypeNull)
	}
	if v.Column != "deleted_at" {
		t.Errorf("Null() Column = %q, want %q", v.Column, "deleted_at")
	}
}
