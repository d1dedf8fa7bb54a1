package form

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestGroup() *Group {
	return NewGroup(
		NewField("name", "Name", Required()),
		NewField("driver", "Driver", Required(), WithPlaceholder("postgres|mysql|sqlite")),
		NewField("host", "Host", WithPlaceholder("localhost")),
		NewField("port", "Port", WithWidth(6)),
		NewField("password", "Password", WithEchoPassword()),
	)
}

func TestNewField(t *testing.T) {
	f := NewField("user", "User",
		WithPlaceholder("admin"),
		WithWidth(20),
		WithValue("root"),
		Required(),
	)

	if f.Key != "user" {
		t.Errorf("Key = %q, want %q", f.Key, "user")
	}
	if f.Label != "User" {
		t.Errorf("Label = %q, want %q", f.Label, "User")
	}
	if f.Input.Placeholder != "admin" {
		t.Errorf("Placeholder = %q, want %q", f.Input.Placeholder, "admin")
	}
	if f.Input.Width != 20 {
		t.Errorf("Width = %d, want 20", f.Input.Width)
	}
	if f.Input.Value() != "root" {
		t.Errorf("Value = %q, want %q", f.Input.Value(), "root")
	}
	if !f.Required {
		t.Error("Required = false, want true")
	}
	if f.Disabled {
		t.Error("Disabled = true for new field, want false")
	}
}

func TestWithEchoPassword(t *testing.T) {
	f := NewField("password", "Password", WithEchoPassword())
	if f.Input.EchoMode != textinput.EchoPassword {
		t.Errorf("EchoMode = %v, want EchoPassword", f.Input.EchoMode)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	g := newTestGroup()

	in := map[string]string{
		"name":   "prod",
		"driver": "postgres",
		"host":   "db.internal",
		"port":   "5432",
	}
	g.SetValues(in)

	if got := g.Value("name"); got != "prod" {
		t.Errorf("Value(name) = %q, want %q", got, "prod")
	}
	if got := g.Value("port"); got != "5432" {
		t.Errorf("Value(port) = %q, want %q", got, "5432")
	}
	if got := g.Value("nonexistent"); got != "" {
		t.Errorf("Value(nonexistent) = %q, want empty", got)
	}

	want := map[string]string{
		"name":     "prod",
		"driver":   "postgres",
		"host":     "db.internal",
		"port":     "5432",
		"password": "",
	}
	if got := g.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestSetValuesIgnoresUnknownKeys(t *testing.T) {
	g := newTestGroup()
	g.SetValues(map[string]string{"name": "x", "bogus": "y"})

	if got := g.Value("name"); got != "x" {
		t.Errorf("Value(name) = %q, want %q", got, "x")
	}
	if g.Field("bogus") != nil {
		t.Error("Field(bogus) != nil, want nil")
	}
}

func TestSetDisabledAll(t *testing.T) {
	g := newTestGroup()
	g.SetDisabled(true)

	for _, key := range g.Keys() {
		if !g.Field(key).Disabled {
			t.Errorf("field %q not disabled after SetDisabled(true)", key)
		}
	}

	g.SetDisabled(false)
	for _, key := range g.Keys() {
		if g.Field(key).Disabled {
			t.Errorf("field %q still disabled after SetDisabled(false)", key)
		}
	}
}

func TestSetDisabledSubset(t *testing.T) {
	g := newTestGroup()
	g.SetDisabled(true, "host", "port")

	if !g.Field("host").Disabled {
		t.Error("host not disabled")
	}
	if !g.Field("port").Disabled {
		t.Error("port not disabled")
	}
	if g.Field("name").Disabled {
		t.Error("name disabled, want enabled")
	}
	if g.Field("password").Disabled {
		t.Error("password disabled, want enabled")
	}
}

func TestSetDisabledMovesFocus(t *testing.T) {
	g := newTestGroup()
	g.Focus(1) // driver

	g.SetDisabled(true, "driver")

	if got := g.FocusedKey(); got != "host" {
		t.Errorf("FocusedKey() = %q after disabling focused field, want %q", got, "host")
	}
}

func TestSetWidthAll(t *testing.T) {
	g := newTestGroup()
	g.SetWidth(30)

	for _, key := range g.Keys() {
		if w := g.Field(key).Input.Width; w != 30 {
			t.Errorf("field %q width = %d, want 30", key, w)
		}
	}
}

func TestSetWidthSubset(t *testing.T) {
	g := newTestGroup()
	g.SetWidth(30)
	g.SetWidth(8, "port")

	if w := g.Field("port").Input.Width; w != 8 {
		t.Errorf("port width = %d, want 8", w)
	}
	if w := g.Field("name").Input.Width; w != 30 {
		t.Errorf("name width = %d, want 30", w)
	}
}

func TestSetPlaceholder(t *testing.T) {
	g := newTestGroup()
	g.SetPlaceholder("host", "db.example.com")

	if got := g.Field("host").Input.Placeholder; got != "db.example.com" {
		t.Errorf("host placeholder = %q, want %q", got, "db.example.com")
	}
	// Unknown key is a no-op, not a panic.
	g.SetPlaceholder("bogus", "x")
}

func TestResetAll(t *testing.T) {
	g := newTestGroup()
	g.SetValues(map[string]string{"name": "a", "driver": "b", "host": "c"})
	g.Reset()

	for _, key := range g.Keys() {
		if v := g.Value(key); v != "" {
			t.Errorf("field %q = %q after Reset(), want empty", key, v)
		}
	}
}

func TestResetSubset(t *testing.T) {
	g := newTestGroup()
	g.SetValues(map[string]string{"name": "a", "driver": "b"})
	g.Reset("driver")

	if got := g.Value("driver"); got != "" {
		t.Errorf("driver = %q after Reset(driver), want empty", got)
	}
	if got := g.Value("name"); got != "a" {
		t.Errorf("name = %q, want %q", got, "a")
	}
}

func TestFocusCyclingSkipsDisabled(t *testing.T) {
	g := NewGroup(
		NewField("a", "A"),
		NewField("b", "B"),
		NewField("c", "C"),
	)
	g.SetDisabled(true, "b")

	if cmd := g.Focus(0); cmd == nil {
		t.Fatal("Focus(0) returned nil cmd")
	}
	if got := g.FocusedKey(); got != "a" {
		t.Fatalf("FocusedKey() = %q, want %q", got, "a")
	}

	g.Next()
	if got := g.FocusedKey(); got != "c" {
		t.Errorf("after Next: FocusedKey() = %q, want %q (b is disabled)", got, "c")
	}

	g.Next()
	if got := g.FocusedKey(); got != "a" {
		t.Errorf("after wrap: FocusedKey() = %q, want %q", got, "a")
	}

	g.Prev()
	if got := g.FocusedKey(); got != "c" {
		t.Errorf("after Prev: FocusedKey() = %q, want %q (b is disabled)", got, "c")
	}
}

func TestFocusOnDisabledAdvances(t *testing.T) {
	g := NewGroup(
		NewField("a", "A"),
		NewField("b", "B"),
		NewField("c", "C"),
	)
	g.SetDisabled(true, "a")

	g.Focus(0)
	if got := g.FocusedKey(); got != "b" {
		t.Errorf("Focus(0) with a disabled: FocusedKey() = %q, want %q", got, "b")
	}
}

func TestFocusAllDisabled(t *testing.T) {
	g := NewGroup(NewField("a", "A"), NewField("b", "B"))
	g.SetDisabled(true)

	if cmd := g.Focus(0); cmd != nil {
		t.Error("Focus(0) with all fields disabled returned non-nil cmd")
	}
	if got := g.Focused(); got != -1 {
		t.Errorf("Focused() = %d, want -1", got)
	}
}

func TestFocusKey(t *testing.T) {
	g := newTestGroup()

	if cmd := g.FocusKey("host"); cmd == nil {
		t.Fatal("FocusKey(host) returned nil cmd")
	}
	if got := g.FocusedKey(); got != "host" {
		t.Errorf("FocusedKey() = %q, want %q", got, "host")
	}

	if cmd := g.FocusKey("bogus"); cmd != nil {
		t.Error("FocusKey(bogus) returned non-nil cmd")
	}
}

func TestMissingRequired(t *testing.T) {
	g := newTestGroup()

	missing := g.MissingRequired()
	want := []string{"Name", "Driver"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingRequired() = %v, want %v", missing, want)
	}

	g.SetValues(map[string]string{"name": "prod"})
	missing = g.MissingRequired()
	want = []string{"Driver"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingRequired() after set = %v, want %v", missing, want)
	}

	// Whitespace-only values still count as missing.
	g.SetValues(map[string]string{"driver": "   "})
	if missing := g.MissingRequired(); len(missing) != 1 {
		t.Errorf("MissingRequired() with blank value = %v, want 1 entry", missing)
	}

	// Disabled required fields are skipped.
	g.SetDisabled(true, "driver")
	if missing := g.MissingRequired(); len(missing) != 0 {
		t.Errorf("MissingRequired() with driver disabled = %v, want none", missing)
	}
}

func TestUpdateTyping(t *testing.T) {
	g := newTestGroup()
	g.Focus(0)

	g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("dev")})

	if got := g.Value("name"); got != "dev" {
		t.Errorf("Value(name) after typing = %q, want %q", got, "dev")
	}
	// Other fields untouched.
	if got := g.Value("driver"); got != "" {
		t.Errorf("Value(driver) = %q, want empty", got)
	}
}

func TestUpdateNavigationKeys(t *testing.T) {
	g := NewGroup(NewField("a", "A"), NewField("b", "B"), NewField("c", "C"))
	g.Focus(0)

	g.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := g.FocusedKey(); got != "b" {
		t.Errorf("after tab: FocusedKey() = %q, want %q", got, "b")
	}

	g.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := g.FocusedKey(); got != "a" {
		t.Errorf("after shift+tab: FocusedKey() = %q, want %q", got, "a")
	}

	g.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := g.FocusedKey(); got != "b" {
		t.Errorf("after down: FocusedKey() = %q, want %q", got, "b")
	}

	g.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := g.FocusedKey(); got != "a" {
		t.Errorf("after up: FocusedKey() = %q, want %q", got, "a")
	}
}

func TestUpdateWithoutFocusIsNoOp(t *testing.T) {
	g := newTestGroup()

	// No field focused yet: typing goes nowhere.
	g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	for _, key := range g.Keys() {
		if v := g.Value(key); v != "" {
			t.Errorf("field %q = %q after unfocused typing, want empty", key, v)
		}
	}
}

func TestViewAlignsLabels(t *testing.T) {
	g := newTestGroup()
	g.Focus(0)

	view := g.View()
	lines := strings.Split(view, "\n")
	if len(lines) != g.Len() {
		t.Fatalf("View() has %d lines, want %d", len(lines), g.Len())
	}

	// Labels are right-aligned, so the colon sits at the same column on
	// every line ("Password" is the longest label).
	wantCol := len("Password")
	for i, line := range lines {
		if got := strings.Index(line, ":"); got != wantCol {
			t.Errorf("line %d colon at column %d, want %d: %q", i, got, wantCol, line)
		}
	}
}

func TestBlink(t *testing.T) {
	g := newTestGroup()
	if g.Blink() == nil {
		t.Error("Blink() returned nil")
	}
}
