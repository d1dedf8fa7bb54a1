// Package form provides keyed textinput fields and batch property operations
// across groups of them.
//
// A Group owns an ordered set of Fields and fans property changes out to all
// of them (or a keyed subset) in one call: disabling, widths, placeholders,
// resets, value snapshots. Focus management skips disabled fields so tab
// cycling always lands on an editable input.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbkit/dbkit/tui/theme"
)

// Field wraps a bubbles textinput with identity and validation metadata.
// The underlying widget stays exported so callers can reach past the wrapper
// when they need toolkit behavior the Group does not surface.
type Field struct {
	Key      string
	Label    string
	Input    textinput.Model
	Required bool
	Disabled bool
}

// Option configures a Field at construction.
type Option func(*Field)

// WithPlaceholder sets the placeholder text shown when the field is empty.
func WithPlaceholder(s string) Option {
	return func(f *Field) { f.Input.Placeholder = s }
}

// WithWidth sets the rendered width of the input area.
func WithWidth(w int) Option {
	return func(f *Field) { f.Input.Width = w }
}

// WithEchoPassword masks typed characters.
func WithEchoPassword() Option {
	return func(f *Field) {
		f.Input.EchoMode = textinput.EchoPassword
		f.Input.EchoCharacter = '•'
	}
}

// WithValue sets the initial value.
func WithValue(s string) Option {
	return func(f *Field) { f.Input.SetValue(s) }
}

// Required marks the field as required for MissingRequired.
func Required() Option {
	return func(f *Field) { f.Required = true }
}

// NewField creates a Field with the given identity and options applied.
func NewField(key, label string, opts ...Option) Field {
	f := Field{
		Key:   key,
		Label: label,
		Input: textinput.New(),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Group is an ordered collection of Fields with batch property operations
// and focus management.
type Group struct {
	fields []Field
	focus  int
}

// NewGroup creates a Group over the given fields. Labels are padded to a
// common width so the inputs line up; nothing is focused until Focus is
// called.
func NewGroup(fields ...Field) *Group {
	g := &Group{fields: fields, focus: -1}
	g.alignLabels()
	g.restyle()
	return g
}

// Len returns the number of fields.
func (g *Group) Len() int { return len(g.fields) }

// Field returns the field with the given key for direct widget access, or
// nil when no such key exists. The pointer stays valid until the Group is
// rebuilt.
func (g *Group) Field(key string) *Field {
	for i := range g.fields {
		if g.fields[i].Key == key {
			return &g.fields[i]
		}
	}
	return nil
}

// Keys returns the field keys in order.
func (g *Group) Keys() []string {
	keys := make([]string, len(g.fields))
	for i := range g.fields {
		keys[i] = g.fields[i].Key
	}
	return keys
}

// ---------------------------------------------------------------------------
// Batch property operations
// ---------------------------------------------------------------------------

// SetDisabled sets the disabled flag on the named fields, or on every field
// when no keys are given. Disabling the focused field moves focus to the
// next enabled one.
func (g *Group) SetDisabled(disabled bool, keys ...string) {
	for i := range g.fields {
		if !selected(keys, g.fields[i].Key) {
			continue
		}
		g.fields[i].Disabled = disabled
		if disabled {
			g.fields[i].Input.Blur()
		}
	}
	if g.focus >= 0 && g.focus < len(g.fields) && g.fields[g.focus].Disabled {
		g.Focus(g.focus + 1)
	}
	g.restyle()
}

// SetWidth sets the input width on the named fields, or on every field when
// no keys are given.
func (g *Group) SetWidth(w int, keys ...string) {
	for i := range g.fields {
		if selected(keys, g.fields[i].Key) {
			g.fields[i].Input.Width = w
		}
	}
}

// SetPlaceholder sets the placeholder text of the named field.
func (g *Group) SetPlaceholder(key, s string) {
	if f := g.Field(key); f != nil {
		f.Input.Placeholder = s
	}
}

// Reset clears the values of the named fields, or of every field when no
// keys are given.
func (g *Group) Reset(keys ...string) {
	for i := range g.fields {
		if selected(keys, g.fields[i].Key) {
			g.fields[i].Input.SetValue("")
		}
	}
}

// Values returns a key to value snapshot of every field.
func (g *Group) Values() map[string]string {
	vals := make(map[string]string, len(g.fields))
	for i := range g.fields {
		vals[g.fields[i].Key] = g.fields[i].Input.Value()
	}
	return vals
}

// SetValues sets field values from the map. Keys without a matching field
// are ignored; fields without a matching key keep their value.
func (g *Group) SetValues(vals map[string]string) {
	for i := range g.fields {
		if v, ok := vals[g.fields[i].Key]; ok {
			g.fields[i].Input.SetValue(v)
		}
	}
}

// Value returns the value of the named field, or "" when no such key exists.
func (g *Group) Value(key string) string {
	if f := g.Field(key); f != nil {
		return f.Input.Value()
	}
	return ""
}

// MissingRequired returns the labels of required fields that are empty.
// Disabled fields are skipped.
func (g *Group) MissingRequired() []string {
	var missing []string
	for i := range g.fields {
		f := &g.fields[i]
		if f.Required && !f.Disabled && strings.TrimSpace(f.Input.Value()) == "" {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

// ---------------------------------------------------------------------------
// Focus management
// ---------------------------------------------------------------------------

// Focus moves focus to the field at index i, scanning forward (with
// wraparound) past disabled fields. It returns the cursor blink command, or
// nil when no field can take focus.
func (g *Group) Focus(i int) tea.Cmd {
	n := len(g.fields)
	if n == 0 {
		return nil
	}
	i = ((i % n) + n) % n
	for off := 0; off < n; off++ {
		idx := (i + off) % n
		if g.fields[idx].Disabled {
			continue
		}
		return g.focusIndex(idx)
	}
	return nil
}

// FocusKey moves focus to the field with the given key.
func (g *Group) FocusKey(key string) tea.Cmd {
	for i := range g.fields {
		if g.fields[i].Key == key {
			return g.Focus(i)
		}
	}
	return nil
}

// Next moves focus to the next enabled field, wrapping around.
func (g *Group) Next() tea.Cmd {
	return g.Focus(g.focus + 1)
}

// Prev moves focus to the previous enabled field, wrapping around.
func (g *Group) Prev() tea.Cmd {
	n := len(g.fields)
	if n == 0 {
		return nil
	}
	for off := 1; off <= n; off++ {
		idx := ((g.focus-off)%n + n) % n
		if !g.fields[idx].Disabled {
			return g.focusIndex(idx)
		}
	}
	return nil
}

// Focused returns the index of the focused field, or -1 when none has focus.
func (g *Group) Focused() int { return g.focus }

// FocusedKey returns the key of the focused field, or "" when none has focus.
func (g *Group) FocusedKey() string {
	if g.focus < 0 || g.focus >= len(g.fields) {
		return ""
	}
	return g.fields[g.focus].Key
}

func (g *Group) focusIndex(idx int) tea.Cmd {
	for i := range g.fields {
		if i != idx {
			g.fields[i].Input.Blur()
		}
	}
	g.focus = idx
	g.fields[idx].Input.Focus()
	g.restyle()
	return textinput.Blink
}

// ---------------------------------------------------------------------------
// bubbletea plumbing
// ---------------------------------------------------------------------------

// Update handles navigation keys (tab/down forward, shift+tab/up backward)
// and routes everything else to the focused input.
func (g *Group) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return g.Next()
		case "shift+tab", "up":
			return g.Prev()
		}
	}

	if g.focus < 0 || g.focus >= len(g.fields) {
		return nil
	}
	var cmd tea.Cmd
	g.fields[g.focus].Input, cmd = g.fields[g.focus].Input.Update(msg)
	return cmd
}

// View renders the fields one per line with aligned labels. Disabled fields
// are dimmed through their prompt and text styles.
func (g *Group) View() string {
	var b strings.Builder
	for i := range g.fields {
		b.WriteString(g.fields[i].Input.View())
		if i < len(g.fields)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Blink returns the cursor blink command for use as the initial command of
// the enclosing bubbletea model.
func (g *Group) Blink() tea.Cmd {
	return textinput.Blink
}

// alignLabels right-aligns labels into each input's prompt so the inputs
// start at the same column.
func (g *Group) alignLabels() {
	maxLen := 0
	for i := range g.fields {
		if n := len(g.fields[i].Label); n > maxLen {
			maxLen = n
		}
	}
	for i := range g.fields {
		g.fields[i].Input.Prompt = fmt.Sprintf("%*s: ", maxLen, g.fields[i].Label)
	}
}

// restyle reapplies theme styles to every field according to its
// disabled/focused state.
func (g *Group) restyle() {
	th := theme.Current
	for i := range g.fields {
		f := &g.fields[i]
		switch {
		case f.Disabled:
			f.Input.PromptStyle = th.FormDisabled
			f.Input.TextStyle = th.FormDisabled
		case i == g.focus:
			f.Input.PromptStyle = th.FormFocused
			f.Input.TextStyle = th.FormFocused
		default:
			f.Input.PromptStyle = th.FormLabel
			f.Input.TextStyle = lipgloss.Style{}
		}
	}
}

// selected reports whether key is covered by the keys filter. An empty
// filter selects everything.
func selected(keys []string, key string) bool {
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
