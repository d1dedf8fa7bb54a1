// Package theme provides a centralized styling system for dbkit's terminal
// output. Every visual element references a lipgloss.Style held in a Theme
// struct so that the entire look-and-feel can be swapped at runtime.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds lipgloss.Style values for every styled element.
type Theme struct {
	Name string

	// SQL syntax highlighting
	SQLKeyword  lipgloss.Style
	SQLString   lipgloss.Style
	SQLNumber   lipgloss.Style
	SQLComment  lipgloss.Style
	SQLOperator lipgloss.Style
	SQLFunction lipgloss.Style
	SQLType     lipgloss.Style

	// Forms
	FormTitle    lipgloss.Style
	FormLabel    lipgloss.Style
	FormFocused  lipgloss.Style
	FormDisabled lipgloss.Style
	FormHelp     lipgloss.Style

	// Results table
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Style
	TableNull   lipgloss.Style

	// Picker
	PickerItem     lipgloss.Style
	PickerSelected lipgloss.Style

	// General
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	MutedText   lipgloss.Style
}

// ---------------------------------------------------------------------------
// Theme definitions
// ---------------------------------------------------------------------------

// newDefaultTheme builds the Default dark theme.
func newDefaultTheme() *Theme {
	return &Theme{
		Name: "default",

		// SQL syntax highlighting
		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CE9178")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B5CEA8")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6A9955")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DCDCAA")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4EC9B0")),

		// Forms
		FormTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		FormLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CDCFE")),
		FormFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")),
		FormDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585858")),
		FormHelp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),

		// Results table
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		TableCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		TableBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3C3C3C")),
		TableNull: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#808080")),

		// Picker
		PickerItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")).
			PaddingLeft(2),
		PickerSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#264F78")).
			PaddingLeft(2),

		// General
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F44747")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6A9955")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCA700")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),
	}
}

// newLightTheme builds the Light theme suitable for light terminal backgrounds.
func newLightTheme() *Theme {
	return &Theme{
		Name: "light",

		// SQL syntax highlighting
		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000FF")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A31515")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#098658")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#008000")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#795E26")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#267F99")),

		// Forms
		FormTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0451A5")),
		FormLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#001080")),
		FormFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E1E")),
		FormDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0")),
		FormHelp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),

		// Results table
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0451A5")),
		TableCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")),
		TableBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		TableNull: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#A0A0A0")),

		// Picker
		PickerItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")).
			PaddingLeft(2),
		PickerSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0060C0")).
			PaddingLeft(2),

		// General
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E51400")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16825D")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BF8803")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),
	}
}

// ---------------------------------------------------------------------------
// Registry and accessors
// ---------------------------------------------------------------------------

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": newDefaultTheme(),
	"light":   newLightTheme(),
}

// Current is the currently active theme. It is initialized to Default.
var Current = Themes["default"]

// Default returns the default dark theme.
func Default() *Theme {
	return Themes["default"]
}

// Get returns the theme identified by name. If no theme with that name exists
// it falls back to the default theme.
func Get(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Default()
}
