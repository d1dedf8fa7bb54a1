package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbkit/dbkit/tui/form"
	"github.com/dbkit/dbkit/tui/theme"
)

var errAborted = errors.New("aborted")

// stdinIsTerminal reports whether stdin is attached to a terminal.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// readLine reads one line from stdin, for prompts running without a
// terminal (piped input).
func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassphrase asks for a passphrase without echoing. Without a terminal
// it falls back to reading a line from stdin.
func readPassphrase(label string) (string, error) {
	if !stdinIsTerminal() {
		return readLine()
	}

	g := form.NewGroup(
		form.NewField("passphrase", label, form.WithEchoPassword(), form.Required()),
	)
	ok, err := runForm("", g)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errAborted
	}
	return g.Value("passphrase"), nil
}

// confirmPassphrase asks for a new passphrase twice and checks the entries
// match. Without a terminal it reads a single line from stdin.
func confirmPassphrase() (string, error) {
	if !stdinIsTerminal() {
		return readLine()
	}

	g := form.NewGroup(
		form.NewField("pass", "Passphrase", form.WithEchoPassword(), form.Required()),
		form.NewField("confirm", "Confirm", form.WithEchoPassword(), form.Required()),
	)
	ok, err := runForm("Choose a passphrase", g)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errAborted
	}
	if g.Value("pass") != g.Value("confirm") {
		return "", fmt.Errorf("passphrases do not match")
	}
	return g.Value("pass"), nil
}

// formModel drives a form.Group as a standalone bubbletea program. Enter
// advances through the fields and submits on the last one; esc cancels.
type formModel struct {
	title     string
	group     *form.Group
	missing   []string
	submitted bool
	aborted   bool
}

func (m formModel) Init() tea.Cmd {
	return m.group.Focus(0)
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.group.Focused() == m.group.Len()-1 {
				if missing := m.group.MissingRequired(); len(missing) > 0 {
					m.missing = missing
					return m, nil
				}
				m.submitted = true
				return m, tea.Quit
			}
			return m, m.group.Next()
		}
		m.missing = nil
	}
	return m, m.group.Update(msg)
}

func (m formModel) View() string {
	if m.submitted || m.aborted {
		return ""
	}

	th := theme.Current
	var b strings.Builder
	if m.title != "" {
		b.WriteString(th.FormTitle.Render(m.title))
		b.WriteString("\n\n")
	}
	b.WriteString(m.group.View())
	b.WriteString("\n\n")
	if len(m.missing) > 0 {
		b.WriteString(th.WarningText.Render("Required: " + strings.Join(m.missing, ", ")))
		b.WriteString("\n")
	}
	b.WriteString(th.FormHelp.Render("  enter:next  tab:move  esc:cancel"))
	b.WriteString("\n")
	return b.String()
}

// runForm runs the group as an interactive form and reports whether it was
// submitted (false when the user cancelled).
func runForm(title string, g *form.Group) (bool, error) {
	final, err := tea.NewProgram(formModel{title: title, group: g}).Run()
	if err != nil {
		return false, fmt.Errorf("run form: %w", err)
	}
	m, ok := final.(formModel)
	if !ok {
		return false, nil
	}
	return m.submitted, nil
}
