// Package picker provides a fuzzy-filtered selection list for picking one
// item from a set, such as a saved connection by name.
package picker

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/dbkit/dbkit/tui/theme"
)

const maxVisible = 10

// Item is a selectable entry. Label is what filtering matches against;
// Detail is shown dimmed next to it.
type Item struct {
	Label  string
	Detail string
}

// Model is the picker. It implements tea.Model and quits on Enter or Esc;
// inspect Choice after the program finishes.
type Model struct {
	title     string
	items     []Item
	filtered  []int // indexes into items, in rank order
	query     string
	cursor    int
	chosen    int // index into items, -1 until Enter
	cancelled bool
}

// New creates a picker over the given items with an optional title line.
func New(title string, items []Item) Model {
	m := Model{
		title:  title,
		items:  items,
		chosen: -1,
	}
	m.filter()
	return m
}

// Init returns no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles filtering keystrokes and selection.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.filtered) {
				m.chosen = m.filtered[m.cursor]
			}
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "backspace":
			if len(m.query) > 0 {
				m.query = m.query[:len(m.query)-1]
				m.filter()
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.query += string(msg.Runes)
				m.filter()
			}
		}
	}
	return m, nil
}

// View renders the query line and the filtered items, highlighting the
// cursor row.
func (m Model) View() string {
	th := theme.Current

	var b strings.Builder
	if m.title != "" {
		b.WriteString(th.FormTitle.Render(m.title))
		b.WriteByte('\n')
	}
	b.WriteString("> " + m.query)
	b.WriteByte('\n')

	if len(m.filtered) == 0 {
		b.WriteString(th.MutedText.Render("  (no matches)"))
		b.WriteByte('\n')
		return b.String()
	}

	visible := m.filtered
	offset := 0
	if len(visible) > maxVisible {
		if m.cursor >= maxVisible {
			offset = m.cursor - maxVisible + 1
		}
		end := offset + maxVisible
		if end > len(visible) {
			end = len(visible)
		}
		visible = visible[offset:end]
	}

	for i, idx := range visible {
		item := m.items[idx]
		label := item.Label
		if item.Detail != "" {
			label += "  " + th.MutedText.Render(item.Detail)
		}
		if offset+i == m.cursor {
			b.WriteString(th.PickerSelected.Render(label))
		} else {
			b.WriteString(th.PickerItem.Render(label))
		}
		b.WriteByte('\n')
	}

	b.WriteString(th.MutedText.Render("  type to filter  enter:select  esc:cancel"))
	b.WriteByte('\n')
	return b.String()
}

// Choice returns the selected item. The second return value is false when
// the picker was cancelled or nothing matched.
func (m Model) Choice() (Item, bool) {
	if m.cancelled || m.chosen < 0 || m.chosen >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.chosen], true
}

// Cancelled reports whether the picker was dismissed without a selection.
func (m Model) Cancelled() bool { return m.cancelled }

// Query returns the current filter text.
func (m Model) Query() string { return m.query }

// itemLabels implements fuzzy.Source over the item labels.
type itemLabels []Item

func (s itemLabels) String(i int) string { return s[i].Label }
func (s itemLabels) Len() int            { return len(s) }

// filter recomputes the filtered index list for the current query. Matching
// is case-insensitive; results are ranked by fuzzy score.
func (m *Model) filter() {
	m.cursor = 0

	if m.query == "" {
		m.filtered = make([]int, len(m.items))
		for i := range m.items {
			m.filtered[i] = i
		}
		return
	}

	lower := make(itemLabels, len(m.items))
	for i, item := range m.items {
		lower[i] = Item{Label: strings.ToLower(item.Label)}
	}

	matches := fuzzy.FindFrom(strings.ToLower(m.query), lower)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	m.filtered = m.filtered[:0]
	for _, match := range matches {
		m.filtered = append(m.filtered, match.Index)
	}
}
