package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"ccswitch/internal/strutil"
)

// ListItem is one row of a ListModel. Label is what the filter matches
// against; Detail is rendered dimmed to the right.
type ListItem struct {
	ID     string
	Label  string
	Detail string
	Badge  string
}

// ListModel is the shared cursor/filter list used by every record screen.
// Filtering is fuzzy; while the filter prompt is open, printable keys edit
// the query and navigation keys work on the filtered view.
type ListModel struct {
	items  []ListItem
	cursor int

	filtering bool
	query     string
	matches   []int

	width  int
	height int
}

// NewListModel builds an empty list.
func NewListModel() ListModel {
	return ListModel{}
}

// SetItems replaces the rows, clamping the cursor and re-running the
// active filter.
func (l *ListModel) SetItems(items []ListItem) {
	l.items = items
	l.refilter()
	l.clamp()
}

// SetSize adjusts the rendered dimensions.
func (l *ListModel) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Filtering reports whether the filter prompt is capturing input.
func (l *ListModel) Filtering() bool { return l.filtering }

// Selected returns the item under the cursor, or ok=false for an empty
// (or fully filtered out) list.
func (l *ListModel) Selected() (ListItem, bool) {
	vis := l.visible()
	if len(vis) == 0 || l.cursor >= len(vis) {
		return ListItem{}, false
	}
	return vis[l.cursor], true
}

// SelectID moves the cursor onto the item with the given id, if visible.
func (l *ListModel) SelectID(id string) {
	for i, item := range l.visible() {
		if item.ID == id {
			l.cursor = i
			return
		}
	}
}

// Update handles navigation and filter editing. It reports whether the
// key was consumed.
func (l *ListModel) Update(msg tea.KeyMsg) bool {
	if l.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			l.filtering = false
			l.query = ""
			l.refilter()
			return true
		case tea.KeyEnter:
			l.filtering = false
			return true
		case tea.KeyBackspace:
			if l.query != "" {
				runes := []rune(l.query)
				l.query = string(runes[:len(runes)-1])
				l.refilter()
			}
			return true
		case tea.KeyRunes:
			l.query += string(msg.Runes)
			l.refilter()
			return true
		case tea.KeySpace:
			l.query += " "
			l.refilter()
			return true
		}
		// Navigation keys fall through so arrows work while filtering.
	}

	switch {
	case key.Matches(msg, Keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
		return true
	case key.Matches(msg, Keys.Down):
		if l.cursor < len(l.visible())-1 {
			l.cursor++
		}
		return true
	case key.Matches(msg, Keys.Filter) && !l.filtering:
		l.filtering = true
		l.query = ""
		l.refilter()
		return true
	}
	return false
}

// View renders the list rows plus the filter prompt when active.
func (l *ListModel) View() string {
	styles := GetStyles()
	var sb strings.Builder

	if l.filtering || l.query != "" {
		sb.WriteString(styles.FieldLabel.Render("filter: ") + l.query + "\n")
	}

	vis := l.visible()
	if len(vis) == 0 {
		sb.WriteString(styles.ItemDim.Render("  (no entries)"))
		return sb.String()
	}

	labelWidth := 0
	for _, item := range vis {
		if w := runewidth.StringWidth(item.Label); w > labelWidth {
			labelWidth = w
		}
	}

	for i, item := range vis {
		marker := "  "
		style := styles.ItemNormal
		if i == l.cursor {
			marker = "> "
			style = styles.ItemSelected
		}
		line := marker + runewidth.FillRight(item.Label, labelWidth)
		if item.Badge != "" {
			line += "  " + item.Badge
		}
		sb.WriteString(style.Render(line))
		if item.Detail != "" {
			detail := item.Detail
			if l.width > 0 {
				remaining := l.width - runewidth.StringWidth(line) - 2
				detail = strutil.Limit(detail, remaining)
			}
			sb.WriteString("  " + styles.ItemDim.Render(detail))
		}
		if i < len(vis)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (l *ListModel) visible() []ListItem {
	if l.query == "" {
		return l.items
	}
	out := make([]ListItem, 0, len(l.matches))
	for _, idx := range l.matches {
		out = append(out, l.items[idx])
	}
	return out
}

func (l *ListModel) refilter() {
	if l.query == "" {
		l.matches = nil
		l.clamp()
		return
	}
	labels := make([]string, len(l.items))
	for i, item := range l.items {
		labels[i] = item.Label
	}
	results := fuzzy.Find(l.query, labels)
	l.matches = make([]int, len(results))
	for i, r := range results {
		l.matches[i] = r.Index
	}
	l.clamp()
}

func (l *ListModel) clamp() {
	if n := len(l.visible()); l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}
