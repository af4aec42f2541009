package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func threeItems() []ListItem {
	return []ListItem{
		{ID: "1", Label: "anthropic"},
		{ID: "2", Label: "deepseek"},
		{ID: "3", Label: "openrouter"},
	}
}

func TestListNavigationClamps(t *testing.T) {
	l := NewListModel()
	l.SetItems(threeItems())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "1", sel.ID)

	for i := 0; i < 5; i++ {
		l.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	sel, _ = l.Selected()
	assert.Equal(t, "3", sel.ID)
}

func TestListFuzzyFilter(t *testing.T) {
	l := NewListModel()
	l.SetItems(threeItems())

	assert.True(t, l.Update(keyRunes("/")))
	assert.True(t, l.Filtering())

	l.Update(keyRunes("deep"))
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "2", sel.ID)

	// Enter keeps the filter applied but stops capturing input.
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, l.Filtering())
	sel, _ = l.Selected()
	assert.Equal(t, "2", sel.ID)
}

func TestListFilterEscClears(t *testing.T) {
	l := NewListModel()
	l.SetItems(threeItems())

	l.Update(keyRunes("/"))
	l.Update(keyRunes("zzz"))
	_, ok := l.Selected()
	assert.False(t, ok)

	l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, l.Filtering())
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "1", sel.ID)
}

func TestListSelectID(t *testing.T) {
	l := NewListModel()
	l.SetItems(threeItems())

	l.SelectID("3")
	sel, _ := l.Selected()
	assert.Equal(t, "3", sel.ID)

	// Unknown ids leave the cursor alone.
	l.SelectID("nope")
	sel, _ = l.Selected()
	assert.Equal(t, "3", sel.ID)
}

func TestListSetItemsReclamps(t *testing.T) {
	l := NewListModel()
	l.SetItems(threeItems())
	l.SelectID("3")

	l.SetItems(threeItems()[:1])
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "1", sel.ID)
}
