package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsweep/internal/project"
	"devsweep/internal/scan"
)

func testCandidates() []scan.Candidate {
	return []scan.Candidate{
		{Path: "/w/a/node_modules", Type: project.Node, Size: 300},
		{Path: "/w/b/node_modules", Type: project.Node, Size: 100},
		{Path: "/w/c/target", Type: project.Rust, Size: 200},
	}
}

// loaded returns a model that has already received its scan results.
func loaded(t *testing.T) Model {
	t.Helper()
	m := New("/w", nil)
	next, _ := m.Update(scanDoneMsg{candidates: testCandidates()})
	out, ok := next.(Model)
	require.True(t, ok)
	require.Equal(t, phaseChoosing, out.phase)
	return out
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBuildGroupsCanonicalOrder(t *testing.T) {
	groups := buildGroups(testCandidates())

	require.Len(t, groups, 2)
	assert.Equal(t, project.Rust, groups[0].Type)
	assert.Equal(t, project.Node, groups[1].Type)
	assert.Len(t, groups[1].Items, 2)
	assert.Equal(t, int64(200), groups[0].TotalSize())
	assert.Equal(t, int64(400), groups[1].TotalSize())

	for _, g := range groups {
		assert.True(t, g.allSelected(), "everything starts selected")
	}
}

func TestSelectionDefaultsToEverything(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.False(t, m.Cancelled())
	assert.Len(t, m.Selection(), 3)
}

func TestToggleItemAndGroup(t *testing.T) {
	m := loaded(t)

	// Cursor starts on the Rust group header; toggling it deselects
	// the whole group.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	assert.True(t, m.groups[0].noneSelected())

	// Down to the Rust item, re-select it.
	next, _ = m.Update(keyRune('j'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	assert.True(t, m.groups[0].allSelected())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Len(t, m.Selection(), 3)
}

func TestCollapseSkipsItems(t *testing.T) {
	m := loaded(t)
	require.Equal(t, 5, m.totalLines(), "2 headers + 3 items")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.True(t, m.groups[0].Collapsed)
	assert.Equal(t, 4, m.totalLines())

	// Down from the collapsed header lands on the next group header.
	next, _ = m.Update(keyRune('j'))
	m = next.(Model)
	gi, _, header := m.cursorPosition()
	assert.True(t, header)
	assert.Equal(t, 1, gi)
}

func TestCursorBounds(t *testing.T) {
	m := loaded(t)

	next, _ := m.Update(keyRune('k'))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor, "cannot move above the first line")

	for i := 0; i < 10; i++ {
		next, _ = m.Update(keyRune('j'))
		m = next.(Model)
	}
	assert.Equal(t, m.totalLines()-1, m.cursor, "cannot move past the last line")
}

func TestCancelReturnsNoSelection(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.True(t, m.Cancelled())
	assert.Nil(t, m.Selection())
}

func TestScanErrorSurfaces(t *testing.T) {
	m := New("/w", nil)
	next, _ := m.Update(scanDoneMsg{err: assert.AnError})
	m = next.(Model)

	assert.Error(t, m.Err())
	assert.Nil(t, m.Selection())
}

func TestEmptyScan(t *testing.T) {
	m := New("/w", nil)
	next, _ := m.Update(scanDoneMsg{})
	m = next.(Model)

	assert.True(t, m.Empty())
	assert.Nil(t, m.Selection())
}
