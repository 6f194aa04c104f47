package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"devsweep/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == phaseScanning {
		return fmt.Sprintf("\n  %s Scanning %s…\n", m.spin.View(), m.root)
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")
	s.WriteString(m.renderGroups())
	s.WriteString("\n\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  Cleanable directories")

	var total int64
	var count int
	for _, g := range m.groups {
		total += g.TotalSize()
		count += len(g.Items)
	}

	info := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %s    %d found, %s reclaimable", m.root, count, ui.FormatSize(total)))

	return title + "\n" + info
}

// ─── Groups ──────────────────────────────────────────────────────────────────

func (m Model) renderGroups() string {
	var lines []string

	line := 0
	for gi := range m.groups {
		g := m.groups[gi]
		lines = append(lines, m.renderGroupHeader(g, line == m.cursor))
		line++

		if g.Collapsed {
			continue
		}
		for ii := range g.Items {
			lines = append(lines, m.renderItem(g.Items[ii], line == m.cursor))
			line++
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderGroupHeader(g Group, selected bool) string {
	var checkbox string
	switch {
	case g.allSelected():
		checkbox = lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render("[" + ui.IconCheck + "]")
	case g.noneSelected():
		checkbox = lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("[ ]")
	default:
		checkbox = lipgloss.NewStyle().Foreground(ui.ColorWarning).Render("[~]")
	}

	fold := ui.IconExpand
	if g.Collapsed {
		fold = ui.IconCollapse
	}

	label := fmt.Sprintf("%s %s %s (%d items, %s)",
		checkbox, fold, g.Type.Name(), len(g.Items), ui.FormatSize(g.TotalSize()))

	if selected {
		return "  " + lipgloss.NewStyle().Reverse(true).Render(label)
	}
	return "  " + lipgloss.NewStyle().Bold(true).Render(label)
}

func (m Model) renderItem(it Item, selected bool) string {
	checkbox := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("[ ]")
	if it.Selected {
		checkbox = lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render("[" + ui.IconCheck + "]")
	}

	width := m.maxPathLen
	if max := m.width - 22; width > max && max > 20 {
		width = max
	}
	path := it.Candidate.Path
	if len(path) > width {
		path = "…" + path[len(path)-width+1:]
	}

	line := fmt.Sprintf("%s %-*s  %10s", checkbox, width, path, ui.FormatSize(it.Candidate.Size))
	if selected {
		cursor := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render(ui.IconBlock)
		return "   " + cursor + " " + line
	}
	return "     " + line
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	hints := []string{
		m.keys.Up.Help().Key + "/" + m.keys.Down.Help().Key + " nav",
		m.keys.Toggle.Help().Key + " " + m.keys.Toggle.Help().Desc,
		m.keys.Collapse.Help().Key + " " + m.keys.Collapse.Help().Desc,
		m.keys.Confirm.Help().Key + " " + m.keys.Confirm.Help().Desc,
		m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
	}
	return ui.HintBarStyle().Render("  " + strings.Join(hints, " "+ui.IconPipe+" "))
}
