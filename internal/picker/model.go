package picker

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"devsweep/internal/project"
	"devsweep/internal/scan"
	"devsweep/internal/ui"
)

// ScanFunc produces the candidate list the picker presents. It runs on
// a background goroutine via tea.Cmd, keeping the spinner live.
type ScanFunc func() ([]scan.Candidate, []scan.Warning, error)

// ─── Messages ────────────────────────────────────────────────────────────────

type scanDoneMsg struct {
	candidates []scan.Candidate
	warnings   []scan.Warning
	err        error
}

// ─── Phases ──────────────────────────────────────────────────────────────────

type phase int

const (
	phaseScanning phase = iota
	phaseChoosing
)

// ─── Groups ──────────────────────────────────────────────────────────────────

// Item is one selectable candidate row.
type Item struct {
	Candidate scan.Candidate
	Selected  bool
}

// Group collects the candidates of one project type under a shared
// header that can toggle or collapse them all at once.
type Group struct {
	Type      project.Type
	Items     []Item
	Collapsed bool
}

// TotalSize sums the sizes of all items in the group.
func (g Group) TotalSize() int64 {
	var total int64
	for _, it := range g.Items {
		total += it.Candidate.Size
	}
	return total
}

func (g Group) allSelected() bool {
	for _, it := range g.Items {
		if !it.Selected {
			return false
		}
	}
	return true
}

func (g Group) noneSelected() bool {
	for _, it := range g.Items {
		if it.Selected {
			return false
		}
	}
	return true
}

// toggleAll selects every item, or deselects all when everything is
// already selected.
func (g *Group) toggleAll() {
	next := !g.allSelected()
	for i := range g.Items {
		g.Items[i].Selected = next
	}
}

// ─── Key map ─────────────────────────────────────────────────────────────────

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Collapse key.Binding
	Confirm  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Collapse: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "fold")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea model for the grouped candidate checklist. It
// owns the whole interactive flow: a spinner while the scan runs, then
// the multi-select over the results.
type Model struct {
	root  string
	scan  ScanFunc
	phase phase
	spin  spinner.Model
	keys  keyMap

	groups     []Group
	cursor     int
	maxPathLen int
	width      int
	height     int

	warnings  []scan.Warning
	err       error
	cancelled bool
	confirmed bool
	quitting  bool
}

// New creates a picker rooted at the given path. scanFn is invoked once
// from Init.
func New(root string, scanFn ScanFunc) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle()),
	)
	return Model{
		root:   root,
		scan:   scanFn,
		phase:  phaseScanning,
		spin:   sp,
		keys:   defaultKeyMap(),
		width:  80,
		height: 24,
	}
}

// ─── Result accessors ────────────────────────────────────────────────────────

// Selection returns the candidates the user confirmed, in group order.
// It is nil when the picker was cancelled.
func (m Model) Selection() []scan.Candidate {
	if !m.confirmed {
		return nil
	}
	var out []scan.Candidate
	for _, g := range m.groups {
		for _, it := range g.Items {
			if it.Selected {
				out = append(out, it.Candidate)
			}
		}
	}
	return out
}

// Warnings returns the scan warnings gathered before the picker opened.
func (m Model) Warnings() []scan.Warning { return m.warnings }

// Err returns the fatal scan error, if any.
func (m Model) Err() error { return m.err }

// Cancelled reports whether the user backed out without confirming.
func (m Model) Cancelled() bool { return m.cancelled }

// Empty reports whether the scan finished without finding anything.
func (m Model) Empty() bool { return m.err == nil && len(m.groups) == 0 }

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.runScan())
}

func (m Model) runScan() tea.Cmd {
	scanFn := m.scan
	return func() tea.Msg {
		candidates, warnings, err := scanFn()
		return scanDoneMsg{candidates: candidates, warnings: warnings, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.warnings = msg.warnings
		if msg.err != nil {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m.groups = buildGroups(msg.candidates)
		m.maxPathLen = longestPath(msg.candidates)
		m.phase = phaseChoosing
		if len(m.groups) == 0 {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancelled = true
		m.quitting = true
		return m, tea.Quit
	}

	if m.phase != phaseChoosing {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor+1 < m.totalLines() {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		gi, ii, header := m.cursorPosition()
		if header {
			m.groups[gi].toggleAll()
		} else {
			m.groups[gi].Items[ii].Selected = !m.groups[gi].Items[ii].Selected
		}

	case key.Matches(msg, m.keys.Collapse):
		if gi, _, header := m.cursorPosition(); header {
			m.groups[gi].Collapsed = !m.groups[gi].Collapsed
		}

	case key.Matches(msg, m.keys.Confirm):
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// ─── Cursor bookkeeping ──────────────────────────────────────────────────────

// totalLines counts the visible rows: one per group header plus one per
// item in expanded groups.
func (m Model) totalLines() int {
	n := 0
	for _, g := range m.groups {
		n++
		if !g.Collapsed {
			n += len(g.Items)
		}
	}
	return n
}

// cursorPosition resolves the linear cursor into (group, item, header).
// header is true when the cursor sits on a group header line.
func (m Model) cursorPosition() (gi, ii int, header bool) {
	line := 0
	for g, group := range m.groups {
		if line == m.cursor {
			return g, 0, true
		}
		line++
		if group.Collapsed {
			continue
		}
		for i := range group.Items {
			if line == m.cursor {
				return g, i, false
			}
			line++
		}
	}
	return 0, 0, true
}

// ─── Group construction ──────────────────────────────────────────────────────

// buildGroups buckets candidates by project type in canonical type
// order, everything selected by default. Order within a group follows
// the scan output (size descending).
func buildGroups(candidates []scan.Candidate) []Group {
	byType := make(map[project.Type][]Item)
	for _, c := range candidates {
		byType[c.Type] = append(byType[c.Type], Item{Candidate: c, Selected: true})
	}

	var groups []Group
	for _, t := range project.All() {
		if items, ok := byType[t]; ok {
			groups = append(groups, Group{Type: t, Items: items})
		}
	}
	return groups
}

func longestPath(candidates []scan.Candidate) int {
	max := 0
	for _, c := range candidates {
		if n := len(c.Path); n > max {
			max = n
		}
	}
	return max
}

func spinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ui.ColorPrimary)
}
