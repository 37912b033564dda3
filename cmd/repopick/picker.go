package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/repobundle/repotree"
	"github.com/hayeah/repobundle/selection"
)

// row is one visible line of the picker: a node in display order.
type row struct {
	Path  string
	IsDir bool
	Depth int
}

// ExitState indicates how the program is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Exiting without saving (ESC, Ctrl+C)
	ExitStateConfirm                  // Exiting with confirmation (Enter)
)

// model is our Bubble Tea model, holding everything needed for the TUI.
type model struct {
	// Input handling
	textInput  textinput.Model
	searchTerm string

	// Tree state
	root     *repotree.Node
	state    selection.State
	statuses map[string]selection.Status

	allRows      []row // every node in display order
	filteredRows []row // subset after fuzzy search

	// Navigation
	cursor    int
	exitState ExitState

	// Viewport for scrolling
	viewport viewport.Model
	ready    bool
}

// pickInteractively runs the TUI and returns the selected blob paths in
// display order, or nil if the user aborted.
func pickInteractively(root *repotree.Node, state selection.State) ([]string, error) {
	ti := textinput.New()
	ti.Placeholder = "Type to fuzzy-search..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	rows := flattenTree(root)

	m := model{
		textInput:    ti,
		root:         root,
		state:        state,
		statuses:     selection.ComputeStatusMap(root, state),
		allRows:      rows,
		filteredRows: rows,
		viewport:     viewport.New(0, 0), // sized on the first tea.WindowSizeMsg
	}

	// Output the TUI to stderr so the selection can be piped from stdout.
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	finalM, ok := finalModel.(model)
	if !ok {
		return nil, fmt.Errorf("could not get final model state")
	}

	if finalM.exitState != ExitStateConfirm {
		return nil, nil
	}

	var selected []string
	for _, leaf := range finalM.state.SelectedLeaves(finalM.root) {
		selected = append(selected, leaf.Path)
	}
	return selected, nil
}

// flattenTree lists every node under root in rendered order, skipping the
// root itself.
func flattenTree(root *repotree.Node) []row {
	var rows []row
	repotree.Walk(root, func(n *repotree.Node) bool {
		rows = append(rows, row{
			Path:  n.Path,
			IsDir: n.IsDir(),
			Depth: strings.Count(n.Path, "/"),
		})
		return true
	})
	return rows
}

// Init is the first function called by Bubble Tea.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

// Update is called when events occur (key presses, etc.).
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If we're exiting, no further updates needed
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.textInput.View()) + 1 // Input field + blank line
		footerHeight := 2                                       // Status line + usage hint
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.viewport.YPosition = headerHeight

		if !m.ready {
			m.updateViewportContent()
			m.ready = true
		}

	case tea.KeyMsg:
		switch msg.String() {

		case "ctrl+c", "esc":
			m.exitState = ExitStateAbort
			return m, tea.Quit

		case "enter":
			m.exitState = ExitStateConfirm
			return m, tea.Quit

		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.updateViewportContent()
				m.ensureCursorVisible()
			}
			return m, nil

		case "down":
			if m.cursor < len(m.filteredRows)-1 {
				m.cursor++
				m.updateViewportContent()
				m.ensureCursorVisible()
			}
			return m, nil

		case " ":
			// Space toggles the current row. An indeterminate directory
			// completes to fully selected rather than clearing.
			if len(m.filteredRows) > 0 {
				m.state.Toggle(m.root, m.filteredRows[m.cursor].Path)
				m.statuses = selection.ComputeStatusMap(m.root, m.state)
				m.updateViewportContent()
			}
			return m, nil

		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil

		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil

		case "home":
			if len(m.filteredRows) > 0 {
				m.cursor = 0
				m.viewport.GotoTop()
				m.updateViewportContent()
			}
			return m, nil

		case "end":
			if len(m.filteredRows) > 0 {
				m.cursor = len(m.filteredRows) - 1
				m.viewport.GotoBottom()
				m.updateViewportContent()
			}
			return m, nil

		case "ctrl+a":
			m.state.SelectAll(m.root)
			m.statuses = selection.ComputeStatusMap(m.root, m.state)
			m.updateViewportContent()
			return m, nil

		case "ctrl+q":
			m.state.SelectNone(m.root)
			m.statuses = selection.ComputeStatusMap(m.root, m.state)
			m.updateViewportContent()
			return m, nil
		}
	}

	// Handle text input updates
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	// If the search term changed, update our filtered list
	newSearchTerm := m.textInput.Value()
	if newSearchTerm != m.searchTerm {
		m.searchTerm = newSearchTerm
		m.refilter()
		m.updateViewportContent()
	}

	// Handle viewport updates
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI screen: search input on top, the scrollable tree,
// and a status footer.
func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	headerView := m.textInput.View() + "\n"
	listView := m.viewport.View()

	statusLine := fmt.Sprintf(
		"%d/%d items, %d files selected",
		len(m.filteredRows),
		len(m.allRows),
		len(m.state.SelectedLeaves(m.root)),
	)
	usageHint := "(↑/↓ to navigate, Space to toggle, Enter to confirm, Esc/Ctrl+C to abort, Ctrl+A to select all, Ctrl+Q to deselect all)"
	footerView := fmt.Sprintf("\n%s\n%s", statusLine, usageHint)

	return fmt.Sprintf("%s%s%s", headerView, listView, footerView)
}

// checkbox maps a row's aggregate status to its indicator: x for checked,
// ~ for partially selected directories, blank otherwise.
func (m *model) checkbox(r row) string {
	switch m.statuses[r.Path] {
	case selection.Checked:
		return "x"
	case selection.Indeterminate:
		return "~"
	default:
		return " "
	}
}

// updateViewportContent updates the content of the viewport based on the current state
func (m *model) updateViewportContent() {
	var sb strings.Builder

	for i, r := range m.filteredRows {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		dirIndicator := ""
		if r.IsDir {
			dirIndicator = "/"
		}

		indent := strings.Repeat("  ", r.Depth)
		line := fmt.Sprintf("%s [%s] %s%s%s", cursor, m.checkbox(r), indent, baseName(r.Path), dirIndicator)

		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render(line)
		}

		// Add newline after styling to prevent lipgloss from affecting spacing
		sb.WriteString(line + "\n")
	}

	m.viewport.SetContent(sb.String())
}

// ensureCursorVisible makes sure the cursor is visible in the viewport
func (m *model) ensureCursorVisible() {
	cursorLine := m.cursor

	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if cursorLine < top {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine > bottom {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}

// refilter updates m.filteredRows based on the current fuzzy search term.
// Matches show their full paths without indentation since ancestors may be
// filtered out.
func (m *model) refilter() {
	if m.searchTerm == "" {
		m.filteredRows = m.allRows
		m.cursor = min(m.cursor, len(m.filteredRows)-1)
		if m.cursor < 0 {
			m.cursor = 0
		}
		return
	}

	paths := make([]string, len(m.allRows))
	for i, r := range m.allRows {
		paths[i] = r.Path
	}

	matches := fuzzy.Find(m.searchTerm, paths)

	var filtered []row
	for _, match := range matches {
		r := m.allRows[match.Index]
		r.Depth = 0
		filtered = append(filtered, r)
	}

	m.filteredRows = filtered
	if len(filtered) == 0 {
		m.cursor = 0
	} else {
		m.cursor = min(m.cursor, len(filtered)-1)
	}
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
