package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/paramkit/internal/logger"
	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/params/printer"
	"github.com/joshuapare/paramkit/pkg/ast"
)

// Pane represents which pane is focused
type Pane int

const (
	SectionPane Pane = iota
	ParamPane
)

// paramRow is one rendered line of the param pane.
type paramRow struct {
	Name string
	Line string
}

// Model is the main application model
type Model struct {
	docPath string
	h       *params.Handle
	keys    KeyMap

	// path is the full name of the section being browsed ("" is the root).
	path     string
	sections []string
	rows     []paramRow

	sectionCursor int
	paramCursor   int
	focusedPane   Pane

	width    int
	height   int
	showHelp bool
	status   string
	err      error

	// copy writes to the system clipboard; tests replace it.
	copy func(string) error
}

// NewModel creates a Model browsing h from the document root.
func NewModel(docPath string, h *params.Handle) Model {
	m := Model{
		docPath: docPath,
		h:       h,
		keys:    DefaultKeyMap(),
		copy:    clipboard.WriteAll,
	}
	m.load("")
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay swallows everything except its own toggle and quit
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == SectionPane {
			m.focusedPane = ParamPane
		} else {
			m.focusedPane = SectionPane
		}
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Home):
		m.move(-len(m.sections) - len(m.rows))
	case key.Matches(msg, m.keys.End):
		m.move(len(m.sections) + len(m.rows))
	case key.Matches(msg, m.keys.Right):
		if m.focusedPane == SectionPane && len(m.sections) > 0 {
			m.load(ast.JoinPath(m.path, m.sections[m.sectionCursor]))
		}
	case key.Matches(msg, m.keys.Left):
		m.up()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	}
	return m, nil
}

// move shifts the cursor of the focused pane by delta, clamped.
func (m *Model) move(delta int) {
	cur, n := &m.sectionCursor, len(m.sections)
	if m.focusedPane == ParamPane {
		cur, n = &m.paramCursor, len(m.rows)
	}
	if n == 0 {
		return
	}
	*cur = max(0, min(n-1, *cur+delta))
}

// up goes to the parent section and selects the section we came from.
func (m *Model) up() {
	if m.path == "" {
		return
	}
	from := m.path
	parent := ""
	if i := strings.LastIndex(from, ast.PathSeparator); i >= 0 {
		parent = from[:i]
	}
	m.load(parent)
	name := from[len(parent):]
	name = strings.TrimPrefix(name, ast.PathSeparator)
	for i, s := range m.sections {
		if s == name {
			m.sectionCursor = i
			break
		}
	}
}

// load switches to the section at path and refreshes both panes.
func (m *Model) load(path string) {
	tree := m.h.Tree()
	if tree == nil {
		m.err = fmt.Errorf("document is no longer open")
		return
	}
	sec := tree.FindSection(path)
	if sec == nil {
		m.status = fmt.Sprintf("no section %q", path)
		return
	}

	m.path = sec.FullName
	m.sections = sec.ChildNames()
	m.rows = nil
	m.sectionCursor, m.paramCursor = 0, 0
	m.status = ""

	opts := printer.DefaultOptions()
	for _, name := range sec.ParamNames() {
		var buf bytes.Buffer
		if err := printer.New(m.h, &buf, opts).PrintParam(sec.FullName, name); err != nil {
			logger.Warn("param render failed", "path", sec.FullName, "param", name, "err", err)
			continue
		}
		m.rows = append(m.rows, paramRow{Name: name, Line: strings.TrimRight(buf.String(), "\n")})
	}
	logger.Debug("section loaded", "path", m.path, "sections", len(m.sections), "params", len(m.rows))
}

// selectedPath is the full name of the item under the focused cursor.
func (m Model) selectedPath() string {
	switch {
	case m.focusedPane == ParamPane && len(m.rows) > 0:
		return ast.JoinPath(m.path, m.rows[m.paramCursor].Name)
	case m.focusedPane == SectionPane && len(m.sections) > 0:
		return ast.JoinPath(m.path, m.sections[m.sectionCursor])
	}
	return m.path
}

func (m *Model) copySelected() {
	path := m.selectedPath()
	if err := m.copy(path); err != nil {
		logger.Warn("clipboard copy failed", "path", path, "err", err)
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("copied %s", path)
}
