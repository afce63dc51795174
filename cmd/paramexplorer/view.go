package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.showHelp {
		helpOverlay := overlay.New(
			&helpModel{keys: m.keys},
			NewMainViewModel(&m),
			overlay.Center, // horizontal position
			overlay.Center, // vertical position
			0,
			0,
		)
		return helpOverlay.View()
	}

	return m.renderMain()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

// renderHeader renders the document name and current section path
func (m Model) renderHeader() string {
	path := m.path
	if path == "" {
		path = "/"
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("Parameter Explorer"),
		"  ",
		pathStyle.Render(fmt.Sprintf("%s: %s", m.docPath, path)),
	)
}

// renderContent renders the section and param panes side by side
func (m Model) renderContent() string {
	leftWidth, rightWidth := 24, 56
	paneHeight := 0
	if m.width > 0 {
		leftWidth = max(16, m.width/3-4)
		rightWidth = max(24, m.width-leftWidth-8)
	}
	if m.height > 0 {
		paneHeight = max(3, m.height-6)
	}

	sections := make([]string, 0, len(m.sections))
	for i, name := range m.sections {
		line := name + "/"
		if i == m.sectionCursor && m.focusedPane == SectionPane {
			line = selectedStyle.Render(line)
		}
		sections = append(sections, line)
	}
	if len(sections) == 0 {
		sections = append(sections, statusStyle.Render("(no sections)"))
	}

	rows := make([]string, 0, len(m.rows))
	for i, row := range m.rows {
		line := row.Line
		if i == m.paramCursor && m.focusedPane == ParamPane {
			line = selectedStyle.Render(line)
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		rows = append(rows, statusStyle.Render("(no parameters)"))
	}

	left, right := paneStyle, paneStyle
	if m.focusedPane == SectionPane {
		left = activePaneStyle
	} else {
		right = activePaneStyle
	}
	left = left.Width(leftWidth)
	right = right.Width(rightWidth)
	if paneHeight > 0 {
		left = left.Height(paneHeight)
		right = right.Height(paneHeight)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left.Render(strings.Join(sections, "\n")),
		right.Render(strings.Join(rows, "\n")),
	)
}

// renderStatus renders counts plus the last status message
func (m Model) renderStatus() string {
	s := fmt.Sprintf("%d sections  %d params  ? help  q quit", len(m.sections), len(m.rows))
	if m.status != "" {
		s += "  | " + m.status
	}
	return statusStyle.Render(s)
}

// MainViewModel wraps the main UI for use as overlay background
type MainViewModel struct {
	model *Model
}

func NewMainViewModel(m *Model) *MainViewModel {
	return &MainViewModel{model: m}
}

func (m *MainViewModel) Init() tea.Cmd {
	return nil
}

func (m *MainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Updates are handled in the parent Model
	return m, nil
}

func (m *MainViewModel) View() string {
	return m.model.renderMain()
}

// helpModel renders the key binding list shown over the main view
type helpModel struct {
	keys KeyMap
}

func (h *helpModel) Init() tea.Cmd {
	return nil
}

func (h *helpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return h, nil
}

func (h *helpModel) View() string {
	lines := []string{helpTitleStyle.Render("Keyboard Shortcuts")}
	for _, b := range h.keys.helpBindings() {
		help := b.Help()
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			helpKeyStyle.Render(help.Key),
			helpDescStyle.Render(help.Desc),
		))
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}
