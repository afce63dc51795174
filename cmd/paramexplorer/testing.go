package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/paramkit/params"
)

// TestHelper drives a Model the way the bubbletea runtime would.
type TestHelper struct {
	model  Model
	copied []string
}

// NewTestHelper creates a helper browsing h with a fake clipboard.
func NewTestHelper(docPath string, h *params.Handle) *TestHelper {
	helper := &TestHelper{model: NewModel(docPath, h)}
	helper.model.copy = func(s string) error {
		helper.copied = append(helper.copied, s)
		return nil
	}
	return helper
}

// SendKey simulates a special key press
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	updated, _ := h.model.Update(tea.KeyMsg{Type: keyType})
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	updated, _ := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	h.model = updated.(Model)
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	updated, _ := h.model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}
