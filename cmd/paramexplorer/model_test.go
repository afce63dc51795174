package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/paramkit/params"
)

const carDoc = "../../params/testdata/car.xml"

func openCar(t *testing.T) *params.Handle {
	t.Helper()
	reg := params.NewRegistry(params.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	t.Cleanup(reg.Close)

	h, err := openDocument(reg, carDoc)
	require.NoError(t, err)
	return h
}

func TestNewModel_Root(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))

	m := helper.GetModel()
	assert.Equal(t, "", m.path)
	assert.Equal(t, []string{"Car", "Wheels"}, m.sections)
	require.Len(t, m.rows, 1)
	assert.Equal(t, "category", m.rows[0].Name)
	assert.Equal(t, `category (str) = "race" in {road, race}`, m.rows[0].Line)
}

func TestNavigation_EnterAndLeave(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))

	t.Log("Entering Car")
	helper.SendKey(tea.KeyEnter)
	m := helper.GetModel()
	assert.Equal(t, "Car", m.path)
	assert.Equal(t, []string{"Engine"}, m.sections)
	require.Len(t, m.rows, 1)
	assert.Equal(t, "mass (num) = 1150 kg [800, 1500]", m.rows[0].Line)

	t.Log("Entering Engine")
	helper.SendKeyRune('l')
	m = helper.GetModel()
	assert.Equal(t, "Car/Engine", m.path)
	assert.Empty(t, m.sections)
	assert.Len(t, m.rows, 4)

	t.Log("Enter on an empty section list is a no-op")
	helper.SendKey(tea.KeyEnter)
	assert.Equal(t, "Car/Engine", helper.GetModel().path)

	t.Log("Going back up twice")
	helper.SendKeyRune('h').SendKey(tea.KeyLeft)
	m = helper.GetModel()
	assert.Equal(t, "", m.path)
	assert.Equal(t, 0, m.sectionCursor, "cursor lands on the section we came from")

	t.Log("Going up at the root is a no-op")
	helper.SendKeyRune('h')
	assert.Equal(t, "", helper.GetModel().path)
}

func TestNavigation_CursorClamps(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))

	helper.SendKeyRune('k')
	assert.Equal(t, 0, helper.GetModel().sectionCursor)

	helper.SendKeyRune('j').SendKeyRune('j').SendKeyRune('j')
	assert.Equal(t, 1, helper.GetModel().sectionCursor)

	helper.SendKeyRune('g')
	assert.Equal(t, 0, helper.GetModel().sectionCursor)

	helper.SendKeyRune('G')
	assert.Equal(t, 1, helper.GetModel().sectionCursor)

	t.Log("Entering Wheels then returning selects it again")
	helper.SendKey(tea.KeyEnter)
	assert.Equal(t, "Wheels", helper.GetModel().path)
	helper.SendKey(tea.KeyBackspace)
	assert.Equal(t, 1, helper.GetModel().sectionCursor)
}

func TestTabSwitchesPane(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))
	helper.SendKey(tea.KeyEnter).SendKey(tea.KeyEnter) // Car/Engine

	assert.Equal(t, SectionPane, helper.GetModel().focusedPane)
	helper.SendKey(tea.KeyTab)
	assert.Equal(t, ParamPane, helper.GetModel().focusedPane)

	helper.SendKeyRune('j').SendKeyRune('j')
	m := helper.GetModel()
	assert.Equal(t, 2, m.paramCursor)
	assert.Equal(t, "Car/Engine/fuel", m.selectedPath())

	helper.SendKey(tea.KeyTab)
	assert.Equal(t, SectionPane, helper.GetModel().focusedPane)
}

func TestCopySelected(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))

	helper.SendKeyRune('j').SendKeyRune('y')
	assert.Equal(t, []string{"Wheels"}, helper.copied)
	assert.Contains(t, helper.GetModel().status, "copied Wheels")

	helper.model.copy = func(string) error { return errors.New("no clipboard") }
	helper.SendKeyRune('y')
	assert.Contains(t, helper.GetModel().status, "copy failed")
}

func TestHelpToggle(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))
	helper.SendWindowSize(120, 40)

	if helper.GetModel().showHelp {
		t.Fatal("Help should not be shown initially")
	}

	helper.SendKeyRune('?')
	if !helper.GetModel().showHelp {
		t.Error("Help should be shown after pressing '?'")
	}

	t.Log("Navigation is ignored while help is open")
	helper.SendKey(tea.KeyEnter)
	assert.Equal(t, "", helper.GetModel().path)

	helper.SendKey(tea.KeyEsc)
	if helper.GetModel().showHelp {
		t.Error("Help should be hidden after pressing esc")
	}
}

func TestQuit(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))

	_, cmd := helper.GetModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_RendersPanes(t *testing.T) {
	helper := NewTestHelper(carDoc, openCar(t))
	helper.SendWindowSize(120, 40).SendKey(tea.KeyEnter)

	view := helper.GetView()
	assert.Contains(t, view, "Parameter Explorer")
	assert.Contains(t, view, carDoc+": Car")
	assert.Contains(t, view, "Engine/")
	assert.Contains(t, view, "1 sections  1 params")
}

func TestView_ReleasedHandle(t *testing.T) {
	h := openCar(t)
	h.Release()

	helper := NewTestHelper(carDoc, h)
	assert.Contains(t, helper.GetView(), "document is no longer open")
}

func TestOpenDocument_Snapshot(t *testing.T) {
	_, err := openDocument(params.NewRegistry(params.Options{}), "missing.cbor")
	require.Error(t, err)
}
