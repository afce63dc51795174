package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/types"
)

func newDrivers(t *testing.T) *params.Handle {
	t.Helper()
	reg, _ := newRegistry(t)
	h := reg.New("", "drivers")
	for i, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, h.SetNum("Drivers/"+name, "index", "", float64(i)))
		require.NoError(t, h.SetStr("Drivers/"+name, "car", name+"-car"))
	}
	return h
}

func TestList_Iteration(t *testing.T) {
	h := newDrivers(t)

	var names []string
	var indexes []float64
	for err := h.ListSeekFirst("Drivers"); err == nil; err = h.ListSeekNext("Drivers") {
		names = append(names, h.ListCurName("Drivers"))
		indexes = append(indexes, h.GetCurNum("Drivers", "index", "", -1))
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
	assert.Equal(t, []float64{0, 1, 2}, indexes)
	assert.Equal(t, "", h.ListCurName("Drivers"), "cursor cleared after the end")
	assert.ErrorIs(t, h.ListSeekNext("Drivers"), types.ErrEndOfList)
}

func TestList_Errors(t *testing.T) {
	h := newDrivers(t)

	assert.ErrorIs(t, h.ListSeekFirst("Nowhere"), types.ErrNotFound)
	assert.ErrorIs(t, h.ListSeekFirst("Drivers/alice"), types.ErrEndOfList)
	assert.Equal(t, 0, h.ListCount("Nowhere"))
	assert.Nil(t, h.ListNames("Nowhere"))
}

// The cursor lives on the section, so two interleaved traversals of the
// same list disturb each other.
func TestList_SharedCursor(t *testing.T) {
	h := newDrivers(t)

	require.NoError(t, h.ListSeekFirst("Drivers"))
	outer := h.ListCurName("Drivers")

	// a nested traversal over the same list runs the cursor to the end
	inner := 0
	for err := h.ListSeekFirst("Drivers"); err == nil; err = h.ListSeekNext("Drivers") {
		inner++
	}
	assert.Equal(t, 3, inner)
	assert.Equal(t, "alice", outer)

	// the outer traversal has lost its place
	assert.ErrorIs(t, h.ListSeekNext("Drivers"), types.ErrEndOfList)

	// ListNames is unaffected by the cursor
	assert.Equal(t, []string{"alice", "bob", "carol"}, h.ListNames("Drivers"))
}

func TestList_CurrentAccessors(t *testing.T) {
	h := newDrivers(t)

	assert.ErrorIs(t, h.SetCurNum("Drivers", "laps", "", 1), types.ErrEndOfList)

	require.NoError(t, h.ListSeekFirst("Drivers"))
	require.NoError(t, h.ListSeekNext("Drivers"))
	require.NoError(t, h.SetCurNum("Drivers", "laps", "", 12))
	require.NoError(t, h.SetCurStr("Drivers", "car", "bob-new"))

	assert.Equal(t, 12.0, h.GetNum("Drivers/bob", "laps", "", 0))
	assert.Equal(t, "bob-new", h.GetCurStr("Drivers", "car", ""))
	assert.Equal(t, "bob-new", h.GetStr("Drivers/bob", "car", ""))
}

func TestList_CountAndParamNames(t *testing.T) {
	h := newDrivers(t)

	assert.Equal(t, 3, h.ListCount("Drivers"))
	assert.Equal(t, []string{"index", "car"}, h.ParamNames("Drivers/bob"))
}

func TestList_Rename(t *testing.T) {
	h := newDrivers(t)

	require.NoError(t, h.ListRename("Drivers", "bob", "robert"))
	assert.Equal(t, []string{"alice", "robert", "carol"}, h.ListNames("Drivers"))
	assert.Equal(t, 1.0, h.GetNum("Drivers/robert", "index", "", -1))
	assert.False(t, h.ExistsSection("Drivers/bob"))

	assert.ErrorIs(t, h.ListRename("Drivers", "bob", "x"), types.ErrNotFound)
	assert.ErrorIs(t, h.ListRename("Drivers", "alice", "carol"), types.ErrDuplicate)
}

func TestList_RemoveAndClean(t *testing.T) {
	h := newDrivers(t)

	require.NoError(t, h.ListRemove("Drivers", "alice"))
	assert.Equal(t, []string{"bob", "carol"}, h.ListNames("Drivers"))
	assert.ErrorIs(t, h.ListRemove("Drivers", "alice"), types.ErrNotFound)

	require.NoError(t, h.SetNum("Drivers", "max", "", 10))
	require.NoError(t, h.ListClean("Drivers"))
	assert.Equal(t, 0, h.ListCount("Drivers"))
	assert.True(t, h.ExistsSection("Drivers"), "section keeps its own params")

	require.NoError(t, h.RemoveParam("Drivers", "max"))
	assert.False(t, h.ExistsSection("Drivers"))
}
