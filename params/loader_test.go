package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/types"
)

func TestLoad_NumericInSI(t *testing.T) {
	reg, _ := newRegistry(t)
	h := openCar(t, reg)

	// 4000 rpm is stored as rad/s
	assert.InDelta(t, 418.879, h.GetNum("/Car/Engine", "rpm", "", 0), 1e-3)
	assert.InDelta(t, 4000, h.GetNum("/Car/Engine", "rpm", "rpm", 0), 1e-9)
	assert.Equal(t, "rpm", h.GetUnit("Car/Engine", "rpm"))

	lo, hi, ok := h.GetNumBounds("Car/Engine", "rpm", "rpm")
	require.True(t, ok)
	assert.InDelta(t, 0, lo, 1e-9)
	assert.InDelta(t, 8000, hi, 1e-9)

	assert.InDelta(t, 200000, h.GetNum("Wheels/Front Left", "pressure", "", 0), 1e-6)
}

func TestLoad_BoundsSwappedAndWidened(t *testing.T) {
	reg, logs := newRegistry(t)
	h := openCar(t, reg)

	// min="1000" max="900" val="800": swapped to [900,1000], then widened to 800
	lo, hi, ok := h.GetNumBounds("Car/Engine", "idle", "rpm")
	require.True(t, ok)
	assert.InDelta(t, 800, lo, 1e-9)
	assert.InDelta(t, 1000, hi, 1e-9)
	assert.InDelta(t, 800, h.GetNum("Car/Engine", "idle", "rpm", 0), 1e-9)

	assert.Contains(t, logs.String(), "loaded value outside bounds, bounds widened")
	assert.Contains(t, logs.String(), "param=Car/Engine/idle")
}

func TestLoad_StringsAndFormulas(t *testing.T) {
	reg, _ := newRegistry(t)
	h := openCar(t, reg)

	assert.Equal(t, "petrol", h.GetStr("Car/Engine", "fuel", ""))
	assert.Equal(t, []string{"petrol", "diesel"}, h.GetWithin("Car/Engine", "fuel"))

	// root-level param
	assert.Equal(t, "race", h.GetStr("", "category", ""))
	assert.Equal(t, types.KindString, h.Kind("/", "category"))

	text, ok := h.GetFormula("Car/Engine", "power")
	require.True(t, ok)
	assert.Equal(t, "car.engine.torque * 2", text)
	assert.True(t, h.IsFormula("Car/Engine", "power"))
}

func TestLoad_Metadata(t *testing.T) {
	reg, _ := newRegistry(t)
	h := openCar(t, reg)

	assert.Equal(t, "car", h.Name())
	assert.Equal(t, "testdata/car.xml", h.FileName())
	major, minor := h.Version()
	assert.Equal(t, 1, major)
	assert.Equal(t, 2, minor)

	dtd, comment := h.DTD()
	assert.Equal(t, "../params.dtd", dtd)
	assert.Equal(t, " reference car setup ", comment)
}

func TestLoad_ExternalEntity(t *testing.T) {
	reg, _ := newRegistry(t)
	h := openCar(t, reg)

	assert.Equal(t, []string{"Front Left", "Front Right"}, h.ListNames("Wheels"))
	assert.InDelta(t, 210, h.GetNum("Wheels/Front Right", "pressure", "kPa", 0), 1e-9)
}

func TestLoad_MissingParamsName(t *testing.T) {
	reg, logs := newRegistry(t)
	h, err := reg.ReadBuf([]byte(`<params><section name="A"><attnum name="x" val="1"/></section></params>`))
	require.ErrorIs(t, err, types.ErrParse)
	require.NotNil(t, h, "partial document is returned")

	assert.False(t, h.ExistsSection("A"), "callbacks after the error are ignored")
	assert.Contains(t, logs.String(), "document load failed")
}

func TestLoad_PartialTreeKept(t *testing.T) {
	reg, _ := newRegistry(t)
	doc := `<params name="p">
  <section name="A"><attnum name="ok" val="1"/></section>
  <section name="B"><attnum name="bad"/><attnum name="after" val="2"/></section>
  <section name="C"/>
</params>`
	h, err := reg.ReadBuf([]byte(doc))
	require.ErrorIs(t, err, types.ErrParse)

	assert.Equal(t, 1.0, h.GetNum("A", "ok", "", 0))
	assert.True(t, h.ExistsSection("B"))
	assert.False(t, h.ExistsParam("B", "after"))
	assert.False(t, h.ExistsSection("C"))
}

func TestLoad_SyntaxError(t *testing.T) {
	reg, _ := newRegistry(t)
	h, err := reg.ReadBuf([]byte(`<params name="p"><section name="A"></params>`))
	require.ErrorIs(t, err, types.ErrParse)
	assert.True(t, h.ExistsSection("A"))
}

func TestLoad_NaNIsStructuralError(t *testing.T) {
	for _, attrs := range []string{
		`val="NaN" min="0" max="10"`,
		`val="1" min="nan" max="10"`,
		`val="1" min="0" max="NaN"`,
	} {
		t.Run(attrs, func(t *testing.T) {
			reg, _ := newRegistry(t)
			h, err := reg.ReadBuf([]byte(`<params name="p"><section name="S"><attnum name="x" ` + attrs + `/></section></params>`))
			require.ErrorIs(t, err, types.ErrParse)
			assert.False(t, h.ExistsParam("S", "x"))
		})
	}
}

func TestLoad_DuplicateSection(t *testing.T) {
	reg, _ := newRegistry(t)
	_, err := reg.ReadBuf([]byte(`<params name="p"><section name="A"/><section name="A"/></params>`))
	assert.ErrorIs(t, err, types.ErrParse)
}

func TestLoad_ValueOutsideEnumKept(t *testing.T) {
	reg, logs := newRegistry(t)
	h := readBuf(t, reg, `<params name="p"><attstr name="s" in="a,b" val="c"/></params>`)

	assert.Equal(t, "c", h.GetStr("", "s", ""))
	assert.Contains(t, logs.String(), "loaded value not in enumeration")
}

func TestLoad_BadFormulaKeptAsText(t *testing.T) {
	reg, logs := newRegistry(t)
	h := readBuf(t, reg, `<params name="p"><attform name="f" val="1 +"/></params>`)

	text, ok := h.GetFormula("", "f")
	assert.True(t, ok)
	assert.Equal(t, "1 +", text)
	assert.Equal(t, 7.0, h.GetNum("", "f", "", 7), "unparsed formula yields the default")
	assert.Contains(t, logs.String(), "formula does not parse")
}

func TestLoad_Version(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
	}{
		{"1.2", 1, 2},
		{"v3", 3, 0},
		{"2.x5", 2, 5},
		{"1.2.3", 1, 23},
		{"", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			reg, _ := newRegistry(t)
			h := readBuf(t, reg, `<params name="p" version="`+tt.in+`"/>`)
			major, minor := h.Version()
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.ReadFile("testdata/nope.xml", params.ReadShared)
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.SharedFiles())

	h, err := reg.ReadFile("testdata/nope.xml", params.ReadShared|params.ReadCreate)
	require.NoError(t, err)
	assert.Empty(t, h.ListNames(""))
	assert.Equal(t, "testdata/nope.xml", h.FileName())
}
