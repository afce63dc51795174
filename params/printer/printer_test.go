package printer

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/types"
)

// openTestDoc opens the shared car fixture privately.
func openTestDoc(t *testing.T) *params.Handle {
	t.Helper()

	reg := params.NewRegistry(params.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(reg.Close)

	h, err := reg.ReadFile("../testdata/car.xml", params.ReadPrivate)
	require.NoError(t, err)
	require.NoError(t, h.SetVariable("car/engine", "torque", 150))
	return h
}

func TestPrinter_PrintSection_Text(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	p := New(h, &buf, DefaultOptions())
	require.NoError(t, p.PrintSection("Car"))

	output := buf.String()
	t.Logf("Text output:\n%s", output)

	require.Contains(t, output, "[Car]\n")
	require.Contains(t, output, "  mass (num) = 1150 kg [800, 1500]\n")
	require.NotContains(t, output, "Engine", "sections do not descend")
}

func TestPrinter_PrintSection_Root(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	p := New(h, &buf, DefaultOptions())
	require.NoError(t, p.PrintSection(""))

	require.Equal(t, "[/]\n  category (str) = \"race\" in {road, race}\n", buf.String())
}

func TestPrinter_PrintParam_Text(t *testing.T) {
	h := openTestDoc(t)

	tests := []struct {
		name string
		path string
		key  string
		want string
	}{
		{"number", "Wheels/Front Left", "pressure", "pressure (num) = 200 kPa [150, 250]\n"},
		{"string", "Car/Engine", "fuel", "fuel (str) = \"petrol\" in {petrol, diesel}\n"},
		{"formula", "Car/Engine", "power", "power (form) = \"300\" <- car.engine.torque * 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := New(h, &buf, DefaultOptions())
			require.NoError(t, p.PrintParam(tt.path, tt.key))
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_PrintParam_SIUnits(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.SIUnits = true
	opts.ShowKinds = false
	opts.ShowBounds = false

	p := New(h, &buf, opts)
	require.NoError(t, p.PrintParam("Wheels/Front Right", "pressure"))
	require.Equal(t, "pressure = 210000\n", buf.String())
}

func TestPrinter_PrintParam_NotFound(t *testing.T) {
	h := openTestDoc(t)

	p := New(h, io.Discard, DefaultOptions())
	require.ErrorIs(t, p.PrintParam("Car", "missing"), types.ErrNotFound)
	require.ErrorIs(t, p.PrintSection("Nope"), types.ErrNotFound)
	require.ErrorIs(t, p.PrintTree("Nope"), types.ErrNotFound)
}

func TestPrinter_ReleasedHandle(t *testing.T) {
	h := openTestDoc(t)
	h.Release()

	p := New(h, io.Discard, DefaultOptions())
	require.ErrorIs(t, p.PrintTree(""), types.ErrInvalidHandle)
}

func TestPrinter_PrintTree_Text(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	p := New(h, &buf, DefaultOptions())
	require.NoError(t, p.PrintTree("Wheels"))

	want := "[Wheels]\n" +
		"\n" +
		"  [Wheels/Front Left]\n" +
		"    pressure (num) = 200 kPa [150, 250]\n" +
		"\n" +
		"  [Wheels/Front Right]\n" +
		"    pressure (num) = 210 kPa [150, 250]\n"
	require.Equal(t, want, buf.String())
}

func TestPrinter_PrintTree_MaxDepth(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxDepth = 2

	p := New(h, &buf, opts)
	require.NoError(t, p.PrintTree(""))

	output := buf.String()
	require.Contains(t, output, "[Car]")
	require.Contains(t, output, "[Wheels]")
	require.NotContains(t, output, "[Car/Engine]")
}

func TestPrinter_PrintTree_JSON(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON

	p := New(h, &buf, opts)
	require.NoError(t, p.PrintTree("Car"))

	t.Logf("JSON output:\n%s", buf.String())

	// Verify it's valid JSON
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	require.Equal(t, "Car", result["name"])
	require.Contains(t, result, "params")
	require.Contains(t, result, "sections")

	sections := result["sections"].([]interface{})
	require.Len(t, sections, 1)
	engine := sections[0].(map[string]interface{})
	require.Equal(t, "Car/Engine", engine["path"])
	require.Len(t, engine["params"], 4)
}

func TestPrinter_PrintParam_JSON(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON

	p := New(h, &buf, opts)
	require.NoError(t, p.PrintParam("Car", "mass"))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Equal(t, "mass", result["name"])
	require.Equal(t, "num", result["kind"])
	require.Equal(t, 1150.0, result["value"])
	require.Equal(t, "kg", result["unit"])
	require.Equal(t, 800.0, result["min"])
	require.Equal(t, 1500.0, result["max"])
}

func TestPrinter_PrintSection_YAML(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatYAML

	p := New(h, &buf, opts)
	require.NoError(t, p.PrintSection("Car/Engine"))

	t.Logf("YAML output:\n%s", buf.String())

	var result struct {
		Name   string `yaml:"name"`
		Path   string `yaml:"path"`
		Params []struct {
			Name    string   `yaml:"name"`
			Kind    string   `yaml:"kind"`
			In      []string `yaml:"in"`
			Formula string   `yaml:"formula"`
		} `yaml:"params"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	require.Equal(t, "Engine", result.Name)
	require.Equal(t, "Car/Engine", result.Path)
	require.Len(t, result.Params, 4)
	require.Equal(t, []string{"petrol", "diesel"}, result.Params[2].In)
	require.Equal(t, "car.engine.torque * 2", result.Params[3].Formula)
}

func TestPrinter_HideValues(t *testing.T) {
	h := openTestDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowValues = false

	p := New(h, &buf, opts)
	require.NoError(t, p.PrintTree("Car"))
	require.Equal(t, "[Car]\n\n  [Car/Engine]\n", buf.String())
}
