package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetCommand_CreateAndGet(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "setup.xml")

	tests := []struct {
		name    string
		kind    string
		unit    string
		min     string
		max     string
		within  string
		key     string
		value   string
		wantErr bool
	}{
		{name: "number with bounds", kind: "num", unit: "kg", min: "800", max: "1500", key: "mass", value: "1200"},
		{name: "string with enumeration", kind: "str", within: "petrol, diesel", key: "fuel", value: "diesel"},
		{name: "formula", kind: "form", key: "power", value: "2 * 21"},
		{name: "bad number", kind: "num", key: "broken", value: "fast", wantErr: true},
		{name: "bad bound", kind: "num", min: "x", max: "1", key: "broken", value: "1", wantErr: true},
		{name: "bad formula", kind: "form", key: "broken", value: "1 +", wantErr: true},
		{name: "unknown kind", kind: "blob", key: "broken", value: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			setCreate = true
			setKind = tt.kind
			setUnit = tt.unit
			setMin, setMax = tt.min, tt.max
			setWithin = tt.within

			output, err := captureOutput(t, func() error {
				return runSet([]string{doc, "Setup", tt.key, tt.value})
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("runSet() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
		})
	}

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	content := string(data)

	assertContains(t, content, []string{
		`<params name="setup">`,
		`<attnum name="mass" unit="kg" min="800" max="1500" val="1200"/>`,
		`<attstr name="fuel" in="petrol,diesel" val="diesel"/>`,
		`<attform name="power" val="2 * 21"/>`,
	})
	assertNotContains(t, content, []string{"broken"})

	resetFlags()
	output, err := captureOutput(t, func() error {
		return runGet([]string{doc, "Setup", "power"})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{`power (form) = "42"`})
}

func TestSetCommand_ClampsIntoBounds(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "clamp.xml")

	resetFlags()
	setCreate = true
	setUnit = "kg"
	setMin, setMax = "0", "10"
	_, err := captureOutput(t, func() error {
		return runSet([]string{doc, "Box", "weight", "5"})
	})
	require.NoError(t, err)

	resetFlags()
	setUnit = "kg"
	_, err = captureOutput(t, func() error {
		return runSet([]string{doc, "Box", "weight", "99"})
	})
	require.NoError(t, err)

	output, err := captureOutput(t, func() error {
		return runGet([]string{doc, "Box", "weight"})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"weight (num) = 10 kg [0, 10]"})
}

func TestSetCommand_OutputAndJSON(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "in.xml")
	out := filepath.Join(dir, "out.xml")

	resetFlags()
	setCreate = true
	setOutput = out
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runSet([]string{doc, "", "gain", "3"})
	})
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"kind": "num"`, `"success": true`})

	_, err = os.Stat(out)
	require.NoError(t, err)
	_, err = os.Stat(doc)
	require.True(t, os.IsNotExist(err), "input is not written when --output is given")
}

func TestSetCommand_MissingWithoutCreate(t *testing.T) {
	resetFlags()
	_, err := captureOutput(t, func() error {
		return runSet([]string{filepath.Join(t.TempDir(), "nope.xml"), "A", "b", "1"})
	})
	require.Error(t, err)
}
