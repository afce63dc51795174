package params_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/paramkit/params"
)

const carFile = "testdata/car.xml"

// newRegistry returns a registry whose warnings land in the returned buffer.
func newRegistry(t *testing.T) (*params.Registry, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	reg := params.NewRegistry(params.Options{
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	t.Cleanup(reg.Close)
	return reg, &logs
}

// openCar loads the reference car document privately.
func openCar(t *testing.T, reg *params.Registry) *params.Handle {
	t.Helper()
	h, err := reg.ReadFile(carFile, params.ReadPrivate)
	require.NoError(t, err)
	return h
}

// readBuf loads an in-memory document and fails the test on error.
func readBuf(t *testing.T, reg *params.Registry, doc string) *params.Handle {
	t.Helper()
	h, err := reg.ReadBuf([]byte(doc))
	require.NoError(t, err)
	return h
}
