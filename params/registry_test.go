package params_test

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/types"
)

const simpleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<params name="simple">
  <section name="S">
    <attnum name="x" min="0" max="100" val="10"/>
  </section>
</params>
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFile_SharedRefcount(t *testing.T) {
	reg, _ := newRegistry(t)
	path := writeDoc(t, simpleDoc)

	h1, err := reg.ReadFile(path, params.ReadShared)
	require.NoError(t, err)
	h2, err := reg.ReadFile(path, params.ReadShared)
	require.NoError(t, err)

	assert.Equal(t, 2, h1.RefCount())
	assert.Equal(t, []string{filepath.Clean(path)}, reg.SharedFiles())
	assert.False(t, h1.Private())

	require.NoError(t, h1.SetNum("S", "x", "", 20))
	assert.Equal(t, 20.0, h2.GetNum("S", "x", "", 0), "shared handles see one document")

	h1.Release()
	assert.Equal(t, 1, h2.RefCount())
	assert.Equal(t, 20.0, h2.GetNum("S", "x", "", 0))

	h2.Release()
	assert.Empty(t, reg.SharedFiles())
	assert.Equal(t, 0, reg.Len())
}

func TestReadFile_Private(t *testing.T) {
	reg, _ := newRegistry(t)
	path := writeDoc(t, simpleDoc)

	shared, err := reg.ReadFile(path, params.ReadShared)
	require.NoError(t, err)
	private, err := reg.ReadFile(path, params.ReadPrivate)
	require.NoError(t, err)

	assert.True(t, private.Private())
	assert.Equal(t, 1, shared.RefCount())
	assert.Equal(t, 1, private.RefCount())

	require.NoError(t, private.SetNum("S", "x", "", 50))
	assert.Equal(t, 10.0, shared.GetNum("S", "x", "", 0))
}

func TestReadFile_Reread(t *testing.T) {
	reg, _ := newRegistry(t)
	path := writeDoc(t, simpleDoc)

	h1, err := reg.ReadFile(path, params.ReadShared)
	require.NoError(t, err)
	require.NoError(t, h1.SetNum("S", "x", "", 30))
	require.NoError(t, h1.SetStr("S", "extra", "y"))

	h2, err := reg.ReadFile(path, params.ReadShared|params.ReadReread)
	require.NoError(t, err)

	assert.Equal(t, 2, h2.RefCount())
	assert.Equal(t, 10.0, h1.GetNum("S", "x", "", 0), "re-parse restores file content")
	assert.False(t, h1.ExistsParam("S", "extra"))
	assert.Equal(t, "simple", h1.Name())
}

func TestReadFile_RereadMissingFile(t *testing.T) {
	reg, _ := newRegistry(t)
	path := writeDoc(t, simpleDoc)

	h1, err := reg.ReadFile(path, params.ReadShared)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	h2, err := reg.ReadFile(path, params.ReadShared|params.ReadReread)
	require.ErrorIs(t, err, types.ErrNotFound)
	require.NotNil(t, h2)
	assert.False(t, h1.ExistsSection("S"))
}

func TestRelease_Misuse(t *testing.T) {
	reg, logs := newRegistry(t)
	h := reg.New("", "doc")
	require.NoError(t, h.SetNum("S", "x", "", 1))
	h.Release()

	assert.False(t, h.Valid())
	assert.Equal(t, 9.0, h.GetNum("S", "x", "", 9))
	assert.Equal(t, "", h.Name())
	assert.ErrorIs(t, h.SetNum("S", "x", "", 2), types.ErrInvalidHandle)
	assert.ErrorIs(t, h.ListSeekFirst("S"), types.ErrInvalidHandle)
	assert.Nil(t, h.Tree())

	h.Release() // second release is logged, not fatal
	assert.Contains(t, logs.String(), "invalid parameter handle")
	assert.Contains(t, logs.String(), "op=Release")

	var zero *params.Handle
	assert.False(t, zero.ExistsSection(""))
}

func TestRegistry_Close(t *testing.T) {
	reg := params.NewRegistry(params.Options{})
	path := writeDoc(t, simpleDoc)

	h1, err := reg.ReadFile(path, params.ReadShared)
	require.NoError(t, err)
	h2 := reg.New("", "other")
	assert.Equal(t, 2, reg.Len())

	reg.Close()
	assert.Equal(t, 0, reg.Len())
	assert.False(t, h1.Valid())
	assert.False(t, h2.Valid())
	assert.Empty(t, reg.SharedFiles())
}

func TestRegistry_Resolver(t *testing.T) {
	files := map[string]string{
		"mem/doc.xml": `<!DOCTYPE params SYSTEM "params.dtd" [
<!ENTITY part SYSTEM "part.xml">
]>
<params name="mem">&part;</params>`,
		"mem/part.xml": `<section name="Part"><attstr name="k" val="v"/></section>`,
	}
	reg := params.NewRegistry(params.Options{
		Resolver: func(path string) (io.ReadCloser, error) {
			content, ok := files[filepath.ToSlash(path)]
			if !ok {
				return nil, fs.ErrNotExist
			}
			return io.NopCloser(strings.NewReader(content)), nil
		},
	})
	defer reg.Close()

	h, err := reg.ReadFile("mem/doc.xml", params.ReadShared)
	require.NoError(t, err)
	assert.Equal(t, "v", h.GetStr("Part", "k", ""))

	_, err = reg.ReadFile("mem/none.xml", params.ReadShared)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
