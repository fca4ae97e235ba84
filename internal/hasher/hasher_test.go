package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestFullHashIdenticalContent(t *testing.T) {
	content := bytes.Repeat([]byte("bloque"), 20000) // > ChunkSize
	p1 := write(t, "f1", content)
	p2 := write(t, "f2", content)

	h1, err := FullHash(p1)
	require.NoError(t, err)
	h2, err := FullHash(p2)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestFullHashDifferentContent(t *testing.T) {
	content := bytes.Repeat([]byte("bloque"), 20000)
	other := append(append([]byte{}, content...), 'x')

	h1, err := FullHash(write(t, "f1", content))
	require.NoError(t, err)
	h2, err := FullHash(write(t, "f2", other))
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestQuickHashOnlySeesLeadingWindow(t *testing.T) {
	// Mismo prefijo de 4KB, colas distintas: quick-hash igual (solo son
	// candidatos), hash completo distinto (los separa la verificación).
	prefix := bytes.Repeat([]byte{0xAB}, QuickWindow)
	p1 := write(t, "f1", append(append([]byte{}, prefix...), []byte("cola uno")...))
	p2 := write(t, "f2", append(append([]byte{}, prefix...), []byte("cola dos")...))

	q1, err := QuickHash(p1)
	require.NoError(t, err)
	q2, err := QuickHash(p2)
	require.NoError(t, err)
	assert.Equal(t, q1, q2)

	f1, err := FullHash(p1)
	require.NoError(t, err)
	f2, err := FullHash(p2)
	require.NoError(t, err)
	assert.NotEqual(t, f1, f2)
}

func TestQuickHashShortFileSamplesWhatExists(t *testing.T) {
	p1 := write(t, "f1", []byte("corto"))
	p2 := write(t, "f2", []byte("corto"))
	p3 := write(t, "f3", []byte("corta"))

	q1, err := QuickHash(p1)
	require.NoError(t, err)
	q2, err := QuickHash(p2)
	require.NoError(t, err)
	q3, err := QuickHash(p3)
	require.NoError(t, err)

	assert.Equal(t, q1, q2)
	assert.NotEqual(t, q1, q3)
}

func TestQuickHashEmptyFile(t *testing.T) {
	p := write(t, "vacio", nil)
	_, err := QuickHash(p)
	assert.NoError(t, err)
}

func TestHashMissingFile(t *testing.T) {
	_, err := FullHash("/no/existe")
	assert.Error(t, err)
	_, err = QuickHash("/no/existe")
	assert.Error(t, err)
}

func TestQuickAndFullAgreeOnWindowSizedFile(t *testing.T) {
	// Archivo exactamente del tamaño de la ventana: quick == full por
	// construcción (mismo contenido hasheado entero).
	content := bytes.Repeat([]byte{0x01}, QuickWindow)
	p := write(t, "f", content)

	q, err := QuickHash(p)
	require.NoError(t, err)
	f, err := FullHash(p)
	require.NoError(t, err)
	assert.Equal(t, q, f)
}
