package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestGroupBySize(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a", "f1"), "1234")
	write(t, filepath.Join(root, "b", "f2"), "abcd")
	write(t, filepath.Join(root, "c", "f3"), "distinto tamaño")

	groups, err := New(Config{}).GroupBySize(root)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	require.Contains(t, groups, int64(4))
	assert.Equal(t, int64(2), groups[4].Count)
	assert.Equal(t, int64(1), groups[int64(len("distinto tamaño"))].Count)
}

func TestExtensionFilterIsCaseSensitiveSuffix(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "f1.jpg"), "xxxx")
	write(t, filepath.Join(root, "f2.JPG"), "xxxx")
	write(t, filepath.Join(root, "f3.jpeg"), "xxxx")
	write(t, filepath.Join(root, "f4.txt"), "xxxx")

	groups, err := New(Config{Extension: ".jpg"}).GroupBySize(root)
	require.NoError(t, err)

	require.Contains(t, groups, int64(4))
	var names []string
	for _, f := range groups[4].Files {
		names = append(names, filepath.Base(f.Path))
	}
	// Sufijo sensible a mayúsculas: .JPG y .jpeg quedan fuera.
	assert.ElementsMatch(t, []string{"f1.jpg"}, names)
}

func TestMinSizeFilter(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "chico"), "ab")
	write(t, filepath.Join(root, "grande1"), "contenido suficientemente grande")
	write(t, filepath.Join(root, "grande2"), "contenido suficientemente grande")

	groups, err := New(Config{MinSize: 10}).GroupBySize(root)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	for size := range groups {
		assert.GreaterOrEqual(t, size, int64(10))
	}
}

func TestGroupBySizeMissingRoot(t *testing.T) {
	_, err := New(Config{}).GroupBySize("/no/existe/en/absoluto")
	require.Error(t, err)
}

func TestTreeStatsIgnoresFilters(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a", "f1.txt"), "x")
	write(t, filepath.Join(root, "a", "sub", "f2.bin"), "contenido")
	write(t, filepath.Join(root, "b", "f3.txt"), "y")

	// Los filtros no afectan a los contadores del árbol.
	sc := New(Config{Extension: ".jpg", MinSize: 1 << 20})
	files, subfolders, err := sc.TreeStats(root)
	require.NoError(t, err)

	assert.Equal(t, 3, files)
	assert.Equal(t, 3, subfolders) // a, a/sub, b
}

func TestGroupBySizeRecordsModTime(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "f1"), "igual")
	write(t, filepath.Join(root, "f2"), "igual")

	groups, err := New(Config{}).GroupBySize(root)
	require.NoError(t, err)

	for _, f := range groups[int64(len("igual"))].Files {
		assert.False(t, f.ModTime.IsZero())
	}
}
