package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/dupcleaner/internal/cache"
	"github.com/soyunomas/dupcleaner/internal/engine"
	"github.com/soyunomas/dupcleaner/internal/entities"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testNewFinder(t *testing.T) NewFinder {
	t.Helper()
	cacheDir := t.TempDir()
	return func(root string) *engine.Finder {
		c := cache.Open(filepath.Join(cacheDir, "cache.json"))
		return engine.New(root, engine.Options{}, c)
	}
}

func TestAggregateAcrossRoots(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	write(t, filepath.Join(root1, "a", "f"), "par uno")
	write(t, filepath.Join(root1, "b", "f"), "par uno")
	write(t, filepath.Join(root2, "a", "g"), "par dos!")
	write(t, filepath.Join(root2, "b", "g"), "par dos!")
	write(t, filepath.Join(root2, "c", "solo"), "sin pareja aqui")

	rep, err := Aggregate([]string{root1, root2}, testNewFinder(t))
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Summary.TotalDirectories)
	assert.Equal(t, 5, rep.Summary.TotalFilesScanned)
	assert.Equal(t, 2, rep.Summary.DuplicatesFound)
	assert.Equal(t, int64(len("par uno")+len("par dos!")), rep.Summary.DuplicateBytes)
	assert.Equal(t, rep.Summary.DuplicateBytes, rep.Summary.PotentialSavings)
	assert.NotEmpty(t, rep.Summary.PotentialSavingsHuman)
	assert.Len(t, rep.Pairs, 2)
}

func TestAggregateNoRoots(t *testing.T) {
	_, err := Aggregate(nil, testNewFinder(t))
	assert.Error(t, err)
}

func TestAggregateMissingRootIsTerminal(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a", "f"), "x")

	_, err := Aggregate([]string{root, "/no/existe"}, testNewFinder(t))
	assert.Error(t, err)
}

func TestHistogramBuckets(t *testing.T) {
	sizes := []int64{1, 2, 3, 100}
	bounds, counts := Histogram(sizes, 2)

	require.Len(t, bounds, 2)
	require.Len(t, counts, 2)
	assert.Equal(t, 3, counts[0])
	assert.Equal(t, 1, counts[1])
	assert.Equal(t, 4, counts[0]+counts[1])
}

func TestHistogramUniformSizes(t *testing.T) {
	bounds, counts := Histogram([]int64{7, 7, 7}, 10)
	require.Len(t, bounds, 1)
	assert.Equal(t, []int{3}, counts)
}

func TestHistogramEmpty(t *testing.T) {
	bounds, counts := Histogram(nil, 10)
	assert.Nil(t, bounds)
	assert.Nil(t, counts)
}

func TestRenderHistogram(t *testing.T) {
	root := t.TempDir()
	dup := filepath.Join(root, "f")
	write(t, dup, "contenido")

	out := RenderHistogram([]entities.DuplicatePair{{Duplicate: dup, Original: "o"}}, 10)
	assert.Contains(t, out, "Distribución")

	out = RenderHistogram(nil, 10)
	assert.Contains(t, out, "No hay duplicados")
}
