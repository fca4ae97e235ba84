package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, ".jpg", NormalizeExtension("jpg"))
	assert.Equal(t, ".jpg", NormalizeExtension(".jpg"))
	assert.Equal(t, ".jpg", NormalizeExtension("  jpg  "))
	assert.Equal(t, "", NormalizeExtension(""))
	assert.Equal(t, "", NormalizeExtension("   "))
}

func TestMegabytesToBytes(t *testing.T) {
	assert.Equal(t, int64(0), MegabytesToBytes(0))
	assert.Equal(t, int64(0), MegabytesToBytes(-3))
	assert.Equal(t, int64(1024*1024), MegabytesToBytes(1))
	assert.Equal(t, int64(10*1024*1024), MegabytesToBytes(10))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-existe.ini"))
	require.NoError(t, err)

	assert.Equal(t, DefaultCacheFile, cfg.CacheFile)
	assert.Equal(t, DefaultFlushEvery, cfg.FlushEvery)
	assert.Equal(t, DefaultCSVFile, cfg.CSVFile)
	assert.False(t, cfg.SaveCSV)
}

func TestLoadOverridesFromIni(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupcleaner.ini")
	contenido := `
[cache]
file = /tmp/mi_cache.json
flush_every = 25

[scan]
extension = png
min_size_mb = 5

[csv]
enabled = true
file = /tmp/salida.csv

[log]
file = /tmp/mi.log
`
	require.NoError(t, os.WriteFile(path, []byte(contenido), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mi_cache.json", cfg.CacheFile)
	assert.Equal(t, 25, cfg.FlushEvery)
	// La extensión del ini también se normaliza con punto.
	assert.Equal(t, ".png", cfg.Extension)
	assert.Equal(t, int64(5), cfg.MinSizeMB)
	assert.True(t, cfg.SaveCSV)
	assert.Equal(t, "/tmp/salida.csv", cfg.CSVFile)
	assert.Equal(t, "/tmp/mi.log", cfg.LogFile)
}

func TestLoadInvalidIni(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roto.ini")
	require.NoError(t, os.WriteFile(path, []byte("[seccion sin cerrar\nclave"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupcleaner.ini")
	contenido := `
[cache]
flush_every = no-es-numero
`
	require.NoError(t, os.WriteFile(path, []byte(contenido), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultFlushEvery, cfg.FlushEvery)
}
