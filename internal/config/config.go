package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"
)

// Valores por defecto. Coinciden con el comportamiento clásico de la
// herramienta: caché junto al binario y checkpoint cada 50 archivos.
const (
	DefaultCacheFile  = "hash_cache.json"
	DefaultCSVFile    = "duplicates.csv"
	DefaultLogFile    = "dupcleaner.log"
	DefaultFlushEvery = 50
)

// Config agrupa los ajustes de la herramienta. Se rellena con defaults,
// opcionalmente un fichero ini y por último los flags de la CLI.
type Config struct {
	CacheFile  string
	FlushEvery int

	Extension string
	MinSizeMB int64

	CSVFile string
	SaveCSV bool

	LogFile string
}

// Default devuelve la configuración base sin fichero ni flags.
func Default() Config {
	return Config{
		CacheFile:  DefaultCacheFile,
		FlushEvery: DefaultFlushEvery,
		CSVFile:    DefaultCSVFile,
		LogFile:    DefaultLogFile,
	}
}

// Load lee un fichero ini opcional sobre los defaults.
// Si el fichero no existe se devuelven los defaults sin error:
// la configuración por fichero es estrictamente opcional.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("error leyendo configuración '%s': %w", path, err)
	}

	if iniFile.HasSection("cache") {
		section := iniFile.Section("cache")
		if key := section.Key("file"); key.String() != "" {
			cfg.CacheFile = key.String()
		}
		if key := section.Key("flush_every"); key.String() != "" {
			if v, err := key.Int(); err == nil && v > 0 {
				cfg.FlushEvery = v
			}
		}
	}

	if iniFile.HasSection("scan") {
		section := iniFile.Section("scan")
		if key := section.Key("extension"); key.String() != "" {
			cfg.Extension = NormalizeExtension(key.String())
		}
		if key := section.Key("min_size_mb"); key.String() != "" {
			if v, err := key.Int64(); err == nil && v >= 0 {
				cfg.MinSizeMB = v
			}
		}
	}

	if iniFile.HasSection("csv") {
		section := iniFile.Section("csv")
		if key := section.Key("file"); key.String() != "" {
			cfg.CSVFile = key.String()
		}
		cfg.SaveCSV, _ = section.Key("enabled").Bool()
	}

	if iniFile.HasSection("log") {
		section := iniFile.Section("log")
		if key := section.Key("file"); key.String() != "" {
			cfg.LogFile = key.String()
		}
	}

	return cfg, nil
}

// NormalizeExtension garantiza el punto inicial en el filtro de extensión.
// Cadena vacía (o solo espacios) significa "sin filtro".
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// MegabytesToBytes convierte el umbral de tamaño mínimo (MB enteros) a bytes.
func MegabytesToBytes(mb int64) int64 {
	if mb <= 0 {
		return 0
	}
	return mb * 1024 * 1024
}
