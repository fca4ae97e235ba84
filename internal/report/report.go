package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/soyunomas/dupcleaner/internal/engine"
	"github.com/soyunomas/dupcleaner/internal/entities"
)

// Report es el informe agregado sobre una o varias raíces.
type Report struct {
	Summary  Summary                  `json:"summary"`
	Pairs    []entities.DuplicatePair `json:"pairs"`
	Metadata Metadata                 `json:"metadata"`
}

type Metadata struct {
	ScannedPaths []string  `json:"scanned_paths"`
	Timestamp    time.Time `json:"timestamp"`
	Duration     string    `json:"duration_human"`
}

type Summary struct {
	TotalDirectories  int    `json:"total_directories"`
	TotalFilesScanned int    `json:"total_files_scanned"`
	TotalSubfolders   int    `json:"total_subfolders"`
	UniqueSizeFiles   int    `json:"unique_size_files"`
	DuplicatesFound   int    `json:"duplicates_found"`
	DuplicateBytes    int64  `json:"duplicate_bytes"`
	// PotentialSavings asume que borrar los duplicados libera todo su espacio.
	PotentialSavings      int64  `json:"potential_savings_bytes"`
	PotentialSavingsHuman string `json:"potential_savings_human"`
}

// NewFinder construye el motor para una raíz del informe. Inyectable para
// que los tests sustituyan la caché.
type NewFinder func(root string) *engine.Finder

// Aggregate escanea todas las raíces en batch y agrega los resultados.
// Cualquier raíz inexistente es un error terminal: no hay informe parcial.
func Aggregate(roots []string, newFinder NewFinder) (*Report, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no se indicaron carpetas para el informe")
	}

	start := time.Now()
	rep := &Report{
		Metadata: Metadata{
			ScannedPaths: roots,
			Timestamp:    start,
		},
	}
	rep.Summary.TotalDirectories = len(roots)

	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("la carpeta '%s' no existe", root)
		}

		finder := newFinder(root)

		stats, err := finder.InitialStats()
		if err != nil {
			return nil, fmt.Errorf("error escaneando '%s': %w", root, err)
		}
		rep.Summary.TotalFilesScanned += stats.TotalFiles
		rep.Summary.TotalSubfolders += stats.TotalSubfolders
		rep.Summary.UniqueSizeFiles += stats.UniqueSizeFiles

		pairs, err := finder.FindAll()
		if err != nil {
			return nil, fmt.Errorf("error escaneando '%s': %w", root, err)
		}
		rep.Pairs = append(rep.Pairs, pairs...)
	}

	for _, pair := range rep.Pairs {
		info, err := os.Stat(pair.Duplicate)
		if err != nil {
			log.Errorf("Error obteniendo el tamaño de '%s': %v", pair.Duplicate, err)
			continue
		}
		rep.Summary.DuplicateBytes += info.Size()
	}

	rep.Summary.DuplicatesFound = len(rep.Pairs)
	rep.Summary.PotentialSavings = rep.Summary.DuplicateBytes
	rep.Summary.PotentialSavingsHuman = humanize.IBytes(uint64(rep.Summary.PotentialSavings))
	rep.Metadata.Duration = time.Since(start).String()

	return rep, nil
}

// Histogram reparte los tamaños de los duplicados en cubos uniformes entre
// el mínimo y el máximo observados. Devuelve los límites superiores y el
// recuento por cubo.
func Histogram(sizes []int64, buckets int) (bounds []int64, counts []int) {
	if len(sizes) == 0 || buckets <= 0 {
		return nil, nil
	}

	minSize, maxSize := sizes[0], sizes[0]
	for _, s := range sizes[1:] {
		if s < minSize {
			minSize = s
		}
		if s > maxSize {
			maxSize = s
		}
	}

	// Todos iguales: un único cubo.
	if minSize == maxSize {
		return []int64{maxSize}, []int{len(sizes)}
	}

	width := (maxSize - minSize + int64(buckets)) / int64(buckets)
	bounds = make([]int64, buckets)
	counts = make([]int, buckets)
	for i := range bounds {
		bounds[i] = minSize + width*int64(i+1)
	}
	for _, s := range sizes {
		idx := int((s - minSize) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		counts[idx]++
	}
	return bounds, counts
}

// RenderHistogram pinta la distribución de tamaños como barras de texto,
// el sustituto de terminal del gráfico del informe clásico.
func RenderHistogram(pairs []entities.DuplicatePair, buckets int) string {
	var sizes []int64
	for _, pair := range pairs {
		info, err := os.Stat(pair.Duplicate)
		if err != nil {
			continue
		}
		sizes = append(sizes, info.Size())
	}

	if len(sizes) == 0 {
		return "No hay duplicados que visualizar.\n"
	}

	bounds, counts := Histogram(sizes, buckets)

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	var b strings.Builder
	b.WriteString("Distribución de tamaños de duplicados:\n")
	for i, c := range counts {
		barLen := 0
		if maxCount > 0 {
			barLen = c * 40 / maxCount
		}
		b.WriteString(fmt.Sprintf("  <= %10s | %-40s %d\n",
			humanize.IBytes(uint64(bounds[i])), strings.Repeat("█", barLen), c))
	}
	return b.String()
}
