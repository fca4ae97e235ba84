package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/soyunomas/dupcleaner/internal/entities"
)

// Config define las reglas para el escaneo.
type Config struct {
	// Extension filtra por sufijo (sensible a mayúsculas), con el punto
	// incluido. Vacío = sin filtro.
	Extension string
	// MinSize descarta archivos por debajo del umbral (bytes).
	MinSize int64
}

// FileScanner encapsula la lógica de recorrido del sistema de archivos.
type FileScanner struct {
	cfg Config
}

// New crea una nueva instancia del escáner con configuración.
func New(cfg Config) *FileScanner {
	return &FileScanner{cfg: cfg}
}

// GroupBySize recorre rootDir y devuelve el mapa agrupado por tamaño exacto.
// Map: [Tamaño] -> [Grupo de Archivos]
// Los archivos ilegibles (permisos, carreras con borrados) se saltan con
// aviso en el log; nunca abortan el recorrido.
func (s *FileScanner) GroupBySize(rootDir string) (map[int64]*entities.SizeGroup, error) {
	filesBySize := make(map[int64]*entities.SizeGroup)

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		// 1. Errores de acceso (permisos, etc): saltar, no abortar.
		if err != nil {
			if path == rootDir {
				// El propio root ilegible sí es terminal.
				return err
			}
			log.Warnf("Acceso fallido a '%s', se omite: %v", path, err)
			return nil
		}

		if d.IsDir() {
			return nil
		}

		// 2. Filtro de extensión (sufijo, sensible a mayúsculas)
		if s.cfg.Extension != "" && !strings.HasSuffix(d.Name(), s.cfg.Extension) {
			return nil
		}

		// 3. Stat del archivo
		info, err := d.Info()
		if err != nil {
			log.Warnf("No se pudo leer el tamaño de '%s', se omite: %v", path, err)
			return nil
		}

		// 4. Filtro de tamaño mínimo
		size := info.Size()
		if size < s.cfg.MinSize {
			return nil
		}

		// 5. Agrupar
		if _, exists := filesBySize[size]; !exists {
			filesBySize[size] = &entities.SizeGroup{}
		}
		filesBySize[size].Add(&entities.FileInfo{
			Path:    path,
			Size:    size,
			ModTime: info.ModTime(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return filesBySize, nil
}

// TreeStats cuenta archivos y subcarpetas de TODO el árbol, sin aplicar
// filtros: alimenta las estadísticas del informe, no la selección de
// candidatos.
func (s *FileScanner) TreeStats(rootDir string) (totalFiles, totalSubfolders int, err error) {
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			if path == rootDir {
				return werr
			}
			return nil
		}
		if d.IsDir() {
			if path != rootDir {
				totalSubfolders++
			}
			return nil
		}
		totalFiles++
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return totalFiles, totalSubfolders, nil
}
