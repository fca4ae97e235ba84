package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soyunomas/dupcleaner/internal/entities"
	"github.com/soyunomas/dupcleaner/internal/hasher"
	"github.com/soyunomas/dupcleaner/internal/scanner"
)

// Cache es el contrato mínimo que el motor exige a la caché de hashes.
// La implementación real vive en internal/cache; los tests inyectan espías.
type Cache interface {
	Lookup(path string, mtime time.Time) (uint64, bool)
	Store(path string, mtime time.Time, hash uint64)
	Flush() error
}

// AuditSink recibe cada par confirmado para el registro CSV opcional.
type AuditSink interface {
	Append(duplicate, original string) error
}

// Options son los ajustes del motor para una pasada.
type Options struct {
	// Extension filtra por sufijo, ya normalizado con punto inicial.
	Extension string
	// MinSize en bytes.
	MinSize int64
	// FlushEvery marca la cadencia de checkpoint de la caché
	// (cada N archivos procesados). <=0 desactiva el checkpoint periódico.
	FlushEvery int
}

// Finder es el motor de detección: tamaño → quick-hash → hash completo,
// con caché persistente validada por mtime. Una instancia = una raíz.
// NO es seguro para escaneos concurrentes sobre la misma caché.
type Finder struct {
	root  string
	opts  Options
	sc    *scanner.FileScanner
	cache Cache
	audit AuditSink
}

// New crea el motor para rootDir. La caché la aporta el llamante, que es
// también quien decide cuándo abre y comparte el fichero de caché.
func New(rootDir string, opts Options, c Cache) *Finder {
	return &Finder{
		root: rootDir,
		opts: opts,
		sc: scanner.New(scanner.Config{
			Extension: opts.Extension,
			MinSize:   opts.MinSize,
		}),
		cache: c,
	}
}

// SetAuditSink activa el registro CSV de pares confirmados.
func (f *Finder) SetAuditSink(s AuditSink) {
	f.audit = s
}

// Root devuelve la raíz configurada.
func (f *Finder) Root() string {
	return f.root
}

// validateRoot comprueba que la raíz existe y es un directorio.
// Los errores de entrada son terminales: no se intenta ningún escaneo parcial.
func (f *Finder) validateRoot() error {
	info, err := os.Stat(f.root)
	if err != nil {
		return fmt.Errorf("la carpeta '%s' no existe", f.root)
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' no es un directorio", f.root)
	}
	return nil
}

// anchor es el representante de un valor de hash completo dentro de un
// bucket de quick-hash. El hash completo se calcula de forma perezosa la
// primera vez que alguien se compara contra él, y queda fijado para toda
// la vida del grupo.
type anchor struct {
	path   string
	full   uint64
	hashed bool
}

// fullHashCached devuelve el hash completo consultando primero la caché.
// Un acierto (mtime idéntico) evita leer el archivo por completo.
func (f *Finder) fullHashCached(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if h, ok := f.cache.Lookup(path, info.ModTime()); ok {
		return h, nil
	}
	h, err := hasher.FullHash(path)
	if err != nil {
		return 0, err
	}
	f.cache.Store(path, info.ModTime(), h)
	return h, nil
}

// canonical decide quién sobrevive: el archivo cuya carpeta PADRE ordena
// lexicográficamente antes (sin distinguir mayúsculas) es el original.
// Se compara solo el padre inmediato, no la ruta completa: el
// comportamiento posterior (qué archivo sobrevive a un borrado) depende
// de esta regla exacta.
func canonical(a, b string) (original, duplicate string) {
	if strings.ToLower(filepath.Dir(a)) < strings.ToLower(filepath.Dir(b)) {
		return a, b
	}
	return b, a
}

// FindAll ejecuta la pasada completa en modo batch y devuelve todos los
// pares confirmados. Es la entrada que usan las acciones (borrar/mover)
// y el informe agregado, que necesitan la lista cerrada antes de actuar.
func (f *Finder) FindAll() ([]entities.DuplicatePair, error) {
	if err := f.validateRoot(); err != nil {
		return nil, err
	}

	filesBySize, err := f.sc.GroupBySize(f.root)
	if err != nil {
		return nil, fmt.Errorf("fallo en scanner: %w", err)
	}

	log.Infof("Iniciando escaneo completo en: %s", f.root)

	var duplicates []entities.DuplicatePair

	for _, group := range filesBySize {
		// Tamaño único en el árbol: imposible que tenga duplicado.
		if group.Count < 2 {
			continue
		}

		// --- FASE QUICK-HASH: partir el grupo antes de pagar lecturas completas ---
		quickGroups := make(map[uint64][]*entities.FileInfo)
		for _, file := range group.Files {
			qh, err := hasher.QuickHash(file.Path)
			if err != nil {
				log.Warnf("Quick-hash fallido para '%s', se excluye: %v", file.Path, err)
				continue
			}
			file.QuickHash = qh
			quickGroups[qh] = append(quickGroups[qh], file)
		}

		// --- FASE HASH COMPLETO: confirmar dentro de cada bucket ---
		for _, fileList := range quickGroups {
			if len(fileList) < 2 {
				continue
			}
			fullSeen := make(map[uint64]string)
			for _, file := range fileList {
				fh, err := f.fullHashCached(file.Path)
				if err != nil {
					log.Warnf("Hash completo fallido para '%s', se excluye: %v", file.Path, err)
					continue
				}
				file.FullHash = fh
				orig, seen := fullSeen[fh]
				if !seen {
					fullSeen[fh] = file.Path
					continue
				}
				original, duplicate := canonical(file.Path, orig)
				// El recién llegado puede destronar al ancla: las
				// comparaciones siguientes usan el nuevo original.
				fullSeen[fh] = original
				log.Infof("Duplicado encontrado: %s (duplicado) -> %s (original)", duplicate, original)
				duplicates = append(duplicates, entities.DuplicatePair{
					Duplicate: duplicate,
					Original:  original,
				})
				f.recordPair(duplicate, original)
			}
		}
	}

	f.flushCache()
	return duplicates, nil
}

// recordPair envía el par al CSV si está activado. Un fallo del sink es
// recuperable: se registra y el escaneo continúa.
func (f *Finder) recordPair(duplicate, original string) {
	if f.audit == nil {
		return
	}
	if err := f.audit.Append(duplicate, original); err != nil {
		log.Errorf("Error escribiendo en CSV: %v", err)
	}
}

// flushCache persiste la caché; el fallo se avisa y no es fatal.
func (f *Finder) flushCache() {
	if err := f.cache.Flush(); err != nil {
		log.Warnf("No se pudo guardar la caché de hashes: %v", err)
	} else {
		log.Info("Caché de hashes guardada.")
	}
}

// InitialStats calcula las estadísticas iniciales del árbol: totales sin
// filtrar más el recuento de archivos con tamaño único (ya filtrados).
func (f *Finder) InitialStats() (entities.TreeStats, error) {
	totalFiles, totalSubfolders, err := f.sc.TreeStats(f.root)
	if err != nil {
		return entities.TreeStats{}, err
	}

	filesBySize, err := f.sc.GroupBySize(f.root)
	if err != nil {
		return entities.TreeStats{}, err
	}

	uniqueSize := 0
	for _, group := range filesBySize {
		if group.Count == 1 {
			uniqueSize++
		}
	}

	return entities.TreeStats{
		TotalFiles:      totalFiles,
		TotalSubfolders: totalSubfolders,
		UniqueSizeFiles: uniqueSize,
	}, nil
}
