package engine

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soyunomas/dupcleaner/internal/entities"
	"github.com/soyunomas/dupcleaner/internal/hasher"
)

// streamKey agrupa las anclas por (tamaño, quick-hash): dos archivos solo
// comparten bucket si ya compartían tamaño exacto.
type streamKey struct {
	size  int64
	quick uint64
}

// Scan ejecuta la pasada en streaming: un ScanEvent por archivo procesado.
//
// Máquina de estados: Init → Scanning → {Stopped, Finished}. La fase Init
// (estadísticas del árbol + lista completa de candidatos) es síncrona y se
// ejecuta antes de devolver el canal. El canal va pre-dimensionado para
// todos los eventos posibles, así el productor nunca se bloquea esperando
// al consumidor (entrega en orden, sin backpressure).
//
// stop se consulta UNA vez por candidato, nunca a mitad de archivo: el
// hashing en curso siempre termina. Tras una señal positiva se emite
// Stopped, se persiste la caché y se cierra el stream sin procesar el
// resto de candidatos.
func (f *Finder) Scan(stop func() bool) <-chan entities.ScanEvent {
	if stop == nil {
		stop = func() bool { return false }
	}

	// --- FASE INIT (síncrona) ---
	if err := f.validateRoot(); err != nil {
		return singleErrorStream(err)
	}

	stats, err := f.InitialStats()
	if err != nil {
		return singleErrorStream(fmt.Errorf("error calculando estadísticas: %w", err))
	}

	filesBySize, err := f.sc.GroupBySize(f.root)
	if err != nil {
		return singleErrorStream(fmt.Errorf("fallo en scanner: %w", err))
	}

	// Candidatos: solo archivos cuyo tamaño comparte al menos otro archivo.
	var candidates []*entities.FileInfo
	for _, group := range filesBySize {
		if group.Count > 1 {
			candidates = append(candidates, group.Files...)
		}
	}

	// Un evento por candidato + inicial + cierre: el canal absorbe todo.
	events := make(chan entities.ScanEvent, len(candidates)+2)

	go f.runScan(events, candidates, stats, stop)

	return events
}

// runScan es el bucle productor. Corre en una única goroutine: el recorrido
// y el hashing son estrictamente secuenciales, y la caché solo se muta aquí.
func (f *Finder) runScan(events chan<- entities.ScanEvent, candidates []*entities.FileInfo, stats entities.TreeStats, stop func() bool) {
	defer close(events)

	start := time.Now()
	total := len(candidates)
	processed := 0
	var findings strings.Builder

	log.Infof("Iniciando escaneo en streaming: %s (%d candidatos)", f.root, total)

	// El mensaje de cada evento es acumulativo: todo hallazgo se añade a
	// findings y los consumidores pueden pintar solo el sufijo nuevo.
	findings.WriteString(fmt.Sprintf("Iniciando escaneo en: %s\n", f.root))
	events <- entities.ScanEvent{
		Status:   entities.StatusInit,
		Message:  findings.String(),
		Progress: buildProgress(0, total, start),
		Stats:    stats,
	}

	// Arena de anclas indexada por (tamaño, quick-hash). El hash completo
	// de cada ancla se calcula una única vez, en la primera comparación.
	anchors := make(map[streamKey][]*anchor)

	for _, file := range candidates {
		// Punto de sondeo de cancelación: una vez por candidato.
		if stop() {
			findings.WriteString(fmt.Sprintf("Escaneo detenido por el usuario tras procesar %d archivos.\n", processed))
			events <- entities.ScanEvent{
				Status:   entities.StatusStopped,
				Message:  findings.String(),
				Progress: buildProgress(processed, total, start),
				Stats:    stats,
			}
			f.flushCache()
			return
		}

		qh, err := hasher.QuickHash(file.Path)
		if err != nil {
			// Exclusión silenciosa para el usuario, registrada en el log.
			log.Warnf("Quick-hash fallido para '%s', se excluye: %v", file.Path, err)
			processed++
			events <- entities.ScanEvent{
				Status:   entities.StatusScanning,
				Message:  findings.String(),
				Progress: buildProgress(processed, total, start),
				Stats:    stats,
			}
			continue
		}
		file.QuickHash = qh

		key := streamKey{size: file.Size, quick: qh}
		matched, excluded := f.matchAgainstAnchors(file, anchors[key], &findings, &stats)
		if !matched && !excluded {
			// Sin pareja entre las anclas: el archivo pasa a ser ancla nueva.
			anchors[key] = append(anchors[key], &anchor{path: file.Path})
		}

		processed++
		events <- entities.ScanEvent{
			Status:   entities.StatusScanning,
			Message:  findings.String(),
			Progress: buildProgress(processed, total, start),
			Stats:    stats,
		}

		// Checkpoint periódico: acota la pérdida ante un cierre brusco
		// sin pagar una escritura por archivo.
		if f.opts.FlushEvery > 0 && processed%f.opts.FlushEvery == 0 {
			f.flushCache()
		}
	}

	findings.WriteString(fmt.Sprintf("Total de duplicados encontrados: %d\n", stats.DuplicatesFound))
	events <- entities.ScanEvent{
		Status:   entities.StatusFinished,
		Message:  findings.String(),
		Progress: finalProgress(total, start),
		Stats:    stats,
	}
	f.flushCache()
}

// matchAgainstAnchors compara el archivo contra cada ancla de su bucket.
// matched indica que se emitió un par; excluded, que el propio archivo
// resultó ilegible y no debe convertirse en ancla. Un fallo al hashear un
// ancla solo descarta esa ancla, no al archivo.
func (f *Finder) matchAgainstAnchors(file *entities.FileInfo, bucket []*anchor, findings *strings.Builder, stats *entities.TreeStats) (matched, excluded bool) {
	for _, a := range bucket {
		// Hash perezoso del ancla: solo la primera vez que se compara.
		if !a.hashed {
			h, err := f.fullHashCached(a.path)
			if err != nil {
				log.Warnf("Hash completo fallido para ancla '%s': %v", a.path, err)
				continue
			}
			a.full = h
			a.hashed = true
		}

		current, err := f.fullHashCached(file.Path)
		if err != nil {
			log.Warnf("Hash completo fallido para '%s', se excluye: %v", file.Path, err)
			return false, true
		}
		file.FullHash = current

		if current != a.full {
			continue
		}

		original, duplicate := canonical(file.Path, a.path)
		if original == file.Path {
			// El recién llegado destrona al ancla: las comparaciones
			// futuras del grupo usan el nuevo original canónico.
			a.path = file.Path
		}

		log.Infof("Duplicado en streaming: %s duplica a %s", duplicate, original)
		findings.WriteString(fmt.Sprintf("Duplicado: %s\n  Original: %s\n", duplicate, original))
		stats.DuplicatesFound++
		f.recordPair(duplicate, original)

		return true, false
	}
	return false, false
}

// singleErrorStream devuelve un stream ya cerrado con un único evento
// terminal de error: un par estado/mensaje y nada más.
func singleErrorStream(err error) <-chan entities.ScanEvent {
	log.Error(err)
	events := make(chan entities.ScanEvent, 1)
	events <- entities.ScanEvent{
		Status:  entities.StatusError,
		Message: err.Error(),
	}
	close(events)
	return events
}
