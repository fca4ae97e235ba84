package engine

import (
	"fmt"
	"time"

	"github.com/soyunomas/dupcleaner/internal/entities"
)

// buildProgress recalcula el indicador tras cada archivo: porcentaje,
// tiempo transcurrido y ETA extrapolada del tiempo medio por archivo.
func buildProgress(processed, total int, start time.Time) entities.Progress {
	elapsed := time.Since(start)

	percent := 100
	if total > 0 {
		percent = processed * 100 / total
	}

	p := entities.Progress{
		Processed: processed,
		Total:     total,
		Percent:   percent,
		Elapsed:   elapsed,
	}

	if processed > 0 {
		remaining := total - processed
		perFile := elapsed / time.Duration(processed)
		p.ETA = perFile * time.Duration(remaining)
		p.HasETA = true
	}

	return p
}

// finalProgress es el indicador del evento Finished: 100% y ETA cero.
func finalProgress(total int, start time.Time) entities.Progress {
	return entities.Progress{
		Processed: total,
		Total:     total,
		Percent:   100,
		Elapsed:   time.Since(start),
		ETA:       0,
		HasETA:    true,
	}
}

// FormatDuration presenta una duración como HH:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatProgress es la línea de progreso legible que pintan los frontales.
func FormatProgress(p entities.Progress) string {
	eta := "Calculando..."
	if p.HasETA {
		eta = FormatDuration(p.ETA)
	}
	return fmt.Sprintf("Procesados %d / %d archivos (%d%%). Transcurrido: %s, ETA: %s",
		p.Processed, p.Total, p.Percent, FormatDuration(p.Elapsed), eta)
}
