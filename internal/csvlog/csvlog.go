package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// Sink es el registro de auditoría en CSV: una fila por duplicado
// confirmado, en modo append. La cabecera solo se escribe si el fichero
// no existía todavía.
type Sink struct {
	path string
}

// New crea el sink apuntando a path. No toca el disco hasta el primer Append.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Append añade la fila (timestamp, duplicado, original).
func (s *Sink) Append(duplicate, original string) error {
	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("error abriendo CSV '%s': %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{"timestamp", "duplicate_file", "original_file"}); err != nil {
			return fmt.Errorf("error escribiendo cabecera CSV: %w", err)
		}
	}
	if err := w.Write([]string{time.Now().Format("2006-01-02 15:04:05"), duplicate, original}); err != nil {
		return fmt.Errorf("error escribiendo fila CSV: %w", err)
	}
	w.Flush()
	return w.Error()
}
