package actions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/soyunomas/dupcleaner/internal/entities"
)

// Delete elimina cada duplicado de la lista acumulando el espacio liberado.
// Con simulate=true hace la misma contabilidad de bytes sin tocar el disco.
// Un fallo por archivo (permisos, ya borrado) se registra y se salta;
// nunca aborta el lote.
func Delete(pairs []entities.DuplicatePair, simulate bool) entities.DeleteResult {
	var result entities.DeleteResult

	for _, pair := range pairs {
		info, err := os.Stat(pair.Duplicate)
		if err != nil {
			log.Errorf("Error accediendo a '%s': %v", pair.Duplicate, err)
			continue
		}
		result.SpaceFreed += info.Size()

		if simulate {
			result.SimulatedCount++
			log.Infof("Borrado simulado: %s", pair.Duplicate)
			continue
		}

		if err := os.Remove(pair.Duplicate); err != nil {
			log.Errorf("Error borrando '%s': %v", pair.Duplicate, err)
			// El tamaño ya sumado se retira: el archivo sigue ocupando sitio.
			result.SpaceFreed -= info.Size()
			continue
		}
		result.DeletedCount++
		result.DeletedFiles = append(result.DeletedFiles, pair.Duplicate)
		log.Infof("Borrado: %s", pair.Duplicate)
	}

	return result
}

// Move reubica cada duplicado (por nombre de archivo) dentro de targetDir,
// creándolo si no existe. No poder crear el destino aborta la operación
// completa; un fallo individual (colisión de nombre, permisos) solo salta
// ese archivo.
func Move(pairs []entities.DuplicatePair, targetDir string) (entities.MoveResult, error) {
	var result entities.MoveResult

	if info, err := os.Stat(targetDir); err != nil {
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return result, fmt.Errorf("error creando la carpeta destino '%s': %w", targetDir, err)
		}
		log.Infof("Carpeta destino creada: %s", targetDir)
	} else if !info.IsDir() {
		return result, fmt.Errorf("el destino '%s' no es un directorio", targetDir)
	}

	for _, pair := range pairs {
		destPath := filepath.Join(targetDir, filepath.Base(pair.Duplicate))
		// Una colisión de nombre en destino es un fallo por archivo,
		// no un motivo para abortar el lote.
		if _, err := os.Stat(destPath); err == nil {
			log.Errorf("Error moviendo '%s': ya existe '%s'", pair.Duplicate, destPath)
			continue
		}
		if err := moveFile(pair.Duplicate, destPath); err != nil {
			log.Errorf("Error moviendo '%s': %v", pair.Duplicate, err)
			continue
		}
		result.MovedCount++
		result.MovedFiles = append(result.MovedFiles, destPath)
		log.Infof("Movido '%s' a '%s'", pair.Duplicate, destPath)
	}

	return result, nil
}

// moveFile intenta un Rename (atómico dentro del mismo FS) y si falla por
// cruce de dispositivos degrada a copiar y borrar.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDeviceError(err) {
		return err
	}
	return moveCrossDevice(src, dst)
}

// isCrossDeviceError detecta si el error es "invalid cross-device link"
func isCrossDeviceError(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err == syscall.EXDEV
	}
	return false
}

// moveCrossDevice copia y borra (para mover entre particiones)
func moveCrossDevice(src, dst string) error {
	input, err := os.Open(src)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(output, input); err != nil {
		output.Close()
		return err
	}

	// Cerrar explícitamente para asegurar flush antes de borrar el origen.
	if err := output.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
