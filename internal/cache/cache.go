package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// entry guarda lo mínimo para validar un hash: el mtime observado al
// calcularlo. La igualdad de mtime es la ÚNICA señal de confianza; un
// archivo reescrito conservando su mtime se da por no modificado.
type entry struct {
	MTimeNs int64  `json:"mtime_ns"`
	Hash    uint64 `json:"hash"`
}

// HashCache es el almacén persistente ruta→(mtime, hash completo).
// Es una optimización pura: cualquier fallo de carga o escritura degrada
// a caché vacía/en memoria, nunca a error del escaneo.
type HashCache struct {
	path    string
	entries map[string]entry
}

// Open crea la caché y carga el estado previo si existe.
// Un fichero ausente o corrupto se trata como caché vacía (con aviso).
func Open(path string) *HashCache {
	c := &HashCache{
		path:    path,
		entries: make(map[string]entry),
	}
	c.load()
	return c
}

func (c *HashCache) load() {
	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("No se pudo leer la caché de hashes '%s': %v", c.path, err)
		}
		return
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Warnf("Caché de hashes corrupta en '%s', se ignora: %v", c.path, err)
		c.entries = make(map[string]entry)
		return
	}
	log.Infof("Caché de hashes cargada: %d entradas", len(c.entries))
}

// Lookup devuelve el hash almacenado solo si el mtime guardado coincide
// exactamente con el actual. En cualquier otro caso actúa como ausente
// y el llamante debe recalcular.
func (c *HashCache) Lookup(path string, mtime time.Time) (uint64, bool) {
	e, ok := c.entries[path]
	if !ok {
		return 0, false
	}
	if e.MTimeNs != mtime.UnixNano() {
		return 0, false
	}
	return e.Hash, true
}

// Store registra (o actualiza) el hash de una ruta con su mtime actual.
func (c *HashCache) Store(path string, mtime time.Time, hash uint64) {
	c.entries[path] = entry{MTimeNs: mtime.UnixNano(), Hash: hash}
}

// Flush sobreescribe el fichero completo con el estado en memoria.
// El fallo se devuelve para que el llamante lo registre; la caché en
// memoria sigue siendo la autoridad durante el resto del proceso.
func (c *HashCache) Flush() error {
	if c.path == "" {
		return nil
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("error serializando caché: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("error guardando caché en '%s': %w", c.path, err)
	}
	return nil
}

// Len devuelve el número de entradas en memoria.
func (c *HashCache) Len() int {
	return len(c.entries)
}
