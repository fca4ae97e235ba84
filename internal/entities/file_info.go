package entities

import (
	"time"
)

// FileInfo representa un archivo candidato durante una pasada de escaneo.
// Añadimos tags `json` para serialización. Los hashes se rellenan de forma
// perezosa según avanza el pipeline (Quick primero, Full solo si hace falta).
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size_bytes"`
	QuickHash uint64    `json:"quick_hash,omitempty"`
	FullHash  uint64    `json:"full_hash,omitempty"`
	ModTime   time.Time `json:"mod_time"`
}

// SizeGroup representa un conjunto de archivos que comparten tamaño exacto.
type SizeGroup struct {
	Count int64       `json:"count"`
	Files []*FileInfo `json:"files"`
}

// Add agrega un archivo al grupo
func (sg *SizeGroup) Add(f *FileInfo) {
	sg.Files = append(sg.Files, f)
	sg.Count++
}

// DuplicatePair es el resultado final del motor: un duplicado confirmado
// por hash completo junto al original canónico que sobrevive.
type DuplicatePair struct {
	Duplicate string `json:"duplicate"`
	Original  string `json:"original"`
}

// TreeStats son los contadores globales del árbol. Se calculan una sola vez
// al arrancar el escaneo y SIN filtros: informan, no seleccionan candidatos.
// DuplicatesFound es el único campo acumulativo.
type TreeStats struct {
	TotalFiles      int `json:"total_files"`
	TotalSubfolders int `json:"total_subfolders"`
	UniqueSizeFiles int `json:"unique_size_files"`
	DuplicatesFound int `json:"duplicates_found"`
}

// Progress describe el avance tras cada archivo procesado.
type Progress struct {
	Processed int           `json:"processed"`
	Total     int           `json:"total"`
	Percent   int           `json:"percent"`
	Elapsed   time.Duration `json:"elapsed"`
	ETA       time.Duration `json:"eta"`
	// HasETA es false hasta procesar el primer archivo:
	// sin muestras no hay extrapolación posible.
	HasETA bool `json:"has_eta"`
}
