package entities

// Status etiqueta cada evento emitido por el escaneo en streaming.
type Status string

const (
	StatusInit     Status = "Init"
	StatusScanning Status = "Scanning"
	StatusStopped  Status = "Stopped"
	StatusFinished Status = "Finished"
	StatusError    Status = "Error"
)

// ScanEvent es la unidad del stream: un evento por archivo procesado,
// más el evento inicial y el de cierre (Stopped/Finished/Error).
type ScanEvent struct {
	Status Status `json:"status"`
	// Message acumula los hallazgos legibles hasta el momento.
	Message  string    `json:"message"`
	Progress Progress  `json:"progress"`
	Stats    TreeStats `json:"stats"`
}

// DeleteResult resume un borrado (real o simulado) de duplicados.
type DeleteResult struct {
	DeletedCount   int      `json:"deleted_count"`
	SimulatedCount int      `json:"simulated_count"`
	SpaceFreed     int64    `json:"space_freed_bytes"`
	DeletedFiles   []string `json:"deleted_files"`
}

// MoveResult resume una reubicación de duplicados.
type MoveResult struct {
	MovedCount int      `json:"moved_count"`
	MovedFiles []string `json:"moved_files"`
}
