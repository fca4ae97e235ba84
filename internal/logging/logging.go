package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configura el logger global: fichero (truncado en cada ejecución)
// más stderr. Si el fichero no se puede abrir seguimos solo con stderr;
// perder el log no justifica abortar una limpieza de duplicados.
func Setup(logFile string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(log.InfoLevel)

	if logFile == "" {
		log.SetOutput(os.Stderr)
		return
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Warnf("No se pudo abrir el fichero de log '%s': %v", logFile, err)
		return
	}
	log.SetOutput(io.MultiWriter(f, os.Stderr))
}
