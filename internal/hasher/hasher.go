package hasher

import (
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ChunkSize optimiza la lectura del disco (32KB es un buen estándar)
const ChunkSize = 32 * 1024

// QuickWindow define cuánto leemos para la criba rápida (4KB iniciales).
// Dos archivos con ventana distinta NUNCA son duplicados; con ventana
// igual solo son candidatos y los decide el hash completo.
const QuickWindow = 4 * 1024

// bufferPool solo para cargas pesadas (FullHash completo)
var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, ChunkSize)
		return &b
	},
}

// hashPool para reutilizar el estado del digest
var hashPool = sync.Pool{
	New: func() any {
		return xxhash.New()
	},
}

// FullHash calcula el hash xxhash64 del contenido completo, por bloques.
// Aquí SÍ vale la pena usar Pools.
func FullHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h := hashPool.Get().(*xxhash.Digest)
	h.Reset()
	defer hashPool.Put(h)

	bufPtr := bufferPool.Get().(*[]byte)
	buf := *bufPtr
	defer bufferPool.Put(bufPtr)

	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

// QuickHash calcula el hash de la ventana inicial, optimizado para baja
// latencia. NO usa sync.Pool de buffers: en lecturas pequeñas la
// contención del pool cuesta más que el alloc.
func QuickHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h := hashPool.Get().(*xxhash.Digest)
	h.Reset()
	defer hashPool.Put(h)

	// Archivos más cortos que la ventana: se muestrea lo que haya.
	buf := make([]byte, QuickWindow)
	n, err := io.ReadFull(file, buf)

	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}

	_, _ = h.Write(buf[:n])

	return h.Sum64(), nil
}
