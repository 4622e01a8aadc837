package ports

import "context"

// EvidenceStore puerto de salida para el almacenamiento de evidencias fotográficas
// (fotos de contadores, facturas, varillas). Recibe bytes y devuelve la URL pública o firmada.
type EvidenceStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (url string, err error)
}
