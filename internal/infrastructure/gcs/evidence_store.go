// Package gcs almacena las evidencias fotográficas en Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/pkg/config"
)

var _ ports.EvidenceStore = (*EvidenceStore)(nil)

// EvidenceStore implementa ports.EvidenceStore sobre un bucket de GCS.
type EvidenceStore struct {
	client *storage.Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// NewEvidenceStore crea el cliente. Sin CredentialsFile usa las credenciales por defecto del entorno.
func NewEvidenceStore(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (*EvidenceStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: GCS_BUCKET vacío")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("gcs: credenciales no encontradas en %s", cfg.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: crear cliente: %w", err)
	}
	return &EvidenceStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, log: log}, nil
}

// ObjectName nombre del objeto dentro del bucket.
func ObjectName(prefix, key string) string {
	key = strings.TrimPrefix(key, "/")
	if prefix == "" {
		return key
	}
	return path.Join(strings.Trim(prefix, "/"), key)
}

// PublicURL URL pública del objeto.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// Upload sube los bytes y devuelve la URL del objeto.
func (s *EvidenceStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	object := ObjectName(s.prefix, key)
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "private, max-age=0"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: escribir %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: cerrar escritor de %s: %w", object, err)
	}
	s.log.Debug().Str("object", object).Int("bytes", len(data)).Msg("evidencia subida")
	return PublicURL(s.bucket, object), nil
}

// Close libera el cliente.
func (s *EvidenceStore) Close() error {
	return s.client.Close()
}
