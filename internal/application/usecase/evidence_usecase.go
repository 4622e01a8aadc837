package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/domain"
)

const defaultEvidenceFolder = "diesel"

var (
	dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

	evidenceContentTypes = map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
	}
)

// EvidenceUseCase sube fotos de evidencia (contadores, facturas) al almacenamiento de objetos.
type EvidenceUseCase struct {
	store ports.EvidenceStore
	now   func() time.Time
}

// NewEvidenceUseCase construye el caso de uso.
func NewEvidenceUseCase(store ports.EvidenceStore) *EvidenceUseCase {
	return &EvidenceUseCase{store: store, now: time.Now}
}

// Upload decodifica el base64, resuelve el content type por extensión y guarda el objeto
// bajo <folder>/<unix-millis>_<fileName>.
func (uc *EvidenceUseCase) Upload(ctx context.Context, in dto.EvidenceUploadRequest) (*dto.EvidenceResponse, error) {
	data, err := base64.StdEncoding.DecodeString(dataURIPrefix.ReplaceAllString(in.Data, ""))
	if err != nil || len(data) == 0 {
		return nil, domain.InvalidFields("data")
	}
	return uc.UploadBytes(ctx, in.Folder, in.FileName, data)
}

// UploadBytes guarda bytes ya decodificados (multipart).
func (uc *EvidenceUseCase) UploadBytes(ctx context.Context, folder, fileName string, data []byte) (*dto.EvidenceResponse, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, domain.InvalidFields("file_name")
	}
	if len(data) == 0 {
		return nil, domain.InvalidFields("data")
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = defaultEvidenceFolder
	}
	key := fmt.Sprintf("%s/%d_%s", folder, uc.now().UnixMilli(), fileName)
	url, err := uc.store.Upload(ctx, key, ContentTypeFor(fileName), data)
	if err != nil {
		return nil, fmt.Errorf("subir evidencia: %w", err)
	}
	return &dto.EvidenceResponse{URL: url, Key: key}, nil
}

// ContentTypeFor content type según extensión; image/jpeg si no se reconoce.
func ContentTypeFor(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ct, ok := evidenceContentTypes[ext]; ok {
		return ct
	}
	return "image/jpeg"
}
