package http

import (
	"io"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/usecase"
	"github.com/jhoicas/Diesel-api/internal/domain"
)

// maxEvidenceBytes tamaño máximo de una foto de evidencia.
const maxEvidenceBytes = 10 << 20

// EvidenceHandler subida de evidencias fotográficas (protegido).
type EvidenceHandler struct {
	uc *usecase.EvidenceUseCase
}

// NewEvidenceHandler construye el handler. uc nil = evidencias deshabilitadas.
func NewEvidenceHandler(uc *usecase.EvidenceUseCase) *EvidenceHandler {
	return &EvidenceHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir evidencia (multipart campo "file" o JSON base64)
// @Tags         evidence
// @Security     Bearer
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        file    formData  file    false  "Imagen"
// @Param        folder  formData  string  false  "Carpeta"
// @Success      201  {object}  dto.EvidenceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/diesel/evidence [post]
func (h *EvidenceHandler) Upload(c *fiber.Ctx) error {
	if h.uc == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "almacenamiento de evidencias no configurado"})
	}
	folder := GetBusinessID(c)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, domain.InvalidFields("file"))
		}
		if fh.Size > maxEvidenceBytes {
			return writeError(c, domain.InvalidFields("file"))
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, err)
		}
		if sub := cleanFolder(c.FormValue("folder")); sub != "" {
			folder = folder + "/" + sub
		}
		out, err := h.uc.UploadBytes(c.Context(), folder, fh.Filename, data)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}

	var in dto.EvidenceUploadRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	if sub := cleanFolder(in.Folder); sub != "" {
		folder = folder + "/" + sub
	}
	in.Folder = folder
	out, err := h.uc.Upload(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// cleanFolder subcarpeta relativa: sin "..", siempre bajo la carpeta del negocio.
func cleanFolder(sub string) string {
	return strings.Trim(path.Clean("/"+sub), "/")
}
