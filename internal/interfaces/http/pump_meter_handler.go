package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/usecase"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// PumpMeterHandler contadores de bomba y registro de lecturas (protegido).
type PumpMeterHandler struct {
	meters   *usecase.PumpMeterUseCase
	readings *diesel.ReadingUseCase
}

// NewPumpMeterHandler construye el handler.
func NewPumpMeterHandler(meters *usecase.PumpMeterUseCase, readings *diesel.ReadingUseCase) *PumpMeterHandler {
	return &PumpMeterHandler{meters: meters, readings: readings}
}

// Create godoc
// @Summary      Registrar contador de bomba
// @Tags         pump-meters
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePumpMeterRequest  true  "Contador"
// @Success      201   {object}  dto.PumpMeterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/diesel/pump-meters [post]
func (h *PumpMeterHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePumpMeterRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.meters.Create(c.Context(), businessID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar contadores
// @Tags         pump-meters
// @Security     Bearer
// @Produce      json
// @Param        station_id   query  string  false  "Estación"
// @Param        type         query  string  false  "supplier | intake | output"
// @Param        active_only  query  bool    false  "Solo activos"
// @Success      200  {array}   dto.PumpMeterResponse
// @Router       /api/diesel/pump-meters [get]
func (h *PumpMeterHandler) List(c *fiber.Ctx) error {
	var in dto.PumpMeterFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	list, err := h.meters.List(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener contador
// @Tags         pump-meters
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del contador"
// @Success      200  {object}  dto.PumpMeterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/diesel/pump-meters/{id} [get]
func (h *PumpMeterHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.meters.GetByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar metadatos del contador (la lectura no se edita)
// @Tags         pump-meters
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del contador"
// @Param        body  body      dto.UpdatePumpMeterRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.PumpMeterResponse
// @Router       /api/diesel/pump-meters/{id} [put]
func (h *PumpMeterHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePumpMeterRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.meters.Update(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MeterReadings godoc
// @Summary      Lecturas de un contador
// @Tags         pump-meters
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true  "ID del contador"
// @Success      200  {array}   dto.PumpReadingResponse
// @Router       /api/diesel/pump-meters/{id}/readings [get]
func (h *PumpMeterHandler) MeterReadings(c *fiber.Ctx) error {
	var in dto.ReadingFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	in.PumpMeterID = c.Params("id")
	return h.listReadings(c, in)
}

// Audit godoc
// @Summary      Reclasificar el historial de lecturas de un contador
// @Tags         pump-meters
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del contador"
// @Success      200  {object}  dto.MeterAuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/diesel/pump-meters/{id}/audit [get]
func (h *PumpMeterHandler) Audit(c *fiber.Ctx) error {
	audit, err := h.readings.Audit(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewMeterAuditResponse(audit.Meter, audit.Verdicts))
}

// RecordReading godoc
// @Summary      Registrar lectura de contador
// @Description  Una lectura menor a la anterior se acepta marcada como anómala.
// @Tags         pump-readings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordReadingRequest  true  "Lectura"
// @Success      201   {object}  dto.PumpReadingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/diesel/pump-readings [post]
func (h *PumpMeterHandler) RecordReading(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.RecordReadingRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	rd, err := h.readings.Record(c.Context(), actor, diesel.ReadingInput{
		MeterID:     in.PumpMeterID,
		Value:       in.ReadingValue,
		Type:        entity.ReadingType(in.ReadingType),
		TaskID:      in.TaskID,
		EvidenceKey: in.EvidenceKey,
		At:          in.ReadingAt,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPumpReadingResponse(rd))
}

// ListReadings godoc
// @Summary      Consultar el registro de lecturas
// @Tags         pump-readings
// @Security     Bearer
// @Produce      json
// @Param        pump_meter_id   query  string  false  "Contador"
// @Param        task_id         query  string  false  "Tarea"
// @Param        anomalous_only  query  bool    false  "Solo anómalas"
// @Param        from            query  string  false  "YYYY-MM-DD"
// @Param        to              query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.PumpReadingResponse
// @Router       /api/diesel/pump-readings [get]
func (h *PumpMeterHandler) ListReadings(c *fiber.Ctx) error {
	var in dto.ReadingFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	return h.listReadings(c, in)
}

func (h *PumpMeterHandler) listReadings(c *fiber.Ctx, in dto.ReadingFilterRequest) error {
	in.DefaultPage()
	from, to, err := in.Bounds()
	if err != nil {
		return writeError(c, domain.InvalidFields("from", "to"))
	}
	list, err := h.readings.List(c.Context(), GetBusinessID(c), repository.PumpReadingFilter{
		PumpMeterID:   in.PumpMeterID,
		TaskID:        in.TaskID,
		AnomalousOnly: in.AnomalousOnly,
		From:          from,
		To:            to,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PumpReadingResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewPumpReadingResponse(r))
	}
	return c.JSON(out)
}
