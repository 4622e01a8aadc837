package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// MovementHandler libro de movimientos y consumos de generadores (protegido).
type MovementHandler struct {
	ledger       *diesel.LedgerUseCase
	consumptions *diesel.ConsumptionUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *diesel.LedgerUseCase, consumptions *diesel.ConsumptionUseCase) *MovementHandler {
	return &MovementHandler{ledger: ledger, consumptions: consumptions}
}

// Adjustment godoc
// @Summary      Ajuste manual de nivel (requiere notas)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustmentRequest  true  "Tanque, sentido, cantidad y notas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/diesel/movements/adjustments [post]
func (h *MovementHandler) Adjustment(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustmentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	mov, err := h.ledger.Append(c.Context(), actor, diesel.MovementInput{
		Spec:     entity.Adjustment{TankID: in.TankID, Direction: entity.AdjustmentDirection(in.Direction), Notes: in.Notes},
		Quantity: in.Quantity,
		At:       in.MovementAt,
		Notes:    in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Transfer godoc
// @Summary      Traslado entre tanques de la misma estación
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "Origen, destino y cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/diesel/movements/transfers [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	mov, err := h.ledger.Append(c.Context(), actor, diesel.MovementInput{
		Spec:     entity.Transfer{FromTankID: in.FromTankID, ToTankID: in.ToTankID, OutputPump: in.OutputPump.OutputPumpReadings()},
		Quantity: in.Quantity,
		At:       in.MovementAt,
		Notes:    in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        station_id  query  string  false  "Estación"
// @Param        tank_id     query  string  false  "Tanque (origen o destino)"
// @Param        task_id     query  string  false  "Tarea de recepción"
// @Param        type        query  string  false  "receiving | transfer | consumption | adjustment"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/diesel/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	in.DefaultPage()
	from, to, err := in.Bounds()
	if err != nil {
		return writeError(c, domain.InvalidFields("from", "to"))
	}
	list, err := h.ledger.List(c.Context(), GetBusinessID(c), repository.TankMovementFilter{
		StationID: in.StationID,
		TankID:    in.TankID,
		TaskID:    in.TaskID,
		Type:      entity.MovementType(in.Type),
		From:      from,
		To:        to,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(out)
}

// RecordConsumption godoc
// @Summary      Registrar consumo diario de generador
// @Tags         consumptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RecordConsumptionRequest  true  "Niveles inicial y final, horas de marcha"
// @Success      201   {object}  dto.ConsumptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/diesel/consumptions [post]
func (h *MovementHandler) RecordConsumption(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.RecordConsumptionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	var date time.Time
	if in.ConsumptionDate != "" {
		d, err := time.Parse("2006-01-02", in.ConsumptionDate)
		if err != nil {
			return writeError(c, domain.InvalidFields("consumption_date"))
		}
		date = d
	}
	rec, err := h.consumptions.Record(c.Context(), actor, diesel.ConsumptionInput{
		GeneratorID:  in.GeneratorID,
		TankID:       in.TankID,
		Date:         date,
		StartLevel:   in.StartLevel,
		EndLevel:     in.EndLevel,
		RunningHours: in.RunningHours,
		OutputPump:   in.OutputPump.OutputPumpReadings(),
		Notes:        in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewConsumptionResponse(rec))
}

// ListConsumptions godoc
// @Summary      Consumos de generadores
// @Tags         consumptions
// @Security     Bearer
// @Produce      json
// @Param        station_id    query  string  false  "Estación"
// @Param        generator_id  query  string  false  "Generador"
// @Param        tank_id       query  string  false  "Tanque"
// @Param        from          query  string  false  "YYYY-MM-DD"
// @Param        to            query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.ConsumptionResponse
// @Router       /api/diesel/consumptions [get]
func (h *MovementHandler) ListConsumptions(c *fiber.Ctx) error {
	var in dto.ConsumptionFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	in.DefaultPage()
	from, to, err := in.Bounds()
	if err != nil {
		return writeError(c, domain.InvalidFields("from", "to"))
	}
	list, err := h.consumptions.List(c.Context(), GetBusinessID(c), repository.ConsumptionFilter{
		StationID:   in.StationID,
		GeneratorID: in.GeneratorID,
		TankID:      in.TankID,
		From:        from,
		To:          to,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ConsumptionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewConsumptionResponse(r))
	}
	return c.JSON(out)
}

// ConsumptionStatistics godoc
// @Summary      Estadísticas de consumo por generador
// @Tags         consumptions
// @Security     Bearer
// @Produce      json
// @Param        generator_id  query  string  true   "Generador"
// @Param        from          query  string  false  "YYYY-MM-DD"
// @Param        to            query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.ConsumptionStatisticsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/diesel/consumptions/statistics [get]
func (h *MovementHandler) ConsumptionStatistics(c *fiber.Ctx) error {
	var in dto.ConsumptionFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	from, to, err := in.Bounds()
	if err != nil {
		return writeError(c, domain.InvalidFields("from", "to"))
	}
	stats, err := h.consumptions.Statistics(c.Context(), GetBusinessID(c), in.GeneratorID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewConsumptionStatisticsResponse(stats))
}
