package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/usecase"
)

// TankHandler tanques y configuración de diesel por estación (protegido).
type TankHandler struct {
	tanks   *usecase.TankUseCase
	configs *usecase.StationConfigUseCase
}

// NewTankHandler construye el handler.
func NewTankHandler(tanks *usecase.TankUseCase, configs *usecase.StationConfigUseCase) *TankHandler {
	return &TankHandler{tanks: tanks, configs: configs}
}

// Create godoc
// @Summary      Registrar tanque
// @Description  initial_level > 0 se registra como ajuste de apertura.
// @Tags         tanks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTankRequest  true  "Tanque"
// @Success      201   {object}  dto.TankResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/diesel/tanks [post]
func (h *TankHandler) Create(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" {
		return unauthorized(c)
	}
	var in dto.CreateTankRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.tanks.Create(c.Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tanques
// @Tags         tanks
// @Security     Bearer
// @Produce      json
// @Param        station_id   query  string  false  "Estación"
// @Param        role         query  string  false  "receiving | main | generator"
// @Param        active_only  query  bool    false  "Solo activos"
// @Success      200  {array}   dto.TankResponse
// @Router       /api/diesel/tanks [get]
func (h *TankHandler) List(c *fiber.Ctx) error {
	var in dto.TankFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	list, err := h.tanks.List(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener tanque
// @Tags         tanks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tanque"
// @Success      200  {object}  dto.TankResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/diesel/tanks/{id} [get]
func (h *TankHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.tanks.GetByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar metadatos del tanque (el nivel solo cambia con movimientos)
// @Tags         tanks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del tanque"
// @Param        body  body      dto.UpdateTankRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.TankResponse
// @Router       /api/diesel/tanks/{id} [put]
func (h *TankHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTankRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.tanks.Update(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetConfig godoc
// @Summary      Configuración de diesel de la estación
// @Tags         stations
// @Security     Bearer
// @Produce      json
// @Param        stationId  path      string  true  "Estación"
// @Success      200        {object}  dto.StationConfigResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/diesel/stations/{stationId}/config [get]
func (h *TankHandler) GetConfig(c *fiber.Ctx) error {
	out, err := h.configs.Get(c.Context(), GetBusinessID(c), c.Params("stationId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveConfig godoc
// @Summary      Guardar configuración de diesel de la estación
// @Tags         stations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        stationId  path      string                    true  "Estación"
// @Param        body       body      dto.StationConfigRequest  true  "Configuración"
// @Success      200        {object}  dto.StationConfigResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/diesel/stations/{stationId}/config [put]
func (h *TankHandler) SaveConfig(c *fiber.Ctx) error {
	var in dto.StationConfigRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.configs.Save(c.Context(), actorFrom(c), c.Params("stationId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
