package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain"
)

// LocalError guarda el error interno para el logger de peticiones.
const LocalError = "error"

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: los errores detallados se evalúan antes con errors.As.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "transición de estado inválida"},
	{domain.ErrAlreadyRecorded, fiber.StatusConflict, "ALREADY_RECORDED", "la etapa ya fue registrada con otros datos"},
	{domain.ErrOverCapacity, fiber.StatusConflict, "OVER_CAPACITY", "el movimiento excede la capacidad del tanque"},
	{domain.ErrInsufficientVolume, fiber.StatusConflict, "INSUFFICIENT_VOLUME", "volumen insuficiente en el tanque"},
	{domain.ErrUnmeasurable, fiber.StatusUnprocessableEntity, "UNMEASURABLE", "no hay forma de medir la cantidad recibida"},
	{domain.ErrDiscrepancyUnexplained, fiber.StatusUnprocessableEntity, "DISCREPANCY_UNEXPLAINED", "diferencia fuera de tolerancia: se requieren notas"},
}

// writeError traduce errores de dominio a status + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = validationError(verrs)
	}

	details := map[string]any{}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		details["fields"] = ve.Fields
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		details["from"] = te.From
		details["to"] = te.To
		if te.Expected != "" {
			details["expected"] = te.Expected
		}
	}
	var le *domain.LevelError
	if errors.As(err, &le) {
		details["tank_id"] = le.TankID
		details["level"] = le.Level.String()
		details["capacity"] = le.Capacity.String()
		details["quantity"] = le.Quantity.String()
	}
	if len(details) == 0 {
		details = nil
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if m.status == fiber.StatusBadRequest || m.status == fiber.StatusConflict || m.status == fiber.StatusUnprocessableEntity {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg, Details: details})
		}
	}
	c.Locals(LocalError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
