package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// TaskHandler tareas de recepción de cisterna (protegido).
type TaskHandler struct {
	receiving    *diesel.ReceivingUseCase
	deliveryNote *diesel.DeliveryNoteUseCase
}

// NewTaskHandler construye el handler. deliveryNote puede ser nil (PDF deshabilitado).
func NewTaskHandler(receiving *diesel.ReceivingUseCase, deliveryNote *diesel.DeliveryNoteUseCase) *TaskHandler {
	return &TaskHandler{receiving: receiving, deliveryNote: deliveryNote}
}

// Create godoc
// @Summary      Crear tarea de recepción (estado pending)
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Estación, cisterna y proveedor"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/diesel/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.CreateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.StationID == "" {
		in.StationID = GetStationID(c)
	}
	if err := validate.Struct(&in); err != nil {
		return writeError(c, err)
	}
	task, err := h.receiving.Create(c.Context(), actor, diesel.CreateTaskInput{
		StationID:  in.StationID,
		TankerID:   in.TankerID,
		SupplierID: in.SupplierID,
		EmployeeID: in.EmployeeID,
		TaskDate:   in.TaskDate,
		Notes:      in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(task))
}

// List godoc
// @Summary      Listar tareas de recepción
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        station_id   query  string  false  "Estación"
// @Param        employee_id  query  string  false  "Conductor / operador"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        status       query  string  false  "Estado"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/diesel/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	var in dto.TaskFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	in.DefaultPage()
	from, to, err := in.Bounds()
	if err != nil {
		return writeError(c, domain.InvalidFields("from", "to"))
	}
	list, err := h.receiving.List(c.Context(), GetBusinessID(c), repository.ReceivingTaskFilter{
		StationID:  in.StationID,
		EmployeeID: in.EmployeeID,
		SupplierID: in.SupplierID,
		Status:     entity.TaskStatus(in.Status),
		From:       from,
		To:         to,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewTaskResponse(t))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener tarea con sus etapas
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la tarea"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/diesel/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	task, err := h.receiving.Get(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Transition godoc
// @Summary      Avanzar la tarea al siguiente estado
// @Description  Solo se aceptan los campos de la etapa destino. Reenviar la misma etapa con los mismos datos no cambia nada.
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID de la tarea"
// @Param        body  body      dto.TransitionRequest  true  "Estado destino y datos de la etapa"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/diesel/tasks/{id}/transitions [post]
func (h *TaskHandler) Transition(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.TransitionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	payload, err := in.Payload()
	if err != nil {
		return writeError(c, err)
	}
	task, err := h.receiving.Transition(c.Context(), actor, c.Params("id"), payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Cancel godoc
// @Summary      Cancelar tarea
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID de la tarea"
// @Param        body  body      dto.CancelTaskRequest  false "Motivo"
// @Success      200   {object}  dto.TaskResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/diesel/tasks/{id}/cancel [post]
func (h *TaskHandler) Cancel(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.BusinessID == "" || actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.CancelTaskRequest
	if len(c.Body()) > 0 {
		if ok, err := bindBody(c, &in); !ok {
			return err
		}
	}
	task, err := h.receiving.Cancel(c.Context(), actor, c.Params("id"), in.Reason, in.At)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Reconciliation godoc
// @Summary      Recalcular la conciliación de la tarea sin modificarla
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la tarea"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/diesel/tasks/{id}/reconciliation [get]
func (h *TaskHandler) Reconciliation(c *fiber.Ctx) error {
	audit, err := h.receiving.Audit(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewReconciliationResponse(audit.Task, audit.Reconciliation, audit.Problem))
}

// DeliveryNote godoc
// @Summary      Nota de entrega en PDF de una tarea completada
// @Tags         tasks
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/diesel/tasks/{id}/delivery-note.pdf [get]
func (h *TaskHandler) DeliveryNote(c *fiber.Ctx) error {
	if h.deliveryNote == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "generación de PDF deshabilitada"})
	}
	pdf, filename, err := h.deliveryNote.Download(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
