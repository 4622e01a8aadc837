package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Diesel-api/internal/application/analytics"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler reportes de diesel en JSON o XLSX (protegido).
type ReportHandler struct {
	reports  *analytics.ReportsUseCase
	exporter ports.ReportExporter
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *analytics.ReportsUseCase, exporter ports.ReportExporter) *ReportHandler {
	return &ReportHandler{reports: reports, exporter: exporter}
}

func (h *ReportHandler) request(c *fiber.Ctx) (dto.ReportRequest, *time.Time, *time.Time, bool, error) {
	var in dto.ReportRequest
	if ok, err := bindQuery(c, &in); !ok {
		return in, nil, nil, false, err
	}
	from, to, err := in.Bounds()
	if err != nil {
		return in, nil, nil, false, writeError(c, domain.InvalidFields("from", "to"))
	}
	return in, from, to, true, nil
}

// respond envía JSON o el archivo XLSX según format.
func (h *ReportHandler) respond(c *fiber.Ctx, format, name string, body interface{}, export func() ([]byte, error)) error {
	if format != "xlsx" {
		return c.JSON(body)
	}
	if h.exporter == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "exportación deshabilitada"})
	}
	data, err := export()
	if err != nil {
		return writeError(c, fmt.Errorf("exportar %s: %w", name, err))
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().UTC().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// ConsumptionSummary godoc
// @Summary      Resumen de entradas, salidas y existencia
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        station_id  query  string  false  "Estación"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Param        format      query  string  false  "json | xlsx"
// @Success      200  {object}  dto.ConsumptionSummaryDTO
// @Router       /api/diesel/reports/consumption-summary [get]
func (h *ReportHandler) ConsumptionSummary(c *fiber.Ctx) error {
	in, from, to, ok, err := h.request(c)
	if !ok {
		return err
	}
	r, err := h.reports.ConsumptionSummary(c.Context(), GetBusinessID(c), in.StationID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, in.Format, "resumen_consumo", r, func() ([]byte, error) { return h.exporter.ConsumptionSummary(r) })
}

// TankLevels godoc
// @Summary      Niveles actuales de los tanques
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        station_id  query  string  false  "Estación"
// @Param        format      query  string  false  "json | xlsx"
// @Success      200  {object}  dto.TankLevelsDTO
// @Router       /api/diesel/reports/tank-levels [get]
func (h *ReportHandler) TankLevels(c *fiber.Ctx) error {
	in, _, _, ok, err := h.request(c)
	if !ok {
		return err
	}
	r, err := h.reports.TankLevels(c.Context(), GetBusinessID(c), in.StationID)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, in.Format, "niveles_tanques", r, func() ([]byte, error) { return h.exporter.TankLevels(r) })
}

// ReceivingTasks godoc
// @Summary      Reporte de tareas de recepción
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        station_id  query  string  false  "Estación"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Param        format      query  string  false  "json | xlsx"
// @Success      200  {object}  dto.ReceivingTasksReportDTO
// @Router       /api/diesel/reports/receiving-tasks [get]
func (h *ReportHandler) ReceivingTasks(c *fiber.Ctx) error {
	in, from, to, ok, err := h.request(c)
	if !ok {
		return err
	}
	r, err := h.reports.ReceivingTasks(c.Context(), GetBusinessID(c), in.StationID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, in.Format, "tareas_recepcion", r, func() ([]byte, error) { return h.exporter.ReceivingTasks(r) })
}
