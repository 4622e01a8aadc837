package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Diesel-api/internal/application/analytics"
	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/application/usecase"
	"github.com/jhoicas/Diesel-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PumpMeterUC     *usecase.PumpMeterUseCase
	TankUC          *usecase.TankUseCase
	StationConfigUC *usecase.StationConfigUseCase
	EvidenceUC      *usecase.EvidenceUseCase
	Readings        *diesel.ReadingUseCase
	Receiving       *diesel.ReceivingUseCase
	Ledger          *diesel.LedgerUseCase
	Consumptions    *diesel.ConsumptionUseCase
	DeliveryNote    *diesel.DeliveryNoteUseCase
	Reports         *analytics.ReportsUseCase
	Exporter        ports.ReportExporter
	// Gatherer nil = sin /metrics.
	Gatherer  prometheus.Gatherer
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Todas las rutas de diesel requieren Bearer Token
	api := app.Group("/api/diesel", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	supervisors := RequireRole(jwt.RoleAdmin, jwt.RoleSupervisor)

	// Contadores y lecturas
	meters := NewPumpMeterHandler(deps.PumpMeterUC, deps.Readings)
	api.Post("/pump-meters", adminOnly, meters.Create)
	api.Get("/pump-meters", meters.List)
	api.Get("/pump-meters/:id", meters.GetByID)
	api.Put("/pump-meters/:id", adminOnly, meters.Update)
	api.Get("/pump-meters/:id/readings", meters.MeterReadings)
	api.Get("/pump-meters/:id/audit", supervisors, meters.Audit)
	api.Post("/pump-readings", meters.RecordReading)
	api.Get("/pump-readings", meters.ListReadings)

	// Tanques y configuración de estación
	tanks := NewTankHandler(deps.TankUC, deps.StationConfigUC)
	api.Post("/tanks", adminOnly, tanks.Create)
	api.Get("/tanks", tanks.List)
	api.Get("/tanks/:id", tanks.GetByID)
	api.Put("/tanks/:id", adminOnly, tanks.Update)
	api.Get("/stations/:stationId/config", tanks.GetConfig)
	api.Put("/stations/:stationId/config", adminOnly, tanks.SaveConfig)

	// Tareas de recepción
	tasks := NewTaskHandler(deps.Receiving, deps.DeliveryNote)
	api.Post("/tasks", tasks.Create)
	api.Get("/tasks", tasks.List)
	api.Get("/tasks/:id", tasks.GetByID)
	api.Post("/tasks/:id/transitions", tasks.Transition)
	api.Post("/tasks/:id/cancel", tasks.Cancel)
	api.Get("/tasks/:id/reconciliation", tasks.Reconciliation)
	api.Get("/tasks/:id/delivery-note.pdf", tasks.DeliveryNote)

	// Libro de movimientos y consumos
	movements := NewMovementHandler(deps.Ledger, deps.Consumptions)
	api.Post("/movements/adjustments", supervisors, movements.Adjustment)
	api.Post("/movements/transfers", movements.Transfer)
	api.Get("/movements", movements.List)
	api.Post("/consumptions", movements.RecordConsumption)
	api.Get("/consumptions", movements.ListConsumptions)
	api.Get("/consumptions/statistics", movements.ConsumptionStatistics)

	// Reportes
	reports := NewReportHandler(deps.Reports, deps.Exporter)
	api.Get("/reports/consumption-summary", supervisors, reports.ConsumptionSummary)
	api.Get("/reports/tank-levels", reports.TankLevels)
	api.Get("/reports/receiving-tasks", supervisors, reports.ReceivingTasks)

	// Evidencias
	evidence := NewEvidenceHandler(deps.EvidenceUC)
	api.Post("/evidence", evidence.Upload)
}
