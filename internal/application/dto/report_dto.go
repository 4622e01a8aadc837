package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRequest query común de /api/diesel/reports/*. Format=xlsx descarga el archivo.
type ReportRequest struct {
	DateRangeRequest
	StationID string `query:"station_id"`
	Format    string `query:"format" validate:"omitempty,oneof=json xlsx"`
}

// ConsumptionSummaryDTO resumen de entradas y salidas del período más existencia actual.
type ConsumptionSummaryDTO struct {
	StationID        string          `json:"station_id,omitempty"`
	From             *time.Time      `json:"from,omitempty"`
	To               *time.Time      `json:"to,omitempty"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TotalConsumed    decimal.Decimal `json:"total_consumed"`
	TotalTransferred decimal.Decimal `json:"total_transferred"`
	TotalAdjustedIn  decimal.Decimal `json:"total_adjusted_in"`
	TotalAdjustedOut decimal.Decimal `json:"total_adjusted_out"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	TasksCompleted   int             `json:"tasks_completed"`
	Discrepancies    int             `json:"discrepancies"`
}

// TankLevelsDTO foto de niveles de todos los tanques.
type TankLevelsDTO struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	Tanks         []TankResponse  `json:"tanks"`
	TotalCapacity decimal.Decimal `json:"total_capacity"`
	TotalLevel    decimal.Decimal `json:"total_level"`
	BelowMinCount int             `json:"below_min_count"`
}

// ReceivingTaskRow fila del reporte de tareas de recepción.
type ReceivingTaskRow struct {
	TaskID                    string           `json:"task_id"`
	TaskNumber                string           `json:"task_number"`
	TaskDate                  time.Time        `json:"task_date"`
	StationID                 string           `json:"station_id"`
	SupplierID                string           `json:"supplier_id"`
	TankerID                  string           `json:"tanker_id"`
	EmployeeID                string           `json:"employee_id"`
	Status                    string           `json:"status"`
	QuantityFromSupplier      *decimal.Decimal `json:"quantity_from_supplier,omitempty"`
	QuantityReceivedAtStation *decimal.Decimal `json:"quantity_received_at_station,omitempty"`
	QuantityDifference        *decimal.Decimal `json:"quantity_difference,omitempty"`
	Discrepancy               bool             `json:"discrepancy"`
	DifferenceNotes           string           `json:"difference_notes,omitempty"`
}

// ReceivingTasksReportDTO reporte de tareas de recepción del período.
type ReceivingTasksReportDTO struct {
	From          *time.Time         `json:"from,omitempty"`
	To            *time.Time         `json:"to,omitempty"`
	Rows          []ReceivingTaskRow `json:"rows"`
	ByStatus      map[string]int     `json:"by_status"`
	TotalReceived decimal.Decimal    `json:"total_received"`
}
