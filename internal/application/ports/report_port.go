package ports

import "github.com/jhoicas/Diesel-api/internal/application/dto"

// ReportExporter genera los reportes en formato de hoja de cálculo.
type ReportExporter interface {
	ConsumptionSummary(r *dto.ConsumptionSummaryDTO) ([]byte, error)
	TankLevels(r *dto.TankLevelsDTO) ([]byte, error)
	ReceivingTasks(r *dto.ReceivingTasksReportDTO) ([]byte, error)
}
