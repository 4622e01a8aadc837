package diesel

import (
	"context"

	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Meters         repository.PumpMeterRepository
	Readings       repository.PumpReadingRepository
	Tanks          repository.TankRepository
	Movements      repository.TankMovementRepository
	Tasks          repository.ReceivingTaskRepository
	Consumptions   repository.GeneratorConsumptionRepository
	StationConfigs repository.StationConfigRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback: ninguna lectura ni movimiento queda a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// Actor quién ejecuta la operación (tomado del JWT).
type Actor struct {
	BusinessID string
	UserID     string
}

// DeliveryNoteGenerator genera el PDF de la nota de entrega de una tarea completada.
type DeliveryNoteGenerator interface {
	GenerateDeliveryNote(ctx context.Context, note DeliveryNote) ([]byte, error)
}
