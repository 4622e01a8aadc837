package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// PumpReadingFilter filtros de consulta del registro de lecturas.
type PumpReadingFilter struct {
	PumpMeterID   string
	TaskID        string
	AnomalousOnly bool
	From, To      *time.Time
	Limit, Offset int
}

// PumpReadingRepository registro de lecturas: solo inserción y consulta.
type PumpReadingRepository interface {
	Create(ctx context.Context, reading *entity.PumpReading) error
	List(ctx context.Context, businessID string, f PumpReadingFilter) ([]*entity.PumpReading, error)
	// ListByMeter historial completo del contador ordenado por ReadingAt, CreatedAt.
	ListByMeter(ctx context.Context, meterID string) ([]*entity.PumpReading, error)
	// AcceptedAround últimas lecturas no anómalas anterior y posterior a at (nil si no hay).
	AcceptedAround(ctx context.Context, meterID string, at time.Time) (prev, next *entity.PumpReading, err error)
}
