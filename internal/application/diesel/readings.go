package diesel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/domain"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// ReadingUseCase registro de lecturas de contadores (con bloqueo de fila del contador).
type ReadingUseCase struct {
	txRunner TxRunner
	readings repository.PumpReadingRepository
	meters   repository.PumpMeterRepository
	policy   dieselrules.Policy
	metrics  ports.EngineMetrics
	log      zerolog.Logger
}

// NewReadingUseCase construye el caso de uso.
func NewReadingUseCase(
	txRunner TxRunner,
	readings repository.PumpReadingRepository,
	meters repository.PumpMeterRepository,
	policy dieselrules.Policy,
	metrics ports.EngineMetrics,
	log zerolog.Logger,
) *ReadingUseCase {
	return &ReadingUseCase{
		txRunner: txRunner,
		readings: readings,
		meters:   meters,
		policy:   policy,
		metrics:  metrics,
		log:      log,
	}
}

// ReadingInput entrada para registrar una lectura. At nil = ahora.
type ReadingInput struct {
	MeterID     string
	Value       decimal.Decimal
	Type        entity.ReadingType
	TaskID      string
	EvidenceKey string
	At          *time.Time
	Notes       string
	// ExpectType si no es vacío, el contador debe ser de ese tipo.
	ExpectType entity.PumpType
}

// Record registra la lectura en su propia transacción.
func (uc *ReadingUseCase) Record(ctx context.Context, actor Actor, in ReadingInput) (*entity.PumpReading, error) {
	var (
		out *entity.PumpReading
		ev  *MetricEvents
	)
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ev = &MetricEvents{}
		rd, err := uc.RecordInTx(ctx, r, actor, in, time.Now().UTC(), ev)
		out = rd
		return err
	})
	if err != nil {
		return nil, err
	}
	ev.Emit(uc.metrics)
	return out, nil
}

// RecordInTx agrega la lectura usando los repos del caller (misma transacción).
// Bloquea el contador; la lectura menor a la línea base se acepta marcada como anómala
// y no mueve la caché. Una lectura con fecha anterior a la última se compara con sus
// vecinas aceptadas y tampoco mueve la caché. Las métricas quedan en ev hasta el commit.
func (uc *ReadingUseCase) RecordInTx(ctx context.Context, r TxRepos, actor Actor, in ReadingInput, now time.Time, ev *MetricEvents) (*entity.PumpReading, error) {
	if in.MeterID == "" {
		return nil, domain.InvalidFields("pump_meter_id")
	}
	if in.Value.IsNegative() || !entity.FitsScale(in.Value) {
		return nil, domain.InvalidFields("reading_value")
	}
	if !in.Type.Valid() {
		return nil, domain.InvalidFields("reading_type")
	}

	meter, err := r.Meters.GetForUpdate(ctx, in.MeterID)
	if err != nil {
		return nil, err
	}
	if meter == nil || meter.BusinessID != actor.BusinessID {
		return nil, fmt.Errorf("contador %s: %w", in.MeterID, domain.ErrNotFound)
	}
	if !meter.IsActive {
		return nil, fmt.Errorf("%w: contador %s inactivo", domain.ErrInvalidInput, meter.Code)
	}
	if in.ExpectType != "" && meter.Type != in.ExpectType {
		return nil, fmt.Errorf("%w: contador %s es de tipo %s, se esperaba %s",
			domain.ErrInvalidInput, meter.Code, meter.Type, in.ExpectType)
	}

	at := now
	if in.At != nil {
		at = in.At.UTC()
	}

	latest := meter.LastReadingAt == nil || !at.Before(*meter.LastReadingAt)
	var prev, next *decimal.Decimal
	if latest {
		cache := meter.CurrentReading
		prev = &cache
	} else {
		p, n, err := r.Readings.AcceptedAround(ctx, meter.ID, at)
		if err != nil {
			return nil, err
		}
		// la lectura de registro es el piso de la línea base, igual que en la auditoría
		base := meter.InitialReading
		if p != nil && p.ReadingValue.GreaterThan(base) {
			base = p.ReadingValue
		}
		prev = &base
		if n != nil {
			next = &n.ReadingValue
		}
	}

	reading := &entity.PumpReading{
		ID:           uuid.New().String(),
		BusinessID:   actor.BusinessID,
		PumpMeterID:  meter.ID,
		TaskID:       in.TaskID,
		ReadingValue: in.Value,
		ReadingType:  in.Type,
		EvidenceKey:  in.EvidenceKey,
		Anomalous:    dieselrules.IsAnomalous(prev, next, in.Value, uc.policy.ReadingEpsilon),
		Baseline:     decimal.Zero,
		ReadingAt:    at,
		RecordedBy:   actor.UserID,
		Notes:        in.Notes,
		CreatedAt:    now,
	}
	if prev != nil {
		reading.Baseline = *prev
	}
	if err := r.Readings.Create(ctx, reading); err != nil {
		return nil, err
	}

	if reading.Anomalous {
		pumpType := string(meter.Type)
		ev.add(func(m ports.EngineMetrics) { m.AnomalousReading(pumpType) })
		uc.log.Warn().
			Str("meter_id", meter.ID).
			Str("value", in.Value.String()).
			Str("baseline", reading.Baseline.String()).
			Str("task_id", in.TaskID).
			Msg("lectura anómala: posible reemplazo de contador")
		return reading, nil
	}
	if latest {
		cache := meter.CurrentReading
		if in.Value.GreaterThan(cache) {
			cache = in.Value
		}
		if err := r.Meters.UpdateReading(ctx, meter.ID, cache, at); err != nil {
			return nil, err
		}
	}
	return reading, nil
}

// List consulta el registro de lecturas.
func (uc *ReadingUseCase) List(ctx context.Context, businessID string, f repository.PumpReadingFilter) ([]*entity.PumpReading, error) {
	return uc.readings.List(ctx, businessID, f)
}

// MeterAudit clasificación del historial completo de un contador.
type MeterAudit struct {
	Meter    *entity.PumpMeter
	Verdicts []dieselrules.ReadingVerdict
}

// Audit reclasifica el historial del contador con la regla de anomalías actual.
func (uc *ReadingUseCase) Audit(ctx context.Context, businessID, meterID string) (*MeterAudit, error) {
	meter, err := uc.meters.GetByID(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil || meter.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	history, err := uc.readings.ListByMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	return &MeterAudit{
		Meter:    meter,
		Verdicts: dieselrules.ClassifyHistory(history, &meter.InitialReading, uc.policy.ReadingEpsilon),
	}, nil
}
