package diesel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// ConsumptionUseCase consumo diario de generadores. Cada registro con consumo > 0
// agrega en la misma transacción un movimiento de consumo contra el tanque fuente.
type ConsumptionUseCase struct {
	txRunner     TxRunner
	consumptions repository.GeneratorConsumptionRepository
	ledger       *LedgerUseCase
	log          zerolog.Logger
}

// NewConsumptionUseCase construye el caso de uso.
func NewConsumptionUseCase(txRunner TxRunner, consumptions repository.GeneratorConsumptionRepository, ledger *LedgerUseCase, log zerolog.Logger) *ConsumptionUseCase {
	return &ConsumptionUseCase{txRunner: txRunner, consumptions: consumptions, ledger: ledger, log: log}
}

// ConsumptionInput entrada para registrar un consumo.
type ConsumptionInput struct {
	GeneratorID  string
	TankID       string
	Date         time.Time
	StartLevel   decimal.Decimal
	EndLevel     decimal.Decimal
	RunningHours *decimal.Decimal
	OutputPump   *entity.OutputPumpReadings
	Notes        string
}

// Record calcula cantidad y tasa, y registra el consumo junto con su movimiento.
func (uc *ConsumptionUseCase) Record(ctx context.Context, actor Actor, in ConsumptionInput) (*entity.GeneratorConsumption, error) {
	if in.GeneratorID == "" {
		return nil, domain.InvalidFields("generator_id")
	}
	if in.TankID == "" {
		return nil, domain.InvalidFields("tank_id")
	}
	qty, rate, err := dieselrules.Consumption(in.StartLevel, in.EndLevel, in.RunningHours)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	now := time.Now().UTC()
	rec := &entity.GeneratorConsumption{
		ID:               uuid.New().String(),
		BusinessID:       actor.BusinessID,
		GeneratorID:      in.GeneratorID,
		TankID:           in.TankID,
		ConsumptionDate:  date,
		StartLevel:       in.StartLevel,
		EndLevel:         in.EndLevel,
		QuantityConsumed: qty,
		RunningHours:     in.RunningHours,
		ConsumptionRate:  rate,
		Notes:            in.Notes,
		RecordedBy:       actor.UserID,
		CreatedAt:        now,
	}

	var ev *MetricEvents
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		ev = &MetricEvents{}
		tank, err := r.Tanks.GetForUpdate(ctx, in.TankID)
		if err != nil {
			return err
		}
		if tank == nil || tank.BusinessID != actor.BusinessID {
			return fmt.Errorf("tanque %s: %w", in.TankID, domain.ErrNotFound)
		}
		if tank.Role != entity.TankRoleGenerator {
			return fmt.Errorf("%w: tanque %s tiene rol %s", domain.InvalidFields("tank_id"), tank.Code, tank.Role)
		}
		if !in.StartLevel.Equal(tank.CurrentLevel) {
			// la medición de varilla puede diferir del libro; se registra igual
			uc.log.Warn().
				Str("tank_id", tank.ID).
				Str("start_level", in.StartLevel.String()).
				Str("ledger_level", tank.CurrentLevel.String()).
				Msg("nivel inicial distinto al nivel del libro")
		}
		rec.StationID = tank.StationID

		if qty.IsPositive() {
			at := date
			mov, err := uc.ledger.AppendInTx(ctx, r, actor, MovementInput{
				Spec:     entity.Consumption{FromTankID: in.TankID, GeneratorID: in.GeneratorID, OutputPump: in.OutputPump},
				Quantity: qty,
				At:       &at,
				Notes:    in.Notes,
			}, now, ev)
			if err != nil {
				return err
			}
			rec.MovementID = mov.ID
		}
		return r.Consumptions.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Emit(ev)
	uc.log.Info().
		Str("generator_id", rec.GeneratorID).
		Str("quantity", rec.QuantityConsumed.String()).
		Msg("consumo de generador registrado")
	return rec, nil
}

// List consumos registrados.
func (uc *ConsumptionUseCase) List(ctx context.Context, businessID string, f repository.ConsumptionFilter) ([]*entity.GeneratorConsumption, error) {
	return uc.consumptions.List(ctx, businessID, f)
}

// Statistics agregado por generador en el rango indicado.
func (uc *ConsumptionUseCase) Statistics(ctx context.Context, businessID, generatorID string, from, to *time.Time) (entity.ConsumptionStatistics, error) {
	if generatorID == "" {
		return entity.ConsumptionStatistics{}, domain.InvalidFields("generator_id")
	}
	records, err := uc.consumptions.List(ctx, businessID, repository.ConsumptionFilter{GeneratorID: generatorID, From: from, To: to})
	if err != nil {
		return entity.ConsumptionStatistics{}, err
	}
	return dieselrules.Statistics(generatorID, records), nil
}
