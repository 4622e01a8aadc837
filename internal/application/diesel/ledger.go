package diesel

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// LedgerUseCase libro de movimientos de tanques. Cada movimiento bloquea los tanques
// involucrados (SELECT FOR UPDATE, en orden de ID) antes de validar capacidad y volumen.
type LedgerUseCase struct {
	txRunner  TxRunner
	movements repository.TankMovementRepository
	metrics   ports.EngineMetrics
	log       zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movements repository.TankMovementRepository, metrics ports.EngineMetrics, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movements: movements, metrics: metrics, log: log}
}

// MovementInput entrada para agregar un movimiento. At nil = ahora.
type MovementInput struct {
	Spec     entity.MovementSpec
	Quantity decimal.Decimal
	At       *time.Time
	Notes    string
}

// Append agrega el movimiento en su propia transacción.
func (uc *LedgerUseCase) Append(ctx context.Context, actor Actor, in MovementInput) (*entity.TankMovement, error) {
	var (
		out *entity.TankMovement
		ev  *MetricEvents
	)
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ev = &MetricEvents{}
		mov, err := uc.AppendInTx(ctx, r, actor, in, time.Now().UTC(), ev)
		out = mov
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.Emit(ev)
	return out, nil
}

// AppendInTx agrega el movimiento con los repos del caller (misma transacción).
// Acredita el destino (ErrOverCapacity si excede) y debita el origen (ErrInsufficientVolume);
// nunca recorta la cantidad. El conteo del movimiento queda en ev hasta el commit; los
// rechazos se cuentan de inmediato.
func (uc *LedgerUseCase) AppendInTx(ctx context.Context, r TxRepos, actor Actor, in MovementInput, now time.Time, ev *MetricEvents) (*entity.TankMovement, error) {
	if in.Spec == nil {
		return nil, domain.InvalidFields("movement_type")
	}
	if err := in.Spec.Validate(); err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() || !entity.FitsScale(in.Quantity) {
		return nil, domain.InvalidFields("quantity")
	}

	src, dst := in.Spec.Source(), in.Spec.Destination()
	tanks, err := lockTanks(ctx, r, actor.BusinessID, src, dst)
	if err != nil {
		return nil, err
	}

	stationID := ""
	for _, t := range tanks {
		if !t.IsActive {
			return nil, fmt.Errorf("%w: tanque %s inactivo", domain.ErrInvalidInput, t.Code)
		}
		if stationID != "" && t.StationID != stationID {
			return nil, fmt.Errorf("%w: los tanques pertenecen a estaciones distintas", domain.ErrInvalidInput)
		}
		stationID = t.StationID
	}

	if src != "" {
		level, err := dieselrules.Debit(tanks[src], in.Quantity)
		if err != nil {
			uc.rejected(err, in)
			return nil, err
		}
		if err := r.Tanks.UpdateLevel(ctx, src, level); err != nil {
			return nil, err
		}
		tanks[src].CurrentLevel = level
	}
	if dst != "" {
		level, err := dieselrules.Credit(tanks[dst], in.Quantity)
		if err != nil {
			uc.rejected(err, in)
			return nil, err
		}
		if err := r.Tanks.UpdateLevel(ctx, dst, level); err != nil {
			return nil, err
		}
		tanks[dst].CurrentLevel = level
	}

	at := now
	if in.At != nil {
		at = in.At.UTC()
	}
	mov := entity.NewTankMovement(in.Spec, in.Quantity)
	mov.ID = uuid.New().String()
	mov.BusinessID = actor.BusinessID
	mov.StationID = stationID
	mov.RecordedBy = actor.UserID
	mov.MovementAt = at
	mov.CreatedAt = now
	if mov.Notes == "" {
		mov.Notes = in.Notes
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	qty, _ := in.Quantity.Float64()
	movType := string(mov.Type)
	ev.add(func(m ports.EngineMetrics) { m.MovementAppended(movType, qty) })
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("type", string(mov.Type)).
		Str("from_tank", mov.FromTankID).
		Str("to_tank", mov.ToTankID).
		Str("quantity", mov.Quantity.String()).
		Msg("movimiento registrado")
	return mov, nil
}

// Emit publica las métricas de una transacción ya confirmada.
func (uc *LedgerUseCase) Emit(ev *MetricEvents) {
	ev.Emit(uc.metrics)
}

func (uc *LedgerUseCase) rejected(err error, in MovementInput) {
	reason := "invalid"
	switch {
	case errors.Is(err, domain.ErrOverCapacity):
		reason = "over_capacity"
	case errors.Is(err, domain.ErrInsufficientVolume):
		reason = "insufficient_volume"
	}
	uc.metrics.MovementRejected(reason)
	uc.log.Warn().Err(err).
		Str("type", string(in.Spec.Type())).
		Str("quantity", in.Quantity.String()).
		Msg("movimiento rechazado")
}

// lockTanks bloquea los tanques en orden de ID para evitar interbloqueos entre traslados cruzados.
func lockTanks(ctx context.Context, r TxRepos, businessID string, ids ...string) (map[string]*entity.Tank, error) {
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !containsID(uniq, id) {
			uniq = append(uniq, id)
		}
	}
	sort.Strings(uniq)
	out := make(map[string]*entity.Tank, len(uniq))
	for _, id := range uniq {
		t, err := r.Tanks.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil || t.BusinessID != businessID {
			return nil, fmt.Errorf("tanque %s: %w", id, domain.ErrNotFound)
		}
		out[id] = t
	}
	return out, nil
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// List historial de movimientos.
func (uc *LedgerUseCase) List(ctx context.Context, businessID string, f repository.TankMovementFilter) ([]*entity.TankMovement, error) {
	return uc.movements.List(ctx, businessID, f)
}
