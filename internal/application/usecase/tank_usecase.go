package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// TankUseCase registro de tanques. El nivel nunca se edita: el saldo de apertura se
// registra como ajuste de entrada en la misma transacción que crea el tanque.
type TankUseCase struct {
	txRunner diesel.TxRunner
	repo     repository.TankRepository
	ledger   *diesel.LedgerUseCase
}

// NewTankUseCase construye el caso de uso.
func NewTankUseCase(txRunner diesel.TxRunner, repo repository.TankRepository, ledger *diesel.LedgerUseCase) *TankUseCase {
	return &TankUseCase{txRunner: txRunner, repo: repo, ledger: ledger}
}

// Create registra el tanque y, si InitialLevel > 0, su ajuste de apertura.
func (uc *TankUseCase) Create(ctx context.Context, actor diesel.Actor, in dto.CreateTankRequest) (*dto.TankResponse, error) {
	role := entity.TankRole(in.Role)
	if !role.Valid() {
		return nil, domain.InvalidFields("role")
	}
	if err := validateTankAmounts(in.Capacity, in.MinLevel, in.DeadStock); err != nil {
		return nil, err
	}
	if in.InitialLevel.IsNegative() || !entity.FitsScale(in.InitialLevel) {
		return nil, domain.InvalidFields("initial_level")
	}

	now := time.Now().UTC()
	tank := &entity.Tank{
		ID:                uuid.New().String(),
		BusinessID:        actor.BusinessID,
		StationID:         in.StationID,
		Code:              in.Code,
		Name:              in.Name,
		Role:              role,
		Material:          in.Material,
		Capacity:          in.Capacity,
		MinLevel:          in.MinLevel,
		DeadStock:         in.DeadStock,
		CurrentLevel:      decimal.Zero,
		LinkedGeneratorID: in.LinkedGeneratorID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	var ev *diesel.MetricEvents
	err := uc.txRunner.Run(ctx, func(r diesel.TxRepos) error {
		ev = &diesel.MetricEvents{}
		if err := r.Tanks.Create(ctx, tank); err != nil {
			return err
		}
		if !in.InitialLevel.IsPositive() {
			return nil
		}
		_, err := uc.ledger.AppendInTx(ctx, r, actor, diesel.MovementInput{
			Spec:     entity.Adjustment{TankID: tank.ID, Direction: entity.AdjustmentIn, Notes: "saldo de apertura"},
			Quantity: in.InitialLevel,
		}, now, ev)
		if err != nil {
			return err
		}
		tank.CurrentLevel = in.InitialLevel
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Emit(ev)
	out := dto.NewTankResponse(tank)
	return &out, nil
}

func validateTankAmounts(capacity, minLevel, deadStock decimal.Decimal) error {
	if !capacity.IsPositive() || !entity.FitsScale(capacity) {
		return domain.InvalidFields("capacity")
	}
	if minLevel.IsNegative() || minLevel.GreaterThan(capacity) || !entity.FitsScale(minLevel) {
		return domain.InvalidFields("min_level")
	}
	if deadStock.IsNegative() || deadStock.GreaterThan(capacity) || !entity.FitsScale(deadStock) {
		return domain.InvalidFields("dead_stock")
	}
	return nil
}

// GetByID obtiene un tanque del negocio.
func (uc *TankUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.TankResponse, error) {
	tank, err := uc.get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewTankResponse(tank)
	return &out, nil
}

// Update actualiza metadatos. La capacidad se compara con el nivel leído bajo el bloqueo
// de la fila, el mismo que toman los movimientos.
func (uc *TankUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdateTankRequest) (*dto.TankResponse, error) {
	var tank *entity.Tank
	err := uc.txRunner.Run(ctx, func(r diesel.TxRepos) error {
		var err error
		tank, err = r.Tanks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tank == nil || tank.BusinessID != businessID {
			return domain.ErrNotFound
		}
		applyTankUpdate(tank, in)
		if err := validateTankAmounts(tank.Capacity, tank.MinLevel, tank.DeadStock); err != nil {
			return err
		}
		if tank.Capacity.LessThan(tank.CurrentLevel) {
			return domain.InvalidFields("capacity")
		}
		tank.UpdatedAt = time.Now().UTC()
		return r.Tanks.Update(ctx, tank)
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewTankResponse(tank)
	return &out, nil
}

func applyTankUpdate(tank *entity.Tank, in dto.UpdateTankRequest) {
	if in.Name != nil {
		tank.Name = *in.Name
	}
	if in.Material != nil {
		tank.Material = *in.Material
	}
	if in.Capacity != nil {
		tank.Capacity = *in.Capacity
	}
	if in.MinLevel != nil {
		tank.MinLevel = *in.MinLevel
	}
	if in.DeadStock != nil {
		tank.DeadStock = *in.DeadStock
	}
	if in.LinkedGeneratorID != nil {
		tank.LinkedGeneratorID = *in.LinkedGeneratorID
	}
	if in.IsActive != nil {
		tank.IsActive = *in.IsActive
	}
}

// List lista tanques por estación/rol.
func (uc *TankUseCase) List(ctx context.Context, businessID string, in dto.TankFilterRequest) ([]dto.TankResponse, error) {
	list, err := uc.repo.List(ctx, businessID, repository.TankFilter{
		StationID:  in.StationID,
		Role:       entity.TankRole(in.Role),
		ActiveOnly: in.ActiveOnly,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TankResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewTankResponse(t))
	}
	return items, nil
}

func (uc *TankUseCase) get(ctx context.Context, businessID, id string) (*entity.Tank, error) {
	tank, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tank == nil || tank.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return tank, nil
}
