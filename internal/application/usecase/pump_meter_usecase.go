package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// PumpMeterUseCase registro de contadores. La lectura actual solo cambia vía lecturas.
type PumpMeterUseCase struct {
	repo repository.PumpMeterRepository
}

// NewPumpMeterUseCase construye el caso de uso.
func NewPumpMeterUseCase(repo repository.PumpMeterRepository) *PumpMeterUseCase {
	return &PumpMeterUseCase{repo: repo}
}

// Create registra un contador. Código duplicado en la estación -> domain.ErrConflict.
func (uc *PumpMeterUseCase) Create(ctx context.Context, businessID string, in dto.CreatePumpMeterRequest) (*dto.PumpMeterResponse, error) {
	pumpType := entity.PumpType(in.Type)
	if !pumpType.Valid() {
		return nil, domain.InvalidFields("type")
	}
	if in.InitialReading.IsNegative() || !entity.FitsScale(in.InitialReading) {
		return nil, domain.InvalidFields("initial_reading")
	}
	now := time.Now().UTC()
	meter := &entity.PumpMeter{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		StationID:      in.StationID,
		SupplierID:     in.SupplierID,
		Code:           in.Code,
		Name:           in.Name,
		SerialNumber:   in.SerialNumber,
		Type:           pumpType,
		InitialReading: in.InitialReading,
		CurrentReading: in.InitialReading,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, meter); err != nil {
		return nil, err
	}
	out := dto.NewPumpMeterResponse(meter)
	return &out, nil
}

// GetByID obtiene un contador del negocio.
func (uc *PumpMeterUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.PumpMeterResponse, error) {
	meter, err := uc.get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewPumpMeterResponse(meter)
	return &out, nil
}

// Update actualiza metadatos. Desactivar un contador es la forma de reemplazarlo:
// se desactiva el viejo y se registra uno nuevo.
func (uc *PumpMeterUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdatePumpMeterRequest) (*dto.PumpMeterResponse, error) {
	meter, err := uc.get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		meter.Name = *in.Name
	}
	if in.SerialNumber != nil {
		meter.SerialNumber = *in.SerialNumber
	}
	if in.SupplierID != nil {
		meter.SupplierID = *in.SupplierID
	}
	if in.IsActive != nil {
		meter.IsActive = *in.IsActive
	}
	meter.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, meter); err != nil {
		return nil, err
	}
	out := dto.NewPumpMeterResponse(meter)
	return &out, nil
}

// List lista contadores por estación/tipo.
func (uc *PumpMeterUseCase) List(ctx context.Context, businessID string, in dto.PumpMeterFilterRequest) ([]dto.PumpMeterResponse, error) {
	list, err := uc.repo.List(ctx, businessID, repository.PumpMeterFilter{
		StationID:  in.StationID,
		Type:       entity.PumpType(in.Type),
		ActiveOnly: in.ActiveOnly,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PumpMeterResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.NewPumpMeterResponse(m))
	}
	return items, nil
}

func (uc *PumpMeterUseCase) get(ctx context.Context, businessID, id string) (*entity.PumpMeter, error) {
	meter, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meter == nil || meter.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return meter, nil
}
