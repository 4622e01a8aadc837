package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// StationConfigUseCase topología de diesel por estación.
type StationConfigUseCase struct {
	repo   repository.StationConfigRepository
	tanks  repository.TankRepository
	meters repository.PumpMeterRepository
}

// NewStationConfigUseCase construye el caso de uso.
func NewStationConfigUseCase(repo repository.StationConfigRepository, tanks repository.TankRepository, meters repository.PumpMeterRepository) *StationConfigUseCase {
	return &StationConfigUseCase{repo: repo, tanks: tanks, meters: meters}
}

// Get devuelve la configuración; ErrNotFound si la estación no tiene una.
func (uc *StationConfigUseCase) Get(ctx context.Context, businessID, stationID string) (*dto.StationConfigResponse, error) {
	cfg, err := uc.repo.Get(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	out := dto.NewStationConfigResponse(cfg)
	return &out, nil
}

// Save valida que cada tanque y bomba referenciados existan en la estación con el rol
// o tipo correcto, y reemplaza la configuración.
func (uc *StationConfigUseCase) Save(ctx context.Context, actor diesel.Actor, stationID string, in dto.StationConfigRequest) (*dto.StationConfigResponse, error) {
	if stationID == "" {
		return nil, domain.InvalidFields("station_id")
	}
	if len(in.IntakePumps) > 0 && !in.HasIntakePump {
		return nil, domain.InvalidFields("intake_pumps")
	}
	if len(in.OutputPumps) > 0 && !in.HasOutputPump {
		return nil, domain.InvalidFields("output_pumps")
	}
	if in.IntakePumpHasMeter && !in.HasIntakePump {
		return nil, domain.InvalidFields("intake_pump_has_meter")
	}
	if in.OutputPumpHasMeter && !in.HasOutputPump {
		return nil, domain.InvalidFields("output_pump_has_meter")
	}
	existing, err := uc.repo.Get(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.BusinessID != actor.BusinessID {
		return nil, fmt.Errorf("%w: la estación %s pertenece a otro negocio", domain.ErrForbidden, stationID)
	}

	tankGroups := []struct {
		field string
		ids   []string
		role  entity.TankRole
	}{
		{"receiving_tanks", in.ReceivingTanks, entity.TankRoleReceiving},
		{"main_tanks", in.MainTanks, entity.TankRoleMain},
		{"generator_tanks", in.GeneratorTanks, entity.TankRoleGenerator},
	}
	for _, g := range tankGroups {
		for _, id := range g.ids {
			if err := uc.checkTank(ctx, actor.BusinessID, stationID, g.field, id, g.role); err != nil {
				return nil, err
			}
		}
	}
	pumpGroups := []struct {
		field string
		ids   []string
		typ   entity.PumpType
	}{
		{"intake_pumps", in.IntakePumps, entity.PumpTypeIntake},
		{"output_pumps", in.OutputPumps, entity.PumpTypeOutput},
	}
	for _, g := range pumpGroups {
		for _, id := range g.ids {
			if err := uc.checkPump(ctx, actor.BusinessID, stationID, g.field, id, g.typ); err != nil {
				return nil, err
			}
		}
	}

	cfg := &entity.StationConfig{
		StationID:          stationID,
		BusinessID:         actor.BusinessID,
		ReceivingTanks:     in.ReceivingTanks,
		MainTanks:          in.MainTanks,
		GeneratorTanks:     in.GeneratorTanks,
		IntakePumps:        in.IntakePumps,
		OutputPumps:        in.OutputPumps,
		HasIntakePump:      in.HasIntakePump,
		HasOutputPump:      in.HasOutputPump,
		IntakePumpHasMeter: in.IntakePumpHasMeter,
		OutputPumpHasMeter: in.OutputPumpHasMeter,
		UpdatedBy:          actor.UserID,
		UpdatedAt:          time.Now().UTC(),
	}
	if err := uc.repo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	out := dto.NewStationConfigResponse(cfg)
	return &out, nil
}

func (uc *StationConfigUseCase) checkTank(ctx context.Context, businessID, stationID, field, id string, role entity.TankRole) error {
	t, err := uc.tanks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil || t.BusinessID != businessID || t.StationID != stationID {
		return fmt.Errorf("%w: tanque %s no pertenece a la estación", domain.InvalidFields(field), id)
	}
	if t.Role != role {
		return fmt.Errorf("%w: tanque %s tiene rol %s", domain.InvalidFields(field), t.Code, t.Role)
	}
	return nil
}

func (uc *StationConfigUseCase) checkPump(ctx context.Context, businessID, stationID, field, id string, typ entity.PumpType) error {
	m, err := uc.meters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil || m.BusinessID != businessID || m.StationID != stationID {
		return fmt.Errorf("%w: contador %s no pertenece a la estación", domain.InvalidFields(field), id)
	}
	if m.Type != typ {
		return fmt.Errorf("%w: contador %s es de tipo %s", domain.InvalidFields(field), m.Code, m.Type)
	}
	return nil
}
