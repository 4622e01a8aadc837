package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

var _ repository.StationConfigRepository = (*StationConfigRepo)(nil)

// StationConfigRepo una fila por estación; las listas de tanques y bombas son TEXT[].
type StationConfigRepo struct {
	q Querier
}

// NewStationConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStationConfigRepository(q Querier) *StationConfigRepo {
	return &StationConfigRepo{q: q}
}

func (r *StationConfigRepo) Get(ctx context.Context, stationID string) (*entity.StationConfig, error) {
	query := `
		SELECT station_id, business_id, receiving_tanks, main_tanks, generator_tanks, intake_pumps, output_pumps,
		       has_intake_pump, has_output_pump, intake_pump_has_meter, output_pump_has_meter, updated_by, updated_at
		FROM diesel_station_configs WHERE station_id = $1`
	var c entity.StationConfig
	var updatedBy *string
	err := r.q.QueryRow(ctx, query, stationID).Scan(
		&c.StationID, &c.BusinessID, &c.ReceivingTanks, &c.MainTanks, &c.GeneratorTanks, &c.IntakePumps,
		&c.OutputPumps, &c.HasIntakePump, &c.HasOutputPump, &c.IntakePumpHasMeter, &c.OutputPumpHasMeter,
		&updatedBy, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get station config: %w", err)
	}
	c.UpdatedBy = deref(updatedBy)
	return &c, nil
}

func (r *StationConfigRepo) Upsert(ctx context.Context, c *entity.StationConfig) error {
	query := `
		INSERT INTO diesel_station_configs (station_id, business_id, receiving_tanks, main_tanks, generator_tanks,
			intake_pumps, output_pumps, has_intake_pump, has_output_pump, intake_pump_has_meter,
			output_pump_has_meter, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (station_id) DO UPDATE SET
			receiving_tanks = EXCLUDED.receiving_tanks,
			main_tanks = EXCLUDED.main_tanks,
			generator_tanks = EXCLUDED.generator_tanks,
			intake_pumps = EXCLUDED.intake_pumps,
			output_pumps = EXCLUDED.output_pumps,
			has_intake_pump = EXCLUDED.has_intake_pump,
			has_output_pump = EXCLUDED.has_output_pump,
			intake_pump_has_meter = EXCLUDED.intake_pump_has_meter,
			output_pump_has_meter = EXCLUDED.output_pump_has_meter,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
		WHERE diesel_station_configs.business_id = EXCLUDED.business_id`
	tag, err := r.q.Exec(ctx, query,
		c.StationID, c.BusinessID, nonNil(c.ReceivingTanks), nonNil(c.MainTanks), nonNil(c.GeneratorTanks),
		nonNil(c.IntakePumps), nonNil(c.OutputPumps), c.HasIntakePump, c.HasOutputPump, c.IntakePumpHasMeter,
		c.OutputPumpHasMeter, nullable(c.UpdatedBy), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert station config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upsert station config: la estación %s pertenece a otro negocio: %w", c.StationID, domain.ErrForbidden)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
