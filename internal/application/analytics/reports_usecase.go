// Package analytics contiene los reportes de diesel: resumen de entradas y salidas,
// niveles de tanques y tareas de recepción. Solo lectura sobre los repositorios.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// ReportsUseCase arma los reportes a partir del libro de movimientos, los tanques y las tareas.
type ReportsUseCase struct {
	movements repository.TankMovementRepository
	tanks     repository.TankRepository
	tasks     repository.ReceivingTaskRepository
	now       func() time.Time
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(movements repository.TankMovementRepository, tanks repository.TankRepository, tasks repository.ReceivingTaskRepository) *ReportsUseCase {
	return &ReportsUseCase{movements: movements, tanks: tanks, tasks: tasks, now: time.Now}
}

// ConsumptionSummary totales por tipo de movimiento en el rango, existencia actual
// y conteo de tareas completadas/con discrepancia.
//
// Tres consultas en paralelo:
//  1. movimientos del rango
//  2. tanques activos (existencia actual)
//  3. tareas completadas del rango
func (uc *ReportsUseCase) ConsumptionSummary(ctx context.Context, businessID, stationID string, from, to *time.Time) (*dto.ConsumptionSummaryDTO, error) {
	var (
		movements []*entity.TankMovement
		tanks     []*entity.Tank
		tasks     []*entity.ReceivingTask
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movements, err = uc.movements.List(gctx, businessID, repository.TankMovementFilter{StationID: stationID, From: from, To: to})
		if err != nil {
			return fmt.Errorf("movimientos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tanks, err = uc.tanks.List(gctx, businessID, repository.TankFilter{StationID: stationID, ActiveOnly: true})
		if err != nil {
			return fmt.Errorf("tanques: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = uc.tasks.List(gctx, businessID, repository.ReceivingTaskFilter{StationID: stationID, Status: entity.TaskStatusCompleted, From: from, To: to})
		if err != nil {
			return fmt.Errorf("tareas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ConsumptionSummaryDTO{
		StationID:        stationID,
		From:             from,
		To:               to,
		TotalReceived:    decimal.Zero,
		TotalConsumed:    decimal.Zero,
		TotalTransferred: decimal.Zero,
		TotalAdjustedIn:  decimal.Zero,
		TotalAdjustedOut: decimal.Zero,
		CurrentStock:     decimal.Zero,
	}
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeReceiving:
			out.TotalReceived = out.TotalReceived.Add(m.Quantity)
		case entity.MovementTypeConsumption:
			out.TotalConsumed = out.TotalConsumed.Add(m.Quantity)
		case entity.MovementTypeTransfer:
			out.TotalTransferred = out.TotalTransferred.Add(m.Quantity)
		case entity.MovementTypeAdjustment:
			if m.ToTankID != "" {
				out.TotalAdjustedIn = out.TotalAdjustedIn.Add(m.Quantity)
			} else {
				out.TotalAdjustedOut = out.TotalAdjustedOut.Add(m.Quantity)
			}
		}
	}
	for _, t := range tanks {
		out.CurrentStock = out.CurrentStock.Add(t.CurrentLevel)
	}
	out.TasksCompleted = len(tasks)
	for _, t := range tasks {
		if t.Discrepancy {
			out.Discrepancies++
		}
	}
	return out, nil
}

// TankLevels foto de niveles de los tanques activos.
func (uc *ReportsUseCase) TankLevels(ctx context.Context, businessID, stationID string) (*dto.TankLevelsDTO, error) {
	tanks, err := uc.tanks.List(ctx, businessID, repository.TankFilter{StationID: stationID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	out := &dto.TankLevelsDTO{
		GeneratedAt:   uc.now().UTC(),
		Tanks:         make([]dto.TankResponse, 0, len(tanks)),
		TotalCapacity: decimal.Zero,
		TotalLevel:    decimal.Zero,
	}
	for _, t := range tanks {
		out.Tanks = append(out.Tanks, dto.NewTankResponse(t))
		out.TotalCapacity = out.TotalCapacity.Add(t.Capacity)
		out.TotalLevel = out.TotalLevel.Add(t.CurrentLevel)
		if t.BelowMinLevel() {
			out.BelowMinCount++
		}
	}
	return out, nil
}

// ReceivingTasks listado de tareas del rango con conteo por estado y total recibido.
func (uc *ReportsUseCase) ReceivingTasks(ctx context.Context, businessID, stationID string, from, to *time.Time) (*dto.ReceivingTasksReportDTO, error) {
	tasks, err := uc.tasks.List(ctx, businessID, repository.ReceivingTaskFilter{StationID: stationID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := &dto.ReceivingTasksReportDTO{
		From:          from,
		To:            to,
		Rows:          make([]dto.ReceivingTaskRow, 0, len(tasks)),
		ByStatus:      make(map[string]int),
		TotalReceived: decimal.Zero,
	}
	for _, t := range tasks {
		out.Rows = append(out.Rows, dto.NewReceivingTaskRow(t))
		out.ByStatus[string(t.Status)]++
		if t.Status == entity.TaskStatusCompleted && t.QuantityReceivedAtStation != nil {
			out.TotalReceived = out.TotalReceived.Add(*t.QuantityReceivedAtStation)
		}
	}
	return out, nil
}
