package dto

import (
	"errors"

	"github.com/jhoicas/Diesel-api/internal/domain"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// ── Entrada ───────────────────────────────────────────────────────────────────

// Payload convierte el body plano en el payload tipado de la etapa destino.
// Los campos que no pertenecen a esa etapa se rechazan.
func (r TransitionRequest) Payload() (entity.StagePayload, error) {
	st := entity.StageTime{At: r.At}
	status := entity.TaskStatus(r.Status)
	var extra []string
	mark := func(set bool, name string) {
		if set {
			extra = append(extra, name)
		}
	}

	var p entity.StagePayload
	switch status {
	case entity.TaskStatusStarted, entity.TaskStatusAtSupplier, entity.TaskStatusAtStation:
		r.markLoading(mark)
		r.markReturning(mark)
		r.markUnloading(mark)
		r.markCompleted(mark)
		mark(r.Evidence != "", "evidence")
		mark(r.Reason != "", "reason")
		switch status {
		case entity.TaskStatusStarted:
			p = entity.StartedPayload{StageTime: st}
		case entity.TaskStatusAtSupplier:
			p = entity.AtSupplierPayload{StageTime: st}
		default:
			p = entity.AtStationPayload{StageTime: st}
		}
	case entity.TaskStatusLoading:
		r.markReturning(mark)
		r.markUnloading(mark)
		r.markCompleted(mark)
		mark(r.Reason != "", "reason")
		lp := entity.LoadingPayload{
			StageTime:          st,
			SupplierPumpID:     r.SupplierPumpID,
			SupplierPumpBefore: r.SupplierPumpBefore,
			Evidence:           r.Evidence,
		}
		if r.Invoice != nil {
			lp.Invoice = &entity.Invoice{
				Number:   r.Invoice.Number,
				Amount:   r.Invoice.Amount,
				Quantity: r.Invoice.Quantity,
				ImageKey: r.Invoice.ImageKey,
			}
		}
		p = lp
	case entity.TaskStatusReturning:
		r.markLoading(mark)
		r.markUnloading(mark)
		r.markCompleted(mark)
		mark(r.Reason != "", "reason")
		rp := entity.ReturningPayload{StageTime: st, SupplierPumpAfter: r.SupplierPumpAfter, Evidence: r.Evidence}
		for _, c := range r.Compartments {
			rp.Compartments = append(rp.Compartments, entity.Compartment{Number: c.Number, Quantity: c.Quantity})
		}
		p = rp
	case entity.TaskStatusUnloading:
		r.markLoading(mark)
		r.markReturning(mark)
		r.markCompleted(mark)
		mark(r.Reason != "", "reason")
		p = entity.UnloadingPayload{
			StageTime:         st,
			DestinationTankID: r.DestinationTankID,
			IntakePumpID:      r.IntakePumpID,
			IntakePumpBefore:  r.IntakePumpBefore,
			Evidence:          r.Evidence,
		}
	case entity.TaskStatusCompleted:
		r.markLoading(mark)
		r.markReturning(mark)
		r.markUnloading(mark)
		mark(r.Reason != "", "reason")
		p = entity.CompletedPayload{
			StageTime:              st,
			IntakePumpAfter:        r.IntakePumpAfter,
			ManualReceivedQuantity: r.ManualReceivedQuantity,
			DifferenceNotes:        r.DifferenceNotes,
			Evidence:               r.Evidence,
		}
	case entity.TaskStatusCancelled:
		r.markLoading(mark)
		r.markReturning(mark)
		r.markUnloading(mark)
		r.markCompleted(mark)
		mark(r.Evidence != "", "evidence")
		p = entity.CancelledPayload{StageTime: st, Reason: r.Reason}
	default:
		return nil, domain.InvalidFields("status")
	}
	if len(extra) > 0 {
		return nil, domain.InvalidFields(extra...)
	}
	return p, nil
}

func (r TransitionRequest) markLoading(mark func(bool, string)) {
	mark(r.SupplierPumpID != "", "supplier_pump_id")
	mark(r.SupplierPumpBefore != nil, "supplier_pump_before")
	mark(r.Invoice != nil, "invoice")
}

func (r TransitionRequest) markReturning(mark func(bool, string)) {
	mark(r.SupplierPumpAfter != nil, "supplier_pump_after")
	mark(len(r.Compartments) > 0, "compartments")
}

func (r TransitionRequest) markUnloading(mark func(bool, string)) {
	mark(r.DestinationTankID != "", "destination_tank_id")
	mark(r.IntakePumpID != "", "intake_pump_id")
	mark(r.IntakePumpBefore != nil, "intake_pump_before")
}

func (r TransitionRequest) markCompleted(mark func(bool, string)) {
	mark(r.IntakePumpAfter != nil, "intake_pump_after")
	mark(r.ManualReceivedQuantity != nil, "manual_received_quantity")
	mark(r.DifferenceNotes != "", "difference_notes")
}

// OutputPumpReadings convierte las lecturas opcionales de bomba de salida.
func (o *OutputPumpRequest) OutputPumpReadings() *entity.OutputPumpReadings {
	if o == nil {
		return nil
	}
	return &entity.OutputPumpReadings{PumpID: o.PumpID, Before: o.Before, After: o.After}
}

// ── Salida ────────────────────────────────────────────────────────────────────

// NewPumpMeterResponse mapea un contador.
func NewPumpMeterResponse(m *entity.PumpMeter) PumpMeterResponse {
	return PumpMeterResponse{
		ID:             m.ID,
		StationID:      m.StationID,
		SupplierID:     m.SupplierID,
		Code:           m.Code,
		Name:           m.Name,
		SerialNumber:   m.SerialNumber,
		Type:           string(m.Type),
		InitialReading: m.InitialReading,
		CurrentReading: m.CurrentReading,
		LastReadingAt:  m.LastReadingAt,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// NewPumpReadingResponse mapea una lectura.
func NewPumpReadingResponse(r *entity.PumpReading) PumpReadingResponse {
	return PumpReadingResponse{
		ID:           r.ID,
		PumpMeterID:  r.PumpMeterID,
		TaskID:       r.TaskID,
		ReadingValue: r.ReadingValue,
		ReadingType:  string(r.ReadingType),
		EvidenceKey:  r.EvidenceKey,
		Anomalous:    r.Anomalous,
		Baseline:     r.Baseline,
		ReadingAt:    r.ReadingAt,
		RecordedBy:   r.RecordedBy,
		Notes:        r.Notes,
	}
}

// NewTankResponse mapea un tanque con porcentaje de llenado y alerta de mínimo.
func NewTankResponse(t *entity.Tank) TankResponse {
	return TankResponse{
		ID:                t.ID,
		StationID:         t.StationID,
		Code:              t.Code,
		Name:              t.Name,
		Role:              string(t.Role),
		Material:          t.Material,
		Capacity:          t.Capacity,
		MinLevel:          t.MinLevel,
		DeadStock:         t.DeadStock,
		CurrentLevel:      t.CurrentLevel,
		FillPercent:       t.FillPercent(),
		BelowMinLevel:     t.BelowMinLevel(),
		LinkedGeneratorID: t.LinkedGeneratorID,
		IsActive:          t.IsActive,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// NewStationConfigResponse mapea la configuración de estación.
func NewStationConfigResponse(c *entity.StationConfig) StationConfigResponse {
	return StationConfigResponse{
		StationID:          c.StationID,
		ReceivingTanks:     nonNil(c.ReceivingTanks),
		MainTanks:          nonNil(c.MainTanks),
		GeneratorTanks:     nonNil(c.GeneratorTanks),
		IntakePumps:        nonNil(c.IntakePumps),
		OutputPumps:        nonNil(c.OutputPumps),
		HasIntakePump:      c.HasIntakePump,
		HasOutputPump:      c.HasOutputPump,
		IntakePumpHasMeter: c.IntakePumpHasMeter,
		OutputPumpHasMeter: c.OutputPumpHasMeter,
		UpdatedBy:          c.UpdatedBy,
		UpdatedAt:          c.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewTaskResponse mapea una tarea con sus etapas y checkpoints.
func NewTaskResponse(t *entity.ReceivingTask) TaskResponse {
	c := t.Checkpoints()
	out := TaskResponse{
		ID:         t.ID,
		TaskNumber: t.TaskNumber,
		StationID:  t.StationID,
		TaskDate:   t.TaskDate,
		EmployeeID: t.EmployeeID,
		TankerID:   t.TankerID,
		SupplierID: t.SupplierID,
		Status:     string(t.Status),

		StartTime:                 c.StartTime,
		ArrivalAtSupplierTime:     c.ArrivalAtSupplierTime,
		LoadingStartTime:          c.LoadingStartTime,
		LoadingEndTime:            c.LoadingEndTime,
		DepartureFromSupplierTime: c.DepartureFromSupplierTime,
		ArrivalAtStationTime:      c.ArrivalAtStationTime,
		UnloadingStartTime:        c.UnloadingStartTime,
		UnloadingEndTime:          c.UnloadingEndTime,
		CompletionTime:            c.CompletionTime,

		SupplierPumpID:         c.SupplierPumpID,
		SupplierPumpBefore:     c.SupplierPumpBefore,
		SupplierPumpAfter:      c.SupplierPumpAfter,
		IntakePumpID:           c.IntakePumpID,
		IntakePumpBefore:       c.IntakePumpBefore,
		IntakePumpAfter:        c.IntakePumpAfter,
		DestinationTankID:      c.DestinationTankID,
		ManualReceivedQuantity: c.ManualReceivedQuantity,
		Evidence:               c.Evidence,

		QuantityFromSupplier:      t.QuantityFromSupplier,
		QuantityReceivedAtStation: t.QuantityReceivedAtStation,
		QuantityDifference:        t.QuantityDifference,
		DifferenceNotes:           t.DifferenceNotes,
		Discrepancy:               t.Discrepancy,
		CancelReason:              t.CancelReason,

		Stages:    make([]StageResponse, 0, len(t.Stages)),
		Notes:     t.Notes,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if next, ok := t.Status.Next(); ok {
		out.NextStatus = string(next)
	}
	if c.Invoice != nil {
		out.InvoiceNumber = c.Invoice.Number
		out.InvoiceAmount = c.Invoice.Amount
		out.InvoiceQuantity = c.Invoice.Quantity
	}
	for _, cp := range c.Compartments {
		out.Compartments = append(out.Compartments, CompartmentRequest{Number: cp.Number, Quantity: cp.Quantity})
	}
	for i := range t.Stages {
		s := &t.Stages[i]
		out.Stages = append(out.Stages, StageResponse{
			Status:           string(s.Status),
			At:               *s.At(),
			RecordedAt:       s.RecordedAt,
			RecordedBy:       s.RecordedBy,
			ReadingIDs:       s.ReadingIDs,
			AnomalousReading: s.AnomalousReading,
			Payload:          s.Payload,
		})
	}
	return out
}

// NewMovementResponse mapea un movimiento del libro.
func NewMovementResponse(m *entity.TankMovement) MovementResponse {
	return MovementResponse{
		ID:                      m.ID,
		StationID:               m.StationID,
		MovementType:            string(m.Type),
		FromTankID:              m.FromTankID,
		ToTankID:                m.ToTankID,
		Quantity:                m.Quantity,
		TaskID:                  m.TaskID,
		GeneratorID:             m.GeneratorID,
		OutputPumpID:            m.OutputPumpID,
		OutputPumpReadingBefore: m.OutputPumpReadingBefore,
		OutputPumpReadingAfter:  m.OutputPumpReadingAfter,
		Notes:                   m.Notes,
		RecordedBy:              m.RecordedBy,
		MovementAt:              m.MovementAt,
	}
}

// NewConsumptionResponse mapea un consumo de generador.
func NewConsumptionResponse(c *entity.GeneratorConsumption) ConsumptionResponse {
	return ConsumptionResponse{
		ID:               c.ID,
		StationID:        c.StationID,
		GeneratorID:      c.GeneratorID,
		TankID:           c.TankID,
		ConsumptionDate:  c.ConsumptionDate,
		StartLevel:       c.StartLevel,
		EndLevel:         c.EndLevel,
		QuantityConsumed: c.QuantityConsumed,
		RunningHours:     c.RunningHours,
		ConsumptionRate:  c.ConsumptionRate,
		MovementID:       c.MovementID,
		Notes:            c.Notes,
		RecordedBy:       c.RecordedBy,
	}
}

// NewConsumptionStatisticsResponse mapea las estadísticas de un generador.
func NewConsumptionStatisticsResponse(s entity.ConsumptionStatistics) ConsumptionStatisticsResponse {
	return ConsumptionStatisticsResponse{
		GeneratorID:       s.GeneratorID,
		Records:           s.Records,
		TotalConsumed:     s.TotalConsumed,
		TotalRunningHours: s.TotalRunningHours,
		AverageRate:       s.AverageRate,
	}
}

// NewReceivingTaskRow fila del reporte de tareas.
func NewReceivingTaskRow(t *entity.ReceivingTask) ReceivingTaskRow {
	return ReceivingTaskRow{
		TaskID:                    t.ID,
		TaskNumber:                t.TaskNumber,
		TaskDate:                  t.TaskDate,
		StationID:                 t.StationID,
		SupplierID:                t.SupplierID,
		TankerID:                  t.TankerID,
		EmployeeID:                t.EmployeeID,
		Status:                    string(t.Status),
		QuantityFromSupplier:      t.QuantityFromSupplier,
		QuantityReceivedAtStation: t.QuantityReceivedAtStation,
		QuantityDifference:        t.QuantityDifference,
		Discrepancy:               t.Discrepancy,
		DifferenceNotes:           t.DifferenceNotes,
	}
}

// NewReconciliationResponse conciliación recalculada de una tarea. problem puede ser nil.
func NewReconciliationResponse(t *entity.ReceivingTask, rec *dieselrules.Reconciliation, problem error) ReconciliationResponse {
	out := ReconciliationResponse{
		TaskID:     t.ID,
		TaskNumber: t.TaskNumber,
		Status:     string(t.Status),
	}
	switch {
	case errors.Is(problem, domain.ErrUnmeasurable):
		out.Problem = "UNMEASURABLE"
	case errors.Is(problem, domain.ErrDiscrepancyUnexplained):
		out.Problem = "DISCREPANCY_UNEXPLAINED"
	case problem != nil:
		out.Problem = problem.Error()
	}
	if rec == nil {
		return out
	}
	out.SupplierDelta = rec.SupplierDelta
	out.IntakeDelta = rec.IntakeDelta
	out.InvoiceQuantity = rec.InvoiceQuantity
	out.CompartmentsTotal = rec.CompartmentsTotal
	out.QuantityFromSupplier = rec.QuantityFromSupplier
	out.SupplierSource = string(rec.SupplierSource)
	out.QuantityReceivedAtStation = rec.QuantityReceivedAtStation
	out.ReceivedSource = string(rec.ReceivedSource)
	out.QuantityDifference = rec.QuantityDifference
	out.AllowedDifference = rec.AllowedDifference
	out.Discrepancy = rec.Discrepancy
	out.NotesRequired = rec.NotesRequired
	return out
}

// NewMeterAuditResponse historial clasificado de un contador.
func NewMeterAuditResponse(m *entity.PumpMeter, verdicts []dieselrules.ReadingVerdict) MeterAuditResponse {
	out := MeterAuditResponse{
		Meter:   NewPumpMeterResponse(m),
		Entries: make([]MeterAuditEntry, 0, len(verdicts)),
	}
	for _, v := range verdicts {
		if v.Anomalous {
			out.AnomalousCount++
		}
		out.Entries = append(out.Entries, MeterAuditEntry{
			Reading:   NewPumpReadingResponse(v.Reading),
			Baseline:  v.Baseline,
			Anomalous: v.Anomalous,
			Mismatch:  v.Mismatch,
		})
	}
	return out
}
