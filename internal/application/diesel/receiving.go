package diesel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/domain"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
)

// ReceivingUseCase máquina de estados de la tarea de recepción. Cada transición corre en
// una transacción que bloquea la tarea; las lecturas de la etapa se agregan al registro de
// lecturas en esa misma transacción y, al completar, se concilia y se acredita el tanque.
type ReceivingUseCase struct {
	txRunner TxRunner
	tasks    repository.ReceivingTaskRepository
	readings *ReadingUseCase
	ledger   *LedgerUseCase
	sequence ports.TaskNumberSequence
	policy   dieselrules.Policy
	prefix   string
	metrics  ports.EngineMetrics
	log      zerolog.Logger
}

// ReceivingDeps dependencias del caso de uso.
type ReceivingDeps struct {
	TxRunner   TxRunner
	Tasks      repository.ReceivingTaskRepository
	Readings   *ReadingUseCase
	Ledger     *LedgerUseCase
	Sequence   ports.TaskNumberSequence
	Policy     dieselrules.Policy
	TaskPrefix string
	Metrics    ports.EngineMetrics
	Log        zerolog.Logger
}

// NewReceivingUseCase construye el caso de uso.
func NewReceivingUseCase(d ReceivingDeps) *ReceivingUseCase {
	prefix := d.TaskPrefix
	if prefix == "" {
		prefix = "RCV"
	}
	return &ReceivingUseCase{
		txRunner: d.TxRunner,
		tasks:    d.Tasks,
		readings: d.Readings,
		ledger:   d.Ledger,
		sequence: d.Sequence,
		policy:   d.Policy,
		prefix:   prefix,
		metrics:  d.Metrics,
		log:      d.Log,
	}
}

// CreateTaskInput entrada para crear una tarea en estado pending.
type CreateTaskInput struct {
	StationID  string
	TankerID   string
	SupplierID string
	EmployeeID string
	TaskDate   *time.Time
	Notes      string
}

// Create asigna el número de tarea <prefijo>-<YYYYMMDD>-<seq> y crea la tarea en pending.
func (uc *ReceivingUseCase) Create(ctx context.Context, actor Actor, in CreateTaskInput) (*entity.ReceivingTask, error) {
	var missing []string
	if in.StationID == "" {
		missing = append(missing, "station_id")
	}
	if in.TankerID == "" {
		missing = append(missing, "tanker_id")
	}
	if in.SupplierID == "" {
		missing = append(missing, "supplier_id")
	}
	if len(missing) > 0 {
		return nil, domain.InvalidFields(missing...)
	}

	now := time.Now().UTC()
	taskDate := now
	if in.TaskDate != nil {
		taskDate = in.TaskDate.UTC()
	}
	seq, err := uc.sequence.Next(ctx, actor.BusinessID, taskDate)
	if err != nil {
		return nil, fmt.Errorf("secuencia de tareas: %w", err)
	}
	employee := in.EmployeeID
	if employee == "" {
		employee = actor.UserID
	}

	task := &entity.ReceivingTask{
		ID:         uuid.New().String(),
		BusinessID: actor.BusinessID,
		StationID:  in.StationID,
		TaskNumber: FormatTaskNumber(uc.prefix, taskDate, seq),
		TaskDate:   taskDate,
		EmployeeID: employee,
		TankerID:   in.TankerID,
		SupplierID: in.SupplierID,
		Status:     entity.TaskStatusPending,
		Notes:      in.Notes,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.log.Info().Str("task_id", task.ID).Str("task_number", task.TaskNumber).Msg("tarea de recepción creada")
	return task, nil
}

// FormatTaskNumber RCV-20260310-0007.
func FormatTaskNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), seq)
}

// Get obtiene una tarea del negocio.
func (uc *ReceivingUseCase) Get(ctx context.Context, businessID, id string) (*entity.ReceivingTask, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// List tareas filtradas por estación, empleado, estado y rango de fechas.
func (uc *ReceivingUseCase) List(ctx context.Context, businessID string, f repository.ReceivingTaskFilter) ([]*entity.ReceivingTask, error) {
	return uc.tasks.List(ctx, businessID, f)
}

// Transition avanza la tarea al estado del payload. Reenviar una etapa ya registrada con el
// mismo payload no cambia nada; con otro payload falla con ErrAlreadyRecorded.
func (uc *ReceivingUseCase) Transition(ctx context.Context, actor Actor, taskID string, payload entity.StagePayload) (*entity.ReceivingTask, error) {
	var (
		out  *entity.ReceivingTask
		from entity.TaskStatus
		noop bool
		ev   *MetricEvents
	)
	if payload == nil {
		return nil, domain.InvalidFields("payload")
	}
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ev = &MetricEvents{}
		task, err := r.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil || task.BusinessID != actor.BusinessID {
			return domain.ErrNotFound
		}
		from = task.Status
		out = task

		noop, err = dieselrules.CheckTransition(task, payload)
		if err != nil || noop {
			return err
		}
		now := time.Now().UTC()
		if err := uc.checkStation(ctx, r, task, payload); err != nil {
			return err
		}

		rec := entity.StageRecord{
			Status:     payload.Status(),
			Payload:    payload,
			RecordedAt: now,
			RecordedBy: actor.UserID,
		}
		if err := uc.recordStageReadings(ctx, r, actor, task, &rec, now, ev); err != nil {
			return err
		}
		task.Stages = append(task.Stages, rec)

		switch p := payload.(type) {
		case entity.CompletedPayload:
			if err := uc.complete(ctx, r, actor, task, now, ev); err != nil {
				return err
			}
		case entity.CancelledPayload:
			task.CancelReason = p.Reason
		}
		task.Status = payload.Status()
		task.UpdatedAt = now
		return r.Tasks.Save(ctx, task)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("task_id", taskID).Str("to", string(payload.Status())).Msg("transición rechazada")
		return nil, err
	}
	if !noop {
		ev.Emit(uc.metrics)
		if out.Status == entity.TaskStatusCompleted && out.Discrepancy {
			uc.metrics.Discrepancy(out.StationID)
			uc.log.Warn().
				Str("task_id", out.ID).
				Str("difference", out.QuantityDifference.String()).
				Str("notes", out.DifferenceNotes).
				Msg("tarea completada con discrepancia")
		}
		uc.metrics.TaskTransition(string(out.Status))
		uc.log.Info().
			Str("task_id", out.ID).
			Str("from", string(from)).
			Str("to", string(out.Status)).
			Msg("transición de tarea")
	}
	return out, nil
}

// Cancel atajo para la transición a cancelled.
func (uc *ReceivingUseCase) Cancel(ctx context.Context, actor Actor, taskID, reason string, at *time.Time) (*entity.ReceivingTask, error) {
	return uc.Transition(ctx, actor, taskID, entity.CancelledPayload{StageTime: entity.StageTime{At: at}, Reason: reason})
}

// checkStation valida el tanque destino contra la estación y su configuración.
func (uc *ReceivingUseCase) checkStation(ctx context.Context, r TxRepos, task *entity.ReceivingTask, payload entity.StagePayload) error {
	p, ok := payload.(entity.UnloadingPayload)
	if !ok {
		return nil
	}
	tank, err := r.Tanks.GetByID(ctx, p.DestinationTankID)
	if err != nil {
		return err
	}
	if tank == nil || tank.BusinessID != task.BusinessID {
		return fmt.Errorf("tanque %s: %w", p.DestinationTankID, domain.ErrNotFound)
	}
	if tank.StationID != task.StationID || tank.Role == entity.TankRoleGenerator {
		return domain.InvalidFields("destination_tank_id")
	}
	cfg, err := r.StationConfigs.Get(ctx, task.StationID)
	if err != nil {
		return err
	}
	// una configuración de otro negocio no restringe esta tarea
	if cfg == nil || cfg.BusinessID != task.BusinessID {
		return nil
	}
	if !cfg.AllowsUnloadInto(p.DestinationTankID) {
		return domain.InvalidFields("destination_tank_id")
	}
	if p.IntakePumpID != "" && !cfg.AllowsIntakePump(p.IntakePumpID) {
		return domain.InvalidFields("intake_pump_id")
	}
	return nil
}

// recordStageReadings agrega al registro de lecturas las lecturas que trae la etapa.
func (uc *ReceivingUseCase) recordStageReadings(ctx context.Context, r TxRepos, actor Actor, task *entity.ReceivingTask, rec *entity.StageRecord, now time.Time, ev *MetricEvents) error {
	var in *ReadingInput
	c := task.Checkpoints()
	switch p := rec.Payload.(type) {
	case entity.LoadingPayload:
		if p.SupplierPumpBefore != nil {
			in = &ReadingInput{MeterID: p.SupplierPumpID, Value: *p.SupplierPumpBefore, Type: entity.ReadingTypeBefore,
				EvidenceKey: p.Evidence, At: p.At, ExpectType: entity.PumpTypeSupplier}
		}
	case entity.ReturningPayload:
		if p.SupplierPumpAfter != nil {
			in = &ReadingInput{MeterID: c.SupplierPumpID, Value: *p.SupplierPumpAfter, Type: entity.ReadingTypeAfter,
				EvidenceKey: p.Evidence, At: p.At, ExpectType: entity.PumpTypeSupplier}
		}
	case entity.UnloadingPayload:
		if p.IntakePumpBefore != nil {
			in = &ReadingInput{MeterID: p.IntakePumpID, Value: *p.IntakePumpBefore, Type: entity.ReadingTypeBefore,
				EvidenceKey: p.Evidence, At: p.At, ExpectType: entity.PumpTypeIntake}
		}
	case entity.CompletedPayload:
		if p.IntakePumpAfter != nil {
			in = &ReadingInput{MeterID: c.IntakePumpID, Value: *p.IntakePumpAfter, Type: entity.ReadingTypeAfter,
				EvidenceKey: p.Evidence, At: p.At, ExpectType: entity.PumpTypeIntake}
		}
	}
	if in == nil {
		return nil
	}
	in.TaskID = task.ID
	in.Notes = task.TaskNumber
	reading, err := uc.readings.RecordInTx(ctx, r, actor, *in, now, ev)
	if err != nil {
		return err
	}
	rec.ReadingIDs = append(rec.ReadingIDs, reading.ID)
	rec.AnomalousReading = reading.Anomalous
	return nil
}

// complete concilia y acredita el tanque destino con la cantidad recibida.
func (uc *ReceivingUseCase) complete(ctx context.Context, r TxRepos, actor Actor, task *entity.ReceivingTask, now time.Time, ev *MetricEvents) error {
	c := task.Checkpoints()
	res, err := dieselrules.Reconcile(c, uc.policy)
	if err != nil {
		return err
	}
	task.QuantityFromSupplier = res.QuantityFromSupplier
	task.QuantityReceivedAtStation = res.QuantityReceivedAtStation
	task.QuantityDifference = res.QuantityDifference
	task.DifferenceNotes = c.DifferenceNotes
	task.Discrepancy = res.Discrepancy

	if res.QuantityReceivedAtStation.IsPositive() {
		_, err = uc.ledger.AppendInTx(ctx, r, actor, MovementInput{
			Spec:     entity.Receiving{ToTankID: c.DestinationTankID, TaskID: task.ID},
			Quantity: *res.QuantityReceivedAtStation,
			At:       c.CompletionTime,
			Notes:    task.TaskNumber,
		}, now, ev)
		if err != nil {
			return err
		}
	}
	return nil
}

// TaskAudit conciliación recalculada de una tarea sin modificarla.
// Problem contiene ErrUnmeasurable o ErrDiscrepancyUnexplained cuando aplica.
type TaskAudit struct {
	Task           *entity.ReceivingTask
	Reconciliation *dieselrules.Reconciliation
	Problem        error
}

// Audit recalcula la conciliación de la tarea con la política vigente.
func (uc *ReceivingUseCase) Audit(ctx context.Context, businessID, taskID string) (*TaskAudit, error) {
	task, err := uc.Get(ctx, businessID, taskID)
	if err != nil {
		return nil, err
	}
	res, problem := dieselrules.Reconcile(task.Checkpoints(), uc.policy)
	return &TaskAudit{Task: task, Reconciliation: res, Problem: problem}, nil
}
