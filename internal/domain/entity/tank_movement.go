package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
)

// MovementType tipo de movimiento del libro de tanques.
type MovementType string

const (
	MovementTypeReceiving   MovementType = "receiving"   // recepción desde el camión
	MovementTypeTransfer    MovementType = "transfer"    // traslado entre tanques
	MovementTypeConsumption MovementType = "consumption" // consumo de generador
	MovementTypeAdjustment  MovementType = "adjustment"  // ajuste manual justificado
)

// TankMovement fila inmutable del libro. Quantity siempre es positiva; la dirección
// la dan FromTankID/ToTankID. Las correcciones se registran como nuevos ajustes.
type TankMovement struct {
	ID                      string
	BusinessID              string
	StationID               string
	Type                    MovementType
	FromTankID              string
	ToTankID                string
	Quantity                decimal.Decimal
	TaskID                  string
	GeneratorID             string
	OutputPumpID            string
	OutputPumpReadingBefore *decimal.Decimal
	OutputPumpReadingAfter  *decimal.Decimal
	Notes                   string
	RecordedBy              string
	MovementAt              time.Time
	CreatedAt               time.Time
}

// MovementSpec variante tipada de un movimiento: cada tipo declara solo sus campos.
// Se convierte en TankMovement al registrarse.
type MovementSpec interface {
	Type() MovementType
	Source() string      // tanque que se debita ("" si no aplica)
	Destination() string // tanque que se acredita ("" si no aplica)
	Validate() error
	apply(m *TankMovement)
}

// OutputPumpReadings lecturas opcionales de la bomba de salida asociadas a un movimiento.
type OutputPumpReadings struct {
	PumpID string
	Before decimal.Decimal
	After  decimal.Decimal
}

func (o *OutputPumpReadings) validate() error {
	if o == nil {
		return nil
	}
	if o.PumpID == "" {
		return domain.InvalidFields("output_pump_id")
	}
	if o.Before.IsNegative() || o.After.LessThan(o.Before) {
		return domain.InvalidFields("output_pump_reading_after")
	}
	return nil
}

func (o *OutputPumpReadings) apply(m *TankMovement) {
	if o == nil {
		return
	}
	before, after := o.Before, o.After
	m.OutputPumpID = o.PumpID
	m.OutputPumpReadingBefore = &before
	m.OutputPumpReadingAfter = &after
}

// Receiving acredita el tanque destino con lo descargado en una tarea de recepción.
type Receiving struct {
	ToTankID string
	TaskID   string
}

func (Receiving) Type() MovementType    { return MovementTypeReceiving }
func (Receiving) Source() string        { return "" }
func (r Receiving) Destination() string { return r.ToTankID }

func (r Receiving) Validate() error {
	if r.ToTankID == "" {
		return domain.InvalidFields("to_tank_id")
	}
	return nil
}

func (r Receiving) apply(m *TankMovement) {
	m.ToTankID = r.ToTankID
	m.TaskID = r.TaskID
}

// Transfer traslada combustible entre dos tanques distintos.
type Transfer struct {
	FromTankID string
	ToTankID   string
	OutputPump *OutputPumpReadings
}

func (Transfer) Type() MovementType    { return MovementTypeTransfer }
func (t Transfer) Source() string      { return t.FromTankID }
func (t Transfer) Destination() string { return t.ToTankID }

func (t Transfer) Validate() error {
	var missing []string
	if t.FromTankID == "" {
		missing = append(missing, "from_tank_id")
	}
	if t.ToTankID == "" {
		missing = append(missing, "to_tank_id")
	}
	if len(missing) > 0 {
		return domain.InvalidFields(missing...)
	}
	if t.FromTankID == t.ToTankID {
		return domain.InvalidFields("to_tank_id")
	}
	return t.OutputPump.validate()
}

func (t Transfer) apply(m *TankMovement) {
	m.FromTankID = t.FromTankID
	m.ToTankID = t.ToTankID
	t.OutputPump.apply(m)
}

// Consumption debita el tanque que alimenta un generador.
type Consumption struct {
	FromTankID  string
	GeneratorID string
	OutputPump  *OutputPumpReadings
}

func (Consumption) Type() MovementType    { return MovementTypeConsumption }
func (c Consumption) Source() string      { return c.FromTankID }
func (Consumption) Destination() string   { return "" }

func (c Consumption) Validate() error {
	if c.FromTankID == "" {
		return domain.InvalidFields("from_tank_id")
	}
	return c.OutputPump.validate()
}

func (c Consumption) apply(m *TankMovement) {
	m.FromTankID = c.FromTankID
	m.GeneratorID = c.GeneratorID
	c.OutputPump.apply(m)
}

// AdjustmentDirection sentido de un ajuste manual.
type AdjustmentDirection string

const (
	AdjustmentIn  AdjustmentDirection = "in"
	AdjustmentOut AdjustmentDirection = "out"
)

// Adjustment corrección manual sobre un único tanque; las notas son obligatorias.
type Adjustment struct {
	TankID    string
	Direction AdjustmentDirection
	Notes     string
}

func (Adjustment) Type() MovementType { return MovementTypeAdjustment }

func (a Adjustment) Source() string {
	if a.Direction == AdjustmentOut {
		return a.TankID
	}
	return ""
}

func (a Adjustment) Destination() string {
	if a.Direction == AdjustmentIn {
		return a.TankID
	}
	return ""
}

func (a Adjustment) Validate() error {
	var missing []string
	if a.TankID == "" {
		missing = append(missing, "tank_id")
	}
	if a.Direction != AdjustmentIn && a.Direction != AdjustmentOut {
		missing = append(missing, "direction")
	}
	if a.Notes == "" {
		missing = append(missing, "notes")
	}
	if len(missing) > 0 {
		return domain.InvalidFields(missing...)
	}
	return nil
}

func (a Adjustment) apply(m *TankMovement) {
	if a.Direction == AdjustmentIn {
		m.ToTankID = a.TankID
	} else {
		m.FromTankID = a.TankID
	}
	m.Notes = a.Notes
}

// NewTankMovement construye la fila del libro a partir de la variante.
// No valida cantidades ni niveles: eso ocurre al registrar el movimiento.
func NewTankMovement(spec MovementSpec, quantity decimal.Decimal) *TankMovement {
	m := &TankMovement{Type: spec.Type(), Quantity: quantity}
	spec.apply(m)
	return m
}

// Spec reconstruye la variante tipada de una fila persistida.
func (m *TankMovement) Spec() MovementSpec {
	var pump *OutputPumpReadings
	if m.OutputPumpID != "" && m.OutputPumpReadingBefore != nil && m.OutputPumpReadingAfter != nil {
		pump = &OutputPumpReadings{PumpID: m.OutputPumpID, Before: *m.OutputPumpReadingBefore, After: *m.OutputPumpReadingAfter}
	}
	switch m.Type {
	case MovementTypeReceiving:
		return Receiving{ToTankID: m.ToTankID, TaskID: m.TaskID}
	case MovementTypeTransfer:
		return Transfer{FromTankID: m.FromTankID, ToTankID: m.ToTankID, OutputPump: pump}
	case MovementTypeConsumption:
		return Consumption{FromTankID: m.FromTankID, GeneratorID: m.GeneratorID, OutputPump: pump}
	case MovementTypeAdjustment:
		if m.ToTankID != "" {
			return Adjustment{TankID: m.ToTankID, Direction: AdjustmentIn, Notes: m.Notes}
		}
		return Adjustment{TankID: m.FromTankID, Direction: AdjustmentOut, Notes: m.Notes}
	}
	return nil
}
