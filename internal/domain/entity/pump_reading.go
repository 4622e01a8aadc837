package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReadingType momento de la lectura respecto a la operación.
type ReadingType string

const (
	ReadingTypeBefore ReadingType = "before"
	ReadingTypeAfter  ReadingType = "after"
)

// Valid indica si el tipo es uno de los conocidos.
func (t ReadingType) Valid() bool {
	return t == ReadingTypeBefore || t == ReadingTypeAfter
}

// PumpReading evento inmutable del registro de lecturas.
// Anomalous marca una lectura menor a la línea base del contador (posible reemplazo);
// Baseline es el valor contra el que se comparó.
type PumpReading struct {
	ID           string
	BusinessID   string
	PumpMeterID  string
	TaskID       string
	ReadingValue decimal.Decimal
	ReadingType  ReadingType
	EvidenceKey  string
	Anomalous    bool
	Baseline     decimal.Decimal
	ReadingAt    time.Time
	RecordedBy   string
	Notes        string
	CreatedAt    time.Time
}
