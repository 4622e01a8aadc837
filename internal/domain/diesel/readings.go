package diesel

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// IsAnomalous indica si value rompe la monotonía respecto a las lecturas aceptadas
// vecinas: menor que prev o mayor que next, más allá de epsilon. nil = sin vecino.
func IsAnomalous(prev, next *decimal.Decimal, value, epsilon decimal.Decimal) bool {
	if prev != nil && value.LessThan(prev.Sub(epsilon)) {
		return true
	}
	if next != nil && value.GreaterThan(next.Add(epsilon)) {
		return true
	}
	return false
}

// ReadingVerdict resultado de clasificar una lectura del historial.
type ReadingVerdict struct {
	Reading   *entity.PumpReading
	Baseline  *decimal.Decimal // última lectura aceptada previa (nil para la primera)
	Anomalous bool
	// Mismatch la clasificación difiere de la bandera guardada en la lectura.
	Mismatch bool
}

// ClassifyHistory recorre el historial de un contador en orden cronológico y marca como
// anómala toda lectura menor que la última aceptada menos epsilon. Las anómalas no mueven
// la línea base. initial es la lectura de registro del contador (puede ser nil).
func ClassifyHistory(readings []*entity.PumpReading, initial *decimal.Decimal, epsilon decimal.Decimal) []ReadingVerdict {
	ordered := make([]*entity.PumpReading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ReadingAt.Equal(ordered[j].ReadingAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ReadingAt.Before(ordered[j].ReadingAt)
	})

	var baseline *decimal.Decimal
	if initial != nil {
		b := *initial
		baseline = &b
	}
	out := make([]ReadingVerdict, 0, len(ordered))
	for _, r := range ordered {
		v := ReadingVerdict{Reading: r}
		if baseline != nil {
			b := *baseline
			v.Baseline = &b
		}
		v.Anomalous = IsAnomalous(baseline, nil, r.ReadingValue, epsilon)
		v.Mismatch = v.Anomalous != r.Anomalous
		if !v.Anomalous && (baseline == nil || r.ReadingValue.GreaterThan(*baseline)) {
			val := r.ReadingValue
			baseline = &val
		}
		out = append(out, v)
	}
	return out
}

// Delta diferencia después - antes; nil si falta alguna lectura o es negativa.
func Delta(before, after *decimal.Decimal) *decimal.Decimal {
	if before == nil || after == nil {
		return nil
	}
	d := after.Sub(*before)
	if d.IsNegative() {
		return nil
	}
	return &d
}
