package diesel

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

// Consumption cantidad consumida = inicio - fin; rate solo si hay horas > 0.
// Un tanque de generador no gana combustible sin movimiento: fin > inicio es inválido.
func Consumption(start, end decimal.Decimal, hours *decimal.Decimal) (quantity decimal.Decimal, rate *decimal.Decimal, err error) {
	if start.IsNegative() || !entity.FitsScale(start) {
		return decimal.Zero, nil, domain.InvalidFields("start_level")
	}
	if end.IsNegative() || !entity.FitsScale(end) {
		return decimal.Zero, nil, domain.InvalidFields("end_level")
	}
	if hours != nil && hours.IsNegative() {
		return decimal.Zero, nil, domain.InvalidFields("running_hours")
	}
	quantity = start.Sub(end)
	if quantity.IsNegative() {
		return decimal.Zero, nil, domain.InvalidFields("end_level")
	}
	if hours != nil && hours.IsPositive() {
		r := quantity.Div(*hours).Round(4)
		rate = &r
	}
	return quantity, rate, nil
}

// Statistics agrega los consumos de un generador. AverageRate = total consumido / total horas.
func Statistics(generatorID string, records []*entity.GeneratorConsumption) entity.ConsumptionStatistics {
	st := entity.ConsumptionStatistics{
		GeneratorID:       generatorID,
		TotalConsumed:     decimal.Zero,
		TotalRunningHours: decimal.Zero,
	}
	for _, r := range records {
		if r.GeneratorID != generatorID {
			continue
		}
		st.Records++
		st.TotalConsumed = st.TotalConsumed.Add(r.QuantityConsumed)
		if r.RunningHours != nil {
			st.TotalRunningHours = st.TotalRunningHours.Add(*r.RunningHours)
		}
	}
	if st.TotalRunningHours.IsPositive() {
		avg := st.TotalConsumed.Div(st.TotalRunningHours).Round(4)
		st.AverageRate = &avg
	}
	return st
}
