// Package metrics métricas Prometheus del motor de diesel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Diesel-api/internal/application/ports"
)

var _ ports.EngineMetrics = (*EngineMetrics)(nil)

// EngineMetrics implementa ports.EngineMetrics.
type EngineMetrics struct {
	taskTransitions   *prometheus.CounterVec
	anomalousReadings *prometheus.CounterVec
	discrepancies     *prometheus.CounterVec
	movements         *prometheus.CounterVec
	movedLiters       *prometheus.CounterVec
	rejections        *prometheus.CounterVec
}

// NewEngineMetrics registra las métricas en reg.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	f := promauto.With(reg)
	return &EngineMetrics{
		// Labels: to (estado destino)
		taskTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diesel",
			Subsystem: "receiving",
			Name:      "transitions_total",
			Help:      "Transiciones de tareas de recepción por estado destino",
		}, []string{"to"}),
		anomalousReadings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diesel",
			Subsystem: "readings",
			Name:      "anomalous_total",
			Help:      "Lecturas de contador aceptadas como anómalas",
		}, []string{"pump_type"}),
		discrepancies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diesel",
			Subsystem: "receiving",
			Name:      "discrepancies_total",
			Help:      "Tareas completadas con diferencia fuera de tolerancia",
		}, []string{"station_id"}),
		movements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diesel",
			Subsystem: "ledger",
			Name:      "movements_total",
			Help:      "Movimientos de tanque registrados",
		}, []string{"type"}),
		movedLiters: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diesel",
			Subsystem: "ledger",
			Name:      "liters_total",
			Help:      "Litros movidos por tipo de movimiento",
		}, []string{"type"}),
		// Labels: reason (over_capacity, insufficient_volume, invalid)
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diesel",
			Subsystem: "ledger",
			Name:      "rejections_total",
			Help:      "Movimientos rechazados por motivo",
		}, []string{"reason"}),
	}
}

func (m *EngineMetrics) TaskTransition(to string) {
	m.taskTransitions.WithLabelValues(to).Inc()
}

func (m *EngineMetrics) AnomalousReading(pumpType string) {
	m.anomalousReadings.WithLabelValues(pumpType).Inc()
}

func (m *EngineMetrics) Discrepancy(stationID string) {
	m.discrepancies.WithLabelValues(stationID).Inc()
}

func (m *EngineMetrics) MovementAppended(movementType string, liters float64) {
	m.movements.WithLabelValues(movementType).Inc()
	m.movedLiters.WithLabelValues(movementType).Add(liters)
}

func (m *EngineMetrics) MovementRejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}
