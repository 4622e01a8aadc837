package diesel

import "github.com/jhoicas/Diesel-api/internal/application/ports"

// MetricEvents métricas acumuladas dentro de una transacción. Se publican con Emit solo
// después del commit; si la transacción se revierte se descartan.
type MetricEvents struct {
	pending []func(ports.EngineMetrics)
}

func (e *MetricEvents) add(fn func(ports.EngineMetrics)) {
	if e == nil {
		return
	}
	e.pending = append(e.pending, fn)
}

// Emit publica las métricas acumuladas y vacía la lista.
func (e *MetricEvents) Emit(m ports.EngineMetrics) {
	if e == nil || m == nil {
		return
	}
	for _, fn := range e.pending {
		fn(m)
	}
	e.pending = nil
}
