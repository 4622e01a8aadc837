package ports

// EngineMetrics puerto de métricas del motor de diesel.
type EngineMetrics interface {
	TaskTransition(to string)
	AnomalousReading(pumpType string)
	Discrepancy(stationID string)
	MovementAppended(movementType string, liters float64)
	MovementRejected(reason string)
}

// NopMetrics implementación vacía para tests y CLI.
type NopMetrics struct{}

func (NopMetrics) TaskTransition(string)             {}
func (NopMetrics) AnomalousReading(string)           {}
func (NopMetrics) Discrepancy(string)                {}
func (NopMetrics) MovementAppended(string, float64)  {}
func (NopMetrics) MovementRejected(string)           {}
