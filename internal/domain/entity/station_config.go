package entity

import "time"

// StationConfig topología de diesel de una estación: qué tanques y bombas participan
// y con qué capacidades. Se valida al guardar.
type StationConfig struct {
	StationID          string
	BusinessID         string
	ReceivingTanks     []string
	MainTanks          []string
	GeneratorTanks     []string
	IntakePumps        []string
	OutputPumps        []string
	HasIntakePump      bool
	HasOutputPump      bool
	IntakePumpHasMeter bool
	OutputPumpHasMeter bool
	UpdatedBy          string
	UpdatedAt          time.Time
}

// AllowsUnloadInto indica si el tanque es destino válido de una descarga.
func (c *StationConfig) AllowsUnloadInto(tankID string) bool {
	return contains(c.ReceivingTanks, tankID) || contains(c.MainTanks, tankID)
}

// AllowsIntakePump indica si la bomba de entrada está configurada.
func (c *StationConfig) AllowsIntakePump(pumpID string) bool {
	return c.HasIntakePump && contains(c.IntakePumps, pumpID)
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
