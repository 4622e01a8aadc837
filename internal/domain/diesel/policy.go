// Package diesel contiene las reglas puras del motor de diesel: máquina de estados de la
// tarea de recepción, anomalías de contadores, conciliación, niveles de tanque y consumo.
// No depende de infraestructura.
package diesel

import "github.com/shopspring/decimal"

// Policy parámetros configurables de la conciliación y de las lecturas.
type Policy struct {
	// Tolerance fracción de la cantidad del proveedor aceptada como diferencia (0.01 = 1%).
	Tolerance decimal.Decimal
	// ReadingEpsilon retroceso máximo de un contador antes de marcar la lectura como anómala.
	ReadingEpsilon decimal.Decimal
}

// DefaultPolicy tolerancia 1%, epsilon 0.
func DefaultPolicy() Policy {
	return Policy{
		Tolerance:      decimal.NewFromFloat(0.01),
		ReadingEpsilon: decimal.Zero,
	}
}
