package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Máquina de estados de la tarea de recepción.
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrAlreadyRecorded   = errors.New("la etapa ya fue registrada con otros datos")

	// Invariantes del libro de movimientos.
	ErrOverCapacity       = errors.New("el movimiento excede la capacidad del tanque")
	ErrInsufficientVolume = errors.New("volumen insuficiente en el tanque")

	// Conciliación.
	ErrUnmeasurable           = errors.New("no hay forma de medir la cantidad recibida")
	ErrDiscrepancyUnexplained = errors.New("diferencia fuera de tolerancia sin notas")

	// Lectura menor a la anterior (no fatal, se expone como bandera).
	ErrAnomalousReading = errors.New("lectura de contador anómala")
)

// TransitionError detalla una transición rechazada: estado actual, destino pedido
// y el siguiente estado esperado (vacío si la tarea es terminal).
type TransitionError struct {
	From     string
	To       string
	Expected string
}

func (e *TransitionError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: %s -> %s (tarea en estado terminal)", ErrInvalidTransition, e.From, e.To)
	}
	return fmt.Sprintf("%s: %s -> %s (se esperaba %s)", ErrInvalidTransition, e.From, e.To, e.Expected)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError lista los campos faltantes o inválidos de una operación.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InvalidFields construye un ValidationError.
func InvalidFields(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// LevelError detalla un movimiento rechazado por capacidad o volumen insuficiente.
type LevelError struct {
	Err      error
	TankID   string
	Level    decimal.Decimal
	Capacity decimal.Decimal
	Quantity decimal.Decimal
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("%s: tanque %s nivel=%s capacidad=%s cantidad=%s",
		e.Err, e.TankID, e.Level.String(), e.Capacity.String(), e.Quantity.String())
}

func (e *LevelError) Unwrap() error { return e.Err }
