package entity

import "github.com/shopspring/decimal"

// QuantityScale decimales con que se guardan litros y lecturas de contador.
const QuantityScale int32 = 3

// FitsScale indica si v se guarda sin redondeo con QuantityScale decimales.
func FitsScale(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(QuantityScale))
}

// validAmount no negativo y sin más decimales de los que se guardan; nil es válido.
func validAmount(v *decimal.Decimal) bool {
	return v == nil || (!v.IsNegative() && FitsScale(*v))
}
