package entity

import "github.com/shopspring/decimal"

// MaxAmount mayor monto admitido para precios unitarios, totales declarados y pagos (1e12 XOF).
var MaxAmount = decimal.New(1, 12)

const (
	maxAmountDigits = 13 // dígitos enteros de MaxAmount
	maxAmountScale  = 18 // decimales admitidos
)

// AmountInRange indica si 0 <= d <= MaxAmount. Revisa exponente y cantidad de
// dígitos antes de comparar: un valor como 1e50000000 se descarta sin expandirlo.
func AmountInRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < -maxAmountScale || exp > maxAmountDigits {
		return false
	}
	if d.IsNegative() {
		return false
	}
	if d.NumDigits()+exp > maxAmountDigits {
		return false
	}
	return d.Cmp(MaxAmount) <= 0
}
