// Package money formatea montos en francos CFA (XOF) para mostrar en pantalla.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency código ISO 4217 usado en toda la facturación.
const Currency = "XOF"

var printer = message.NewPrinter(language.French)

// Format devuelve el monto con separador de miles francés y el sufijo " XOF".
// XOF no tiene subunidad en la práctica; se muestran hasta 2 decimales si existen.
func Format(amount decimal.Decimal) string {
	return FormatNumber(amount) + " " + Currency
}

// FormatNumber igual que Format pero sin la moneda.
func FormatNumber(amount decimal.Decimal) string {
	return printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}
