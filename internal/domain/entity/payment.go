package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago; solo aplica cuando la factura está PAID.
type PaymentMethod string

// Medios de pago válidos.
const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCard         PaymentMethod = "CARD"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
)

// PaymentMethods lista los medios en el orden en que se muestran.
var PaymentMethods = []PaymentMethod{MethodCash, MethodBankTransfer, MethodCard, MethodMobileMoney}

// Valid indica si m es uno de los medios conocidos.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCard, MethodMobileMoney:
		return true
	}
	return false
}

// Payment pago registrado contra una factura.
type Payment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Method    PaymentMethod
	PaidAt    time.Time // solo fecha
	CreatedAt time.Time
}
