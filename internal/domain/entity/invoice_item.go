package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal // Quantity × UnitPrice, calculado al persistir
}
