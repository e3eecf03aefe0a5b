package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyXOF es la única moneda de facturación (franco CFA de África Occidental).
const CurrencyXOF = "XOF"

// PaymentStatus estado de pago de una factura.
type PaymentStatus string

// Estados de pago válidos.
const (
	StatusPending   PaymentStatus = "PENDING"
	StatusPaid      PaymentStatus = "PAID"
	StatusOverdue   PaymentStatus = "OVERDUE"
	StatusCancelled PaymentStatus = "CANCELLED"
)

// PaymentStatuses lista los estados en el orden en que se muestran.
var PaymentStatuses = []PaymentStatus{StatusPending, StatusPaid, StatusOverdue, StatusCancelled}

// Valid indica si s es uno de los estados conocidos.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura.
type Invoice struct {
	ID          string
	OwnerID     string // cuenta propietaria (usuario autenticado)
	CustomerID  string
	Number      string // INV-<año>-<nnn>, único por cuenta
	Status      PaymentStatus
	TotalAmount decimal.Decimal
	Currency    string
	IssuedAt    time.Time // solo fecha
	DueDate     time.Time // solo fecha
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
