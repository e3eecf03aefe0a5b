package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable.
type Product struct {
	ID        string
	OwnerID   string
	Name      string
	Amount    decimal.Decimal // precio unitario en XOF
	CreatedAt time.Time
	UpdatedAt time.Time
}
