package entity

import "time"

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa una cuenta del sistema; es dueña de sus clientes, productos y facturas.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Status       string // active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
