package repository

import (
	"context"

	"github.com/jhoicas/facturo/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Todas las lecturas van acotadas al dueño de la cuenta.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID devuelve (nil, nil) si no existe o pertenece a otra cuenta.
	GetByID(ctx context.Context, ownerID, id string) (*entity.Customer, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Customer, error)
}
