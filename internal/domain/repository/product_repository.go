package repository

import (
	"context"

	"github.com/jhoicas/facturo/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe o pertenece a otra cuenta.
	GetByID(ctx context.Context, ownerID, id string) (*entity.Product, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Product, error)
}
