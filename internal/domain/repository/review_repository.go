package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// ReviewRepository define el puerto de persistencia para Review.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string, page Page) ([]*entity.Review, int, error)
	// RatingStats promedio y cantidad de reseñas del producto.
	RatingStats(ctx context.Context, productID string) (average decimal.Decimal, count int, err error)
}
