package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// ReviewUseCase reseñas de productos y su calificación agregada.
type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewUseCase construye el caso de uso.
func NewReviewUseCase(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewUseCase {
	return &ReviewUseCase{reviewRepo: reviewRepo, productRepo: productRepo}
}

// Create una reseña por usuario y producto (ErrDuplicate si repite). Recalcula el promedio del producto.
func (uc *ReviewUseCase) Create(ctx context.Context, id access.Identity, productID string, in dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	r := &entity.Review{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		UserID:    id.UserID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	if err := uc.refreshRating(ctx, p.ID); err != nil {
		return nil, err
	}
	return toReviewResponse(r), nil
}

// ListByProduct reseñas del producto, más recientes primero.
func (uc *ReviewUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) (*dto.ReviewListResponse, error) {
	page.Normalize()
	list, total, err := uc.reviewRepo.ListByProduct(ctx, productID, repository.Page{Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReviewResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReviewResponse(r))
	}
	return &dto.ReviewListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}

// Delete el autor o un admin eliminan la reseña.
func (uc *ReviewUseCase) Delete(ctx context.Context, id access.Identity, reviewID string) error {
	r, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if r.UserID != id.UserID && !entity.IsPrivileged(id.Role) {
		return domain.ErrForbidden
	}
	if err := uc.reviewRepo.Delete(ctx, r.ID); err != nil {
		return err
	}
	return uc.refreshRating(ctx, r.ProductID)
}

func (uc *ReviewUseCase) refreshRating(ctx context.Context, productID string) error {
	avg, count, err := uc.reviewRepo.RatingStats(ctx, productID)
	if err != nil {
		return err
	}
	return uc.productRepo.UpdateRating(ctx, productID, avg.Round(2), count)
}

func toReviewResponse(r *entity.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
