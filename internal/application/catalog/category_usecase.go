package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// CategoryQuery filtros del listado de categorías.
type CategoryQuery struct {
	dto.PageRequest
	ShopID string `query:"shop_id"`
}

// CategoryUseCase categorías por tienda.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// Create alta de categoría. Nombre o slug repetidos en la tienda devuelven ErrDuplicate.
func (uc *CategoryUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	shopID, err := access.ResolveShopID(id, in.ShopID)
	if err != nil {
		return nil, err
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: el nombre no produce un slug válido", domain.ErrInvalidInput)
	}
	if err := uc.checkUnique(ctx, shopID, in.Name, slug, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		ShopID:      shopID,
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List categorías ordenadas por nombre. Vendedor y staff ven las de su tienda;
// el resto (incluido el catálogo público) las de la tienda indicada.
func (uc *CategoryUseCase) List(ctx context.Context, id access.Identity, q CategoryQuery) ([]dto.CategoryResponse, error) {
	q.Normalize()
	scope := access.For(id, access.ResourceCategories, q.ShopID)
	if scope.None {
		scope = access.Scope{ShopID: q.ShopID}
	}
	list, err := uc.categoryRepo.List(ctx, repository.ScopedFilter{
		Scope: scope,
		Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Update renombrar recalcula el slug.
func (uc *CategoryUseCase) Update(ctx context.Context, id access.Identity, categoryID string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.load(ctx, id, categoryID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && *in.Name != c.Name {
		slug := Slugify(*in.Name)
		if slug == "" {
			return nil, fmt.Errorf("%w: el nombre no produce un slug válido", domain.ErrInvalidInput)
		}
		if err := uc.checkUnique(ctx, c.ShopID, *in.Name, slug, c.ID); err != nil {
			return nil, err
		}
		c.Name, c.Slug = *in.Name, slug
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, id access.Identity, categoryID string) error {
	c, err := uc.load(ctx, id, categoryID)
	if err != nil {
		return err
	}
	return uc.categoryRepo.Delete(ctx, c.ID)
}

func (uc *CategoryUseCase) load(ctx context.Context, id access.Identity, categoryID string) (*entity.Category, error) {
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceCategories, "").Matches(access.Record{ShopID: c.ShopID}) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (uc *CategoryUseCase) checkUnique(ctx context.Context, shopID, name, slug, selfID string) error {
	other, err := uc.categoryRepo.FindByNameOrSlug(ctx, shopID, name, slug)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: la categoría ya existe en la tienda", domain.ErrDuplicate)
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		ShopID:      c.ShopID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
