package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos de las tiendas.
type ProductUseCase struct {
	txRunner     inventory.TxRunner
	productRepo  repository.ProductRepository
	shopRepo     repository.ShopRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, productRepo repository.ProductRepository, shopRepo repository.ShopRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, shopRepo: shopRepo, categoryRepo: categoryRepo}
}

// Create da de alta un producto en una tienda aprobada. Devuelve ErrShopNotApproved si la tienda
// sigue pendiente o fue rechazada. El stock inicial queda registrado como adjustment_in.
func (uc *ProductUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	shopID, err := access.ResolveShopID(id, in.ShopID)
	if err != nil {
		return nil, err
	}
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, shopID)
	}
	if !shop.IsApproved() {
		return nil, domain.ErrShopNotApproved
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: price y cost no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := uc.checkCategory(ctx, shopID, in.CategoryID); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(in.SKU)
	if err := uc.checkSKU(ctx, shopID, sku, ""); err != nil {
		return nil, err
	}
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" {
		barcode = GenerateBarcode(time.Now())
	} else if err := uc.checkBarcode(ctx, shopID, barcode, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	images := in.Images
	if images == nil {
		images = []string{}
	}
	product := &entity.Product{
		ID:          uuid.New().String(),
		ShopID:      shopID,
		Name:        in.Name,
		Description: in.Description,
		SKU:         sku,
		Barcode:     barcode,
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		CategoryID:  in.CategoryID,
		Images:      images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if product.Stock == 0 {
			return nil
		}
		return repos.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:            uuid.New().String(),
			ShopID:        shopID,
			ProductID:     product.ID,
			Type:          entity.TxTypeAdjustmentIn,
			Quantity:      product.Stock,
			PreviousStock: 0,
			NewStock:      product.Stock,
			ReferenceID:   product.ID,
			Note:          "Stock inicial",
			CreatedBy:     id.UserID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	return inventory.ProductToResponse(product), nil
}

// List productos del alcance del solicitante, con búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, id access.Identity, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	return uc.list(ctx, q, access.For(id, access.ResourceProducts, q.ShopID), false)
}

// Catalog listado público: productos activos de tiendas aprobadas.
func (uc *ProductUseCase) Catalog(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	return uc.list(ctx, q, access.Scope{ShopID: q.ShopID}, true)
}

func (uc *ProductUseCase) list(ctx context.Context, q dto.ProductQuery, scope access.Scope, public bool) (*dto.ProductListResponse, error) {
	q.Normalize()
	list, total, err := uc.productRepo.List(ctx, repository.ProductFilter{
		ScopedFilter: repository.ScopedFilter{Scope: scope, Page: repository.Page{Limit: q.Limit, Offset: q.Offset()}},
		Query:        strings.TrimSpace(q.Query),
		CategoryID:   q.CategoryID,
		SKU:          q.SKU,
		Barcode:      q.Barcode,
		OnlyApproved: public,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *inventory.ProductToResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// GetByID producto del alcance del solicitante.
func (uc *ProductUseCase) GetByID(ctx context.Context, id access.Identity, productID string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	return inventory.ProductToResponse(p), nil
}

// GetPublic producto activo de una tienda aprobada; cualquier otro caso es ErrNotFound.
func (uc *ProductUseCase) GetPublic(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	shop, err := uc.shopRepo.GetByID(ctx, p.ShopID)
	if err != nil {
		return nil, err
	}
	if shop == nil || !shop.IsApproved() {
		return nil, domain.ErrNotFound
	}
	return inventory.ProductToResponse(p), nil
}

// Lookup busca por sku o barcode (exactos) dentro del alcance.
func (uc *ProductUseCase) Lookup(ctx context.Context, id access.Identity, sku, barcode, shopID string) (*dto.ProductResponse, error) {
	if sku == "" && barcode == "" {
		return nil, fmt.Errorf("%w: indique sku o barcode", domain.ErrInvalidInput)
	}
	scope := access.For(id, access.ResourceProducts, shopID)
	if scope.None {
		return nil, domain.ErrForbidden
	}
	var (
		p   *entity.Product
		err error
	)
	if sku != "" {
		p, err = uc.productRepo.FindBySKU(ctx, scope.ShopID, sku)
	}
	if err == nil && p == nil && barcode != "" {
		p, err = uc.productRepo.FindByBarcode(ctx, scope.ShopID, barcode)
	}
	if err != nil {
		return nil, err
	}
	if p == nil || !scope.Matches(access.Record{ShopID: p.ShopID}) {
		return nil, domain.ErrNotFound
	}
	return inventory.ProductToResponse(p), nil
}

// Update cambios parciales. La tienda y el stock no se modifican por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id access.Identity, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if err := uc.checkSKU(ctx, p.ShopID, sku, p.ID); err != nil {
			return nil, err
		}
		p.SKU = sku
	}
	if in.Barcode != nil {
		barcode := strings.TrimSpace(*in.Barcode)
		if barcode == "" {
			barcode = GenerateBarcode(time.Now())
		} else if err := uc.checkBarcode(ctx, p.ShopID, barcode, p.ID); err != nil {
			return nil, err
		}
		p.Barcode = barcode
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
		}
		p.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: cost no puede ser negativo", domain.ErrInvalidInput)
		}
		p.Cost = *in.Cost
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, p.ShopID, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return inventory.ProductToResponse(p), nil
}

// Delete elimina el producto. Las entradas del ledger se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id access.Identity, productID string) error {
	p, err := uc.load(ctx, id, productID)
	if err != nil {
		return err
	}
	return uc.productRepo.Delete(ctx, p.ID)
}

func (uc *ProductUseCase) load(ctx context.Context, id access.Identity, productID string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceProducts, "").Matches(access.Record{ShopID: p.ShopID}) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, shopID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || c.ShopID != shopID {
		return fmt.Errorf("%w: la categoría no existe en la tienda", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *ProductUseCase) checkSKU(ctx context.Context, shopID, sku, selfID string) error {
	if sku == "" {
		return nil
	}
	other, err := uc.productRepo.FindBySKU(ctx, shopID, sku)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: sku %s ya existe en la tienda", domain.ErrDuplicate, sku)
	}
	return nil
}

func (uc *ProductUseCase) checkBarcode(ctx context.Context, shopID, barcode, selfID string) error {
	other, err := uc.productRepo.FindByBarcode(ctx, shopID, barcode)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: barcode %s ya existe en la tienda", domain.ErrDuplicate, barcode)
	}
	return nil
}

// GenerateBarcode código interno EZ + milisegundos + tres dígitos aleatorios.
func GenerateBarcode(now time.Time) string {
	return fmt.Sprintf("EZ%d%03d", now.UnixMilli(), rand.IntN(1000))
}
