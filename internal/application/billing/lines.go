package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// buildLines normaliza las líneas de un documento. Las líneas con producto deben ser de la
// tienda y toman su precio y nombre si no vienen; las líneas libres requieren unit_price.
func buildLines(ctx context.Context, products repository.ProductRepository, shopID string, in []dto.LineItemRequest) ([]entity.LineItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el documento requiere al menos una línea", domain.ErrInvalidInput)
	}
	items := make([]entity.LineItem, 0, len(in))
	for i, it := range in {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d: quantity debe ser > 0", domain.ErrInvalidInput, i+1)
		}
		line := entity.LineItem{ProductID: it.ProductID, Description: it.Description, Quantity: it.Quantity}
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: línea %d: unit_price no puede ser negativo", domain.ErrInvalidInput, i+1)
			}
			line.UnitPrice = *it.UnitPrice
		}
		if it.ProductID != "" {
			p, err := products.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("%w: línea %d: producto %s", domain.ErrNotFound, i+1, it.ProductID)
			}
			if p.ShopID != shopID {
				return nil, fmt.Errorf("%w: línea %d: el producto no pertenece a la tienda", domain.ErrForbidden, i+1)
			}
			if it.UnitPrice == nil {
				line.UnitPrice = p.Price
			}
			if line.Description == "" {
				line.Description = p.Name
			}
		} else if it.UnitPrice == nil {
			return nil, fmt.Errorf("%w: línea %d: unit_price es obligatorio sin product_id", domain.ErrInvalidInput, i+1)
		}
		if line.Description == "" {
			line.Description = entity.DefaultItemDescription
		}
		items = append(items, line)
	}
	return items, nil
}

func toLineResponses(items []entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineItemResponse{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total(),
		})
	}
	return out
}

func loadShop(ctx context.Context, shops repository.ShopRepository, shopID string) (*entity.Shop, error) {
	shop, err := shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, shopID)
	}
	if !shop.IsApproved() {
		return nil, domain.ErrShopNotApproved
	}
	return shop, nil
}
