package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/catalog"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
)

// ProductHandler productos de la tienda, corrección de stock y catálogo público.
type ProductHandler struct {
	uc    *catalog.ProductUseCase
	stock *inventory.StockUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, stock *inventory.StockUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Crear producto
// @Description  La tienda debe estar aprobada. Sin barcode se genera uno EZ<millis><3 dígitos>.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), Identity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), Identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q            query  string  false  "Texto libre (nombre, descripción, sku, barcode)"
// @Param        sku          query  string  false  "SKU exacto"
// @Param        barcode      query  string  false  "Código de barras exacto"
// @Param        category_id  query  string  false  "Categoría"
// @Param        shop_id      query  string  false  "Tienda (solo admin/superadmin)"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite"  default(20)
// @Success      200          {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Lookup godoc
// @Summary      Buscar producto por SKU o código de barras
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        sku      query  string  false  "SKU"
// @Param        barcode  query  string  false  "Código de barras"
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Success      200      {object}  dto.ProductResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/products/lookup [get]
func (h *ProductHandler) Lookup(c *fiber.Ctx) error {
	sku, barcode := c.Query("sku"), c.Query("barcode")
	if sku == "" && barcode == "" {
		return &ValidationError{Message: "sku o barcode es requerido"}
	}
	out, err := h.uc.Lookup(c.UserContext(), Identity(c), sku, barcode, c.Query("shop_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  No cambia tienda ni stock; el stock se corrige con PATCH /products/{id}/stock.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), Identity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Corregir stock
// @Description  set, add o subtract; registra un ajuste en el ledger en la misma transacción.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateStockRequest  true  "stock y operación"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.stock.AdjustStock(c.UserContext(), Identity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), Identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Catalog godoc
// @Summary      Catálogo público
// @Description  Productos activos de tiendas aprobadas. No requiere autenticación.
// @Tags         catalog
// @Produce      json
// @Param        shop_id      query  string  false  "Tienda"
// @Param        q            query  string  false  "Texto libre"
// @Param        category_id  query  string  false  "Categoría"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite"  default(20)
// @Success      200          {object}  dto.ProductListResponse
// @Router       /api/catalog [get]
func (h *ProductHandler) Catalog(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.Catalog(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CatalogProduct godoc
// @Summary      Producto del catálogo público
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{id} [get]
func (h *ProductHandler) CatalogProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetPublic(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
