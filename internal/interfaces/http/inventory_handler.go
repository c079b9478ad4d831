package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
)

// InventoryHandler suministros y consulta del ledger.
type InventoryHandler struct {
	supplies *inventory.SupplyUseCase
	stock    *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(supplies *inventory.SupplyUseCase, stock *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{supplies: supplies, stock: stock}
}

// CreateSupply godoc
// @Summary      Registrar suministro
// @Description  Suma el stock de cada línea y deja una entrada supply en el ledger, todo en una transacción.
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplyRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *InventoryHandler) CreateSupply(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.supplies.Create(c.UserContext(), Identity(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSupplies godoc
// @Summary      Listar suministros
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Param        start    query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        end      query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        page     query  int     false  "Página"  default(1)
// @Param        limit    query  int     false  "Límite"  default(20)
// @Success      200      {object}  dto.SupplyListResponse
// @Router       /api/supplies [get]
func (h *InventoryHandler) ListSupplies(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.supplies.List(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetSupply godoc
// @Summary      Obtener suministro
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del suministro"
// @Success      200  {object}  dto.SupplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [get]
func (h *InventoryHandler) GetSupply(c *fiber.Ctx) error {
	out, err := h.supplies.GetByID(c.UserContext(), Identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateSupply godoc
// @Summary      Reemplazar suministro
// @Description  Revierte las líneas anteriores y aplica las nuevas en la misma transacción.
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del suministro"
// @Param        body  body  dto.UpdateSupplyRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.SupplyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [patch]
func (h *InventoryHandler) UpdateSupply(c *fiber.Ctx) error {
	var in dto.UpdateSupplyRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.supplies.Update(c.UserContext(), Identity(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteSupply godoc
// @Summary      Eliminar suministro (revierte el stock)
// @Tags         supplies
// @Security     Bearer
// @Param        id   path  string  true  "ID del suministro"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [delete]
func (h *InventoryHandler) DeleteSupply(c *fiber.Ctx) error {
	if err := h.supplies.Delete(c.UserContext(), Identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTransactions godoc
// @Summary      Movimientos del ledger de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        shop_id     query  string  false  "Tienda (solo admin/superadmin)"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(20)
// @Success      200         {object}  dto.InventoryTransactionListResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var q inventory.TransactionQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.stock.ListTransactions(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
