package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/analytics"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
)

// ReportHandler maneja los endpoints de reportes.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) query(c *fiber.Ctx) (dto.ReportQuery, error) {
	var q dto.ReportQuery
	if err := bindQuery(c, &q); err != nil {
		return q, err
	}
	return q, nil
}

// Dashboard godoc
// @Summary      Tablero
// @Description  Conteos, tiendas pendientes (solo admin/superadmin) e ingresos por origen.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Success      200      {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Dashboard(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Serie diaria de ingresos (UTC)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Success      200      {object}  dto.SalesReportResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Sales(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Más vendidos y valor de inventario por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start    query  string  false  "Desde"
// @Param        end      query  string  false  "Hasta"
// @Param        limit    query  int     false  "Tamaño del top"  default(10)
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Success      200      {object}  dto.ProductsReportResponse
// @Router       /api/reports/products [get]
func (h *ReportHandler) Products(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Products(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Staff godoc
// @Summary      Desempeño del equipo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start    query  string  false  "Desde"
// @Param        end      query  string  false  "Hasta"
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Success      200      {object}  dto.StaffReportResponse
// @Router       /api/reports/staff [get]
func (h *ReportHandler) Staff(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Staff(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
