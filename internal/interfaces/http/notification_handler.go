package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/notification"
	"github.com/jhoicas/Tiendas-api/internal/application/settings"
)

// NotificationHandler bandeja de avisos y alertas derivadas.
type NotificationHandler struct {
	uc *notification.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Avisos propios
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídos"
// @Param        page    query  int   false  "Página"  default(1)
// @Param        limit   query  int   false  "Límite"  default(20)
// @Success      200     {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var q notification.Query
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), Identity(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar aviso como leído
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del aviso"
// @Success      200  {object}  dto.NotificationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkRead(c.UserContext(), Identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas calculadas sobre el estado actual
// @Description  Sin stock, stock bajo, pagos recibidos, facturas vencidas y suministros recientes.
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        shop_id  query  string  false  "Tienda (solo admin/superadmin)"
// @Success      200      {object}  dto.AlertListResponse
// @Router       /api/notifications/alerts [get]
func (h *NotificationHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.uc.Alerts(c.UserContext(), Identity(c), c.Query("shop_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SettingsHandler ajustes clave/valor por tienda o globales.
type SettingsHandler struct {
	uc *settings.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Upsert godoc
// @Summary      Crear o reemplazar un ajuste
// @Description  Sin shop_id el ajuste es global y solo lo escriben admin y superadmin.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertSettingRequest  true  "shop_id, key, value"
// @Success      200   {object}  dto.SettingResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertSettingRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Upsert(c.UserContext(), Identity(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Ajustes de una tienda (o globales)
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        shop_id  query  string  false  "Tienda"
// @Success      200      {array}  dto.SettingResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), Identity(c), c.Query("shop_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un ajuste
// @Tags         settings
// @Security     Bearer
// @Param        key      path   string  true   "Clave"
// @Param        shop_id  query  string  false  "Tienda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [delete]
func (h *SettingsHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), Identity(c), c.Query("shop_id"), c.Params("key")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
