package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/auth"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
)

// CookieConfig atributos de las cookies de sesión.
type CookieConfig struct {
	Secure            bool
	Domain            string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
}

// AuthHandler maneja registro, login, refresh y logout.
type AuthHandler struct {
	uc      *auth.AuthUseCase
	cookies CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookies: cookies}
}

// Register godoc
// @Summary      Registrar usuario (customer o seller)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, role"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.setSession(c, out.Tokens)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.setSession(c, out.Tokens)
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Renovar tokens
// @Description  Lee el refresh token del cuerpo o de la cookie refreshToken y relee el usuario.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  false  "refresh_token"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return &ValidationError{Message: "cuerpo inválido"}
		}
	}
	if in.RefreshToken == "" {
		in.RefreshToken = c.Cookies(CookieRefreshToken)
	}
	out, err := h.uc.Refresh(c.UserContext(), in.RefreshToken)
	if err != nil {
		return err
	}
	h.setSession(c, out.Tokens)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (borra las cookies)
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	expired := time.Unix(0, 0)
	for _, name := range []string{CookieAccessToken, CookieRefreshToken} {
		c.Cookie(h.cookie(name, "", expired))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Identidad del token
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IdentityResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := Identity(c)
	return c.JSON(dto.IdentityResponse{ID: id.UserID, Role: id.Role, ShopID: id.ShopID})
}

func (h *AuthHandler) setSession(c *fiber.Ctx, t dto.TokenPair) {
	now := time.Now()
	c.Cookie(h.cookie(CookieAccessToken, t.AccessToken, now.Add(time.Duration(h.cookies.AccessTTLMinutes)*time.Minute)))
	c.Cookie(h.cookie(CookieRefreshToken, t.RefreshToken, now.Add(time.Duration(h.cookies.RefreshTTLMinutes)*time.Minute)))
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		Expires:  expires,
		Secure:   h.cookies.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
