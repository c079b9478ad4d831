package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/bootstrap"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Tiendas-api/internal/interfaces/http"
	"github.com/jhoicas/Tiendas-api/pkg/config"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

const (
	superEmail    = "root@tiendas.test"
	superPassword = "super-secreto-1"
)

type apiFixture struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "tiendas-test"},
		JWT: config.JWTConfig{
			Secret:            testJWTSecret,
			RefreshSecret:     testJWTSecret + ".refresh",
			Expiration:        15,
			RefreshExpiration: 60,
			Issuer:            testIssuer,
		},
		Alerts: config.AlertsConfig{SupplyWindowDays: 7},
	}
	st := bootstrap.MemoryStorage(memory.NewStore())
	created, err := bootstrap.SeedSuperadmin(context.Background(), st.Users, superEmail, superPassword, "Root")
	require.NoError(t, err)
	require.True(t, created)

	deps := bootstrap.RouterDeps(st, ports.NopPublisher{}, pdf.NewMarotoPDFGenerator(), cfg)
	app := apphttp.NewApp(apphttp.ServerConfig{AppName: cfg.App.Name, CORSOrigins: "*"}, deps, logger.Nop())
	return &apiFixture{t: t, app: app}
}

// do envía la petición y decodifica el JSON de respuesta en out (si no es nil).
func (f *apiFixture) do(method, path, token string, body any, out any) int {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(f.t, json.NewDecoder(resp.Body).Decode(out))
	} else if e, ok := out.(*dto.ErrorResponse); ok {
		_ = json.NewDecoder(resp.Body).Decode(e)
	}
	return resp.StatusCode
}

func (f *apiFixture) login(email, password string) dto.AuthResponse {
	f.t.Helper()
	var out dto.AuthResponse
	status := f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &out)
	require.Equal(f.t, http.StatusOK, status)
	return out
}

// sellerWithShop registra un vendedor, crea su tienda, la aprueba el superadmin y
// devuelve un access token que ya incluye la tienda.
func (f *apiFixture) sellerWithShop(email string) (token, shopID string) {
	f.t.Helper()
	var reg dto.AuthResponse
	status := f.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: email, Password: "vendedor-123", Name: "Vendedor", Role: "seller",
	}, &reg)
	require.Equal(f.t, http.StatusCreated, status)

	var shop dto.ShopResponse
	status = f.do(http.MethodPost, "/api/shops", reg.Tokens.AccessToken, dto.CreateShopRequest{Name: "Tienda " + email}, &shop)
	require.Equal(f.t, http.StatusCreated, status)
	require.Equal(f.t, "pending", shop.Status)

	super := f.login(superEmail, superPassword)
	var approved dto.ShopResponse
	status = f.do(http.MethodPost, "/api/shops/"+shop.ID+"/approve", super.Tokens.AccessToken, nil, &approved)
	require.Equal(f.t, http.StatusOK, status)
	require.Equal(f.t, "approved", approved.Status)

	var refreshed dto.AuthResponse
	status = f.do(http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: reg.Tokens.RefreshToken}, &refreshed)
	require.Equal(f.t, http.StatusOK, status)
	return refreshed.Tokens.AccessToken, shop.ID
}

func TestAPI_Health(t *testing.T) {
	f := newAPI(t)
	var out map[string]string
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestAPI_FlujoInventarioYAlertas(t *testing.T) {
	f := newAPI(t)
	token, shopID := f.sellerWithShop("vendedor@tiendas.test")

	var product dto.ProductResponse
	status := f.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": "Café 500g", "price": "10.00", "cost": "6.00", "stock": 10, "min_stock": 2,
	}, &product)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, shopID, product.ShopID)
	assert.Equal(t, 10, product.Stock)

	var supply dto.SupplyResponse
	status = f.do(http.MethodPost, "/api/supplies", token, map[string]any{
		"supplier_name": "Proveedor SA",
		"items":         []map[string]any{{"product_id": product.ID, "quantity": 5, "unit_cost": "6.00"}},
	}, &supply)
	require.Equal(t, http.StatusCreated, status)

	var sale dto.SaleResponse
	status = f.do(http.MethodPost, "/api/sales", token, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 3}},
	}, &sale)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("30")), "3 x 10.00 al precio del producto")

	var current dto.ProductResponse
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/products/"+product.ID, token, nil, &current))
	assert.Equal(t, 12, current.Stock, "10 iniciales + 5 suministrados - 3 vendidos")

	var alerts dto.AlertListResponse
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/notifications/alerts", token, nil, &alerts))
	assert.Zero(t, alerts.Counts["warning"])
	assert.Equal(t, 1, alerts.Counts["info"], "suministro recibido dentro de la ventana")

	stock := 1
	status = f.do(http.MethodPatch, "/api/products/"+product.ID+"/stock", token, dto.UpdateStockRequest{Stock: &stock, Operation: "set"}, &current)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, current.Stock)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/notifications/alerts", token, nil, &alerts))
	assert.Equal(t, 1, alerts.Counts["warning"])

	var ledger dto.InventoryTransactionListResponse
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/inventory/transactions?product_id="+product.ID, token, nil, &ledger))
	assert.Equal(t, 4, ledger.Page.Total, "inicial, suministro, venta y ajuste")
}

func TestAPI_ProductoEnTiendaPendiente(t *testing.T) {
	f := newAPI(t)
	var reg dto.AuthResponse
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "pendiente@tiendas.test", Password: "vendedor-123", Name: "P", Role: "seller",
	}, &reg))
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/shops", reg.Tokens.AccessToken, dto.CreateShopRequest{Name: "Pendiente"}, nil))

	var refreshed dto.AuthResponse
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: reg.Tokens.RefreshToken}, &refreshed))

	var e dto.ErrorResponse
	status := f.do(http.MethodPost, "/api/products", refreshed.Tokens.AccessToken, map[string]any{"name": "X", "price": "1"}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "SHOP_NOT_APPROVED", e.Code)
}

func TestAPI_ErroresHTTP(t *testing.T) {
	f := newAPI(t)
	token, _ := f.sellerWithShop("errores@tiendas.test")

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/products", "", nil, &e))
	assert.Equal(t, "MISSING_TOKEN", e.Code)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: superEmail, Password: "incorrecta"}, &e))
	assert.Equal(t, "UNAUTHORIZED", e.Code)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/products/00000000-0000-0000-0000-00000000dead", token, nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/products", token, map[string]any{"stock": -1}, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "name")

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "errores@tiendas.test", Password: "otra-clave-1", Name: "Dup",
	}, &e))
	assert.Equal(t, "EMAIL_EXISTS", e.Code)

	// un cliente no entra al back office
	var customer dto.AuthResponse
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "cliente@tiendas.test", Password: "cliente-123", Name: "Cliente",
	}, &customer))
	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/sales", customer.Tokens.AccessToken, nil, &e))
	assert.Equal(t, "FORBIDDEN", e.Code)
}

func TestAPI_CatalogoPublico(t *testing.T) {
	f := newAPI(t)
	token, _ := f.sellerWithShop("catalogo@tiendas.test")

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/products", token, map[string]any{
		"name": "Té verde", "price": "4.50", "stock": 3,
	}, &product))

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/catalog", "", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, product.ID, list.Items[0].ID)

	var one dto.ProductResponse
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/catalog/"+product.ID, "", nil, &one))
	assert.Equal(t, "Té verde", one.Name)
}

func TestAPI_LogoutBorraCookies(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	names := map[string]bool{}
	for _, c := range resp.Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names[apphttp.CookieAccessToken])
	assert.True(t, names[apphttp.CookieRefreshToken])
}

// Ventas sin PATCH y categorías sin GET /:id, como en las rutas de origen.
func TestAPI_RutasSinEdicionDeVentaNiDetalleDeCategoria(t *testing.T) {
	f := newAPI(t)
	token, _ := f.sellerWithShop("rutas@tiendas.test")
	id := "00000000-0000-0000-0000-00000000beef"

	for _, c := range []struct{ method, path string }{
		{http.MethodPatch, "/api/sales/" + id},
		{http.MethodGet, "/api/categories/" + id},
	} {
		status := f.do(c.method, c.path, token, map[string]any{}, nil)
		assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, status, "%s %s", c.method, c.path)
	}

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/sales/"+id, token, nil, nil), "el detalle de venta sí existe")
}
