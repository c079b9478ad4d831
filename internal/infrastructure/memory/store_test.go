package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

func seedShop(t *testing.T, repos memory.Repositories, id, owner string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, repos.Users.Create(context.Background(), &entity.User{
		ID: owner, Email: owner + "@test.local", Role: entity.RoleSeller, ShopID: id, IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, repos.Shops.Create(context.Background(), &entity.Shop{
		ID: id, Name: "Tienda " + id, OwnerID: owner, Status: entity.ShopStatusApproved, VATRate: decimal.NewFromInt(19), CreatedAt: now,
	}))
}

func seedProduct(t *testing.T, repos memory.Repositories, id, shopID string, stock int) {
	t.Helper()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: id, ShopID: shopID, Name: "Producto " + id, Price: decimal.NewFromInt(10), Stock: stock, IsActive: true, CreatedAt: time.Now().UTC(),
	}))
}

// ───────────────────────────────────────────────────────────────
// Run
// ───────────────────────────────────────────────────────────────

func TestRun_ErrorRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	seedShop(t, repos, "s1", "u1")
	seedProduct(t, repos, "p1", "s1", 5)

	boom := errors.New("boom")
	err := store.Run(ctx, func(tx inventory.TxRepos) error {
		require.NoError(t, tx.Products.UpdateStock(ctx, "p1", 1))
		_, err := tx.Counters.Next(ctx, "sales")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock, "el stock vuelve al valor previo")

	n, err := repos.Counters.Next(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el contador también se revierte")
}

func TestRun_ConfirmaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	seedShop(t, repos, "s1", "u1")
	seedProduct(t, repos, "p1", "s1", 5)

	require.NoError(t, store.Run(ctx, func(tx inventory.TxRepos) error {
		return tx.Products.UpdateStock(ctx, "p1", 9)
	}))
	p, _ := repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, 9, p.Stock)
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	seedShop(t, repos, "s1", "u1")
	seedProduct(t, repos, "p1", "s1", 5)

	p, _ := repos.Products.GetByID(ctx, "p1")
	p.Stock = 100
	again, _ := repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, 5, again.Stock)

	missing, err := repos.Products.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// ───────────────────────────────────────────────────────────────
// Unicidad y cascadas
// ───────────────────────────────────────────────────────────────

func TestUserRepo_EmailUnico(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "a", Email: "x@test.local"}))
	err := repos.Users.Create(ctx, &entity.User{ID: "b", Email: "X@TEST.local"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_PropietarioNoSeBorra(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	seedShop(t, repos, "s1", "u1")
	assert.ErrorIs(t, repos.Users.Delete(ctx, "u1"), domain.ErrConflict)
}

func TestReviewRepo_UnaPorUsuario(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Reviews.Create(ctx, &entity.Review{ID: "r1", ProductID: "p1", UserID: "u1", Rating: 4}))
	require.NoError(t, repos.Reviews.Create(ctx, &entity.Review{ID: "r2", ProductID: "p1", UserID: "u2", Rating: 5}))
	assert.ErrorIs(t, repos.Reviews.Create(ctx, &entity.Review{ID: "r3", ProductID: "p1", UserID: "u1", Rating: 1}), domain.ErrDuplicate)

	avg, n, err := repos.Reviews.RatingStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, avg.Equal(decimal.RequireFromString("4.5")))
}

func TestShopRepo_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	seedShop(t, repos, "s1", "u1")
	seedProduct(t, repos, "p1", "s1", 5)
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "st", Email: "st@test.local", Role: entity.RoleStaff, ShopID: "s1"}))

	require.NoError(t, repos.Shops.Delete(ctx, "s1"))

	p, _ := repos.Products.GetByID(ctx, "p1")
	assert.Nil(t, p)
	staff, _ := repos.Users.GetByID(ctx, "st")
	require.NotNil(t, staff)
	assert.Empty(t, staff.ShopID)
}

func TestCategoryRepo_DeleteDesasignaProductos(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	seedShop(t, repos, "s1", "u1")
	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: "c1", ShopID: "s1", Name: "Bebidas", Slug: "bebidas"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", ShopID: "s1", CategoryID: "c1"}))

	require.NoError(t, repos.Categories.Delete(ctx, "c1"))
	p, _ := repos.Products.GetByID(ctx, "p1")
	assert.Empty(t, p.CategoryID)
}

// ───────────────────────────────────────────────────────────────
// Listados
// ───────────────────────────────────────────────────────────────

func TestProductRepo_ListAplicaAlcanceYCatalogo(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	seedShop(t, repos, "s1", "u1")
	seedProduct(t, repos, "p1", "s1", 1)
	require.NoError(t, repos.Shops.Create(ctx, &entity.Shop{ID: "s2", OwnerID: "u2", Status: entity.ShopStatusPending}))
	seedProduct(t, repos, "p2", "s2", 1)

	own, total, err := repos.Products.List(ctx, repository.ProductFilter{ScopedFilter: repository.ScopedFilter{Scope: access.Scope{ShopID: "s2"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "p2", own[0].ID)

	public, total, err := repos.Products.List(ctx, repository.ProductFilter{OnlyApproved: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "la tienda pendiente no aparece en el catálogo")
	assert.Equal(t, "p1", public[0].ID)

	_, total, _ = repos.Products.List(ctx, repository.ProductFilter{ScopedFilter: repository.ScopedFilter{Scope: access.Nothing()}})
	assert.Zero(t, total)
}

func TestProductRepo_ListPagina(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	seedShop(t, repos, "s1", "u1")
	base := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: id, ShopID: "s1", CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	page, total, err := repos.Products.List(ctx, repository.ProductFilter{ScopedFilter: repository.ScopedFilter{Page: repository.Page{Limit: 2, Offset: 1}}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].ID, "orden descendente por fecha de creación")
	assert.Equal(t, "a", page[1].ID)
}

func TestSettingsRepo_UpsertConservaID(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Settings.Upsert(ctx, &entity.Setting{ID: "1", Key: "theme", Value: []byte(`"dark"`)}))
	require.NoError(t, repos.Settings.Upsert(ctx, &entity.Setting{ID: "2", Key: "theme", Value: []byte(`"light"`)}))

	s, err := repos.Settings.Get(ctx, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "1", s.ID)
	assert.JSONEq(t, `"light"`, string(s.Value))
}
