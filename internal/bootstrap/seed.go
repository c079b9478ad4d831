package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// SeedSuperadmin crea la cuenta superadmin si el email no existe. Es idempotente:
// con la cuenta ya creada devuelve (false, nil) sin tocarla.
func SeedSuperadmin(ctx context.Context, users repository.UserRepository, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return false, fmt.Errorf("%w: email y password (mín. 8) del superadmin son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		Role:           entity.RoleSuperadmin,
		IsActive:       true,
		Permissions:    []string{},
		SalesTarget:    entity.DefaultSalesTarget,
		CommissionRate: entity.DefaultCommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := users.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
