package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// Query filtros del listado de usuarios.
type Query struct {
	dto.PageRequest
	ShopID string `query:"shop_id"`
	Role   string `query:"role"`
}

// UserUseCase administración de cuentas internas.
type UserUseCase struct {
	userRepo repository.UserRepository
	shopRepo repository.ShopRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, shopRepo repository.ShopRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, shopRepo: shopRepo}
}

// List usuarios visibles para el solicitante.
func (uc *UserUseCase) List(ctx context.Context, id access.Identity, q Query) (*dto.UserListResponse, error) {
	q.Normalize()
	if q.Role != "" && !entity.ValidRole(q.Role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, q.Role)
	}
	list, total, err := uc.userRepo.List(ctx, repository.UserFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceUsers, q.ShopID),
			Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
		},
		Role: q.Role,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// GetByID devuelve el usuario si está en el alcance.
func (uc *UserUseCase) GetByID(ctx context.Context, id access.Identity, userID string) (*dto.UserResponse, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if !access.For(id, access.ResourceUsers, "").Matches(record(u)) {
		return nil, domain.ErrForbidden
	}
	return ToResponse(u), nil
}

// Create alta de una cuenta. Un seller solo crea staff de su tienda; admin cualquier rol salvo superadmin.
func (uc *UserUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := in.Role
	shopID := in.ShopID
	switch id.Role {
	case entity.RoleSuperadmin:
	case entity.RoleAdmin:
		if role == entity.RoleSuperadmin {
			return nil, domain.ErrForbidden
		}
	case entity.RoleSeller:
		if role != entity.RoleStaff || id.ShopID == "" {
			return nil, domain.ErrForbidden
		}
		if shopID != "" && shopID != id.ShopID {
			return nil, domain.ErrForbidden
		}
		shopID = id.ShopID
	default:
		return nil, domain.ErrForbidden
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role)
	}

	switch role {
	case entity.RoleStaff:
		if shopID == "" {
			return nil, fmt.Errorf("%w: el staff debe pertenecer a una tienda", domain.ErrInvalidInput)
		}
	case entity.RoleCustomer, entity.RoleAdmin, entity.RoleSuperadmin:
		shopID = ""
	}
	if shopID != "" {
		if err := uc.ensureShop(ctx, shopID); err != nil {
			return nil, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &entity.User{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           in.Name,
		Phone:          in.Phone,
		Role:           role,
		ShopID:         shopID,
		IsActive:       true,
		Permissions:    in.Permissions,
		SalesTarget:    entity.DefaultSalesTarget,
		CommissionRate: entity.DefaultCommissionRate,
		CreatedBy:      id.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.SalesTarget != nil {
		u.SalesTarget = *in.SalesTarget
	}
	if in.CommissionRate != nil {
		if err := validateCommission(*in.CommissionRate); err != nil {
			return nil, err
		}
		u.CommissionRate = *in.CommissionRate
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return ToResponse(u), nil
}

// Update cambios parciales. Rol, tienda y estado activo solo los cambia un superadmin;
// las condiciones comerciales propias no las edita el mismo usuario.
func (uc *UserUseCase) Update(ctx context.Context, id access.Identity, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if !access.CanManageUser(id, u) {
		return nil, domain.ErrForbidden
	}
	if (in.Role != nil || in.ShopID != nil || in.IsActive != nil) && !access.CanChangeAccountControls(id) {
		return nil, domain.ErrForbidden
	}
	self := id.UserID == u.ID && !entity.IsPrivileged(id.Role)
	if self && (in.Permissions != nil || in.SalesTarget != nil || in.CommissionRate != nil) {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Permissions != nil {
		u.Permissions = in.Permissions
	}
	if in.SalesTarget != nil {
		u.SalesTarget = *in.SalesTarget
	}
	if in.CommissionRate != nil {
		if err := validateCommission(*in.CommissionRate); err != nil {
			return nil, err
		}
		u.CommissionRate = *in.CommissionRate
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, *in.Role)
		}
		u.Role = *in.Role
	}
	if in.ShopID != nil {
		if *in.ShopID != "" {
			if err := uc.ensureShop(ctx, *in.ShopID); err != nil {
				return nil, err
			}
		}
		u.ShopID = *in.ShopID
	}
	if u.Role == entity.RoleCustomer {
		u.ShopID = ""
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToResponse(u), nil
}

// Delete elimina una cuenta administrable por el solicitante. Nadie se elimina a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, id access.Identity, userID string) error {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if u.ID == id.UserID {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrConflict)
	}
	if !access.CanManageUser(id, u) {
		return domain.ErrForbidden
	}
	return uc.userRepo.Delete(ctx, u.ID)
}

func (uc *UserUseCase) ensureShop(ctx context.Context, shopID string) error {
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return fmt.Errorf("%w: tienda %s", domain.ErrNotFound, shopID)
	}
	return nil
}

func validateCommission(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return fmt.Errorf("%w: commission_rate debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

func record(u *entity.User) access.Record {
	return access.Record{ShopID: u.ShopID, UserID: u.ID}
}

// ToResponse mapea un usuario a su DTO (nunca expone el hash).
func ToResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &dto.UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Role:           u.Role,
		ShopID:         u.ShopID,
		IsActive:       u.IsActive,
		Permissions:    perms,
		SalesTarget:    u.SalesTarget,
		CommissionRate: u.CommissionRate,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
