package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	userapp "github.com/jhoicas/Tiendas-api/internal/application/user"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	RefreshSecret     string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// dummyHash se compara cuando el email no existe para que el tiempo de respuesta
// no revele si la cuenta está registrada.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tiendas-dummy-password"), bcrypt.DefaultCost)

// AuthUseCase casos de uso de autenticación: registro, login y refresh.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea una cuenta pública (customer por defecto, o seller) y emite tokens.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if role != entity.RoleCustomer && role != entity.RoleSeller {
		return nil, domain.ErrInvalidInput
	}
	email := normalizeEmail(in.Email)
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
	user := &entity.User{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           in.Name,
		Phone:          in.Phone,
		Role:           role,
		IsActive:       true,
		Permissions:    []string{},
		SalesTarget:    entity.DefaultSalesTarget,
		CommissionRate: entity.DefaultCommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica email/password y emite tokens. Email desconocido y password incorrecto
// devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return uc.issue(user)
}

// Refresh valida el refresh token y vuelve a leer el usuario: los cambios de rol,
// tienda o estado activo se reflejan en el nuevo access token.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, err := jwt.ParseRefresh(uc.jwtCfg.RefreshSecret, refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.AuthResponse, error) {
	access, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.ShopID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.GenerateRefresh(uc.jwtCfg.RefreshSecret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User: *userapp.ToResponse(user),
		Tokens: dto.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    uc.jwtCfg.ExpMinutes * 60,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
