package dto

// RegisterRequest registro público: solo customer (por defecto) o seller.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
	Role     string `json:"role" validate:"omitempty,oneof=customer seller"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest refresh token en el cuerpo (alternativa a la cookie).
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair tokens emitidos.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // segundos de vida del access token
}

// AuthResponse salida de registro, login y refresh.
type AuthResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// IdentityResponse identidad resuelta del token (GET /auth/me).
type IdentityResponse struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	ShopID string `json:"shop_id,omitempty"`
}
