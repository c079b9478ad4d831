package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más la identidad de la tienda.
// Role y ShopID viajan en el token para que el middleware decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	ShopID string `json:"shop_id,omitempty"`
	Role   string `json:"role"` // customer | staff | seller | admin | superadmin
	Type   string `json:"typ"`
}

// Generate genera un access token firmado que incluye userID, shopID y role.
func Generate(secret, userID, shopID, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, TokenAccess, userID, shopID, role, issuer, expMinutes)
}

// GenerateRefresh genera un refresh token. Debe firmarse con un secreto distinto al del access token.
func GenerateRefresh(secret, userID, issuer string, expMinutes int) (string, error) {
	return sign(secret, TokenRefresh, userID, "", "", issuer, expMinutes)
}

func sign(secret, typ, userID, shopID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		ShopID: shopID,
		Role:   role,
		Type:   typ,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida un access token y devuelve userID, shopID y role.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es un refresh token.
func Parse(secret, tokenString string) (userID, shopID, role string, err error) {
	claims, err := parseClaims(secret, tokenString)
	if err != nil {
		return "", "", "", err
	}
	if claims.Type != TokenAccess {
		return "", "", "", fmt.Errorf("tipo de token inesperado: %q", claims.Type)
	}
	return claims.UserID, claims.ShopID, claims.Role, nil
}

// ParseRefresh valida un refresh token y devuelve el userID.
func ParseRefresh(secret, tokenString string) (string, error) {
	claims, err := parseClaims(secret, tokenString)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenRefresh {
		return "", fmt.Errorf("tipo de token inesperado: %q", claims.Type)
	}
	return claims.UserID, nil
}

func parseClaims(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
