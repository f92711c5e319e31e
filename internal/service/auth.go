package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/appetiteapp/backend/internal/types"
)

// AuthService validates bearer tokens issued by the auth provider. The
// catalog only reads the user identifier out of them; registration, login
// and credential storage live elsewhere.
type AuthService struct {
	jwtSecret string
}

// NewAuthService creates a new AuthService instance
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, fmt.Errorf("token missing user_id claim")
	}

	out := &types.TokenClaims{UserID: uint(userID)}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	return out, nil
}

// GenerateToken signs a token for the given user. Kept for tests and local
// tooling; production tokens come from the auth provider.
func (s *AuthService) GenerateToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  float64(userID),
		"username": username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
