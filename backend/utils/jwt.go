package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"edulearn/backend/config"

	"github.com/golang-jwt/jwt/v4"
)

// Identity is what a token proves about its bearer.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Claims struct {
	Identity
	jwt.RegisteredClaims
}

func GenerateJWTToken(identity Identity, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWT.ExpiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseJWTToken verifies signature and expiry and returns the embedded identity.
func ParseJWTToken(tokenString string, cfg *config.Config) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Identity.ID == "" {
		return nil, errors.New("token carries no identity")
	}
	return &claims.Identity, nil
}

// ExtractBearerToken accepts "Bearer <token>" or a bare token.
// A scheme with no token yields "".
func ExtractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
