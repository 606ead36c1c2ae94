package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gocomet/rider-tracker/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the rider identity inside an access token
type Claims struct {
	RiderID   int64  `json:"rider_id"`
	RiderName string `json:"rider_name"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed access token for a rider
func GenerateToken(cfg config.JWTConfig, riderID int64, riderName string) (string, error) {
	claims := Claims{
		RiderID:   riderID,
		RiderName: riderName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken validates a token and returns its claims
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
