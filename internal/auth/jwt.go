package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/erazemk/milaap/internal/model"
)

// Issuer is stamped on every session token and required when parsing.
const Issuer = "rajkot-e-milaap"

// TokenExpiry is how long a login session stays valid.
const TokenExpiry = 7 * 24 * time.Hour

// Claims carries the signed-in account inside a session token.
type Claims struct {
	AccountID int64      `json:"account_id"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	jwt.RegisteredClaims
}

// ActorID implements model.Actor.
func (c *Claims) ActorID() int64 { return c.AccountID }

// ActorRole implements model.Actor.
func (c *Claims) ActorRole() model.Role { return c.Role }

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(Issuer),
	jwt.WithExpirationRequired(),
)

// GenerateToken signs a session token for a. Each token gets a fresh ID so
// it can be revoked on its own at logout.
func GenerateToken(secret string, a *model.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: a.ID,
		Name:      a.Name,
		Role:      a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   fmt.Sprint(a.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks a session token's signature, issuer and expiry and
// returns its claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if claims.ID == "" || claims.AccountID == 0 {
		return nil, errors.New("token missing account")
	}
	if _, ok := model.ParseRole(string(claims.Role)); !ok {
		return nil, fmt.Errorf("invalid role %q", claims.Role)
	}
	return claims, nil
}
