package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/milaap/internal/model"
)

const secret = "test-secret-key"

func sign(t *testing.T, key string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		AccountID: 7,
		Name:      "Officer Jadeja",
		Role:      model.RolePolice,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-7",
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	a := &model.Account{ID: 2, Name: "Asha", Role: model.RoleCitizen}
	tok, err := GenerateToken(secret, a)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	require.Equal(t, int64(2), claims.AccountID)
	require.Equal(t, "Asha", claims.Name)
	require.Equal(t, Issuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, 5*time.Second)

	var actor model.Actor = claims
	require.Equal(t, int64(2), actor.ActorID())
	require.Equal(t, model.RoleCitizen, actor.ActorRole())

	// Each login gets its own token ID so logout revokes only that session.
	again, err := GenerateToken(secret, a)
	require.NoError(t, err)
	other, err := ValidateToken(secret, again)
	require.NoError(t, err)
	require.NotEqual(t, claims.ID, other.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	foreign := validClaims()
	foreign.Issuer = "someone-else"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	unknownRole := validClaims()
	unknownRole.Role = "superuser"

	noAccount := validClaims()
	noAccount.AccountID = 0

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, "other-secret", jwt.SigningMethodHS256, validClaims())},
		{"other algorithm", sign(t, secret, jwt.SigningMethodHS512, validClaims())},
		{"expired", sign(t, secret, jwt.SigningMethodHS256, expired)},
		{"foreign issuer", sign(t, secret, jwt.SigningMethodHS256, foreign)},
		{"no expiry", sign(t, secret, jwt.SigningMethodHS256, noExpiry)},
		{"unknown role", sign(t, secret, jwt.SigningMethodHS256, unknownRole)},
		{"no account", sign(t, secret, jwt.SigningMethodHS256, noAccount)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(secret, tt.token)
			require.Error(t, err)
		})
	}

	_, err := ValidateToken(secret, sign(t, secret, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)
	require.True(t, CheckPassword(hash, "secret123"))
	require.False(t, CheckPassword(hash, "wrong"))
}
