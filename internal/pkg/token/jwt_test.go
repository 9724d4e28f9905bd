package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sghss/internal/pkg/cache"
	"sghss/internal/pkg/token"
)

const secret = "segredo-de-teste-com-tamanho-ok"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := token.NewService(secret, time.Hour, 24*time.Hour)

	raw, err := svc.GenerateToken("user-1", "patient")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(raw, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "patient", claims.Role)
	assert.Equal(t, token.TypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "SGHSS-API", claims.Issuer)
}

func TestValidateToken_RejectsWrongType(t *testing.T) {
	svc := token.NewService(secret, time.Hour, 24*time.Hour)

	refresh, err := svc.GenerateRefreshToken("user-1", "patient")
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh, token.TypeAccess)
	assert.ErrorIs(t, err, token.ErrWrongTokenType)

	claims, err := svc.ValidateToken(refresh, token.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, token.TypeRefresh, claims.Type)
}

func TestValidateToken_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	svc := token.NewService(secret, time.Hour, 24*time.Hour).WithClock(func() time.Time { return issued })

	raw, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	svc.WithClock(time.Now)
	_, err = svc.ValidateToken(raw, token.TypeAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	raw, err := token.NewService(secret, time.Hour, time.Hour).GenerateToken("u", "admin")
	require.NoError(t, err)

	_, err = token.NewService("outro-segredo-qualquer-aqui", time.Hour, time.Hour).ValidateToken(raw, token.TypeAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := token.NewService(secret, time.Hour, time.Hour)
	_, err := svc.ValidateToken("nao.e.jwt", token.TypeAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCustomClaims_Remaining(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	svc := token.NewService(secret, time.Hour, time.Hour).WithClock(func() time.Time { return now })

	raw, err := svc.GenerateToken("u", "admin")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(raw, token.TypeAccess)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, claims.Remaining(now.Add(30*time.Minute)))
}

func TestRevocationStore(t *testing.T) {
	ctx := context.Background()
	store := token.NewRevocationStore(cache.NewMemoryClient())

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-2", 0))
	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "token expirado não é registrado")
}
