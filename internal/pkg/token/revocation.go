package token

import (
	"context"
	"time"

	"sghss/internal/pkg/cache"
)

const revokedPrefix = "token:revoked:"

// RevocationStore mantém a lista de JTIs revogados (logout) no cache até que expirem.
type RevocationStore struct {
	client cache.Client
}

func NewRevocationStore(client cache.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marca o jti como revogado pelo tempo restante de vida do token.
// Tokens já expirados não precisam de registro.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedPrefix+jti, 1, ttl)
}

// IsRevoked informa se o jti consta na lista de revogação.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.client.Exists(ctx, revokedPrefix+jti)
}
