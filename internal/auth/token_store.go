package auth

import (
	"context"
	"fmt"
	"time"

	"flanes/internal/kvstore"
)

const revokedTokenKeyPrefix = "revoked:session:"

// TokenStoreInterface defines the interface for session revocation.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked session token IDs until the tokens expire.
type TokenStore struct {
	store kvstore.Store
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(store kvstore.Store) *TokenStore {
	return &TokenStore{store: store}
}

// Revoke marks a token ID as logged out for ttl. A non-positive ttl means
// the token has already expired and nothing is stored.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.store.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks if a token ID was logged out. A store failure is
// returned as an error so callers can refuse the token.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.store.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return data != nil, nil
}
