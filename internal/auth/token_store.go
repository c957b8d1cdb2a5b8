package auth

import (
	"context"
	"fmt"
	"time"

	"clarity/internal/cache"
)

func refreshTokenKey(tokenID string) string {
	return cache.Key("refresh_token", tokenID)
}

// TokenStoreInterface defines the interface for refresh token storage.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// TokenStore handles storage and retrieval of refresh tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID, email string, ttl time.Duration) error {
	return s.cache.Set(ctx, refreshTokenKey(tokenID), []byte(email), ttl)
}

// GetRefreshToken retrieves the identity bound to a refresh token.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	data, err := s.cache.Get(ctx, refreshTokenKey(tokenID))
	if err != nil || data == nil {
		return "", fmt.Errorf("refresh token not found")
	}
	return string(data), nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKey(tokenID))
}
