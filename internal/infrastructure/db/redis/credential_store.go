package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// CredentialStore keeps one role's credential in Redis.
// Key format: session:<role key>  (e.g. session:aToken)
type CredentialStore struct {
	client redis.Cmdable
	key    string
}

// NewCredentialStore wraps client for the given role-scoped key.
func NewCredentialStore(client redis.Cmdable, roleKey string) *CredentialStore {
	return &CredentialStore{client: client, key: credentialKey(roleKey)}
}

// Get returns the empty credential when the key does not exist.
func (s *CredentialStore) Get(ctx context.Context) (domain.Credential, error) {
	v, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get credential: %w", err)
	}
	return domain.Credential(v), nil
}

// Set stores cred without expiry; the server decides when it stops being valid.
func (s *CredentialStore) Set(ctx context.Context, cred domain.Credential) error {
	if !cred.Present() {
		return s.Clear(ctx)
	}
	if err := s.client.Set(ctx, s.key, string(cred), 0).Err(); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func credentialKey(roleKey string) string {
	return "session:" + roleKey
}
