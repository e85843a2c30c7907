package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist records revoked token identifiers. Entries carry a TTL equal
// to the access-token lifetime, so they never outlive the token they block.
type Blocklist struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Blocklist {
	return &Blocklist{client: client, ttl: ttl}
}

func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func (b *Blocklist) Revoke(ctx context.Context, jti string) error {
	if err := b.client.Set(ctx, key(jti), "", b.ttl).Err(); err != nil {
		return fmt.Errorf("blocklist set: %w", err)
	}
	return nil
}

func (b *Blocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("blocklist exists: %w", err)
	}
	return n > 0, nil
}

func key(jti string) string {
	return "blocklist:jti:" + jti
}
