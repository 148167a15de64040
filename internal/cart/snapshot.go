package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/petbazaar/petbazaar-backend/pkg/redis"
)

// ErrNoSnapshot signals that no cart snapshot exists for the owner.
var ErrNoSnapshot = errors.New("cart: no snapshot")

// Snapshotter is the durable key-value contract the cart writes through to.
// It survives restarts within the same deployment; it is not shared across
// environments.
type Snapshotter interface {
	Load(ctx context.Context, ownerID uuid.UUID) ([]byte, error)
	Save(ctx context.Context, ownerID uuid.UUID, payload []byte) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

// RedisSnapshots persists cart snapshots under the pb:cart:* namespace.
type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshots builds the production snapshotter. A zero TTL keeps
// snapshots until explicitly cleared.
func NewRedisSnapshots(client *redis.Client, ttl time.Duration) (*RedisSnapshots, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSnapshots{client: client, ttl: ttl}, nil
}

func (r *RedisSnapshots) Load(ctx context.Context, ownerID uuid.UUID) ([]byte, error) {
	value, err := r.client.Get(ctx, r.client.CartSnapshotKey(ownerID.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *RedisSnapshots) Save(ctx context.Context, ownerID uuid.UUID, payload []byte) error {
	return r.client.Set(ctx, r.client.CartSnapshotKey(ownerID.String()), payload, r.ttl)
}

func (r *RedisSnapshots) Delete(ctx context.Context, ownerID uuid.UUID) error {
	return r.client.Del(ctx, r.client.CartSnapshotKey(ownerID.String()))
}
