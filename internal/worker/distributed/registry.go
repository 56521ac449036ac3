package distributed

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Registry is the Redis set of ranks currently registered for a given
// run, stored under keyPrefix + ":ranks". Adapted from the heartbeat/active-worker
// registry pattern elsewhere in this codebase: instead of tracking worker
// liveness, it lets a dynamically spawned master (--spawn-master) discover
// which worker ranks are waiting to be merged into its communicator.
type Registry struct {
	client    *redis.Client
	keyPrefix string
}

// NewRegistry constructs a rank registry scoped to keyPrefix.
func NewRegistry(client *redis.Client, keyPrefix string) *Registry {
	return &Registry{client: client, keyPrefix: keyPrefix}
}

func (r *Registry) setKey() string { return r.keyPrefix + ":ranks" }

// Register adds rank to the known-ranks set and sets ttl on the whole
// set. The set expires only when no Register call has refreshed it within
// ttl; a single rank that stops registering is not removed on its own.
func (r *Registry) Register(ctx context.Context, rank string, ttl time.Duration) error {
	if err := r.client.SAdd(ctx, r.setKey(), rank).Err(); err != nil {
		return fmt.Errorf("distributed: register rank: %w", err)
	}
	return r.client.Expire(ctx, r.setKey(), ttl).Err()
}

// Deregister removes rank from the known-ranks set.
func (r *Registry) Deregister(ctx context.Context, rank string) error {
	return r.client.SRem(ctx, r.setKey(), rank).Err()
}

// Ranks returns every currently registered rank.
func (r *Registry) Ranks(ctx context.Context) ([]string, error) {
	ranks, err := r.client.SMembers(ctx, r.setKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("distributed: list ranks: %w", err)
	}
	return ranks, nil
}
