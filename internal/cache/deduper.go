package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyState is what the Deduper knows about an idempotency key.
type KeyState int

const (
	// KeyNew means the caller now owns the key and must Finish or Remove it.
	KeyNew KeyState = iota
	// KeyPending means another request holding the key is still applying.
	KeyPending
	// KeyDone means the mutation behind the key has been applied.
	KeyDone
)

const (
	statePending = "pending"
	stateDone    = "done"
)

// Deduper records idempotency keys so a retried mutation is acknowledged
// without being applied twice.
type Deduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeduper(client *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{client: client, ttl: ttl}
}

func (d *Deduper) key(accountID, key string) string {
	return fmt.Sprintf("idem:%s:%s", accountID, key)
}

// Begin claims the key. Without Redis every key is new.
func (d *Deduper) Begin(ctx context.Context, accountID, key string) (KeyState, error) {
	if d.client == nil {
		return KeyNew, nil
	}
	k := d.key(accountID, key)
	claimed, err := d.client.SetNX(ctx, k, statePending, d.ttl).Result()
	if err != nil {
		return KeyNew, err
	}
	if claimed {
		return KeyNew, nil
	}
	state, err := d.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Released between the two calls; try once more.
		claimed, err = d.client.SetNX(ctx, k, statePending, d.ttl).Result()
		if err != nil || claimed {
			return KeyNew, err
		}
		return KeyPending, nil
	case err != nil:
		return KeyNew, err
	case state == stateDone:
		return KeyDone, nil
	}
	return KeyPending, nil
}

// Finish marks the key as applied.
func (d *Deduper) Finish(ctx context.Context, accountID, key string) error {
	if d.client == nil {
		return nil
	}
	return d.client.Set(ctx, d.key(accountID, key), stateDone, d.ttl).Err()
}

// Remove forgets a key after the mutation failed so the client may retry.
func (d *Deduper) Remove(ctx context.Context, accountID, key string) error {
	if d.client == nil {
		return nil
	}
	return d.client.Del(ctx, d.key(accountID, key)).Err()
}
