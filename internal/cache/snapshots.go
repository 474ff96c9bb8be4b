// Package cache keeps authoritative board snapshots and processed
// idempotency keys in Redis. Every type degrades to a pass-through when
// constructed with a nil client.
package cache

import (
	"context"
	"errors"
	"time"

	"trellix/internal/board"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// generationTTL outlives any load; a board idle longer than this starts
// again from generation zero.
const generationTTL = 24 * time.Hour

// storeIfCurrent writes the snapshot only if the board was not evicted
// since the load that produced it began.
var storeIfCurrent = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// Loader reads a snapshot from the database.
type Loader func(ctx context.Context) (board.Snapshot, error)

// Snapshots is a read-through cache of board snapshots keyed by account
// and board, invalidated by every successful mutation of the board.
type Snapshots struct {
	redis *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewSnapshots(client *redis.Client, ttl time.Duration) *Snapshots {
	if ttl < 0 {
		ttl = 0
	}
	return &Snapshots{redis: client, ttl: ttl}
}

// Get returns the cached snapshot or calls load, collapsing concurrent
// misses for the same board into one load. A load that started before an
// Evict of the board is returned to its callers but never cached.
func (s *Snapshots) Get(ctx context.Context, accountID, boardID string, load Loader) (board.Snapshot, error) {
	key := snapshotKey(accountID, boardID)
	if snap, ok := s.load(ctx, key); ok {
		return snap, nil
	}
	gen := s.generation(ctx, accountID, boardID)

	v, err, _ := s.group.Do(key+"@"+gen, func() (interface{}, error) {
		lctx := context.WithoutCancel(ctx)
		snap, err := load(lctx)
		if err != nil {
			return board.Snapshot{}, err
		}
		s.store(lctx, accountID, boardID, gen, snap)
		return snap, nil
	})
	if err != nil {
		return board.Snapshot{}, err
	}
	return v.(board.Snapshot), nil
}

// Evict drops the cached snapshot of a board and bumps its generation so
// that loads already in progress do not write it back.
func (s *Snapshots) Evict(ctx context.Context, accountID, boardID string) {
	if s.redis == nil {
		return
	}
	genKey := generationKey(accountID, boardID)
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, snapshotKey(accountID, boardID))
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("board", boardID).Warn("snapshot evict failed")
	}
}

func (s *Snapshots) generation(ctx context.Context, accountID, boardID string) string {
	if s.redis == nil {
		return "0"
	}
	gen, err := s.redis.Get(ctx, generationKey(accountID, boardID)).Result()
	if err != nil {
		return "0"
	}
	return gen
}

func (s *Snapshots) load(ctx context.Context, key string) (board.Snapshot, bool) {
	if s.redis == nil {
		return board.Snapshot{}, false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the database without failing.
			_ = s.redis.Del(ctx, key).Err()
		}
		return board.Snapshot{}, false
	}
	var snap board.Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		_ = s.redis.Del(ctx, key).Err()
		return board.Snapshot{}, false
	}
	return snap, true
}

func (s *Snapshots) store(ctx context.Context, accountID, boardID, gen string, snap board.Snapshot) {
	if s.redis == nil || s.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(snap)
	if err != nil {
		return
	}
	keys := []string{snapshotKey(accountID, boardID), generationKey(accountID, boardID)}
	err = storeIfCurrent.Run(ctx, s.redis, keys, gen, data, s.ttl.Milliseconds()).Err()
	if err != nil {
		log.WithError(err).Debug("snapshot store failed")
	}
}

func snapshotKey(accountID, boardID string) string {
	return "snapshot:" + accountID + ":" + boardID
}

func generationKey(accountID, boardID string) string {
	return "snapgen:" + accountID + ":" + boardID
}
