package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/framevault-backend/internal/domain"
)

const uploadTrackerTTL = 24 * time.Hour

// UploadTracker keeps each user's recent uploads so a reloaded admin page can
// show what is still in flight.
type UploadTracker interface {
	Put(ctx context.Context, u *types.Upload) error
	List(ctx context.Context, userID string) ([]*types.Upload, error)
}

type memoryUploadTracker struct {
	mu     sync.Mutex
	byUser map[string]map[string]*types.Upload
}

func NewMemoryUploadTracker() UploadTracker {
	return &memoryUploadTracker{byUser: map[string]map[string]*types.Upload{}}
}

func (t *memoryUploadTracker) Put(_ context.Context, u *types.Upload) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.byUser[u.UserID]
	if m == nil {
		m = map[string]*types.Upload{}
		t.byUser[u.UserID] = m
	}
	cp := *u
	m[u.ID] = &cp
	return nil
}

func (t *memoryUploadTracker) List(_ context.Context, userID string) ([]*types.Upload, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*types.Upload, 0, len(t.byUser[userID]))
	for _, u := range t.byUser[userID] {
		cp := *u
		out = append(out, &cp)
	}
	sortUploads(out)
	return out, nil
}

type redisUploadTracker struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisUploadTracker stores uploads in one hash per user, expiring a day after the last write.
func NewRedisUploadTracker(rdb *goredis.Client) UploadTracker {
	return &redisUploadTracker{rdb: rdb, prefix: "framevault:uploads:"}
}

func (t *redisUploadTracker) Put(ctx context.Context, u *types.Upload) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	key := t.prefix + u.UserID
	pipe := t.rdb.TxPipeline()
	pipe.HSet(ctx, key, u.ID, raw)
	pipe.Expire(ctx, key, uploadTrackerTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track upload: %w", err)
	}
	return nil
}

func (t *redisUploadTracker) List(ctx context.Context, userID string) ([]*types.Upload, error) {
	vals, err := t.rdb.HGetAll(ctx, t.prefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	out := make([]*types.Upload, 0, len(vals))
	for _, raw := range vals {
		var u types.Upload
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			continue
		}
		out = append(out, &u)
	}
	sortUploads(out)
	return out, nil
}

func sortUploads(us []*types.Upload) {
	sort.Slice(us, func(i, j int) bool { return us[i].StartedAt.After(us[j].StartedAt) })
}
