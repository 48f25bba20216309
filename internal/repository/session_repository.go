package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

const sessionKeyPrefix = "atp:session:"

// SessionStoreConfig bounds a session's history.
type SessionStoreConfig struct {
	TTL        time.Duration
	MaxEntries int
}

func (c SessionStoreConfig) normalised() SessionStoreConfig {
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 50
	}
	return c
}

// SessionRepository keeps each session's activity history as a capped Redis
// list, newest first. The key expires TTL after the last write.
type SessionRepository struct {
	client *redis.Client
	cfg    SessionStoreConfig
	logger *zap.Logger
}

// NewSessionRepository constructs a Redis-backed history store.
func NewSessionRepository(client *redis.Client, cfg SessionStoreConfig, logger *zap.Logger) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepository{client: client, cfg: cfg.normalised(), logger: logger}
}

func historyKey(sessionID string) string {
	return sessionKeyPrefix + sessionID + ":history"
}

// Append pushes entry to the front of the session history.
func (r *SessionRepository) Append(ctx context.Context, sessionID string, entry models.ActivityLog) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry %s: %w", entry.ID, err)
	}
	key := historyKey(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(r.cfg.MaxEntries-1))
		pipe.Expire(ctx, key, r.cfg.TTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append %s: %w", key, err)
	}
	return nil
}

// List returns the session history, newest first.
func (r *SessionRepository) List(ctx context.Context, sessionID string) ([]models.ActivityLog, error) {
	key := historyKey(sessionID)
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []models.ActivityLog{}, nil
		}
		return nil, fmt.Errorf("redis lrange %s: %w", key, err)
	}
	entries := make([]models.ActivityLog, 0, len(raw))
	for _, item := range raw {
		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			r.logger.Warn("skip corrupt history entry", zap.String("key", key), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Get returns one history entry.
func (r *SessionRepository) Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error) {
	entries, err := r.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return findEntry(entries, id)
}

// Close releases the underlying Redis connection if present.
func (r *SessionRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func findEntry(entries []models.ActivityLog, id string) (*models.ActivityLog, error) {
	for i := range entries {
		if entries[i].ID == id {
			entry := entries[i]
			return &entry, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "history entry not found")
}

type memorySession struct {
	entries []models.ActivityLog
	touched time.Time
}

// MemorySessionRepository is the in-process history store used when Redis is
// disabled. Sessions expire TTL after their last write.
type MemorySessionRepository struct {
	cfg   SessionStoreConfig
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]*memorySession
}

// NewMemorySessionRepository constructs the in-memory store.
func NewMemorySessionRepository(cfg SessionStoreConfig) *MemorySessionRepository {
	return &MemorySessionRepository{
		cfg:   cfg.normalised(),
		now:   time.Now,
		items: make(map[string]*memorySession),
	}
}

// Append pushes entry to the front of the session history.
func (r *MemorySessionRepository) Append(_ context.Context, sessionID string, entry models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.items[sessionID]
	if !ok || r.expired(sess) {
		sess = &memorySession{}
		r.items[sessionID] = sess
	}
	sess.entries = append([]models.ActivityLog{entry}, sess.entries...)
	if len(sess.entries) > r.cfg.MaxEntries {
		sess.entries = sess.entries[:r.cfg.MaxEntries]
	}
	sess.touched = r.now()
	return nil
}

// List returns the session history, newest first.
func (r *MemorySessionRepository) List(_ context.Context, sessionID string) ([]models.ActivityLog, error) {
	r.mu.RLock()
	sess, ok := r.items[sessionID]
	if !ok {
		r.mu.RUnlock()
		return []models.ActivityLog{}, nil
	}
	if r.expired(sess) {
		r.mu.RUnlock()
		r.dropIfExpired(sessionID)
		return []models.ActivityLog{}, nil
	}
	out := append([]models.ActivityLog(nil), sess.entries...)
	r.mu.RUnlock()
	return out, nil
}

// Get returns one history entry.
func (r *MemorySessionRepository) Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error) {
	entries, err := r.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return findEntry(entries, id)
}

// Sweep drops expired sessions and returns how many were removed.
func (r *MemorySessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, sess := range r.items {
		if r.expired(sess) {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

func (r *MemorySessionRepository) expired(sess *memorySession) bool {
	return r.now().Sub(sess.touched) > r.cfg.TTL
}

// dropIfExpired re-checks under the write lock so a session refreshed by a
// concurrent Append survives.
func (r *MemorySessionRepository) dropIfExpired(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.items[sessionID]; ok && r.expired(sess) {
		delete(r.items, sessionID)
	}
}
