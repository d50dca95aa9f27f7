package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cleanops/internal/constants"
	"cleanops/internal/database"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// LockService serializes batch operations that must not overlap, such as two
// assignment passes for the same date. With valkey configured the lock is
// shared across instances; otherwise it only guards this process.
type LockService struct {
	cache database.CacheClient
	ttl   time.Duration
	local sync.Map
	log   logger.Logger
}

func NewLockService(cache database.CacheClient, ttl time.Duration) *LockService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &LockService{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("lockService"),
	}
}

// WithLock runs fn while holding key. A held lock fails fast with a conflict
// rather than queueing.
func (s *LockService) WithLock(ctx context.Context, key string, fn func() error) error {
	log := s.log.TraceFromContext(ctx).Function("WithLock")

	if s.cache == nil {
		value, _ := s.local.LoadOrStore(key, &sync.Mutex{})
		mu := value.(*sync.Mutex)
		if !mu.TryLock() {
			return fmt.Errorf("%w: %s is already in progress", types.ErrConflict, key)
		}
		defer mu.Unlock()
		return fn()
	}

	token := uuid.NewString()
	builder := database.NewCacheBuilder(s.cache, key).
		WithContext(ctx).
		WithHash(constants.LockCachePrefix).
		WithValue(token).
		WithTTL(s.ttl)

	acquired, err := builder.SetIfAbsent()
	if err != nil {
		return log.Err("failed to acquire lock", err, "key", key)
	}
	if !acquired {
		return fmt.Errorf("%w: %s is already in progress", types.ErrConflict, key)
	}

	defer func() {
		release := database.NewCacheBuilder(s.cache, key).
			WithHash(constants.LockCachePrefix).
			WithValue(token)
		if err := release.DeleteIfValue(); err != nil {
			log.Warn("failed to release lock", "key", key, "error", err)
		}
	}()

	return fn()
}
