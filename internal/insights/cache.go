package insights

import (
	"context"
	"sync"
	"time"

	"github.com/referiq/backend/internal/models"
)

type cacheEntry struct {
	insights models.AIInsights
	expires  time.Time
}

// CachingProvider wraps another Provider with a TTL-based in-memory cache so
// repeated renders of the same referral do not re-resolve scores.
type CachingProvider struct {
	base Provider
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingProvider returns a Provider that caches lookups for the provided TTL.
func NewCachingProvider(base Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProvider{
		base:  base,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// For returns cached insights when available, otherwise it delegates to the
// underlying provider and stores the result.
func (c *CachingProvider) For(ctx context.Context, referralID string) (models.AIInsights, error) {
	if c == nil || c.base == nil {
		return models.AIInsights{}, ErrProviderUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[referralID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.insights, nil
	}

	resolved, err := c.base.For(ctx, referralID)
	if err != nil {
		return models.AIInsights{}, err
	}

	c.mu.Lock()
	c.items[referralID] = cacheEntry{insights: resolved, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return resolved, nil
}
