package avatar

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/chatwarden/warden/automod/cachestore"
)

const cacheName = "avatar-risk"

// CachedScorer memoizes risk entries per user id. Entries are good for TTL
// (default 24h); after that the underlying scorer runs again and overwrites
// the entry in place. Concurrent lookups for the same user may race and both
// compute; last write wins, which is harmless since the score is
// deterministic for the same photo.
type CachedScorer struct {
	Logger *slog.Logger
	Cache  cachestore.CacheStore
	Inner  UserScorer
	TTL    time.Duration

	// test hook
	now func() time.Time
}

var _ UserScorer = (*CachedScorer)(nil)

func NewCachedScorer(logger *slog.Logger, cache cachestore.CacheStore, inner UserScorer, ttl time.Duration) *CachedScorer {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &CachedScorer{
		Logger: logger,
		Cache:  cache,
		Inner:  inner,
		TTL:    ttl,
		now:    time.Now,
	}
}

func (s *CachedScorer) Score(ctx context.Context, userID int64) RiskEntry {
	key := strconv.FormatInt(userID, 10)

	raw, ok, err := s.Cache.Get(ctx, cacheName, key)
	if err != nil {
		// cache trouble is a missing signal, not a verdict changer
		s.Logger.Warn("avatar cache read failed", "userID", userID, "err", err)
	}
	if ok && err == nil {
		var entry RiskEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			s.Logger.Warn("corrupt avatar cache entry, recomputing", "userID", userID, "err", err)
		} else if s.now().Sub(entry.ComputedAt) < s.TTL {
			avatarCacheHits.Inc()
			return entry
		}
	}
	avatarCacheMisses.Inc()

	entry := s.Inner.Score(ctx, userID)
	entry.ComputedAt = s.now()
	if entry.Degraded {
		// a fail-open result is transient; retry on the next event rather
		// than pinning TierOK for the whole TTL
		return entry
	}
	if raw, err := json.Marshal(entry); err == nil {
		if err := s.Cache.Set(ctx, cacheName, key, string(raw)); err != nil {
			s.Logger.Warn("avatar cache write failed", "userID", userID, "err", err)
		}
	}
	return entry
}
