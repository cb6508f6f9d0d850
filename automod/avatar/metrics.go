package avatar

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var avatarCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_avatar_cache_hits",
	Help: "Number of avatar risk lookups served from cache",
})

var avatarCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_avatar_cache_misses",
	Help: "Number of avatar risk lookups which required scoring",
})

var avatarFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_avatar_fetch_errors",
	Help: "Number of failed profile photo fetches (resolved fail-open)",
})

var avatarScoreErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_avatar_score_errors",
	Help: "Number of failed avatar classifications (resolved fail-open)",
})

var avatarScoredCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_avatar_scored",
	Help: "Number of avatars scored, by resulting tier",
}, []string{"tier"})
