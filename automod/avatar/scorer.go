package avatar

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrNoPhoto indicates the user has no profile photo. Not a failure; such
// users simply score zero.
var ErrNoPhoto = errors.New("user has no profile photo")

// PhotoFetcher retrieves the bytes of a user's largest profile photo.
type PhotoFetcher interface {
	FetchProfilePhoto(ctx context.Context, userID int64) ([]byte, error)
}

// Classifier maps image bytes to a risk score in [0,1].
type Classifier interface {
	ScoreImage(ctx context.Context, img []byte) (float64, error)
}

// UserScorer resolves a user's avatar risk. Implementations never fail: any
// error on the way to a score resolves to TierOK.
type UserScorer interface {
	Score(ctx context.Context, userID int64) RiskEntry
}

// Scorer fetches a user's profile photo and classifies it. The only component
// in the decision path that does blocking I/O, so every call is bounded by
// Timeout and fails open.
type Scorer struct {
	Logger     *slog.Logger
	Fetcher    PhotoFetcher
	Classifier Classifier
	Thresholds Thresholds
	Timeout    time.Duration
}

var _ UserScorer = (*Scorer)(nil)

func (s *Scorer) Score(ctx context.Context, userID int64) RiskEntry {
	entry := RiskEntry{UserID: userID, Tier: TierOK, ComputedAt: time.Now()}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	img, err := s.Fetcher.FetchProfilePhoto(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNoPhoto) {
			s.Logger.Warn("avatar fetch failed, treating as ok", "userID", userID, "err", err)
			avatarFetchErrors.Inc()
			entry.Degraded = true
		}
		return entry
	}

	score, err := s.Classifier.ScoreImage(ctx, img)
	if err != nil {
		s.Logger.Warn("avatar classification failed, treating as ok", "userID", userID, "err", err)
		avatarScoreErrors.Inc()
		entry.Degraded = true
		return entry
	}

	entry.Score = score
	entry.Tier = s.Thresholds.TierFor(score)
	avatarScoredCount.WithLabelValues(string(entry.Tier)).Inc()
	return entry
}
