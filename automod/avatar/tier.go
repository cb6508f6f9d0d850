package avatar

import "time"

// Tier is the discretized risk level for a profile photo.
type Tier string

const (
	// TierOK covers photos below the soft threshold, and every failure mode
	// (no photo, fetch error, classifier error, timeout). Infrastructure
	// trouble must never ban anyone.
	TierOK Tier = "ok"
	// TierSoft photos get the message flagged to admins but not deleted.
	TierSoft Tier = "soft"
	// TierHard photos ban the account outright.
	TierHard Tier = "hard"
)

// Thresholds maps a continuous [0,1] risk score to a tier. Soft must be below
// Hard.
type Thresholds struct {
	Soft float64
	Hard float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Soft: 0.6, Hard: 0.9}
}

func (t Thresholds) TierFor(score float64) Tier {
	switch {
	case score >= t.Hard:
		return TierHard
	case score >= t.Soft:
		return TierSoft
	default:
		return TierOK
	}
}

// RiskEntry is the memoized scoring result for one user.
type RiskEntry struct {
	UserID     int64     `json:"user_id"`
	Score      float64   `json:"score"`
	Tier       Tier      `json:"tier"`
	ComputedAt time.Time `json:"computed_at"`

	// Degraded marks an entry whose TierOK came from a fetch or classifier
	// failure rather than a scored photo. Such entries are never cached, so
	// one network blip does not silence the signal for a whole TTL window.
	Degraded bool `json:"-"`
}
