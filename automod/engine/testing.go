package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/keyword"
	"github.com/chatwarden/warden/automod/rulestore"
)

// FixedScorer resolves every user to the same precomputed tier. For tests.
type FixedScorer struct {
	Tier  avatar.Tier
	Value float64
}

func (s FixedScorer) Score(ctx context.Context, userID int64) avatar.RiskEntry {
	return avatar.RiskEntry{
		UserID:     userID,
		Score:      s.Value,
		Tier:       s.Tier,
		ComputedAt: time.Now(),
	}
}

// CapturingExecutor records side effects instead of performing them.
type CapturingExecutor struct {
	Deleted []int
	Banned  []int64
}

func (e *CapturingExecutor) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	e.Deleted = append(e.Deleted, messageID)
	return nil
}

func (e *CapturingExecutor) BanUser(ctx context.Context, chatID int64, userID int64) error {
	e.Banned = append(e.Banned, userID)
	return nil
}

// CapturingNotifier records verdict notifications instead of sending them.
type CapturingNotifier struct {
	Sent []Verdict
}

func (n *CapturingNotifier) SendVerdict(ctx context.Context, evt *MessageEvent, verdict Verdict) error {
	n.Sent = append(n.Sent, verdict)
	return nil
}

// EngineTestFixture wires an engine against in-memory everything: a static
// rule store, a fixed OK avatar tier, and capturing side effects.
// Intentionally exported for use in other packages' tests.
func EngineTestFixture(rules RuleSet, ruleSet rulestore.RuleSet) *Engine {
	lem := keyword.NewSnowballLemmatizer()
	return &Engine{
		Logger:     slog.Default(),
		Rules:      rules,
		Store:      &rulestore.StaticStore{Rules: ruleSet},
		Compiler:   rulestore.NewCompiler(lem),
		Lemmatizer: lem,
		Avatar:     FixedScorer{Tier: avatar.TierOK},
		Executor:   &CapturingExecutor{},
	}
}
