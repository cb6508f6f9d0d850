package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/keyword"
	"github.com/chatwarden/warden/automod/rulestore"
)

// Display-name symbol which bans on sight, checked raw before any
// normalization. Overridable per deployment via Engine.BanMarker.
const DefaultBanMarker = "🔞"

// ActionExecutor performs verdict side effects through the chat transport.
// Each operation is independently fallible; there is no transaction spanning
// delete and ban.
type ActionExecutor interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	BanUser(ctx context.Context, chatID int64, userID int64) error
}

// Notifier surfaces a verdict to an admin channel. Every ban and warn goes to
// all notifiers; none is silently dropped.
type Notifier interface {
	SendVerdict(ctx context.Context, evt *MessageEvent, verdict Verdict) error
}

// Runtime for evaluating inbound chat events against the rule lists and
// avatar risk signal, and executing the resulting verdicts.
//
// Fields should not be nil; see EngineTestFixture for a minimal wiring.
type Engine struct {
	Logger     *slog.Logger
	Rules      RuleSet
	Store      rulestore.Store
	Compiler   *rulestore.Compiler
	Lemmatizer keyword.Lemmatizer
	Avatar     avatar.UserScorer
	Executor   ActionExecutor
	Notifiers  []Notifier

	// overrides DefaultBanMarker when set
	BanMarker string
	// timezone for admin notification timestamps; nil means UTC
	ReportLocation *time.Location
}

// ProcessMessage runs one inbound event through signal resolution, the
// ordered rules, and verdict execution. Infrastructure failures along the way
// degrade individual signals (fail-open) but never abort the decision.
func (eng *Engine) ProcessMessage(ctx context.Context, evt *MessageEvent) error {
	// similar to an HTTP server, recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("event processing exception", "err", r, "userID", evt.Identity.ID, "chatID", evt.ChatID)
		}
	}()
	start := time.Now()

	rules := eng.loadRules(ctx)
	entry := eng.Avatar.Score(ctx, evt.Identity.ID)

	c := eng.NewMessageContext(ctx, evt, rules, entry)
	eng.Rules.CallMessageRules(c)
	verdict := eng.verdict(c)

	eventProcessCount.WithLabelValues(string(verdict.Action)).Inc()
	for _, r := range verdict.Reasons {
		ruleHitCount.WithLabelValues(r.Category).Inc()
	}
	eventProcessDuration.Observe(time.Since(start).Seconds())
	c.Logger.Info("message evaluated", "action", verdict.Action, "reasons", verdict.Reasons, "rulesRev", rules.Revision)

	return eng.applyVerdict(c, verdict)
}

// loadRules snapshots the rule store. A read failure degrades to an empty
// rule set so text evaluation is skipped for this event rather than the whole
// decision aborting.
func (eng *Engine) loadRules(ctx context.Context) *rulestore.Compiled {
	rs, err := eng.Store.GetRules(ctx)
	if err != nil {
		eng.Logger.Warn("rule store read failed, evaluating with empty rule set", "err", err)
		ruleStoreErrorCount.Inc()
		rs = &rulestore.RuleSet{}
	}
	return eng.Compiler.Compile(rs)
}

// NewMessageContext resolves every comparison form of the event up front so
// rule execution is pure.
func (eng *Engine) NewMessageContext(ctx context.Context, evt *MessageEvent, rules *rulestore.Compiled, entry avatar.RiskEntry) *MessageContext {
	name := displayName(evt.Identity)
	normName := keyword.Normalize(name)
	normText := keyword.Normalize(evt.Text)

	marker := eng.BanMarker
	if marker == "" {
		marker = DefaultBanMarker
	}
	// the display name has its invisibles stripped; the marker needs the same
	// treatment to match an emoji pasted with a variation selector
	marker = keyword.StripInvisible(marker)

	c := &MessageContext{
		Ctx:    ctx,
		Logger: eng.Logger.With("userID", evt.Identity.ID, "chatID", evt.ChatID, "messageID", evt.MessageID),
		Account: AccountMeta{
			Identity:       evt.Identity,
			DisplayName:    name,
			NormalizedName: normName,
			CanonicalName:  eng.Lemmatizer.Lemmatize(normName),
			AvatarTier:     entry.Tier,
			AvatarScore:    entry.Score,
		},
		Event:          *evt,
		NormalizedText: normText,
		CanonicalText:  eng.Lemmatizer.Lemmatize(normText),
		SlugText:       keyword.Slugify(normText),
		Marker:         marker,
		Rules:          rules,
		effects:        &Effects{Action: ActionAllow},
	}
	if evt.Identity.Username != "" {
		c.Account.NormalizedUsername = keyword.Normalize(evt.Identity.Username)
	}
	return c
}
