package engine

import (
	"context"
	"log/slog"

	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/keyword"
	"github.com/chatwarden/warden/automod/rulestore"
)

// Identity is the transport-supplied author of an event. Immutable for the
// duration of one decision.
type Identity struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// MessageEvent is one inbound message or channel post to moderate.
type MessageEvent struct {
	Identity     Identity
	ChatID       int64
	ChatTitle    string
	ChatUsername string
	MessageID    int
	Text         string
}

// AccountMeta carries the author's resolved signals: the derived display name
// in every comparison form, plus the avatar risk tier. Recomputed per event,
// never persisted.
type AccountMeta struct {
	Identity Identity
	// first name, then " | " and the last name when present; invisible code
	// points already stripped
	DisplayName string
	// Normalize(DisplayName)
	NormalizedName string
	// Lemmatize(Normalize(DisplayName))
	CanonicalName string
	// Normalize(username); empty when the account has no username
	NormalizedUsername string

	AvatarTier  avatar.Tier
	AvatarScore float64
}

// MessageContext is the primary interface exposed to rules. Every signal a
// rule needs is resolved before rule execution starts; rules themselves do no
// I/O.
type MessageContext struct {
	Ctx    context.Context
	Logger *slog.Logger

	Account AccountMeta
	Event   MessageEvent

	// message text variants, precomputed once per event
	NormalizedText string
	CanonicalText  string
	SlugText       string

	// symbol which bans on sight when present raw in the display name
	Marker string

	Rules *rulestore.Compiled

	effects *Effects
}

// Ban records a permanent-ban verdict with the triggering rule category and
// matched value. The first ban short-circuits remaining rules.
func (c *MessageContext) Ban(category, value string) {
	c.effects.Ban(category, value)
}

// Warn records an admin-notify-only verdict. Never overrides a ban.
func (c *MessageContext) Warn(category, value string) {
	c.effects.Warn(category, value)
}

func (c *MessageContext) Action() Action {
	return c.effects.Action
}

func (c *MessageContext) Reasons() []Reason {
	return c.effects.Reasons
}

func displayName(id Identity) string {
	name := keyword.StripInvisible(id.FirstName)
	if id.LastName != "" {
		name += " | " + keyword.StripInvisible(id.LastName)
	}
	return name
}
