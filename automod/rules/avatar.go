package rules

import (
	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/engine"
)

var _ engine.MessageRuleFunc = AvatarHardRule

// AvatarHardRule bans accounts whose profile photo crossed the hard risk
// threshold, regardless of anything in the message.
func AvatarHardRule(c *engine.MessageContext) error {
	if c.Account.AvatarTier == avatar.TierHard {
		c.Ban(engine.ReasonAvatarNSFW, "profile photo")
	}
	return nil
}

var _ engine.MessageRuleFunc = AvatarSoftRule

// AvatarSoftRule flags accounts whose photo crossed only the soft threshold.
// Runs last: it fires only when no text or identity rule banned first, and it
// never deletes the message.
func AvatarSoftRule(c *engine.MessageContext) error {
	if c.Account.AvatarTier == avatar.TierSoft {
		c.Warn(engine.ReasonAvatarSuspect, "profile photo")
	}
	return nil
}
