package rules

import (
	"strings"

	"github.com/chatwarden/warden/automod/engine"
)

var _ engine.MessageRuleFunc = BanMarkerRule

// BanMarkerRule checks the display name for the fixed immediate-ban marker
// symbol. Checked raw, before normalization, so the marker can be an emoji
// the confusable folding would otherwise touch.
func BanMarkerRule(c *engine.MessageContext) error {
	if c.Marker != "" && strings.Contains(c.Account.DisplayName, c.Marker) {
		c.Ban(engine.ReasonBanMarker, c.Marker)
	}
	return nil
}

var _ engine.MessageRuleFunc = NameSubstringRule

// NameSubstringRule matches configured substrings against the normalized
// display name.
func NameSubstringRule(c *engine.MessageContext) error {
	for _, v := range c.Rules.NameSubstrings {
		if strings.Contains(c.Account.NormalizedName, v.Match) {
			c.Ban(engine.ReasonNameSubstring, v.Raw)
			return nil
		}
	}
	return nil
}

var _ engine.MessageRuleFunc = FullNameRule

// FullNameRule bans when the canonicalized display name exactly equals a
// canonicalized banned full name.
func FullNameRule(c *engine.MessageContext) error {
	for _, v := range c.Rules.FullNames {
		if c.Account.CanonicalName == v.Match {
			c.Ban(engine.ReasonFullName, v.Raw)
			return nil
		}
	}
	return nil
}

var _ engine.MessageRuleFunc = UsernameSubstringRule

// UsernameSubstringRule matches configured substrings against the normalized
// username. Accounts without a username skip the check.
func UsernameSubstringRule(c *engine.MessageContext) error {
	if c.Account.NormalizedUsername == "" {
		return nil
	}
	for _, v := range c.Rules.UsernameSubstrings {
		if strings.Contains(c.Account.NormalizedUsername, v.Match) {
			c.Ban(engine.ReasonUsernameSubstring, v.Raw)
			return nil
		}
	}
	return nil
}

var _ engine.MessageRuleFunc = BannedSymbolRule

// BannedSymbolRule matches configured symbols raw and case-sensitive against
// the display name. Spam rings mark accounts with decorative emoji the
// normalizer must not touch.
func BannedSymbolRule(c *engine.MessageContext) error {
	for _, v := range c.Rules.Symbols {
		if strings.Contains(c.Account.DisplayName, v.Match) {
			c.Ban(engine.ReasonBannedSymbol, v.Raw)
			return nil
		}
	}
	return nil
}
