package rules

import (
	"github.com/chatwarden/warden/automod/engine"
)

// DefaultRules returns the rules in their fixed evaluation order: avatar hard
// signal first, then identity checks, then message text, then the avatar soft
// signal as a fallback. The order is a severity and cost policy; changing it
// changes which reason a multi-signal event reports.
func DefaultRules() engine.RuleSet {
	return engine.RuleSet{
		MessageRules: []engine.MessageRuleFunc{
			AvatarHardRule,
			BanMarkerRule,
			NameSubstringRule,
			FullNameRule,
			UsernameSubstringRule,
			BannedSymbolRule,
			BannedWordRule,
			PhraseRule,
			WordCombinationRule,
			AvatarSoftRule,
		},
	}
}
