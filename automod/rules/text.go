package rules

import (
	"strings"

	"github.com/chatwarden/warden/automod/engine"
)

var _ engine.MessageRuleFunc = BannedWordRule

// BannedWordRule matches configured words as substrings of the slugified
// message text, so "с п а м" and "с-п-а-м" collapse onto the same match.
func BannedWordRule(c *engine.MessageContext) error {
	if c.SlugText == "" {
		return nil
	}
	for _, v := range c.Rules.Words {
		if strings.Contains(c.SlugText, v.Match) {
			c.Ban(engine.ReasonBannedWord, v.Raw)
			return nil
		}
	}
	return nil
}

var _ engine.MessageRuleFunc = PhraseRule

// PhraseRule matches canonicalized banned phrases as substrings of the
// canonical message text, so inflected forms of the same phrase still match.
func PhraseRule(c *engine.MessageContext) error {
	if c.CanonicalText == "" {
		return nil
	}
	for _, v := range c.Rules.Phrases {
		if strings.Contains(c.CanonicalText, v.Match) {
			c.Ban(engine.ReasonPhrase, v.Raw)
			return nil
		}
	}
	return nil
}

var _ engine.MessageRuleFunc = WordCombinationRule

// WordCombinationRule bans when every canonicalized word of some combination
// occurs in the canonical message text, in any order and position.
func WordCombinationRule(c *engine.MessageContext) error {
	if c.CanonicalText == "" {
		return nil
	}
	for _, combo := range c.Rules.Combinations {
		all := true
		for _, w := range combo.Match {
			if !strings.Contains(c.CanonicalText, w) {
				all = false
				break
			}
		}
		if all {
			c.Ban(engine.ReasonWordCombination, strings.Join(combo.Raw, "+"))
			return nil
		}
	}
	return nil
}
