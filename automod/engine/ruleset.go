package engine

type MessageRuleFunc = func(c *MessageContext) error

// RuleSet holds the ordered rule functions for message events. The order is a
// deliberate policy: cheapest and highest-confidence checks run first, and
// the first ban wins.
type RuleSet struct {
	MessageRules []MessageRuleFunc
}

// CallMessageRules dispatches the event to each rule in order, stopping at
// the first recorded ban. A failing rule is a missing signal, not a verdict:
// evaluation continues, and an already-recorded ban is never bypassed.
func (r *RuleSet) CallMessageRules(c *MessageContext) {
	for _, f := range r.MessageRules {
		if err := f(c); err != nil {
			c.Logger.Error("rule execution failed", "err", err)
			continue
		}
		if c.effects.Action == ActionBan {
			return
		}
	}
}
