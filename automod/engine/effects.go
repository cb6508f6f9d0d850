package engine

// Action is the final disposition for one event.
type Action string

const (
	ActionAllow Action = "allow"
	// delete nothing, notify admins
	ActionWarn Action = "warn"
	// delete the message and permanently ban the author
	ActionBan Action = "ban"
)

// Rule category identifiers carried in verdict reasons. Stable strings; they
// end up in logs, metrics, and admin notifications.
const (
	ReasonAvatarNSFW        = "avatar-nsfw"
	ReasonBanMarker         = "ban-marker"
	ReasonNameSubstring     = "name-substring"
	ReasonFullName          = "banned-full-name"
	ReasonUsernameSubstring = "username-substring"
	ReasonBannedSymbol      = "banned-symbol"
	ReasonBannedWord        = "banned-word"
	ReasonPhrase            = "phrase-match"
	ReasonWordCombination   = "word-combination"
	ReasonAvatarSuspect     = "avatar-suspect"
)

// Reason names the rule category which fired and the matched rule value (the
// raw configured form, for auditability).
type Reason struct {
	Category string
	Value    string
}

// Mutable container for the outcome of rule execution on one event. Rules
// only ever escalate: allow -> warn -> ban, never back down.
type Effects struct {
	Action  Action
	Reasons []Reason
}

func (e *Effects) Ban(category, value string) {
	e.Action = ActionBan
	e.Reasons = append(e.Reasons, Reason{Category: category, Value: value})
}

func (e *Effects) Warn(category, value string) {
	if e.Action == ActionAllow {
		e.Action = ActionWarn
	}
	e.Reasons = append(e.Reasons, Reason{Category: category, Value: value})
}

// Verdict is the finished decision, consumed immediately by the action
// executor and notifiers.
type Verdict struct {
	Action     Action
	Reasons    []Reason
	NotifyText string
}
