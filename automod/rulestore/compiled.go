package rulestore

import (
	"log/slog"
	"sync"

	"github.com/chatwarden/warden/automod/keyword"
)

// Value pairs a rule's raw form (kept for audit trails in verdicts) with the
// precomputed form it is actually matched on.
type Value struct {
	Raw   string
	Match string
}

// ComboValue is a word-combination rule: every Match entry must occur in the
// canonical message text for the rule to fire.
type ComboValue struct {
	Raw   []string
	Match []string
}

// Compiled is a RuleSet with every value already normalized (and lemmatized
// where the category compares canonical text), so rule authors never need to
// pre-normalize and per-message evaluation does no repeated canonicalization.
type Compiled struct {
	Revision string

	FullNames          []Value // canonical, exact equality
	NameSubstrings     []Value // normalized substring
	UsernameSubstrings []Value // normalized substring
	Symbols            []Value // case-sensitive substring, invisibles stripped
	Words              []Value // slug substring
	Phrases            []Value // canonical substring
	Combinations       []ComboValue
}

// Compiler canonicalizes snapshots, caching the result keyed by the
// snapshot's content revision. Safe for concurrent use.
type Compiler struct {
	Lemmatizer keyword.Lemmatizer

	mu   sync.Mutex
	last *Compiled
}

func NewCompiler(lem keyword.Lemmatizer) *Compiler {
	return &Compiler{Lemmatizer: lem}
}

func (c *Compiler) Compile(rs *RuleSet) *Compiled {
	rev := rs.Revision()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last != nil && c.last.Revision == rev {
		return c.last
	}
	c.last = c.compile(rs, rev)
	return c.last
}

func (c *Compiler) compile(rs *RuleSet, rev string) *Compiled {
	canonical := func(s string) string {
		return c.Lemmatizer.Lemmatize(keyword.Normalize(s))
	}
	out := &Compiled{Revision: rev}
	out.FullNames = compileValues(rs.FullNames, "full-name", canonical)
	out.NameSubstrings = compileValues(rs.NameSubstrings, "name-substring", keyword.Normalize)
	out.UsernameSubstrings = compileValues(rs.UsernameSubstrings, "username-substring", keyword.Normalize)
	// symbols stay case-sensitive, but emoji copied from chat clients carry
	// variation selectors the display name derivation strips; strip them on
	// this side too or the two can never meet
	out.Symbols = compileValues(rs.Symbols, "symbol", keyword.StripInvisible)
	out.Words = compileValues(rs.Words, "word", func(s string) string {
		return keyword.Slugify(keyword.Normalize(s))
	})
	out.Phrases = compileValues(rs.Phrases, "phrase", canonical)
	for _, combo := range rs.Combinations {
		cv := ComboValue{Raw: combo}
		for _, w := range combo {
			m := canonical(w)
			if m == "" {
				continue
			}
			cv.Match = append(cv.Match, m)
		}
		// an empty combination would match everything
		if len(cv.Match) == 0 {
			slog.Warn("skipping malformed word-combination rule", "raw", combo)
			continue
		}
		out.Combinations = append(out.Combinations, cv)
	}
	return out
}

func compileValues(raw []string, category string, fn func(string) string) []Value {
	var out []Value
	for _, v := range raw {
		m := fn(v)
		if m == "" {
			slog.Warn("skipping empty rule value", "category", category, "raw", v)
			continue
		}
		out = append(out, Value{Raw: v, Match: m})
	}
	return out
}
