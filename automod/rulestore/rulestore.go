package rulestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/spaolacci/murmur3"
)

// RuleSet is one read-only snapshot of the seven rule categories. The engine
// never writes rules; admin tooling mutates the backing store out-of-band.
// Nil or missing categories mean "no rules of that kind", never an error.
type RuleSet struct {
	// Exact (canonicalized) display-name matches.
	FullNames []string
	// Substrings matched against the normalized display name.
	NameSubstrings []string
	// Substrings matched against the normalized username.
	UsernameSubstrings []string
	// Literal symbols (usually emoji) matched raw, case-sensitive, against
	// the display name.
	Symbols []string
	// Words matched as substrings of the slugified message text.
	Words []string
	// Phrases matched as substrings of the canonicalized message text.
	Phrases []string
	// Word groups which ban only when every word occurs in the message.
	Combinations [][]string
}

// Store supplies rule snapshots. Implementations are expected to be cheap to
// call per-event; expensive canonicalization happens once per revision in the
// Compiler, not here.
type Store interface {
	GetRules(ctx context.Context) (*RuleSet, error)
}

// Revision returns a compact content hash of the snapshot, used to key the
// compiled (canonicalized) form so rule values are only re-lemmatized when
// the underlying lists actually change.
func (rs *RuleSet) Revision() string {
	var b strings.Builder
	for _, list := range [][]string{
		rs.FullNames, rs.NameSubstrings, rs.UsernameSubstrings,
		rs.Symbols, rs.Words, rs.Phrases,
	} {
		for _, v := range list {
			b.WriteString(v)
			b.WriteByte(0x1e)
		}
		b.WriteByte(0x1d)
	}
	for _, combo := range rs.Combinations {
		for _, v := range combo {
			b.WriteString(v)
			b.WriteByte(0x1e)
		}
		b.WriteByte(0x1d)
	}
	return fmt.Sprintf("%016x", murmur3.Sum64([]byte(b.String())))
}

// StaticStore returns the same snapshot on every read. Useful for tests and
// for deployments with a fixed rule list baked into config.
type StaticStore struct {
	Rules RuleSet
}

func (s *StaticStore) GetRules(ctx context.Context) (*RuleSet, error) {
	out := s.Rules
	return &out, nil
}
