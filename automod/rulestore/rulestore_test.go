package rulestore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwarden/warden/automod/keyword"
)

func TestRevision(t *testing.T) {
	assert := assert.New(t)

	a := &RuleSet{Words: []string{"спам"}, Phrases: []string{"хватит жить на мели"}}
	b := &RuleSet{Words: []string{"спам"}, Phrases: []string{"хватит жить на мели"}}
	c := &RuleSet{Words: []string{"спам", "скам"}, Phrases: []string{"хватит жить на мели"}}

	assert.Equal(a.Revision(), b.Revision())
	assert.NotEqual(a.Revision(), c.Revision())

	// values moving between categories must change the revision
	d := &RuleSet{Words: []string{"спам"}}
	e := &RuleSet{Phrases: []string{"спам"}}
	assert.NotEqual(d.Revision(), e.Revision())
}

func TestCompilerCachesByRevision(t *testing.T) {
	assert := assert.New(t)
	comp := NewCompiler(keyword.NewSnowballLemmatizer())

	rs := &RuleSet{Words: []string{"СПАМ"}}
	first := comp.Compile(rs)
	second := comp.Compile(&RuleSet{Words: []string{"СПАМ"}})
	assert.Same(first, second)

	third := comp.Compile(&RuleSet{Words: []string{"СПАМ", "скам"}})
	assert.NotSame(first, third)
}

func TestCompileNormalizesValues(t *testing.T) {
	assert := assert.New(t)
	comp := NewCompiler(keyword.NewSnowballLemmatizer())

	rs := &RuleSet{
		Words:          []string{"С П А М"},
		NameSubstrings: []string{"АГЕНТ"},
		Symbols:        []string{"💋"},
	}
	compiled := comp.Compile(rs)

	require.Len(t, compiled.Words, 1)
	assert.Equal("спам", compiled.Words[0].Match)
	assert.Equal("С П А М", compiled.Words[0].Raw)

	require.Len(t, compiled.NameSubstrings, 1)
	assert.Equal("агент", compiled.NameSubstrings[0].Match)

	// symbols stay case-sensitive and un-folded
	require.Len(t, compiled.Symbols, 1)
	assert.Equal("💋", compiled.Symbols[0].Match)
}

func TestCompileStripsInvisiblesFromSymbols(t *testing.T) {
	assert := assert.New(t)
	comp := NewCompiler(keyword.NewSnowballLemmatizer())

	// emoji pasted from a chat client usually carries a trailing variation
	// selector; display names are matched with invisibles stripped, so the
	// compiled symbol must be stripped the same way
	compiled := comp.Compile(&RuleSet{Symbols: []string{"💋️"}})

	require.Len(t, compiled.Symbols, 1)
	assert.Equal("💋", compiled.Symbols[0].Match)
	assert.Equal("💋️", compiled.Symbols[0].Raw)
}

func TestCompileSkipsMalformedRules(t *testing.T) {
	assert := assert.New(t)
	comp := NewCompiler(keyword.NewSnowballLemmatizer())

	rs := &RuleSet{
		Words:        []string{"", "спам"},
		Combinations: [][]string{{}, {"", ""}, {"трейдинг", "инвестиции"}},
	}
	compiled := comp.Compile(rs)

	assert.Len(compiled.Words, 1)
	assert.Len(compiled.Combinations, 1)
}

func TestCompileEmptyRuleSet(t *testing.T) {
	assert := assert.New(t)
	comp := NewCompiler(keyword.NewSnowballLemmatizer())

	compiled := comp.Compile(&RuleSet{})
	assert.Empty(compiled.FullNames)
	assert.Empty(compiled.Words)
	assert.Empty(compiled.Combinations)
}

func TestFileStore(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"BANNED_FULL_NAMES": ["Алина Агент"],
		"BANNED_SYMBOLS": ["💋"],
		"PERMANENT_BLOCK_PHRASES": ["хватит жить на мели"],
		"COMBINED_BLOCKS": [["трейдинг", "инвестиции"]]
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	store := NewFileStore(path)
	rs, err := store.GetRules(context.Background())
	require.NoError(t, err)

	assert.Equal([]string{"Алина Агент"}, rs.FullNames)
	assert.Equal([]string{"💋"}, rs.Symbols)
	assert.Equal([]string{"хватит жить на мели"}, rs.Phrases)
	assert.Equal([][]string{{"трейдинг", "инвестиции"}}, rs.Combinations)
	// absent categories are empty, not an error
	assert.Empty(rs.Words)
	assert.Empty(rs.UsernameSubstrings)
}

func TestGormStore(t *testing.T) {
	assert := assert.New(t)

	url := "sqlite://" + filepath.Join(t.TempDir(), "rules.db")
	store, err := NewGormStore(url, slog.Default())
	require.NoError(t, err)

	rows := []Rule{
		{Category: categoryWord, Value: "казино"},
		{Category: categorySymbol, Value: "💋"},
		{Category: categoryCombination, Value: `["трейдинг","инвестиции"]`},
		{Category: categoryCombination, Value: "not json"},
		{Category: "bogus", Value: "ignored"},
	}
	require.NoError(t, store.db.Create(&rows).Error)

	rs, err := store.GetRules(context.Background())
	require.NoError(t, err)

	assert.Equal([]string{"казино"}, rs.Words)
	assert.Equal([]string{"💋"}, rs.Symbols)
	// malformed and unknown-category rows are skipped, not fatal
	assert.Equal([][]string{{"трейдинг", "инвестиции"}}, rs.Combinations)
	assert.Empty(rs.FullNames)
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.GetRules(context.Background())
	assert.Error(t, err)
}
