package rulestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// ruleFile mirrors the JSON config shape the bot has historically been
// operated with. Absent keys simply leave that category empty.
type ruleFile struct {
	FullNames          []string   `json:"BANNED_FULL_NAMES"`
	NameSubstrings     []string   `json:"BANNED_NAME_SUBSTRINGS"`
	UsernameSubstrings []string   `json:"BANNED_USERNAME_SUBSTRINGS"`
	Symbols            []string   `json:"BANNED_SYMBOLS"`
	Words              []string   `json:"SPAM_WORDS"`
	Phrases            []string   `json:"PERMANENT_BLOCK_PHRASES"`
	Combinations       [][]string `json:"COMBINED_BLOCKS"`
}

// FileStore reads rule lists from a JSON file on every snapshot, so edits to
// the file take effect on the next message without a restart. The Compiler's
// revision cache keeps the re-read cheap.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) GetRules(ctx context.Context) (*RuleSet, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	var rf ruleFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}
	return &RuleSet{
		FullNames:          rf.FullNames,
		NameSubstrings:     rf.NameSubstrings,
		UsernameSubstrings: rf.UsernameSubstrings,
		Symbols:            rf.Symbols,
		Words:              rf.Words,
		Phrases:            rf.Phrases,
		Combinations:       rf.Combinations,
	}, nil
}
