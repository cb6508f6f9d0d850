package rulestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Rule is one stored rule value. Word-combination rules keep their word list
// JSON-encoded in Value.
type Rule struct {
	ID        uint   `gorm:"primarykey"`
	Category  string `gorm:"index;not null"`
	Value     string `gorm:"not null"`
	CreatedAt time.Time
}

// GormStore reads rule snapshots from a relational database. Admin tooling
// inserts and deletes Rule rows out-of-band; the engine only ever selects.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormStore opens a database from a URL ("sqlite://path" or
// "postgresql://..."), runs migrations, and returns a store.
func NewGormStore(url string, logger *slog.Logger) (*GormStore, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		dial = sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "postgresql://"), strings.HasPrefix(url, "postgres://"):
		dial = postgres.Open(url)
	default:
		return nil, fmt.Errorf("unsupported database scheme: %s", url)
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: slogGorm.New(slogGorm.WithHandler(logger.Handler())),
	})
	if err != nil {
		return nil, fmt.Errorf("opening rule database: %w", err)
	}
	if err := db.AutoMigrate(&Rule{}); err != nil {
		return nil, fmt.Errorf("migrating rule database: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

const (
	categoryFullName          = "full-name"
	categoryNameSubstring     = "name-substring"
	categoryUsernameSubstring = "username-substring"
	categorySymbol            = "symbol"
	categoryWord              = "word"
	categoryPhrase            = "phrase"
	categoryCombination       = "combination"
)

func (s *GormStore) GetRules(ctx context.Context) (*RuleSet, error) {
	var rows []Rule
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	rs := &RuleSet{}
	for _, row := range rows {
		switch row.Category {
		case categoryFullName:
			rs.FullNames = append(rs.FullNames, row.Value)
		case categoryNameSubstring:
			rs.NameSubstrings = append(rs.NameSubstrings, row.Value)
		case categoryUsernameSubstring:
			rs.UsernameSubstrings = append(rs.UsernameSubstrings, row.Value)
		case categorySymbol:
			rs.Symbols = append(rs.Symbols, row.Value)
		case categoryWord:
			rs.Words = append(rs.Words, row.Value)
		case categoryPhrase:
			rs.Phrases = append(rs.Phrases, row.Value)
		case categoryCombination:
			var combo []string
			if err := json.Unmarshal([]byte(row.Value), &combo); err != nil {
				s.logger.Warn("skipping malformed combination rule row", "id", row.ID, "err", err)
				continue
			}
			rs.Combinations = append(rs.Combinations, combo)
		default:
			s.logger.Warn("skipping rule row with unknown category", "id", row.ID, "category", row.Category)
		}
	}
	return rs, nil
}
