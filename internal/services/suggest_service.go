package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuggestService maintains the shared autocomplete corpus and the global tag
// table. Both grow through conflict-tolerant upserts; a check-then-insert
// would race under concurrent identical submissions.
type SuggestService struct {
	db    *gorm.DB
	cache *redis.Client // nil disables caching
	ttl   time.Duration
}

func NewSuggestService(db *gorm.DB, cache *redis.Client, ttl time.Duration) *SuggestService {
	return &SuggestService{db: db, cache: cache, ttl: ttl}
}

// GetOrCreateTag returns the canonical tag row for name, creating it when
// novel. Safe to call inside a surrounding transaction.
func (s *SuggestService) GetOrCreateTag(tx *gorm.DB, name, category string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty tag name")
	}
	if !models.IsTagCategory(category) {
		category = models.TagCategoryCustom
	}

	tag := models.Tag{ID: uuid.New(), Name: name, Category: category}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert tag: %w", err)
	}

	// The insert may have been a no-op; read back the canonical row.
	var out models.Tag
	if err := tx.Where("name = ?", name).First(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	return &out, nil
}

// CreateTag is the non-transactional entry point for the tag endpoint: it
// upserts the tag and its suggestion word against the service's own handle.
func (s *SuggestService) CreateTag(ctx context.Context, name, category string) (*models.Tag, error) {
	tag, err := s.GetOrCreateTag(s.db, name, category)
	if err != nil {
		return nil, err
	}
	if err := s.RecordWord(ctx, s.db, models.WordTypeTag, name); err != nil {
		return nil, err
	}
	return tag, nil
}

// RecordWord appends word to the suggestion corpus of wordType when novel.
func (s *SuggestService) RecordWord(ctx context.Context, tx *gorm.DB, wordType, word string) error {
	word = strings.TrimSpace(word)
	if word == "" || !models.IsWordType(wordType) {
		return nil
	}

	entry := models.SuggestWord{ID: uuid.New(), WordType: wordType, Word: word}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word_type"}, {Name: "word"}},
		DoNothing: true,
	}).Create(&entry)
	if res.Error != nil {
		return fmt.Errorf("failed to upsert suggest word: %w", res.Error)
	}

	if res.RowsAffected > 0 && s.cache != nil {
		if err := s.cache.Del(ctx, suggestCacheKey(wordType)).Err(); err != nil {
			slog.Warn("suggest cache invalidation failed", "word_type", wordType, "error", err)
		}
	}
	return nil
}

// Words returns the suggestion list for one field type, alphabetically,
// through the cache when one is configured.
func (s *SuggestService) Words(ctx context.Context, wordType string) ([]string, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, suggestCacheKey(wordType)).Result(); err == nil {
			var words []string
			if json.Unmarshal([]byte(raw), &words) == nil {
				return words, nil
			}
		}
	}

	var words []string
	if err := s.db.Model(&models.SuggestWord{}).
		Where("word_type = ?", wordType).
		Order("word ASC").
		Pluck("word", &words).Error; err != nil {
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(words); err == nil {
			if err := s.cache.Set(ctx, suggestCacheKey(wordType), raw, s.ttl).Err(); err != nil {
				slog.Warn("suggest cache write failed", "word_type", wordType, "error", err)
			}
		}
	}
	return words, nil
}

// All returns every field type's suggestion list, for the search form.
func (s *SuggestService) All(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(models.WordTypes))
	for _, wt := range models.WordTypes {
		words, err := s.Words(ctx, wt)
		if err != nil {
			return nil, err
		}
		out[wt] = words
	}
	return out, nil
}

func suggestCacheKey(wordType string) string {
	return "suggest:" + wordType
}
