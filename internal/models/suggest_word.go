package models

import (
	"time"

	"github.com/google/uuid"
)

// SuggestWord is one entry of the shared autocomplete corpus: every novel
// value a user submits for a free-text field is appended here and suggested
// to all users afterwards. Entries are never deleted.
type SuggestWord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WordType string    `gorm:"size:20;not null;uniqueIndex:idx_suggest_words_type_word" json:"word_type"`
	Word     string    `gorm:"size:50;not null;uniqueIndex:idx_suggest_words_type_word" json:"word"`

	CreatedAt time.Time `json:"created_at"`
}

const (
	WordTypeArea  = "area"
	WordTypeGenre = "genre"
	WordTypeGroup = "group"
	WordTypeScene = "scene"
	WordTypeTag   = "tag"
)

// WordTypes lists the field types carrying a suggestion corpus, in the order
// the search form presents them.
var WordTypes = []string{WordTypeArea, WordTypeGenre, WordTypeGroup, WordTypeScene, WordTypeTag}

func IsWordType(s string) bool {
	for _, t := range WordTypes {
		if s == t {
			return true
		}
	}
	return false
}
