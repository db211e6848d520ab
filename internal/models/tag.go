package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a global label shared across all users; names are unique
// system-wide and tags are never deleted.
type Tag struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Category string    `gorm:"size:20;not null;default:'custom'" json:"category"`

	CreatedAt time.Time `json:"created_at"`
}

const (
	TagCategoryGenre  = "genre"
	TagCategoryArea   = "area"
	TagCategoryScene  = "scene"
	TagCategoryGroup  = "group"
	TagCategoryCustom = "custom"
)

func IsTagCategory(s string) bool {
	switch s {
	case TagCategoryGenre, TagCategoryArea, TagCategoryScene, TagCategoryGroup, TagCategoryCustom:
		return true
	}
	return false
}
