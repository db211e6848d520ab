package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feeling is the optional overall impression of a visit.
type Feeling string

const (
	FeelingAgain     Feeling = "again"     // また行きたい
	FeelingRecommend Feeling = "recommend" // おすすめしたい
	FeelingNo        Feeling = "no"        // もう行かない
)

func IsFeeling(s string) bool {
	switch Feeling(s) {
	case FeelingAgain, FeelingRecommend, FeelingNo:
		return true
	}
	return false
}

// MaxImagesPerVisit caps the photos attached to one visit, counted across
// creation and later edits.
const MaxImagesPerVisit = 5

type Visit struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Date         *time.Time `gorm:"index" json:"date"`
	Comment      string     `gorm:"type:text" json:"comment"`
	Rating       *int       `json:"rating"`
	Feeling      string     `gorm:"size:20" json:"feeling"`

	Images []VisitImage `gorm:"foreignKey:VisitID" json:"images,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type VisitImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VisitID   uuid.UUID `gorm:"type:uuid;not null;index" json:"visit_id"`
	Visit     Visit     `gorm:"foreignKey:VisitID" json:"-"`
	Path      string    `gorm:"size:255;not null" json:"path"`
	ThumbPath string    `gorm:"size:255" json:"thumb_path"`
	CreatedAt time.Time `json:"uploaded_at"`
}
