package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantStatus is the lifecycle state of a restaurant: "want" until the
// first visit is recorded, "went" afterwards.
type RestaurantStatus string

const (
	StatusWant RestaurantStatus = "want"
	StatusWent RestaurantStatus = "went"
)

// DayTokens is the fixed enumeration of closing-day values: the seven
// weekdays plus public holiday, always open, and irregular.
var DayTokens = []string{"月", "火", "水", "木", "金", "土", "日", "祝日", "年中無休", "不定休"}

func IsDayToken(s string) bool {
	for _, t := range DayTokens {
		if s == t {
			return true
		}
	}
	return false
}

type Restaurant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	StoreName  string    `gorm:"size:100;not null" json:"store_name"`
	Area       string    `gorm:"size:50;not null" json:"area"`
	URL        string    `gorm:"size:255" json:"url"`
	Genre      string    `gorm:"size:50;not null" json:"genre"`
	Companions string    `gorm:"size:50" json:"companions"`
	Scene      string    `gorm:"size:50" json:"scene"`
	// Closing days, stored delimiter-wrapped (",月,火,") so a LIKE against
	// ",日," cannot false-match the 日 inside 祝日. Use HolidaySet to read.
	Holidays string           `gorm:"size:100" json:"-"`
	Status   RestaurantStatus `gorm:"size:10;not null;default:'want'" json:"status"`

	Tags   []Tag   `gorm:"many2many:restaurant_tags" json:"tags,omitempty"`
	Visits []Visit `gorm:"foreignKey:RestaurantID" json:"visits,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HolidaySet decodes the stored closing-day string into day tokens.
func (r *Restaurant) HolidaySet() []string {
	return DecodeHolidays(r.Holidays)
}

// SetHolidaySet encodes day tokens into the stored representation.
func (r *Restaurant) SetHolidaySet(days []string) {
	r.Holidays = EncodeHolidays(days)
}

func EncodeHolidays(days []string) string {
	if len(days) == 0 {
		return ""
	}
	return "," + strings.Join(days, ",") + ","
}

func DecodeHolidays(s string) []string {
	s = strings.Trim(s, ",")
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// HolidayPattern is the LIKE pattern matching restaurants whose closing-day
// set contains the given token.
func HolidayPattern(token string) string {
	return "%," + token + ",%"
}
