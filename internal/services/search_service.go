package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/database"
	"github.com/moritahrk/tabememo/internal/models"
	"gorm.io/gorm"
)

// SearchParams are the optional filters of the search form. Empty values
// impose no constraint.
type SearchParams struct {
	Genre      string
	Area       string
	Companions string
	Scene      string
	Tag        string
	Status     string   // want, went, or empty/all for both
	Holidays   []string // OR-combined day tokens
}

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search runs the conjunctive filter over the user's restaurants. Scalar
// parameters match case-insensitive contains, the holiday set matches any
// selected day, status matches exactly. Results are newest first; a
// restaurant with several matching tags appears once.
func (s *SearchService) Search(userID uuid.UUID, p SearchParams) ([]models.Restaurant, error) {
	q := s.db.Model(&models.Restaurant{}).Scopes(database.OwnedBy(userID))

	addContains := func(column, value string) {
		if value != "" {
			q = q.Where("LOWER("+column+") LIKE ?", containsPattern(value))
		}
	}
	addContains("restaurants.genre", p.Genre)
	addContains("restaurants.area", p.Area)
	addContains("restaurants.companions", p.Companions)
	addContains("restaurants.scene", p.Scene)

	if len(p.Holidays) > 0 {
		or := s.db.Where("restaurants.holidays LIKE ?", models.HolidayPattern(p.Holidays[0]))
		for _, day := range p.Holidays[1:] {
			or = or.Or("restaurants.holidays LIKE ?", models.HolidayPattern(day))
		}
		q = q.Where(or)
	}

	switch models.RestaurantStatus(p.Status) {
	case models.StatusWant, models.StatusWent:
		q = q.Where("restaurants.status = ?", p.Status)
	}

	if p.Tag != "" {
		q = q.
			Joins("JOIN restaurant_tags ON restaurant_tags.restaurant_id = restaurants.id").
			Joins("JOIN tags ON tags.id = restaurant_tags.tag_id").
			Where("LOWER(tags.name) LIKE ?", containsPattern(p.Tag)).
			Distinct("restaurants.*")
	}

	var rests []models.Restaurant
	err := q.
		Preload("Tags").
		Preload("Visits").
		Order("restaurants.created_at DESC").
		Find(&rests).Error
	return rests, err
}

func containsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
