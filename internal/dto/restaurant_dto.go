package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/models"
)

type CreateRestaurantRequest struct {
	StoreName  string   `json:"store_name"`
	URL        string   `json:"url"`
	Area       string   `json:"area"`
	Genre      string   `json:"genre"`
	Companions string   `json:"companions"`
	Scene      string   `json:"scene"`
	Holidays   []string `json:"holidays"`
	Tags       []string `json:"tags"`
}

type CreateTagRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type RestaurantResponse struct {
	ID         uuid.UUID       `json:"id"`
	StoreName  string          `json:"store_name"`
	Area       string          `json:"area"`
	URL        string          `json:"url"`
	Genre      string          `json:"genre"`
	Companions string          `json:"companions"`
	Scene      string          `json:"scene"`
	Holidays   []string        `json:"holidays"`
	Status     string          `json:"status"`
	Tags       []string        `json:"tags"`
	VisitCount int             `json:"visit_count"`
	Visits     []VisitResponse `json:"visits,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type RestaurantListResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	Total       int                  `json:"total"`
}

// SuggestionsResponse carries the per-field autocomplete lists shown on the
// search form.
type SuggestionsResponse struct {
	Suggestions map[string][]string `json:"suggestions"`
	DayTokens   []string            `json:"day_tokens"`
}

func NewRestaurantResponse(r *models.Restaurant, withVisits bool) RestaurantResponse {
	resp := RestaurantResponse{
		ID:         r.ID,
		StoreName:  r.StoreName,
		Area:       r.Area,
		URL:        r.URL,
		Genre:      r.Genre,
		Companions: r.Companions,
		Scene:      r.Scene,
		Holidays:   r.HolidaySet(),
		Status:     string(r.Status),
		VisitCount: len(r.Visits),
		CreatedAt:  r.CreatedAt,
	}
	resp.Tags = make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}
	if withVisits {
		resp.Visits = make([]VisitResponse, 0, len(r.Visits))
		for i := range r.Visits {
			resp.Visits = append(resp.Visits, NewVisitResponse(&r.Visits[i]))
		}
	}
	return resp
}

func NewRestaurantListResponse(rests []models.Restaurant) RestaurantListResponse {
	out := RestaurantListResponse{
		Restaurants: make([]RestaurantResponse, 0, len(rests)),
		Total:       len(rests),
	}
	for i := range rests {
		out.Restaurants = append(out.Restaurants, NewRestaurantResponse(&rests[i], false))
	}
	return out
}
