package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/models"
)

// VisitForm carries the non-file fields of the visit multipart form.
type VisitForm struct {
	Date    string `json:"date"`
	Comment string `json:"comment"`
	Rating  *int   `json:"rating"`
	Feeling string `json:"feeling"`
}

type VisitResponse struct {
	ID           uuid.UUID            `json:"id"`
	RestaurantID uuid.UUID            `json:"restaurant_id"`
	Date         string               `json:"date,omitempty"`
	Comment      string               `json:"comment"`
	Rating       *int                 `json:"rating"`
	Feeling      string               `json:"feeling"`
	Images       []VisitImageResponse `json:"images"`
	CreatedAt    time.Time            `json:"created_at"`
}

type VisitImageResponse struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	ThumbPath string    `json:"thumb_path"`
}

type DeleteImageResponse struct {
	Deleted uuid.UUID `json:"deleted"`
}

func NewVisitResponse(v *models.Visit) VisitResponse {
	resp := VisitResponse{
		ID:           v.ID,
		RestaurantID: v.RestaurantID,
		Comment:      v.Comment,
		Rating:       v.Rating,
		Feeling:      v.Feeling,
		CreatedAt:    v.CreatedAt,
	}
	if v.Date != nil {
		resp.Date = v.Date.Format("2006-01-02")
	}
	resp.Images = make([]VisitImageResponse, 0, len(v.Images))
	for _, img := range v.Images {
		resp.Images = append(resp.Images, VisitImageResponse{
			ID:        img.ID,
			Path:      img.Path,
			ThumbPath: img.ThumbPath,
		})
	}
	return resp
}
