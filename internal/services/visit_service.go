package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/models"
	"github.com/moritahrk/tabememo/internal/statemachine"
	"github.com/moritahrk/tabememo/internal/storage"
	"github.com/moritahrk/tabememo/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrVisitNotFound = errors.New("visit not found")
	ErrImageNotFound = errors.New("image not found")
)

const visitDateLayout = "2006-01-02"

type VisitService struct {
	db    *gorm.DB
	store *storage.ImageStore
}

func NewVisitService(db *gorm.DB, store *storage.ImageStore) *VisitService {
	return &VisitService{db: db, store: store}
}

// parseVisitForm validates the form fields. The returned date is nil when
// the field was blank.
func parseVisitForm(form *dto.VisitForm, fe validation.FieldErrors) *time.Time {
	var date *time.Time
	if form.Date != "" {
		d, err := time.ParseInLocation(visitDateLayout, form.Date, time.Local)
		if err != nil {
			fe["date"] = "enter a valid date (YYYY-MM-DD)"
		} else if d.After(today()) {
			fe["date"] = validation.MsgFutureDate
		} else {
			date = &d
		}
	}
	if form.Rating != nil && (*form.Rating < 1 || *form.Rating > 5) {
		fe["rating"] = "rating must be between 1 and 5"
	}
	if form.Feeling != "" && !models.IsFeeling(form.Feeling) {
		fe["feeling"] = "unknown feeling value"
	}
	return date
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Create records a visit with up to 5 photos. The first visit of a
// restaurant flips its status from want to went in the same transaction.
func (s *VisitService) Create(userID, restaurantID uuid.UUID, form *dto.VisitForm, uploads []storage.Upload) (*models.Visit, error) {
	var rest models.Restaurant
	if err := s.db.First(&rest, "id = ?", restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if rest.UserID != userID {
		return nil, ErrNotOwner
	}

	fe := validation.FieldErrors{}
	date := parseVisitForm(form, fe)
	if len(uploads) > models.MaxImagesPerVisit {
		fe["images"] = validation.MsgTooManyImages
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	if date == nil {
		t := today()
		date = &t
	}

	saved, err := s.saveUploads(uploads)
	if err != nil {
		return nil, err
	}

	visit := models.Visit{
		ID:           uuid.New(),
		RestaurantID: rest.ID,
		Date:         date,
		Comment:      form.Comment,
		Rating:       form.Rating,
		Feeling:      form.Feeling,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&visit).Error; err != nil {
			return fmt.Errorf("failed to create visit: %w", err)
		}
		if err := s.attachImages(tx, &visit, saved); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Visit{}).Where("restaurant_id = ?", rest.ID).Count(&count).Error; err != nil {
			return err
		}

		if next := statemachine.StatusFor(count); next != rest.Status {
			if err := statemachine.CanTransition(rest.Status, next, statemachine.TriggerFirstVisit); err != nil {
				return err
			}
			if err := tx.Model(&rest).Update("status", next).Error; err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}
			rest.Status = next
		}
		return statemachine.CheckConsistency(rest.Status, count)
	})
	if err != nil {
		s.removeSaved(saved)
		return nil, err
	}
	return &visit, nil
}

// Update edits a visit and appends photos; existing plus new photos must
// stay within the cap. A blank date leaves the stored one unchanged.
func (s *VisitService) Update(userID, visitID uuid.UUID, form *dto.VisitForm, uploads []storage.Upload) (*models.Visit, error) {
	visit, err := s.getOwned(userID, visitID)
	if err != nil {
		return nil, err
	}

	fe := validation.FieldErrors{}
	date := parseVisitForm(form, fe)
	if len(visit.Images)+len(uploads) > models.MaxImagesPerVisit {
		fe["images"] = validation.MsgTooManyImages
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	saved, err := s.saveUploads(uploads)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"comment": form.Comment,
			"rating":  form.Rating,
			"feeling": form.Feeling,
		}
		if date != nil {
			updates["date"] = date
			visit.Date = date
		}
		if err := tx.Model(visit).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update visit: %w", err)
		}
		visit.Comment = form.Comment
		visit.Rating = form.Rating
		visit.Feeling = form.Feeling

		return s.attachImages(tx, visit, saved)
	})
	if err != nil {
		s.removeSaved(saved)
		return nil, err
	}
	return visit, nil
}

// Delete removes a visit with its photos. Deleting the last visit of a
// restaurant moves it back to the want list, keeping status and visit count
// consistent.
func (s *VisitService) Delete(userID, visitID uuid.UUID) error {
	visit, err := s.getOwned(userID, visitID)
	if err != nil {
		return err
	}

	var filePaths []string
	for _, img := range visit.Images {
		filePaths = append(filePaths, img.Path, img.ThumbPath)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visit_id = ?", visit.ID).Delete(&models.VisitImage{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(visit).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Visit{}).Where("restaurant_id = ?", visit.RestaurantID).Count(&count).Error; err != nil {
			return err
		}

		status := visit.Restaurant.Status
		if next := statemachine.StatusFor(count); next != status {
			if err := statemachine.CanTransition(status, next, statemachine.TriggerReset); err != nil {
				return err
			}
			if err := tx.Model(&models.Restaurant{}).Where("id = ?", visit.RestaurantID).
				Update("status", next).Error; err != nil {
				return err
			}
			status = next
		}
		return statemachine.CheckConsistency(status, count)
	})
	if err != nil {
		return err
	}

	s.store.Remove(filePaths...)
	return nil
}

// DeleteImage removes a single photo and acknowledges with its identifier.
func (s *VisitService) DeleteImage(userID, imageID uuid.UUID) (uuid.UUID, error) {
	var img models.VisitImage
	err := s.db.Preload("Visit.Restaurant").First(&img, "id = ?", imageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrImageNotFound
		}
		return uuid.Nil, err
	}
	if img.Visit.Restaurant.UserID != userID {
		return uuid.Nil, ErrNotOwner
	}

	if err := s.db.Delete(&img).Error; err != nil {
		return uuid.Nil, err
	}
	s.store.Remove(img.Path, img.ThumbPath)
	return img.ID, nil
}

func (s *VisitService) getOwned(userID, visitID uuid.UUID) (*models.Visit, error) {
	var visit models.Visit
	err := s.db.Preload("Restaurant").Preload("Images").First(&visit, "id = ?", visitID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	if visit.Restaurant.UserID != userID {
		return nil, ErrNotOwner
	}
	return &visit, nil
}

func (s *VisitService) saveUploads(uploads []storage.Upload) ([]*storage.SavedImage, error) {
	saved := make([]*storage.SavedImage, 0, len(uploads))
	for _, up := range uploads {
		img, err := s.store.Save(up)
		if err != nil {
			s.removeSaved(saved)
			return nil, err
		}
		saved = append(saved, img)
	}
	return saved, nil
}

func (s *VisitService) attachImages(tx *gorm.DB, visit *models.Visit, saved []*storage.SavedImage) error {
	for _, img := range saved {
		row := models.VisitImage{
			ID:        uuid.New(),
			VisitID:   visit.ID,
			Path:      img.Path,
			ThumbPath: img.ThumbPath,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
		visit.Images = append(visit.Images, row)
	}
	return nil
}

func (s *VisitService) removeSaved(saved []*storage.SavedImage) {
	for _, img := range saved {
		s.store.Remove(img.Path, img.ThumbPath)
	}
}
