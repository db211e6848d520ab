package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/database"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/models"
	"github.com/moritahrk/tabememo/internal/statemachine"
	"github.com/moritahrk/tabememo/internal/storage"
	"github.com/moritahrk/tabememo/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrNotOwner           = errors.New("you do not own this resource")
)

type RestaurantService struct {
	db      *gorm.DB
	suggest *SuggestService
	store   *storage.ImageStore
}

func NewRestaurantService(db *gorm.DB, suggest *SuggestService, store *storage.ImageStore) *RestaurantService {
	return &RestaurantService{db: db, suggest: suggest, store: store}
}

// Create registers a candidate restaurant. Status always starts at "want";
// tags and suggestion words are upserted in the same transaction.
func (s *RestaurantService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateRestaurantRequest) (*models.Restaurant, error) {
	fe := validation.FieldErrors{}
	if req.StoreName == "" {
		fe["store_name"] = validation.MsgRequired
	}
	if req.Area == "" {
		fe["area"] = validation.MsgRequired
	}
	if req.Genre == "" {
		fe["genre"] = validation.MsgRequired
	}
	for _, day := range req.Holidays {
		if !models.IsDayToken(day) {
			fe["holidays"] = fmt.Sprintf("unknown day token %q", day)
			break
		}
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	rest := models.Restaurant{
		ID:         uuid.New(),
		UserID:     userID,
		StoreName:  req.StoreName,
		URL:        req.URL,
		Area:       req.Area,
		Genre:      req.Genre,
		Companions: req.Companions,
		Scene:      req.Scene,
		Status:     models.StatusWant,
	}
	rest.SetHolidaySet(req.Holidays)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rest).Error; err != nil {
			return fmt.Errorf("failed to create restaurant: %w", err)
		}

		for _, name := range req.Tags {
			if name == "" {
				continue
			}
			tag, err := s.suggest.GetOrCreateTag(tx, name, models.TagCategoryCustom)
			if err != nil {
				return err
			}
			if err := tx.Model(&rest).Association("Tags").Append(tag); err != nil {
				return fmt.Errorf("failed to attach tag: %w", err)
			}
			if err := s.suggest.RecordWord(ctx, tx, models.WordTypeTag, name); err != nil {
				return err
			}
		}

		for wordType, word := range map[string]string{
			models.WordTypeGenre: req.Genre,
			models.WordTypeArea:  req.Area,
			models.WordTypeScene: req.Scene,
			models.WordTypeGroup: req.Companions,
		} {
			if err := s.suggest.RecordWord(ctx, tx, wordType, word); err != nil {
				return err
			}
		}

		return statemachine.CheckConsistency(rest.Status, 0)
	})
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// List returns all of the user's restaurants, newest first.
func (s *RestaurantService) List(userID uuid.UUID) ([]models.Restaurant, error) {
	var rests []models.Restaurant
	err := s.db.Scopes(database.OwnedBy(userID)).
		Preload("Tags").
		Preload("Visits").
		Order("created_at DESC").
		Find(&rests).Error
	return rests, err
}

// ListByStatus returns the user's want-list or went-list, newest first.
func (s *RestaurantService) ListByStatus(userID uuid.UUID, status models.RestaurantStatus) ([]models.Restaurant, error) {
	var rests []models.Restaurant
	err := s.db.Scopes(database.OwnedBy(userID)).
		Where("status = ?", status).
		Preload("Tags").
		Preload("Visits").
		Order("created_at DESC").
		Find(&rests).Error
	return rests, err
}

// Get loads one of the user's restaurants with its visits and photos.
// Another user's restaurant reads as not found.
func (s *RestaurantService) Get(userID, restaurantID uuid.UUID) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := s.db.
		Preload("Tags").
		Preload("Visits", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("Visits.Images").
		First(&rest, "id = ?", restaurantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if rest.UserID != userID {
		return nil, ErrRestaurantNotFound
	}
	return &rest, nil
}

// getOwnedForWrite loads a restaurant for mutation: missing rows are not
// found, other owners' rows are forbidden.
func (s *RestaurantService) getOwnedForWrite(userID, restaurantID uuid.UUID) (*models.Restaurant, error) {
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
	return &rest, nil
}

// Delete removes a restaurant with its visits and photos.
func (s *RestaurantService) Delete(userID, restaurantID uuid.UUID) error {
	rest, err := s.getOwnedForWrite(userID, restaurantID)
	if err != nil {
		return err
	}

	var filePaths []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		paths, err := deleteVisitsOf(tx, rest.ID)
		if err != nil {
			return err
		}
		filePaths = paths

		if err := tx.Model(rest).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		return tx.Delete(rest).Error
	})
	if err != nil {
		return err
	}

	s.store.Remove(filePaths...)
	return nil
}

// Reset deletes every visit and photo of a went restaurant and moves it back
// to the want list. Resetting a restaurant that is already on the want list
// is a no-op.
func (s *RestaurantService) Reset(userID, restaurantID uuid.UUID) (*models.Restaurant, error) {
	rest, err := s.getOwnedForWrite(userID, restaurantID)
	if err != nil {
		return nil, err
	}
	if rest.Status == models.StatusWant {
		return rest, nil
	}

	var filePaths []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		paths, err := deleteVisitsOf(tx, rest.ID)
		if err != nil {
			return err
		}
		filePaths = paths

		if err := statemachine.CanTransition(rest.Status, models.StatusWant, statemachine.TriggerReset); err != nil {
			return err
		}
		if err := tx.Model(rest).Update("status", models.StatusWant).Error; err != nil {
			return fmt.Errorf("failed to reset status: %w", err)
		}
		rest.Status = models.StatusWant

		var count int64
		if err := tx.Model(&models.Visit{}).Where("restaurant_id = ?", rest.ID).Count(&count).Error; err != nil {
			return err
		}
		return statemachine.CheckConsistency(rest.Status, count)
	})
	if err != nil {
		return nil, err
	}

	s.store.Remove(filePaths...)
	return rest, nil
}

// deleteVisitsOf removes all visit and image rows under a restaurant and
// returns the stored file paths for removal after commit.
func deleteVisitsOf(tx *gorm.DB, restaurantID uuid.UUID) ([]string, error) {
	var visitIDs []uuid.UUID
	if err := tx.Model(&models.Visit{}).Where("restaurant_id = ?", restaurantID).
		Pluck("id", &visitIDs).Error; err != nil {
		return nil, err
	}
	if len(visitIDs) == 0 {
		return nil, nil
	}

	var images []models.VisitImage
	if err := tx.Where("visit_id IN ?", visitIDs).Find(&images).Error; err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(images)*2)
	for _, img := range images {
		paths = append(paths, img.Path, img.ThumbPath)
	}

	if err := tx.Where("visit_id IN ?", visitIDs).Delete(&models.VisitImage{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("restaurant_id = ?", restaurantID).Delete(&models.Visit{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}
