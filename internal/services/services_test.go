package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/config"
	"github.com/moritahrk/tabememo/internal/database"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/models"
	"github.com/moritahrk/tabememo/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *storage.ImageStore {
	t.Helper()
	store, err := storage.NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("create image store: %v", err)
	}
	return store
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: email, Password: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// seedRestaurant goes through the real create path so tags, suggestion words
// and the initial status behave as in production.
func seedRestaurant(t *testing.T, db *gorm.DB, userID uuid.UUID, req dto.CreateRestaurantRequest) *models.Restaurant {
	t.Helper()
	svc := NewRestaurantService(db, NewSuggestService(db, nil, time.Minute), nil)
	rest, err := svc.Create(context.Background(), userID, &req)
	if err != nil {
		t.Fatalf("seed restaurant %q: %v", req.StoreName, err)
	}
	return rest
}

func seedVisit(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, date time.Time) *models.Visit {
	t.Helper()
	visit := &models.Visit{ID: uuid.New(), RestaurantID: restaurantID, Date: &date}
	if err := db.Create(visit).Error; err != nil {
		t.Fatalf("seed visit: %v", err)
	}
	return visit
}

func pngUpload(t *testing.T, name string) storage.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return storage.Upload{Filename: name, Data: buf.Bytes()}
}
