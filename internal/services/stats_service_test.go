package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/models"
	"gorm.io/gorm"
)

func statsFixture(t *testing.T) (*gorm.DB, *StatsService, uuid.UUID) {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db, "taro@example.com", "blue42horse")
	return db, NewStatsService(db), user.ID
}

func day(month, d int) time.Time {
	return time.Date(2026, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyVisitCountsAreSparseAndAscending(t *testing.T) {
	db, svc, userID := statsFixture(t)

	rest := seedRestaurant(t, db, userID, dto.CreateRestaurantRequest{
		StoreName: "蕎麦処まる", Area: "神田", Genre: "和食",
	})
	seedVisit(t, db, rest.ID, day(1, 5))
	seedVisit(t, db, rest.ID, day(1, 20))
	seedVisit(t, db, rest.ID, day(3, 2))
	// Same calendar month of a different year lands in the same bucket.
	seedVisit(t, db, rest.ID, day(3, 2).AddDate(-1, 0, 0))

	counts, err := svc.MonthlyVisitCounts(userID)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	want := []MonthCount{{Month: 1, Count: 2}, {Month: 3, Count: 2}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts = %v, want %v", counts, want)
		}
	}
}

func TestGenreVisitCounts(t *testing.T) {
	db, svc, userID := statsFixture(t)

	washoku := seedRestaurant(t, db, userID, dto.CreateRestaurantRequest{
		StoreName: "蕎麦処まる", Area: "神田", Genre: "和食",
	})
	cafe := seedRestaurant(t, db, userID, dto.CreateRestaurantRequest{
		StoreName: "カフェつばめ", Area: "下北沢", Genre: "カフェ",
	})
	// A blank genre can only enter through legacy rows; bucket it anyway.
	blank := &models.Restaurant{ID: uuid.New(), UserID: userID, StoreName: "無題", Area: "x", Status: models.StatusWant}
	if err := db.Create(blank).Error; err != nil {
		t.Fatalf("seed blank-genre restaurant: %v", err)
	}

	seedVisit(t, db, washoku.ID, day(1, 5))
	seedVisit(t, db, washoku.ID, day(2, 5))
	seedVisit(t, db, cafe.ID, day(3, 5))
	seedVisit(t, db, blank.ID, day(4, 5))

	counts, err := svc.GenreVisitCounts(userID)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("counts = %v", counts)
	}
	if counts[0].Genre != "和食" || counts[0].Count != 2 {
		t.Fatalf("top bucket = %v", counts[0])
	}
	// Ties break alphabetically, and the blank genre gets its own label.
	if counts[1] != (GenreCount{Genre: "カフェ", Count: 1}) {
		t.Fatalf("second bucket = %v", counts[1])
	}
	if counts[2] != (GenreCount{Genre: GenreUnclassified, Count: 1}) {
		t.Fatalf("third bucket = %v", counts[2])
	}
}

func TestTopGenresTruncates(t *testing.T) {
	db, svc, userID := statsFixture(t)

	genres := []string{"和食", "カフェ", "中華", "Italian"}
	for i, g := range genres {
		rest := seedRestaurant(t, db, userID, dto.CreateRestaurantRequest{
			StoreName: g + "の店", Area: "x", Genre: g,
		})
		for v := 0; v <= i; v++ {
			seedVisit(t, db, rest.ID, day(1, v+1))
		}
	}

	top, err := svc.TopGenres(userID, 3)
	if err != nil {
		t.Fatalf("top genres: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("top = %v", top)
	}
	if top[0].Genre != "Italian" || top[0].Count != 4 {
		t.Fatalf("top[0] = %v", top[0])
	}
	for _, g := range top {
		if g.Genre == "和食" {
			t.Fatalf("smallest bucket survived truncation: %v", top)
		}
	}
}

func TestStatsIgnoreOtherUsersAndDeletedRestaurants(t *testing.T) {
	db, svc, userID := statsFixture(t)
	stranger := seedUser(t, db, "hanako@example.com", "green7river")

	mine := seedRestaurant(t, db, userID, dto.CreateRestaurantRequest{
		StoreName: "蕎麦処まる", Area: "神田", Genre: "和食",
	})
	theirs := seedRestaurant(t, db, stranger.ID, dto.CreateRestaurantRequest{
		StoreName: "よその店", Area: "神田", Genre: "和食",
	})
	gone := seedRestaurant(t, db, userID, dto.CreateRestaurantRequest{
		StoreName: "閉店した店", Area: "神田", Genre: "中華",
	})

	seedVisit(t, db, mine.ID, day(1, 5))
	seedVisit(t, db, theirs.ID, day(1, 6))
	seedVisit(t, db, gone.ID, day(2, 1))
	if err := db.Delete(&models.Restaurant{}, "id = ?", gone.ID).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	counts, err := svc.GenreVisitCounts(userID)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if len(counts) != 1 || counts[0].Genre != "和食" || counts[0].Count != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestStatsEmpty(t *testing.T) {
	_, svc, userID := statsFixture(t)

	months, err := svc.MonthlyVisitCounts(userID)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(months) != 0 {
		t.Fatalf("months = %v", months)
	}
	genres, err := svc.GenreVisitCounts(userID)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if len(genres) != 0 {
		t.Fatalf("genres = %v", genres)
	}
}
