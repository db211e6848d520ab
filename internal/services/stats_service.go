package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/models"
	"gorm.io/gorm"
)

// GenreUnclassified is the bucket label for visits whose restaurant carries
// no genre.
const GenreUnclassified = "未設定"

type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// StatsService computes the aggregate views behind the charts. Rows are
// fetched per user and bucketed here, so Postgres and the sqlite test
// database behave identically.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type visitStatRow struct {
	Date  *time.Time
	Genre string
}

func (s *StatsService) rows(userID uuid.UUID) ([]visitStatRow, error) {
	var rows []visitStatRow
	err := s.db.Model(&models.Visit{}).
		Select("visits.date AS date, restaurants.genre AS genre").
		Joins("JOIN restaurants ON restaurants.id = visits.restaurant_id AND restaurants.deleted_at IS NULL").
		Where("restaurants.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

// MonthlyVisitCounts groups the user's visits by calendar month, ignoring
// the year. Months without visits are omitted; buckets come back ascending.
func (s *StatsService) MonthlyVisitCounts(userID uuid.UUID) ([]MonthCount, error) {
	rows, err := s.rows(userID)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]int)
	for _, r := range rows {
		if r.Date == nil {
			continue
		}
		byMonth[int(r.Date.Month())]++
	}

	counts := make([]MonthCount, 0, len(byMonth))
	for m := 1; m <= 12; m++ {
		if n, ok := byMonth[m]; ok {
			counts = append(counts, MonthCount{Month: m, Count: n})
		}
	}
	return counts, nil
}

// GenreVisitCounts groups the user's visits by restaurant genre, descending
// by count. Blank genres fall into the unclassified bucket.
func (s *StatsService) GenreVisitCounts(userID uuid.UUID) ([]GenreCount, error) {
	rows, err := s.rows(userID)
	if err != nil {
		return nil, err
	}

	byGenre := make(map[string]int)
	for _, r := range rows {
		genre := strings.TrimSpace(r.Genre)
		if genre == "" {
			genre = GenreUnclassified
		}
		byGenre[genre]++
	}

	counts := make([]GenreCount, 0, len(byGenre))
	for g, n := range byGenre {
		counts = append(counts, GenreCount{Genre: g, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Genre < counts[j].Genre
	})
	return counts, nil
}

// TopGenres truncates the genre aggregate to its n largest buckets.
func (s *StatsService) TopGenres(userID uuid.UUID, n int) ([]GenreCount, error) {
	counts, err := s.GenreVisitCounts(userID)
	if err != nil {
		return nil, err
	}
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}
