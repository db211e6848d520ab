package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/moritahrk/tabememo/internal/services"
)

func decodePNG(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestMonthlyRendersPNG(t *testing.T) {
	out, err := Monthly([]services.MonthCount{
		{Month: 1, Count: 2},
		{Month: 3, Count: 5},
		{Month: 12, Count: 1},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	w, h := decodePNG(t, out)
	if w != chartWidth || h != chartHeight {
		t.Fatalf("size = %dx%d", w, h)
	}
}

func TestGenreRendersPNG(t *testing.T) {
	out, err := Genre([]services.GenreCount{
		{Genre: "和食", Count: 3},
		{Genre: "カフェ", Count: 1},
	}, "genres")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	decodePNG(t, out)
}

func TestEmptyDataFallsBackToPlaceholder(t *testing.T) {
	fromMonthly, err := Monthly(nil)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	fromGenre, err := Genre(nil, "genres")
	if err != nil {
		t.Fatalf("genre: %v", err)
	}
	direct, err := Placeholder()
	if err != nil {
		t.Fatalf("placeholder: %v", err)
	}
	if !bytes.Equal(fromMonthly, direct) || !bytes.Equal(fromGenre, direct) {
		t.Fatal("empty data did not yield the placeholder image")
	}
	w, h := decodePNG(t, direct)
	if w != chartWidth || h != chartHeight {
		t.Fatalf("placeholder size = %dx%d", w, h)
	}
}
