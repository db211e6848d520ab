package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nfnt/resize"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSaveStoresOriginalAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	saved, err := store.Save(Upload{Filename: "dinner.png", Data: testPNG(t, 16, 16)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(saved.Path, ".png") {
		t.Fatalf("original kept wrong extension: %s", saved.Path)
	}
	if _, err := os.Stat(filepath.Join(dir, saved.Path)); err != nil {
		t.Fatalf("original missing: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, saved.ThumbPath))
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Fatalf("thumbnail is not a jpeg: %v", err)
	}
}

func TestSaveShrinksLargeImages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	saved, err := store.Save(Upload{Filename: "wide.png", Data: testPNG(t, 800, 400)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, saved.ThumbPath))
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer f.Close()
	thumb, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	b := thumb.Bounds()
	if b.Dx() > thumbMaxPx || b.Dy() > thumbMaxPx {
		t.Fatalf("thumbnail %dx%d exceeds %dpx", b.Dx(), b.Dy(), thumbMaxPx)
	}
	// Aspect ratio survives the downscale.
	if b.Dx() != 2*b.Dy() {
		t.Fatalf("thumbnail %dx%d lost its aspect ratio", b.Dx(), b.Dy())
	}
}

func TestSaveRejectsNonImages(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	_, err = store.Save(Upload{Filename: "notes.txt", Data: []byte("not an image")})
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("got %v, want ErrUnsupportedImage", err)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	saved, err := store.Save(Upload{Filename: "a.png", Data: testPNG(t, 8, 8)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	store.Remove(saved.Path, saved.ThumbPath, "", "does/not/exist.jpg")

	if _, err := os.Stat(filepath.Join(dir, saved.Path)); !os.IsNotExist(err) {
		t.Fatalf("original still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, saved.ThumbPath)); !os.IsNotExist(err) {
		t.Fatalf("thumbnail still present: %v", err)
	}
}

// Guard against the resize dependency changing its rounding behavior.
func TestThumbnailRounding(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 641, 100))
	thumb := resize.Thumbnail(thumbMaxPx, thumbMaxPx, img, resize.NearestNeighbor)
	if thumb.Bounds().Dx() > thumbMaxPx {
		t.Fatalf("width %d exceeds max", thumb.Bounds().Dx())
	}
}
