package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	imageSubdir = "visit_images"
	thumbSubdir = "visit_images/thumbs"
	thumbMaxPx  = 320
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// ImageStore writes visit photos under a base directory and keeps a
// downscaled thumbnail next to each original. Paths returned to callers are
// relative to the base directory so they can be served statically.
type ImageStore struct {
	baseDir string
}

func NewImageStore(baseDir string) (*ImageStore, error) {
	for _, dir := range []string{imageSubdir, thumbSubdir} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
	}
	return &ImageStore{baseDir: baseDir}, nil
}

// Upload is one file received from a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// SavedImage holds the relative paths of a stored original and its thumbnail.
type SavedImage struct {
	Path      string
	ThumbPath string
}

// Save decodes, stores and thumbnails a single upload.
func (s *ImageStore) Save(up Upload) (*SavedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, up.Filename)
	}

	name := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if ext == "" {
		ext = ".jpg"
	}

	relPath := filepath.Join(imageSubdir, name+ext)
	if err := os.WriteFile(filepath.Join(s.baseDir, relPath), up.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	thumb := resize.Thumbnail(thumbMaxPx, thumbMaxPx, img, resize.Lanczos3)
	relThumb := filepath.Join(thumbSubdir, name+".jpg")
	f, err := os.Create(filepath.Join(s.baseDir, relThumb))
	if err != nil {
		s.Remove(relPath)
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, thumb, &jpeg.Options{Quality: 85}); err != nil {
		s.Remove(relPath, relThumb)
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &SavedImage{Path: relPath, ThumbPath: relThumb}, nil
}

// Remove deletes stored files, ignoring ones already gone.
func (s *ImageStore) Remove(relPaths ...string) {
	for _, p := range relPaths {
		if p == "" {
			continue
		}
		_ = os.Remove(filepath.Join(s.baseDir, p))
	}
}
