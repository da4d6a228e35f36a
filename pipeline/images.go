package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// ImageOutcome describes what StoreImage did.
type ImageOutcome string

const (
	ImageStored  ImageOutcome = "stored"
	ImageExists  ImageOutcome = "exists"
	ImageClaimed ImageOutcome = "claimed"
)

var pathBreakingRe = regexp.MustCompile(`[/\\:*?"<>|]`)

// SanitizeFileName replaces path-breaking characters with a space and
// collapses whitespace runs to a single underscore.
func SanitizeFileName(title string) string {
	cleaned := pathBreakingRe.ReplaceAllString(title, " ")
	return strings.Join(strings.Fields(cleaned), "_")
}

// BytesFetcher downloads raw bytes.
type BytesFetcher interface {
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

// ImageStore saves record images under <root>/<category>/images/<title>.jpg.
// Existing files are never fetched again nor overwritten.
type ImageStore struct {
	root    string
	fetcher BytesFetcher
	// paths already handled in this run
	claimed *lru.Cache[string, struct{}]
}

// NewImageStore returns a store rooted at dir.
func NewImageStore(dir string, fetcher BytesFetcher, cacheSize int) (*ImageStore, error) {
	claimed, err := lru.New[string, struct{}](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &ImageStore{
		root:    dir,
		fetcher: fetcher,
		claimed: claimed,
	}, nil
}

// ImagePath returns the file a record's image is stored at.
func (s *ImageStore) ImagePath(category, title string) (string, error) {
	name := SanitizeFileName(title)
	if name == "" {
		return "", fmt.Errorf("image needs a title")
	}
	return filepath.Join(s.root, CategoryDir(category), "images", name+".jpg"), nil
}

// StoreImage downloads the record's image unless its file already exists.
func (s *ImageStore) StoreImage(ctx context.Context, category string, rec *models.Record) (ImageOutcome, error) {
	imageURL := rec.Text(models.FieldImageURL)
	if imageURL == "" {
		return "", fmt.Errorf("record %s has no image url", rec.Text(models.FieldProductPageURL))
	}
	path, err := s.ImagePath(category, rec.Text(models.FieldTitle))
	if err != nil {
		return "", fmt.Errorf("record %s: %w", rec.Text(models.FieldProductPageURL), err)
	}

	if found, _ := s.claimed.ContainsOrAdd(path, struct{}{}); found {
		return ImageClaimed, nil
	}

	if _, err := os.Stat(path); err == nil {
		return ImageExists, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.claimed.Remove(path)
		return "", fmt.Errorf("stat image: %w", err)
	}

	data, err := s.fetcher.FetchBytes(ctx, imageURL)
	if err != nil {
		s.claimed.Remove(path)
		return "", fmt.Errorf("fetch image: %w", err)
	}

	if err := storeBytes(path, data); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ImageExists, nil
		}
		s.claimed.Remove(path)
		return "", err
	}
	return ImageStored, nil
}

// storeBytes creates path exclusively and writes data to it.
func storeBytes(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close image file: %w", err)
	}
	return nil
}
