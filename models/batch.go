package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInconsistentKeys is returned for a batch whose records disagree on their field names.
var ErrInconsistentKeys = errors.New("inconsistent record keys")

// CategoryRef names one category and its first listing page.
type CategoryRef struct {
	Name string
	URL  string
}

// CategoryBatch holds every record built for one category during one run.
type CategoryBatch struct {
	Category CategoryRef
	RunStamp string
	Records  []*Record
}

// ValidateBatch checks that every record shares the first record's key set.
func ValidateBatch(b *CategoryBatch) error {
	if b == nil || len(b.Records) == 0 {
		return fmt.Errorf("batch is empty")
	}
	first := b.Records[0]
	if first == nil {
		return fmt.Errorf("batch %q: first record is nil", b.Category.Name)
	}
	for i, rec := range b.Records[1:] {
		if !first.SameKeys(rec) {
			url := ""
			if rec != nil {
				url = rec.Text(FieldProductPageURL)
			}
			return fmt.Errorf("batch %q record %d (%s): %w", b.Category.Name, i+1, url, ErrInconsistentKeys)
		}
	}
	return nil
}

// RunStamp formats t as an ISO 8601 basic timestamp.
func RunStamp(t time.Time) string {
	return t.Format("20060102T150405")
}

// RunResult holds the overall result of one crawl.
type RunResult struct {
	RunStamp         string
	StartTime        time.Time
	EndTime          time.Time
	Categories       int
	CategoriesFailed int
	CategoriesEmpty  int
	ItemsProcessed   int
	ItemsSkipped     int
	FailedURLs       []string
	ErrorsByType     map[string]int
	RequestCount     int
	PageCount        int
}
