package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

var (
	truncatedCludingRe = regexp.MustCompile(`\((ex|in)cl\.`)
	digitRunRe         = regexp.MustCompile(`\d+`)
	allDigitsRe        = regexp.MustCompile(`^\d+$`)
	keyStripper        = strings.NewReplacer("(", "", ")", "", ".", "")
)

// Information-table headers that never become record fields.
var excludedHeaders = map[string]struct{}{
	"product type":      {},
	"tax":               {},
	"number of reviews": {},
}

var renamedHeaders = map[string]string{
	"availability": "number_available",
	"upc":          "universal_product_code",
}

var ratingWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

// RatingToNumeric converts a rating word to 1..5. The bool is false for any other word.
func RatingToNumeric(rating string) (int, bool) {
	n, ok := ratingWords[strings.ToLower(strings.TrimSpace(rating))]
	return n, ok
}

// RatingFromClass reads a rating indicator's class attribute, e.g. "star-rating Three".
func RatingFromClass(class string) models.Value {
	for _, word := range strings.Fields(class) {
		if n, ok := RatingToNumeric(word); ok {
			return models.Int(n)
		}
	}
	return models.NotRated
}

// ExcludedHeader reports whether an information-table header is dropped.
func ExcludedHeader(header string) bool {
	_, ok := excludedHeaders[strings.ToLower(strings.TrimSpace(header))]
	return ok
}

// NormalizeFieldKey turns an information-table header into a record key.
// "Price (excl. tax)" becomes "price_excluding_tax" and "UPC" becomes "universal_product_code".
func NormalizeFieldKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	if renamed, ok := renamedHeaders[key]; ok {
		return renamed
	}
	key = truncatedCludingRe.ReplaceAllString(key, "(${1}cluding")
	key = keyStripper.Replace(key)
	return strings.Join(strings.Fields(key), "_")
}

// AvailableCount extracts the stock count from text like "In stock (22 available)".
// Text without digits counts as zero.
func AvailableCount(text string) int {
	run := digitRunRe.FindString(text)
	if run == "" {
		return 0
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0
	}
	return n
}

// CoerceValue returns an integer value when text is entirely digits and a text value otherwise.
func CoerceValue(text string) models.Value {
	text = strings.TrimSpace(text)
	if allDigitsRe.MatchString(text) {
		if n, err := strconv.Atoi(text); err == nil {
			return models.Int(n)
		}
	}
	return models.Text(text)
}
