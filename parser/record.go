package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

const (
	breadcrumbSelector  = "ul.breadcrumb li"
	titleSelector       = "div.product_main h1"
	imageSelector       = "#product_gallery img"
	ratingSelector      = "p.star-rating"
	listingCardSelector = "article.product_pod"
	descriptionSelector = "#product_description ~ p"
	tableHeadSelector   = "table.table-striped th"
	tableCellSelector   = "table.table-striped td"
)

// BuildRecord assembles the record for one item page. Missing elements yield
// empty fields; the image URL is resolved against siteRoot.
func BuildRecord(itemURL string, doc *Document, siteRoot *url.URL) *models.Record {
	rec := models.NewRecord()
	rec.Set(models.FieldProductPageURL, models.Text(itemURL))
	rec.Set(models.FieldCategory, models.Text(breadcrumbCategory(doc)))
	rec.Set(models.FieldTitle, models.Text(ExtractOne(titleSelector, doc)))
	rec.Set(models.FieldImageURL, models.Text(ResolveURL(siteRoot, ExtractAttr(imageSelector, "src", doc))))
	rec.Set(models.FieldReviewRating, pageRating(doc))
	rec.Set(models.FieldProductDescription, models.Text(ExtractOne(descriptionSelector, doc)))

	headers := ExtractMany(tableHeadSelector, doc)
	values := ExtractMany(tableCellSelector, doc)
	for i, header := range headers {
		if i >= len(values) {
			break
		}
		if header == "" || ExcludedHeader(header) {
			continue
		}
		key := NormalizeFieldKey(header)
		if key == "number_available" {
			rec.Set(key, models.Int(AvailableCount(values[i])))
			continue
		}
		rec.Set(key, CoerceValue(values[i]))
	}
	return rec
}

func breadcrumbCategory(doc *Document) string {
	crumbs := ExtractMany(breadcrumbSelector, doc)
	if len(crumbs) < 2 {
		return ""
	}
	return crumbs[len(crumbs)-2]
}

// pageRating reads the item's own rating, ignoring indicators on related-item cards.
func pageRating(doc *Document) models.Value {
	indicator := doc.Find(ratingSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(listingCardSelector).Length() == 0
	}).First()
	class, _ := indicator.Attr("class")
	return RatingFromClass(strings.TrimSpace(class))
}
