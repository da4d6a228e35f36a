package pipeline

import (
	"fmt"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

func newTestRecord(id int, extra ...string) *models.Record {
	rec := models.NewRecord()
	rec.Set(models.FieldProductPageURL, models.Text(fmt.Sprintf("http://example.test/catalogue/book-%d/index.html", id)))
	rec.Set(models.FieldCategory, models.Text("Travel"))
	rec.Set(models.FieldTitle, models.Text(fmt.Sprintf("Book %d", id)))
	rec.Set(models.FieldImageURL, models.Text(fmt.Sprintf("http://example.test/media/book-%d.jpg", id)))
	rec.Set(models.FieldReviewRating, models.Int(3))
	rec.Set(models.FieldProductDescription, models.Text("A book, with \"quotes\"."))
	rec.Set("universal_product_code", models.Text(fmt.Sprintf("upc%04d", id)))
	rec.Set("number_available", models.Int(id))
	for _, key := range extra {
		rec.Set(key, models.Text(key))
	}
	return rec
}

func newTestBatch(name string, records ...*models.Record) *models.CategoryBatch {
	return &models.CategoryBatch{
		Category: models.CategoryRef{Name: name, URL: "http://example.test/" + name},
		RunStamp: "20250101T120000",
		Records:  records,
	}
}
