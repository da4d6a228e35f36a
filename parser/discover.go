package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

const (
	// Links nested under the "Books" entry; the entry itself is the all-books aggregate.
	categoryLinkSelector = "div.side_categories ul.nav-list > li > ul > li > a"
	itemLinkSelector     = "article.product_pod h3 a"
	nextPageSelector     = "li.next a"
)

// CategoryLinks lists the category navigation links of the root page.
func CategoryLinks(doc *Document) []models.CategoryRef {
	refs := []models.CategoryRef{}
	doc.Find(categoryLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		refs = append(refs, models.CategoryRef{
			Name: strings.Join(strings.Fields(s.Text()), " "),
			URL:  ResolveURL(doc.URL, href),
		})
	})
	return refs
}

// ItemLinks lists the absolute item URLs of a listing page in listing order.
func ItemLinks(doc *Document) []string {
	hrefs := ExtractAttrs(itemLinkSelector, "href", doc)
	out := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if href == "" {
			continue
		}
		out = append(out, ResolveURL(doc.URL, href))
	}
	return out
}

// NextPageLink returns the absolute URL of the next listing page, or "" on the last page.
func NextPageLink(doc *Document) string {
	href := ExtractAttr(nextPageSelector, "href", doc)
	if href == "" {
		return ""
	}
	return ResolveURL(doc.URL, href)
}
