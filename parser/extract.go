package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractOne returns the trimmed text of the first match, or "" when nothing matches.
func ExtractOne(selector string, doc *Document) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// ExtractMany returns the trimmed text of every match in document order.
func ExtractMany(selector string, doc *Document) []string {
	return texts(doc.Find(selector))
}

// ExtractAttr returns attr of the first match, or "" when absent.
func ExtractAttr(selector, attr string, doc *Document) string {
	val, _ := doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(val)
}

// ExtractAttrs returns attr of every match that carries it, in document order.
func ExtractAttrs(selector, attr string, doc *Document) []string {
	out := []string{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if val, ok := s.Attr(attr); ok {
			out = append(out, strings.TrimSpace(val))
		}
	})
	return out
}

func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
