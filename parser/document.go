// Package parser turns fetched pages into category links, item links and records.
package parser

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page together with the URL it was served from.
type Document struct {
	URL *url.URL
	doc *goquery.Document
}

// NewDocument parses body as HTML served from pageURL.
func NewDocument(pageURL *url.URL, body io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Url = pageURL
	return &Document{URL: pageURL, doc: doc}, nil
}

// NewDocumentFromString is a convenience wrapper around NewDocument.
func NewDocumentFromString(rawURL, html string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	return NewDocument(u, strings.NewReader(html))
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// ResolveURL resolves ref against base. It returns ref unchanged if either fails to parse.
func ResolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil || base == nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
