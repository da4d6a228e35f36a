package scraper

import (
	"fmt"
	"strings"

	"github.com/jarcoal/httpmock"
)

const testBaseURL = "http://example.test/index.html"

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

type testCategory struct {
	slug  string
	name  string
	pages [][]int // item ids per listing page
}

func (tc testCategory) pageURL(page int) string {
	if page == 1 {
		return fmt.Sprintf("http://example.test/catalogue/category/books/%s/index.html", tc.slug)
	}
	return fmt.Sprintf("http://example.test/catalogue/category/books/%s/page-%d.html", tc.slug, page)
}

func itemURL(id int) string {
	return fmt.Sprintf("http://example.test/catalogue/book-%d/index.html", id)
}

func imageURL(id int) string {
	return fmt.Sprintf("http://example.test/media/cache/book-%d.jpg", id)
}

func buildRootPage(categories []testCategory) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="side_categories"><ul class="nav nav-list"><li>`)
	b.WriteString(`<a href="catalogue/category/books_1/index.html">Books</a><ul>`)
	for _, c := range categories {
		fmt.Fprintf(&b, `<li><a href="catalogue/category/books/%s/index.html">%s</a></li>`, c.slug, c.name)
	}
	b.WriteString(`</ul></li></ul></div></body></html>`)
	return b.String()
}

func buildListingPage(ids []int, nextPage int) string {
	var b strings.Builder
	b.WriteString(`<html><body><ol class="row">`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<li><article class="product_pod"><p class="star-rating Two"></p>`)
		fmt.Fprintf(&b, `<h3><a href="../../../book-%d/index.html" title="Book %d">Book %d</a></h3></article></li>`, id, id, id)
	}
	b.WriteString(`</ol>`)
	if nextPage > 0 {
		fmt.Fprintf(&b, `<ul class="pager"><li class="next"><a href="page-%d.html">next</a></li></ul>`, nextPage)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func buildItemPage(id int, category string) string {
	return fmt.Sprintf(`<html><body>
<ul class="breadcrumb"><li><a href="../../index.html">Home</a></li><li><a href="#">Books</a></li><li><a href="#">%[2]s</a></li><li class="active">Book %[1]d</li></ul>
<div id="product_gallery"><img src="../../media/cache/book-%[1]d.jpg" /></div>
<div class="product_main"><h1>Book %[1]d</h1><p class="star-rating Three"></p></div>
<div id="product_description"><h2>Product Description</h2></div>
<p>Description of book %[1]d.</p>
<table class="table table-striped">
<tr><th>UPC</th><td>upc%[1]d</td></tr>
<tr><th>Product Type</th><td>Books</td></tr>
<tr><th>Price (excl. tax)</th><td>£%[1]d.00</td></tr>
<tr><th>Tax</th><td>£0.00</td></tr>
<tr><th>Availability</th><td>In stock (%[1]d available)</td></tr>
<tr><th>Number of reviews</th><td>0</td></tr>
</table>
<ol><li><article class="product_pod"><p class="star-rating One"></p></article></li></ol>
</body></html>`, id, category)
}

// registerSite serves the root page, every listing page and every item page.
func registerSite(transport *httpmock.MockTransport, categories []testCategory) {
	transport.RegisterResponder("GET", testBaseURL, htmlResponder(buildRootPage(categories)))
	for _, c := range categories {
		for i, ids := range c.pages {
			next := 0
			if i < len(c.pages)-1 {
				next = i + 2
			}
			transport.RegisterResponder("GET", c.pageURL(i+1), htmlResponder(buildListingPage(ids, next)))
			for _, id := range ids {
				transport.RegisterResponder("GET", itemURL(id), htmlResponder(buildItemPage(id, c.name)))
				transport.RegisterResponder("GET", imageURL(id), httpmock.NewBytesResponder(200, []byte(fmt.Sprintf("jpeg-%d", id))))
			}
		}
	}
}
