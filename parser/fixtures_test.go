package parser

const rootPage = `<html><body>
<div class="side_categories">
  <ul class="nav nav-list">
    <li>
      <a href="catalogue/category/books_1/index.html">Books</a>
      <ul>
        <li><a href="catalogue/category/books/travel_2/index.html">
            Travel
        </a></li>
        <li><a href="catalogue/category/books/mystery_3/index.html">Mystery</a></li>
        <li><a href="catalogue/category/books/sequential-art_5/index.html">Sequential Art</a></li>
      </ul>
    </li>
  </ul>
</div>
</body></html>`

const listingPage = `<html><body>
<section>
  <ol class="row">
    <li><article class="product_pod">
      <p class="star-rating One"></p>
      <h3><a href="../../../its-only-the-himalayas_981/index.html" title="It's Only the Himalayas">It's Only...</a></h3>
    </article></li>
    <li><article class="product_pod">
      <p class="star-rating Two"></p>
      <h3><a href="../../../full-moon-over-noahs-ark_811/index.html" title="Full Moon">Full Moon</a></h3>
    </article></li>
  </ol>
  <ul class="pager">
    <li class="current">Page 1 of 2</li>
    <li class="next"><a href="page-2.html">next</a></li>
  </ul>
</section>
</body></html>`

const lastListingPage = `<html><body>
<ol class="row">
  <li><article class="product_pod">
    <h3><a href="../../../see-america_732/index.html">See America</a></h3>
  </article></li>
</ol>
<ul class="pager"><li class="previous"><a href="page-1.html">previous</a></li></ul>
</body></html>`

const itemPage = `<html><head><title>It's Only the Himalayas</title></head><body>
<ul class="breadcrumb">
  <li><a href="../../index.html">Home</a></li>
  <li><a href="../category/books_1/index.html">Books</a></li>
  <li><a href="../category/books/travel_2/index.html">Travel</a></li>
  <li class="active">It's Only the Himalayas</li>
</ul>
<article class="product_page">
  <div class="row">
    <div class="col-sm-6">
      <div id="product_gallery" class="carousel">
        <div class="thumbnail"><div class="carousel-inner"><div class="item active">
          <img src="../../media/cache/6d/41/6d418a73cc7d4ecfd75ca11d854041db.jpg" alt="It's Only the Himalayas" />
        </div></div></div>
      </div>
    </div>
    <div class="col-sm-6 product_main">
      <h1>It's Only the Himalayas</h1>
      <p class="price_color">£45.17</p>
      <p class="instock availability">In stock (19 available)</p>
      <p class="star-rating Two">
        <i class="icon-star"></i>
      </p>
    </div>
  </div>
  <div id="product_description" class="sub-header"><h2>Product Description</h2></div>
  <p>“Wherever you go, whatever you do, just . . . don’t do anything stupid.” —My Mother</p>
  <div class="sub-header"><h2>Product Information</h2></div>
  <table class="table table-striped">
    <tr><th>UPC</th><td>a22124811bfa8350</td></tr>
    <tr><th>Product Type</th><td>Books</td></tr>
    <tr><th>Price (excl. tax)</th><td>£45.17</td></tr>
    <tr><th>Price (incl. tax)</th><td>£45.17</td></tr>
    <tr><th>Tax</th><td>£0.00</td></tr>
    <tr><th>Availability</th><td>In stock (19 available)</td></tr>
    <tr><th>Number of reviews</th><td>0</td></tr>
  </table>
</article>
<div class="row">
  <ol class="row">
    <li><article class="product_pod">
      <p class="star-rating Five"></p>
      <h3><a href="../related_1/index.html">Related</a></h3>
    </article></li>
  </ol>
</div>
</body></html>`

const sparsePage = `<html><body><h1>Just a heading</h1></body></html>`
