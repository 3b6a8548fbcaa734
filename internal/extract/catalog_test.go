package extract

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homePage = `
<div id="HomePageContent">
  <div class="catg">
    <h1>Fastening and Joining</h1>
    <div class="subcat">
      <h2>Fasteners</h2>
      <ul>
        <li><a href="/products/screws-and-bolts/">Screws and Bolts</a></li>
        <li><a href="/products/nuts/">Nuts</a></li>
        <li>Washers</li>
      </ul>
    </div>
  </div>
  <div class="catg"><h1></h1></div>
  <div class="catg">
    <h1>Pipe, Tubing and Fittings</h1>
    <div class="subcat">
      <h2>Pipe Fittings</h2>
      <ul><li><a href="https://www.example.com/products/pipe/">Pipe</a></li></ul>
    </div>
  </div>
</div>`

func testBase(t *testing.T) *url.URL {
	t.Helper()
	base, err := url.Parse("https://www.example.com/")
	require.NoError(t, err)
	return base
}

func TestCategories(t *testing.T) {
	cats := Categories(mustParse(t, homePage), testBase(t))

	require.Len(t, cats, 2, "empty-heading category is skipped")
	assert.Equal(t, "Fastening and Joining", cats[0].Name)
	require.Len(t, cats[0].Subcategories, 1)

	sub := cats[0].Subcategories[0]
	assert.Equal(t, "Fasteners", sub.Name)
	require.Len(t, sub.Items, 2, "item without a link is skipped")
	assert.Equal(t, "Screws and Bolts", sub.Items[0].Name)
	assert.Equal(t, "https://www.example.com/products/screws-and-bolts/", sub.Items[0].Link)

	assert.Equal(t, "Pipe, Tubing and Fittings", cats[1].Name)
	assert.Equal(t, "https://www.example.com/products/pipe/", cats[1].Subcategories[0].Items[0].Link)
}

func TestTypeLinks(t *testing.T) {
	doc := mustParse(t, `
<div class="GroupPrsnttn">
  <h3>Socket Head Screws</h3>
  <a href="/products/92196/">
    <span class="ke">Alloy Steel Socket Head Screws</span>
    <img src="/img/92196.png"/>
    <div class="PrsnttnCpy">The hardest screws we carry.</div>
  </a>
  <a href="/products/92185/"><span class="ke">Stainless Socket Head Screws</span></a>
</div>`)

	links := TypeLinks(doc, testBase(t))
	require.Len(t, links, 2)

	assert.Equal(t, "Socket Head Screws", links[0].GroupName)
	assert.Equal(t, "Alloy Steel Socket Head Screws", links[0].Title)
	assert.Equal(t, "https://www.example.com/products/92196/", links[0].Link)
	assert.Equal(t, "/img/92196.png", links[0].Image)
	assert.Equal(t, "The hardest screws we carry.", links[0].Description)

	assert.Equal(t, "Stainless Socket Head Screws", links[1].Title)
	assert.Empty(t, links[1].Image)
}

func TestSubcatTiles(t *testing.T) {
	doc := mustParse(t, `
<div id="ClientRenderedContentWebPart">
  <a href="/products/hex-nuts/">
    <div class="TileLayout_imageContainer__x1"><img src="/img/hex.png"/></div>
    <div class="TileLayout_titleContainer__x1">Hex Nuts</div>
    <div class="TileLayout_copyContainer__x1">The most common nuts.</div>
    <div class="ProductCount_productCount__y2">1,204 products</div>
  </a>
  <a href="/products/untitled/"></a>
</div>`)

	tiles := SubcatTiles(doc, testBase(t))
	require.Len(t, tiles, 1, "tile without a title is skipped")

	assert.Equal(t, "Hex Nuts", tiles[0].Title)
	assert.Equal(t, "https://www.example.com/products/hex-nuts/", tiles[0].Link)
	assert.Equal(t, "/img/hex.png", tiles[0].Image)
	assert.Equal(t, "The most common nuts.", tiles[0].Description)
	assert.Equal(t, "1,204 products", tiles[0].ProductCount)
}
