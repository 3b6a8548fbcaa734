package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSections(t *testing.T) {
	doc := mustParse(t, `
<div id="PageCntnr">
  <section class="ap"><h3>Sponsored</h3></section>
  <section>
    <h3>Alloy Steel Socket Head Screws</h3>
    <div class="CpyCntnr">Stronger than Grade 8 steel screws.</div>
    <img src="/img/a.png"/>
    <img src="/img/a.png"/>
    <img src="/img/b.png"/>
    <img src=""/>
    <table>
      <thead><tr><td>Lg.</td><td>Each</td></tr></thead>
      <tbody>
        <tr><th>M4</th></tr>
        <tr><td>10mm</td><td>$1.10</td></tr>
      </tbody>
    </table>
  </section>
  <section><h3>Related Hardware</h3></section>
</div>`)

	sections := ProductSections(doc)
	require.Len(t, sections, 2, "ad section is skipped")

	first := sections[0]
	assert.Equal(t, "Alloy Steel Socket Head Screws", first.Title)
	assert.Equal(t, "Stronger than Grade 8 steel screws.", first.Description)
	assert.Equal(t, []string{"/img/a.png", "/img/b.png"}, first.Images, "images deduplicated, empty src dropped")

	require.Len(t, first.Tables, 1)
	require.Len(t, first.Tables[0], 1)
	assert.Equal(t, "M4", first.Tables[0][0][PropertyA])
	assert.Equal(t, "10mm", first.Tables[0][0]["Lg."])

	// a section with no tables still persists a marker row
	second := sections[1]
	require.Len(t, second.Tables, 1)
	require.Len(t, second.Tables[0], 1)
	assert.Contains(t, second.Tables[0][0], "info")
}
