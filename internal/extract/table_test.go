package extract

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specTable = `
<table>
  <thead>
    <tr><td>Thread Size</td><td>Length</td><td></td><td>Each</td></tr>
  </thead>
  <tbody>
    <tr><th>2-56</th></tr>
    <tr><th>Black-Oxide Alloy Steel</th></tr>
    <tr><td>1/4"</td><td>91251A077</td><td>$5.50</td></tr>
    <tr><td>1/2"</td><td>91251A079</td><td>$6.20</td></tr>
    <tr><th>Zinc-Plated Steel</th></tr>
    <tr><td>3/4"</td><td>90128A210</td><td>$4.75</td></tr>
  </tbody>
</table>`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := Parse(html)
	require.NoError(t, err)
	return doc
}

func TestTableRowsOneRowPerDataTR(t *testing.T) {
	doc := mustParse(t, specTable)
	rows := TableRows(doc.Find("table"))

	// header-only rows carry no <td> and must not produce records
	require.Len(t, rows, 3)
}

func TestTableRowsDimensionFromFirstRow(t *testing.T) {
	doc := mustParse(t, specTable)
	rows := TableRows(doc.Find("table"))

	for _, row := range rows {
		assert.Equal(t, "2-56", row[PropertyA])
	}
}

func TestTableRowsStickySubGroupLabel(t *testing.T) {
	doc := mustParse(t, specTable)
	rows := TableRows(doc.Find("table"))

	require.Len(t, rows, 3)
	// the label from the second header row carries across both label-less rows
	assert.Equal(t, "Black-Oxide Alloy Steel", rows[0][PropertyB])
	assert.Equal(t, "Black-Oxide Alloy Steel", rows[1][PropertyB])
	// and is replaced once a new label row appears
	assert.Equal(t, "Zinc-Plated Steel", rows[2][PropertyB])
}

func TestTableRowsHeaderReconciliation(t *testing.T) {
	doc := mustParse(t, specTable)
	rows := TableRows(doc.Find("table"))

	require.Len(t, rows, 3)
	// empty thead cells are dropped, serial_nu sits second-to-last:
	// [Thread Size, Length, serial_nu, Each]
	assert.Equal(t, `1/4"`, rows[0]["Thread Size"])
	assert.Equal(t, "91251A077", rows[0]["Length"])
	assert.Equal(t, "$5.50", rows[0]["serial_nu"])
	_, hasEach := rows[0]["Each"]
	assert.False(t, hasEach, "row has fewer cells than headers")
}

func TestTableRowsNoTheadYieldsSyntheticHeaderOnly(t *testing.T) {
	doc := mustParse(t, `
<table><tbody>
  <tr><th>M3</th></tr>
  <tr><td>first</td><td>second</td></tr>
</tbody></table>`)
	rows := TableRows(doc.Find("table"))

	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0]["serial_nu"])
	assert.Len(t, rows[0], 3) // Property A, Property B, serial_nu
}

func TestTableRowsDimensionFallbackWithoutTH(t *testing.T) {
	doc := mustParse(t, `
<table><tbody>
  <tr><td>Alloy
Steel</td></tr>
</tbody></table>`)
	rows := TableRows(doc.Find("table"))

	require.Len(t, rows, 1)
	assert.Equal(t, "Alloy_Steel", rows[0][PropertyA])
}

func TestTableRowsNoTbody(t *testing.T) {
	doc := mustParse(t, `<table><thead><tr><td>A</td></tr></thead></table>`)
	assert.Nil(t, TableRows(doc.Find("table")))
}

func TestInsertSecondToLast(t *testing.T) {
	assert.Equal(t, []string{"serial_nu"}, insertSecondToLast(nil, "serial_nu"))
	assert.Equal(t, []string{"serial_nu", "A"}, insertSecondToLast([]string{"A"}, "serial_nu"))
	assert.Equal(t, []string{"A", "B", "serial_nu", "C"}, insertSecondToLast([]string{"A", "B", "C"}, "serial_nu"))
}
