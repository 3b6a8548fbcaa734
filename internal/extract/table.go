// Package extract turns page-HTML snapshots into structured records. All
// functions operate on parsed documents, so the package stays independent of
// whichever browser produced the snapshot.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

const (
	// PropertyA carries the row-group dimension taken from the first table
	// row, typically a part-size designator.
	PropertyA = "Property A"
	// PropertyB carries the sticky sub-group label, held until a row
	// introduces a new one.
	PropertyB = "Property B"

	serialColumn = "serial_nu"
)

// Parse wraps goquery parsing of a page snapshot.
func Parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func cellText(s *goquery.Selection) string {
	return strings.ReplaceAll(strings.TrimSpace(s.Text()), "\n", "_")
}

// TableRows parses one <table> selection into one Row per <tr> carrying data
// cells. The first row's <th> names the dimension (Property A); any later
// row <th> that differs from it becomes the sticky Property B label. Column
// headers come from <thead> cells with a synthetic serial_nu column inserted
// second-to-last; cells beyond the header list are dropped.
func TableRows(table *goquery.Selection) []model.Row {
	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		return nil
	}

	dimension := ""
	if th := rows.First().Find("th").First(); th.Length() > 0 {
		dimension = cellText(th)
	} else {
		dimension = cellText(rows.First())
	}

	var headers []string
	table.Find("thead td").Each(func(_ int, td *goquery.Selection) {
		if txt := cellText(td); txt != "" {
			headers = append(headers, txt)
		}
	})
	headers = insertSecondToLast(headers, serialColumn)

	var out []model.Row
	currentB := ""
	rows.Each(func(_ int, tr *goquery.Selection) {
		if th := tr.Find("th").First(); th.Length() > 0 {
			if txt := cellText(th); txt != "" && txt != dimension {
				currentB = txt
			}
		}

		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		row := model.Row{
			PropertyA: dimension,
			PropertyB: currentB,
		}
		cells.Each(func(i int, td *goquery.Selection) {
			if i < len(headers) {
				row[headers[i]] = cellText(td)
			}
		})
		out = append(out, row)
	})
	return out
}

// Tables extracts every table under the selection, in document order.
func Tables(sel *goquery.Selection) [][]model.Row {
	var tables [][]model.Row
	sel.Find("table").Each(func(_ int, t *goquery.Selection) {
		tables = append(tables, TableRows(t))
	})
	return tables
}

func insertSecondToLast(headers []string, name string) []string {
	if len(headers) == 0 {
		return []string{name}
	}
	out := make([]string, 0, len(headers)+1)
	out = append(out, headers[:len(headers)-1]...)
	out = append(out, name, headers[len(headers)-1])
	return out
}
