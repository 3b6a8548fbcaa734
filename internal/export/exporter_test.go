package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {
    "_id": "abc123",
    "category": "Fastening and Joining",
    "title": "Steel Hex Nuts",
    "link": "https://www.example.com/nuts/",
    "timestamp": "2025-03-01 10:00:00 AM IST",
    "images": ["/img/a.png", "/img/b.png"],
    "data": [
      [
        {"Property A": "M4", "Property B": "", "Lg.": "10mm", "serial_nu": "91290A115", "Each": "1"},
        {"Property A": "M4", "Property B": "Coarse", "Lg.": "12mm", "serial_nu": "91290A117", "Pkg._Qty.": "50", "Each": "1"}
      ]
    ]
  },
  {
    "_id": "def456",
    "category": "Fastening and Joining",
    "title": "No Table Product",
    "link": "https://www.example.com/flat/",
    "images": [],
    "data": []
  }
]`

func decodeSample(t *testing.T) []Record {
	t.Helper()
	records, err := ReadRecords(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, records, 2)
	return records
}

func TestReadRecordsWrapsSingleObject(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(`{"title": "solo"}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "solo", records[0]["title"])
}

func TestReadRecordsRejectsScalars(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(`42`))
	assert.Error(t, err)
}

func TestFlattenNestedAndArrays(t *testing.T) {
	flat := flatten(map[string]any{
		"_id":    map[string]any{"$oid": "abc"},
		"images": []any{"/a.png"},
		"empty":  []any{},
		"title":  "x",
	}, "", "_")

	assert.Equal(t, "abc", flat["_id_$oid"])
	assert.Equal(t, `["/a.png"]`, flat["images"])
	assert.Nil(t, flat["empty"])
	assert.Equal(t, "x", flat["title"])
}

func TestExpandRowsOneRowPerTableRow(t *testing.T) {
	records := decodeSample(t)

	rows := expandRows(records[0])
	require.Len(t, rows, 2)
	assert.Equal(t, "Steel Hex Nuts", rows[0]["title"])
	assert.Equal(t, "10mm", rows[0]["data_Lg."])
	assert.Equal(t, "Coarse", rows[1]["data_Property B"])

	// a record with no table rows still yields one output row
	rows = expandRows(records[1])
	require.Len(t, rows, 1)
	assert.Equal(t, "No Table Product", rows[0]["title"])
}

func TestWriteFlatCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFlatCSV(&buf, decodeSample(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 table rows + 1 flat record

	header := rows[0]
	assert.IsIncreasing(t, header)
	assert.Contains(t, header, "data_serial_nu")
	assert.Contains(t, header, "title")

	byField := func(row []string) map[string]string {
		m := make(map[string]string, len(header))
		for i, h := range header {
			m[h] = row[i]
		}
		return m
	}

	first := byField(rows[1])
	assert.Equal(t, "91290A115", first["data_serial_nu"])
	assert.Equal(t, `["/img/a.png","/img/b.png"]`, first["images"])
	// missing in this row, present in the next
	assert.Equal(t, "NULL", first["data_Pkg._Qty."])
	assert.Equal(t, "50", byField(rows[2])["data_Pkg._Qty."])

	flatOnly := byField(rows[3])
	assert.Equal(t, "No Table Product", flatOnly["title"])
	assert.Equal(t, "NULL", flatOnly["data_serial_nu"])
	assert.Equal(t, "NULL", flatOnly["timestamp"])
}

func TestWriteMagentoCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMagentoCSV(&buf, decodeSample(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, magentoColumns, rows[0])

	byCol := func(row []string) map[string]string {
		m := make(map[string]string, len(row))
		for i, c := range magentoColumns {
			m[c] = row[i]
		}
		return m
	}

	first := byCol(rows[1])
	assert.Equal(t, "abc123", first["sku"])
	assert.Equal(t, "Steel Hex Nuts", first["name"])
	assert.Equal(t, "Fastening and Joining", first["categories"])
	assert.Equal(t, "https://www.example.com/nuts/", first["url_key"])
	assert.Equal(t, "1", first["qty"])
	// unmapped fields fold into the attribute list, sorted by key
	assert.Equal(t,
		`data_Lg.=10mm, data_Property A=M4, data_Property B=, data_serial_nu=91290A115, images=["/img/a.png","/img/b.png"]`,
		first["additional_attributes"])

	// Pkg. Qty. outranks Each for the qty column; both stay out of the
	// attribute list once routed
	second := byCol(rows[2])
	assert.Equal(t, "50", second["qty"])
	assert.NotContains(t, second["additional_attributes"], "data_Pkg._Qty.")
	assert.NotContains(t, second["additional_attributes"], "data_Each")
}
