package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

// nullValue fills columns a row has no value for in the flat dump.
const nullValue = "NULL"

// magentoColumns is the fixed header of the catalog-import format. Order
// matters to the importer.
var magentoColumns = []string{
	"sku", "store_view_code", "attribute_set_code", "product_type", "categories",
	"product_websites", "name", "description", "short_description", "weight",
	"product_online", "tax_class_name", "visibility", "price", "special_price",
	"special_price_from_date", "special_price_to_date", "url_key", "meta_title",
	"meta_keywords", "meta_description", "created_at", "updated_at", "new_from_date",
	"new_to_date", "display_product_options_in", "map_price", "msrp_price",
	"map_enabled", "gift_message_available", "custom_design", "custom_design_from",
	"custom_design_to", "custom_layout_update", "page_layout", "product_options_container",
	"msrp_display_actual_price_type", "country_of_manufacture", "additional_attributes",
	"qty", "out_of_stock_qty", "use_config_min_qty", "is_qty_decimal", "allow_backorders",
	"use_config_backorders", "min_cart_qty", "use_config_min_sale_qty", "max_cart_qty",
	"use_config_max_sale_qty", "is_in_stock", "notify_on_stock_below", "use_config_notify_stock_qty",
	"manage_stock", "use_config_manage_stock", "use_config_qty_increments", "qty_increments",
	"use_config_enable_qty_inc", "enable_qty_increments", "is_decimal_divided", "website_id",
	"deferred_stock_update", "use_config_deferred_stock_update", "related_skus", "crosssell_skus",
	"upsell_skus", "hide_from_product_page", "custom_options", "bundle_price_type",
	"bundle_sku_type", "bundle_price_view", "bundle_weight_type", "bundle_values", "associated_skus",
}

// fieldMappings routes flattened record fields onto import columns. Order
// matters: when several source fields target the same column, the last one
// present wins. Fields targeting additional_attributes are not lifted into
// a column; they stay in the folded attribute list.
var fieldMappings = []struct {
	source string
	column string
}{
	{"_id", "sku"},
	{"_id_$oid", "sku"},
	{"title", "name"},
	{"description", "description"},
	{"category", "categories"},
	{"subcategory", "categories"},
	{"data_Each", "qty"},
	{"data_Pkg._Qty.", "qty"},
	{"link", "url_key"},
	{"timestamp", "created_at"},
	{"data_Dia.,_mm", "weight"},
	{"data_Ht.,_mm", "weight"},
	{"data_Lg.,_mm", "weight"},
}

// ReadRecords decodes a JSON export. A single top-level object is treated
// as a one-record array.
func ReadRecords(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	switch v := raw.(type) {
	case []any:
		records := make([]Record, 0, len(v))
		for i, item := range v {
			rec, ok := item.(Record)
			if !ok {
				return nil, fmt.Errorf("record %d is not an object", i)
			}
			records = append(records, rec)
		}
		return records, nil
	case Record:
		return []Record{v}, nil
	default:
		return nil, fmt.Errorf("unexpected top-level JSON value %T", raw)
	}
}

// RecordsFromProducts converts stored products into the same decoded form
// a JSON export produces, so both sources flow through one pipeline.
func RecordsFromProducts(products []*model.Product) ([]Record, error) {
	enc, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	return ReadRecords(strings.NewReader(string(enc)))
}

// WriteFlatCSV writes one row per table row with a column for every field
// observed anywhere in the input, sorted by name. Missing cells are filled
// with NULL.
func WriteFlatCSV(w io.Writer, records []Record) error {
	var rows []map[string]any
	fields := map[string]struct{}{}
	for _, rec := range records {
		for _, row := range expandRows(rec) {
			rows = append(rows, row)
			for k := range row {
				fields[k] = struct{}{}
			}
		}
	}
	header := sortedKeys(fields)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	line := make([]string, len(header))
	for _, row := range rows {
		for i, field := range header {
			v, ok := row[field]
			if !ok {
				line[i] = nullValue
				continue
			}
			line[i] = cellValue(v)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMagentoCSV writes the fixed-column import format. Mapped fields land
// in their columns; everything else folds into additional_attributes as
// comma-separated k=v pairs, sorted by key.
func WriteMagentoCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(magentoColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	colIndex := make(map[string]int, len(magentoColumns))
	for i, c := range magentoColumns {
		colIndex[c] = i
	}

	for _, rec := range records {
		for _, row := range expandRows(rec) {
			line := make([]string, len(magentoColumns))

			mapped := map[string]struct{}{}
			for _, fm := range fieldMappings {
				v, ok := row[fm.source]
				if !ok {
					continue
				}
				line[colIndex[fm.column]] = cellValue(v)
				mapped[fm.source] = struct{}{}
			}

			line[colIndex["additional_attributes"]] = foldAttributes(row, mapped)
			if err := cw.Write(line); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// foldAttributes formats every unmapped non-nil field as k=v, joined with
// ", " in key order.
func foldAttributes(row map[string]any, mapped map[string]struct{}) string {
	keys := map[string]struct{}{}
	for k, v := range row {
		if _, ok := mapped[k]; ok {
			continue
		}
		if v == nil {
			continue
		}
		keys[k] = struct{}{}
	}

	pairs := make([]string, 0, len(keys))
	for _, k := range sortedKeys(keys) {
		pairs = append(pairs, k+"="+cellValue(row[k]))
	}
	return strings.Join(pairs, ", ")
}
