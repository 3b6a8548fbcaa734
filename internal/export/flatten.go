// Package export converts scraped product records into CSV files: a flat
// dump with one column per observed field, and the fixed-column import
// format the downstream catalog expects.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Record is one product document in its raw decoded form.
type Record = map[string]any

// flatten collapses nested objects into a single level, joining key segments
// with sep. Non-empty arrays are serialized to JSON strings; empty arrays
// become nil so the writer can treat them as missing.
func flatten(m map[string]any, parent, sep string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := k
		if parent != "" {
			key = parent + sep + k
		}
		switch val := v.(type) {
		case map[string]any:
			for nk, nv := range flatten(val, key, sep) {
				out[nk] = nv
			}
		case []any:
			if len(val) == 0 {
				out[key] = nil
				continue
			}
			enc, err := json.Marshal(val)
			if err != nil {
				out[key] = fmt.Sprint(val)
				continue
			}
			out[key] = string(enc)
		default:
			out[key] = v
		}
	}
	return out
}

// expandRows turns one product record into one flat row per table row. The
// nested "data" field holds tables of row maps; each row map is flattened
// and merged onto the record's top-level fields under a data_ prefix. A
// record without table rows yields a single row.
func expandRows(rec Record) []map[string]any {
	main := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != "data" {
			main[k] = v
		}
	}
	base := flatten(main, "", "_")

	tables, ok := rec["data"].([]any)
	if !ok {
		return []map[string]any{base}
	}

	var rows []map[string]any
	for _, t := range tables {
		table, ok := t.([]any)
		if !ok {
			continue
		}
		for _, r := range table {
			rowMap, ok := r.(map[string]any)
			if !ok {
				continue
			}
			row := make(map[string]any, len(base)+len(rowMap))
			for k, v := range base {
				row[k] = v
			}
			for k, v := range flatten(rowMap, "", "_") {
				row["data_"+k] = v
			}
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return []map[string]any{base}
	}
	return rows
}

// cellValue renders a decoded JSON value for a CSV cell.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case json.Number:
		return val.String()
	case map[string]any, []any:
		enc, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(enc)
	default:
		return fmt.Sprint(val)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
