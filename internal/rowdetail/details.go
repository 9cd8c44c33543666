package rowdetail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

// Group represents a display group for detail fields.
type Group int

const (
	// GroupColumn fields come from the grid's declared columns.
	GroupColumn Group = iota
	// GroupExtra fields are present in the row but not declared as columns.
	GroupExtra
)

// DetailField represents a normalized key/value for display.
type DetailField struct {
	Key   string
	Value string
	Group Group
}

const maxDepth = 2

// BuildDetails flattens a grid row into ordered fields for the detail view.
// Declared columns come first in column order; undeclared row keys follow,
// sorted case-insensitively. Nested objects, including JSON held in strings,
// are flattened with dot/bracket keys up to two levels deep.
func BuildDetails(columns []domain.Column, row domain.Row) (string, []DetailField) {
	fields := make([]DetailField, 0, len(row))
	declared := make(map[string]bool, len(columns))

	for _, c := range columns {
		declared[c.Key] = true
		v, ok := row[c.Key]
		if !ok {
			fields = append(fields, DetailField{Key: c.Title(), Group: GroupColumn})
			continue
		}
		fields = appendFlattened(fields, c.Title(), v, GroupColumn)
	}

	extra := make([]string, 0)
	for k := range row {
		if !declared[k] {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		li, lj := strings.ToLower(extra[i]), strings.ToLower(extra[j])
		if li == lj {
			return extra[i] < extra[j]
		}
		return li < lj
	})
	for _, k := range extra {
		fields = appendFlattened(fields, k, row[k], GroupExtra)
	}

	return title(columns, row), fields
}

// title picks a human caption: a name-like field if present, else the first column's value.
func title(columns []domain.Column, row domain.Row) string {
	first := strings.TrimSpace(row.Cell("FirstName"))
	last := strings.TrimSpace(row.Cell("LastName"))
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	for _, key := range []string{"Name", "description", "Description"} {
		if v := strings.TrimSpace(row.Cell(key)); v != "" {
			return v
		}
	}
	if len(columns) > 0 {
		return fmt.Sprintf("%s %s", columns[0].Title(), row.Cell(columns[0].Key))
	}
	return ""
}

func appendFlattened(fields []DetailField, key string, v any, g Group) []DetailField {
	flat := make(map[string]string)
	order := make([]string, 0)
	flattenInto(flat, &order, parseEmbedded(v), key, 0)
	for _, k := range order {
		fields = append(fields, DetailField{Key: k, Value: flat[k], Group: g})
	}
	return fields
}

// parseEmbedded decodes strings that hold a JSON object or array.
func parseEmbedded(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t := strings.TrimSpace(s)
	if !(strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}")) && !(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) {
		return v
	}
	var parsed any
	dec := json.NewDecoder(strings.NewReader(t))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return v
	}
	return parsed
}

// flattenInto flattens v into out with keys composed from prefix using dot/bracket notation.
// Past maxDepth compound values are kept as compact JSON.
func flattenInto(out map[string]string, order *[]string, v any, prefix string, depth int) {
	put := func(val string) {
		if _, seen := out[prefix]; !seen {
			*order = append(*order, prefix)
		}
		out[prefix] = val
	}
	if v == nil {
		put("")
		return
	}
	switch vv := v.(type) {
	case map[string]any:
		if len(vv) == 0 {
			put("{}")
			return
		}
		if depth >= maxDepth {
			put(jsonCompact(vv))
			return
		}
		ks := make([]string, 0, len(vv))
		for k := range vv {
			ks = append(ks, k)
		}
		sort.Strings(ks)
		for _, k := range ks {
			flattenInto(out, order, vv[k], prefix+"."+k, depth+1)
		}
	case []any:
		if len(vv) == 0 {
			put("[]")
			return
		}
		if depth >= maxDepth {
			put(jsonCompact(vv))
			return
		}
		for i, elem := range vv {
			flattenInto(out, order, elem, fmt.Sprintf("%s[%d]", prefix, i), depth+1)
		}
	case string:
		put(vv)
	case json.Number:
		put(vv.String())
	case bool:
		if vv {
			put("true")
		} else {
			put("false")
		}
	default:
		put(fmt.Sprint(vv))
	}
}

// jsonCompact returns a compact JSON representation of v, or fmt.Sprint on failure.
func jsonCompact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// AsJSON renders the row as indented JSON with keys in column order first.
func AsJSON(columns []domain.Column, row domain.Row) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")
	keys := make([]string, 0, len(row))
	seen := make(map[string]bool, len(row))
	for _, c := range columns {
		if _, ok := row[c.Key]; ok && !seen[c.Key] {
			keys = append(keys, c.Key)
			seen[c.Key] = true
		}
	}
	rest := make([]string, 0)
	for k := range row {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	for i, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return "", fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		vb, err := json.Marshal(row[k])
		if err != nil {
			return "", fmt.Errorf("failed to encode %q: %w", k, err)
		}
		fmt.Fprintf(&b, "  %s: %s", kb, vb)
		if i < len(keys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String(), nil
}
