package rowdetail

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

func cols(keys ...string) []domain.Column {
	out := make([]domain.Column, len(keys))
	for i, k := range keys {
		out[i] = domain.Column{Key: k, Name: k, Resizable: true}
	}
	return out
}

func keysOf(fields []DetailField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Key
	}
	return out
}

func TestBuildDetails_ColumnOrder(t *testing.T) {
	row := domain.Row{
		"CustomerID": json.Number("29485"),
		"LastName":   "Abel",
		"FirstName":  "Catherine",
		"zeta":       "extra",
		"Alpha":      "extra too",
	}
	title, fields := BuildDetails(cols("CustomerID", "LastName", "FirstName"), row)

	if title != "Catherine Abel" {
		t.Errorf("title = %q", title)
	}
	got := strings.Join(keysOf(fields), ",")
	if got != "CustomerID,LastName,FirstName,Alpha,zeta" {
		t.Errorf("keys = %s", got)
	}
	if fields[0].Value != "29485" || fields[0].Group != GroupColumn {
		t.Errorf("first field = %+v", fields[0])
	}
	if fields[3].Group != GroupExtra {
		t.Errorf("undeclared key grouped as %v", fields[3].Group)
	}
}

func TestBuildDetails_FlattensNested(t *testing.T) {
	row := domain.Row{
		"Id":   "1",
		"Meta": map[string]any{"a": true, "nest": map[string]any{"x": json.Number("2"), "deep": map[string]any{"z": 1}}},
		"Tags": `["red", "blue"]`,
	}
	_, fields := BuildDetails(cols("Id", "Meta", "Tags"), row)

	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value
	}
	want := map[string]string{
		"Meta.a":         "true",
		"Meta.nest.x":    "2",
		"Meta.nest.deep": `{"z":1}`,
		"Tags[0]":        "red",
		"Tags[1]":        "blue",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestBuildDetails_MissingAndNull(t *testing.T) {
	row := domain.Row{"Name": "Water Bottle", "Price": nil}
	title, fields := BuildDetails(cols("Name", "Price", "Color"), row)
	if title != "Water Bottle" {
		t.Errorf("title = %q", title)
	}
	if len(fields) != 3 || fields[1].Value != "" || fields[2].Key != "Color" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestBuildDetails_InvalidEmbeddedJSONKeptRaw(t *testing.T) {
	_, fields := BuildDetails(cols("Note"), domain.Row{"Note": "{not json}"})
	if len(fields) != 1 || fields[0].Value != "{not json}" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestAsJSON(t *testing.T) {
	row := domain.Row{"b": json.Number("2"), "a": "x", "extra": true}
	out, err := AsJSON(cols("b", "a"), row)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"b\": 2,\n  \"a\": \"x\",\n  \"extra\": true\n}"
	if out != want {
		t.Errorf("AsJSON =\n%s\nwant\n%s", out, want)
	}
	var back map[string]any
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Errorf("output is not valid JSON: %v", err)
	}
}
