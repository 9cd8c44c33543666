package domain

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRowCell(t *testing.T) {
	var row Row
	dec := json.NewDecoder(bytes.NewBufferString(`{
		"id": 29485,
		"total": 1234.5600,
		"name": "Abel",
		"vip": true,
		"tags": ["a","b"],
		"missing": null
	}`))
	dec.UseNumber()
	if err := dec.Decode(&row); err != nil {
		t.Fatalf("decode: %v", err)
	}

	tests := map[string]string{
		"id":      "29485",
		"total":   "1234.5600",
		"name":    "Abel",
		"vip":     "true",
		"tags":    `["a","b"]`,
		"missing": "",
		"absent":  "",
	}
	for key, want := range tests {
		if got := row.Cell(key); got != want {
			t.Errorf("Cell(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestColumnTitle(t *testing.T) {
	if got := (Column{Key: "CustomerID"}).Title(); got != "CustomerID" {
		t.Errorf("Title fallback = %q", got)
	}
	if got := (Column{Key: "k", Name: "Name"}).Title(); got != "Name" {
		t.Errorf("Title = %q", got)
	}
}

func TestGridData(t *testing.T) {
	var g GridData
	if !g.Empty() {
		t.Error("zero grid must be empty")
	}
	g = GridData{Columns: []Column{{Key: "a"}, {Key: "b", Name: "Bee"}}}
	if g.Empty() {
		t.Error("grid with columns is not empty")
	}
	h := g.Headers()
	if len(h) != 2 || h[0] != "a" || h[1] != "Bee" {
		t.Errorf("Headers() = %v", h)
	}
}

func TestDatasets(t *testing.T) {
	counts := RecordCounts{Customers: 1, TopCustomers: 2, Products: 3, TopProducts: 4, OrderDetails: 5}
	paths := map[string]bool{}
	for i, ds := range AllDatasets {
		if ds.Count(counts) != i+1 {
			t.Errorf("%s count = %d, want %d", ds.ID(), ds.Count(counts), i+1)
		}
		parsed, err := ParseDataset(ds.ID())
		if err != nil || parsed != ds {
			t.Errorf("ParseDataset(%q) = %v, %v", ds.ID(), parsed, err)
		}
		paths[ds.Path()] = true
	}
	if len(paths) != 5 {
		t.Errorf("expected five distinct paths, got %v", paths)
	}
	if ds, err := ParseDataset("topProducts"); err != nil || ds != DatasetTopProducts {
		t.Errorf("alias topProducts = %v, %v", ds, err)
	}
	if _, err := ParseDataset("invoices"); err == nil {
		t.Error("expected error for unknown dataset")
	}
}

func TestMapRole(t *testing.T) {
	tests := map[string]Role{
		"user":      RoleUser,
		"assistant": RoleAssistant,
		"image":     RoleImage,
		"IMAGE":     RoleImage,
		"tool":      RoleAssistant,
		"":          RoleAssistant,
	}
	for in, want := range tests {
		if got := MapRole(in); got != want {
			t.Errorf("MapRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReplyHasTable(t *testing.T) {
	var withoutRows, withEmpty Reply
	if err := json.Unmarshal([]byte(`{"role":"assistant","content":"hi"}`), &withoutRows); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"role":"assistant","content":null,"columns":[],"rows":[]}`), &withEmpty); err != nil {
		t.Fatal(err)
	}
	if withoutRows.HasTable() {
		t.Error("reply without rows must not carry a table")
	}
	if !withEmpty.HasTable() {
		t.Error("reply with empty rows carries an empty table")
	}
	if withEmpty.Content != nil {
		t.Error("null content must stay nil")
	}
}
