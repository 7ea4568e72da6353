package model

import "testing"

func TestNewResultSet_EmptyIsNotNil(t *testing.T) {
	rs := NewResultSet("nothing-matches", 3, nil, 0)

	if rs.Crates == nil {
		t.Fatal("Expected non-nil crates slice for empty result")
	}
	if !rs.IsEmpty() {
		t.Error("Expected empty result set")
	}
	if rs.Generation != 3 {
		t.Errorf("Expected generation 3, got %d", rs.Generation)
	}
	if rs.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestResultSet_Lookup(t *testing.T) {
	rs := NewResultSet("serde", 1, []Crate{
		{Name: "serde", MaxVersion: "1.0.210"},
		{Name: "serde_json", MaxVersion: "1.0.128"},
	}, 2500)

	if rs.Len() != 2 {
		t.Fatalf("Expected 2 crates, got %d", rs.Len())
	}

	c, ok := rs.At(1)
	if !ok || c.Name != "serde_json" {
		t.Errorf("At(1) = %v, %v", c, ok)
	}
	if _, ok := rs.At(2); ok {
		t.Error("At(2) should be out of range")
	}
	if _, ok := rs.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}

	if c, ok := rs.Find("serde"); !ok || c.MaxVersion != "1.0.210" {
		t.Errorf("Find(serde) = %v, %v", c, ok)
	}
	if _, ok := rs.Find("tokio"); ok {
		t.Error("Find(tokio) should fail")
	}

	names := rs.Names()
	if len(names) != 2 || names[0] != "serde" || names[1] != "serde_json" {
		t.Errorf("Unexpected names: %v", names)
	}

	if !rs.HasMore() {
		t.Error("Expected HasMore when total exceeds returned crates")
	}
}

func TestResultSet_NilSafe(t *testing.T) {
	var rs *ResultSet

	if rs.Len() != 0 || !rs.IsEmpty() || rs.HasMore() {
		t.Error("Nil result set should behave as empty")
	}
	if _, ok := rs.Find("x"); ok {
		t.Error("Find on nil result set should fail")
	}
	if len(rs.Names()) != 0 {
		t.Error("Names on nil result set should be empty")
	}
}

func TestCrate_DisplayDescription(t *testing.T) {
	c := Crate{Description: "  A generic\n serialization\tframework  "}
	if got := c.DisplayDescription(); got != "A generic serialization framework" {
		t.Errorf("DisplayDescription() = %q", got)
	}
}
