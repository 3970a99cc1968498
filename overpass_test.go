package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJoinIDs(t *testing.T) {
	got := joinIDs([]int64{1, 2, 3})
	if got != "1,2,3" {
		t.Errorf("expected %q, got %q", "1,2,3", got)
	}
}

func TestIntTag_MissingKey(t *testing.T) {
	if got := intTag(map[string]string{}, "admin_level"); got != nil {
		t.Errorf("expected nil for missing tag, got %v", got)
	}
}

func TestIntTag_ParsesValue(t *testing.T) {
	got := intTag(map[string]string{"admin_level": "6"}, "admin_level")
	if got == nil || *got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}

func TestElementToBoundary_SortsMembersByRole(t *testing.T) {
	el := overpassElement{
		ID:   1,
		Tags: map[string]string{"name": "Test", "admin_level": "4"},
		Members: []overpassMember{
			{Type: "relation", Ref: 10, Role: "subarea"},
			{Type: "way", Ref: 20, Role: "outer"},
			{Type: "way", Ref: 30, Role: "inner"},
			{Type: "node", Ref: 40, Role: "label"}, // ignored
		},
	}

	b := elementToBoundary(el)

	if b.Name != "Test" {
		t.Errorf("expected name Test, got %q", b.Name)
	}
	if b.AdminLevel == nil || *b.AdminLevel != 4 {
		t.Errorf("expected admin level 4, got %v", b.AdminLevel)
	}
	if len(b.SubAreaIDs) != 1 || b.SubAreaIDs[0] != 10 {
		t.Errorf("expected sub-area [10], got %v", b.SubAreaIDs)
	}
	if len(b.OuterSegmentIDs) != 1 || b.OuterSegmentIDs[0] != 20 {
		t.Errorf("expected outer [20], got %v", b.OuterSegmentIDs)
	}
	if len(b.InnerSegmentIDs) != 1 || b.InnerSegmentIDs[0] != 30 {
		t.Errorf("expected inner [30], got %v", b.InnerSegmentIDs)
	}
}

func TestRepairFrontier_FindsUnknownSubAreas(t *testing.T) {
	tree := NewTree(8)
	b := NewBoundary(1, "A", "", "", "A", adminLevel(2), []int64{2, 3}, nil, nil)
	tree.Boundaries[1] = b
	tree.Boundaries[2] = NewBoundary(2, "B", "", "", "B", adminLevel(4), nil, nil, nil)
	tree.NonAdmin[3] = true // known, just not administrative

	frontier := repairFrontier(tree)
	if len(frontier) != 0 {
		t.Errorf("expected no gaps (2 is a boundary, 3 is known non-admin), got %v", frontier)
	}

	b.SubAreaIDs = append(b.SubAreaIDs, 999)
	frontier = repairFrontier(tree)
	if len(frontier) != 1 || frontier[0] != 999 {
		t.Errorf("expected gap [999], got %v", frontier)
	}
}

func TestOverpassClient_GetRelations_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(overpassResponse{
			Elements: []overpassElement{{Type: "relation", ID: 42}},
		})
	}))
	defer srv.Close()

	client := NewOverpassClient(OverpassConfig{
		Endpoint:     srv.URL,
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	})

	elements, err := client.GetRelations(context.Background(), []int64{42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 1 || elements[0].ID != 42 {
		t.Errorf("expected one element with id 42, got %v", elements)
	}
}

func TestOverpassClient_GetRelations_EmptyIDsNoOp(t *testing.T) {
	client := NewOverpassClient(OverpassConfig{Timeout: time.Second})
	elements, err := client.GetRelations(context.Background(), nil)
	if err != nil || elements != nil {
		t.Errorf("expected (nil, nil) for empty id list, got (%v, %v)", elements, err)
	}
}

func TestOverpassClient_GetRelations_RetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOverpassClient(OverpassConfig{
		Endpoint:     srv.URL,
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})

	_, err := client.GetRelations(context.Background(), []int64{1})
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts (1 initial + 2 retries), got %d", attempts)
	}
}
