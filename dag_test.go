package main

import "testing"

func TestBuildDAG_PropagatesParentLinks(t *testing.T) {
	tree := NewTree(8)
	country := NewBoundary(1, "Country", "", "", "Country", adminLevel(2), []int64{2}, nil, nil)
	province := NewBoundary(2, "Province", "", "", "Province", adminLevel(4), []int64{3}, nil, nil)
	city := NewBoundary(3, "City", "", "", "City", adminLevel(6), nil, nil, nil)

	tree.Boundaries[1] = country
	tree.Boundaries[2] = province
	tree.Boundaries[3] = city

	BuildDAG(tree)

	if !containsID(province.SuperAreaIDs, 1) {
		t.Errorf("expected province to list country as parent, got %v", province.SuperAreaIDs)
	}
	if !containsID(city.SuperAreaIDs, 2) {
		t.Errorf("expected city to list province as parent, got %v", city.SuperAreaIDs)
	}
	if city.RootID != 1 {
		t.Errorf("expected city's resolved root to be the top-level country, got %d", city.RootID)
	}
}

func TestBuildDAG_RootTieBreakPrefersLowerAdminLevel(t *testing.T) {
	tree := NewTree(8)
	// two parents claim the same child; the lower admin_level wins as root
	low := NewBoundary(1, "Low", "", "", "Low", adminLevel(2), []int64{3}, nil, nil)
	high := NewBoundary(2, "High", "", "", "High", adminLevel(4), []int64{3}, nil, nil)
	child := NewBoundary(3, "Child", "", "", "Child", adminLevel(6), nil, nil, nil)

	tree.Boundaries[1] = low
	tree.Boundaries[2] = high
	tree.Boundaries[3] = child

	BuildDAG(tree)

	if child.RootID != 1 {
		t.Errorf("expected lower admin_level parent (1) to win root tie-break, got %d", child.RootID)
	}
}

func TestBuildDAG_DanglingSubAreaIgnored(t *testing.T) {
	tree := NewTree(8)
	b := NewBoundary(1, "A", "", "", "A", adminLevel(2), []int64{999}, nil, nil)
	tree.Boundaries[1] = b

	BuildDAG(tree) // must not panic on a sub-area reference with no boundary

	if !b.IsRoot() {
		t.Error("expected the only boundary in the tree to remain a root")
	}
}

func TestFilterByAdminLevel_PrunesAboveMax(t *testing.T) {
	tree := NewTree(8)
	keep := NewBoundary(1, "Keep", "", "", "Keep", adminLevel(4), nil, nil, nil)
	drop := NewBoundary(2, "Drop", "", "", "Drop", adminLevel(10), nil, nil, nil)
	noLevel := NewBoundary(3, "NoLevel", "", "", "NoLevel", nil, nil, nil, nil)

	tree.Boundaries[1] = keep
	tree.Boundaries[2] = drop
	tree.Boundaries[3] = noLevel

	FilterByAdminLevel(tree, 8)

	if _, ok := tree.Boundaries[1]; !ok {
		t.Error("expected boundary within the level limit to survive")
	}
	if _, ok := tree.Boundaries[2]; ok {
		t.Error("expected boundary above the level limit to be pruned")
	}
	if _, ok := tree.Boundaries[3]; ok {
		t.Error("expected boundary with no admin_level to be pruned")
	}
	if !tree.Pruned[2] || !tree.Pruned[3] {
		t.Error("expected pruned boundaries to be recorded in Tree.Pruned")
	}
}

func TestFilterByRoot_KeepsOnlyMatchingForest(t *testing.T) {
	tree := NewTree(8)
	a := NewBoundary(1, "A", "", "", "A", adminLevel(2), nil, nil, nil)
	b := NewBoundary(2, "B", "", "", "B", adminLevel(2), nil, nil, nil)
	a.RootID = 1
	b.RootID = 2

	tree.Boundaries[1] = a
	tree.Boundaries[2] = b

	FilterByRoot(tree, 1)

	if _, ok := tree.Boundaries[1]; !ok {
		t.Error("expected boundary rooted at 1 to survive")
	}
	if _, ok := tree.Boundaries[2]; ok {
		t.Error("expected boundary rooted at 2 to be removed")
	}
}
