package main

import (
	"strings"
	"testing"
)

func TestTree_Summary(t *testing.T) {
	tree := NewTree(8)
	root := NewBoundary(1, "Root", "", "", "Root", adminLevel(2), []int64{2}, nil, nil)
	child := NewBoundary(2, "Child", "", "", "Child", adminLevel(4), nil, nil, nil)
	child.AddSuperArea(1)

	tree.Boundaries[1] = root
	tree.Boundaries[2] = child

	summary := tree.Summary()
	if summary.TotalBoundaries != 2 {
		t.Errorf("expected 2 total boundaries, got %d", summary.TotalBoundaries)
	}
	if summary.RootCount != 1 {
		t.Errorf("expected 1 root, got %d", summary.RootCount)
	}
}

func TestTree_Sprint_RendersParentBeforeChild(t *testing.T) {
	tree := NewTree(8)
	root := NewBoundary(1, "Country", "", "", "Country", adminLevel(2), []int64{2}, nil, nil)
	child := NewBoundary(2, "Province", "", "", "Province", adminLevel(4), nil, nil, nil)
	child.AddSuperArea(1)

	tree.Boundaries[1] = root
	tree.Boundaries[2] = child

	out := tree.Sprint()

	countIdx := strings.Index(out, "Country")
	provinceIdx := strings.Index(out, "Province")
	if countIdx == -1 || provinceIdx == -1 {
		t.Fatalf("expected both names in output, got %q", out)
	}
	if countIdx > provinceIdx {
		t.Errorf("expected Country to print before Province, got %q", out)
	}
}

func TestTree_Sprint_MultipleRoots(t *testing.T) {
	tree := NewTree(8)
	tree.Boundaries[1] = NewBoundary(1, "A", "", "", "A", adminLevel(2), nil, nil, nil)
	tree.Boundaries[2] = NewBoundary(2, "B", "", "", "B", adminLevel(2), nil, nil, nil)

	out := tree.Sprint()
	if !strings.Contains(out, "A(2)") || !strings.Contains(out, "B(2)") {
		t.Errorf("expected both roots rendered with level, got %q", out)
	}
}
