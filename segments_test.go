package main

import "testing"

func TestResolveSegmentRoleOverlap_MovesSharedWayToOuterOnly(t *testing.T) {
	tree := NewTree(8)
	b := NewBoundary(1, "B", "", "", "B", nil, nil, []int64{100, 200}, []int64{200, 300})
	tree.Boundaries[1] = b

	ResolveSegmentRoleOverlap(tree)

	if containsID(b.InnerSegmentIDs, 200) {
		t.Errorf("expected way 200 removed from inner list, got %v", b.InnerSegmentIDs)
	}
	if !containsID(b.InnerSegmentIDs, 300) {
		t.Errorf("expected way 300 to remain inner, got %v", b.InnerSegmentIDs)
	}
	if !containsID(b.OuterSegmentIDs, 200) {
		t.Errorf("expected way 200 to remain outer, got %v", b.OuterSegmentIDs)
	}
	if len(tree.Diagnostics.Warnings) != 1 {
		t.Errorf("expected one diagnostic for the overlap, got %d", len(tree.Diagnostics.Warnings))
	}
}

func TestResolveSegmentRoleOverlap_NoOverlapIsNoOp(t *testing.T) {
	tree := NewTree(8)
	b := NewBoundary(1, "B", "", "", "B", nil, nil, []int64{100}, []int64{200})
	tree.Boundaries[1] = b

	ResolveSegmentRoleOverlap(tree)

	if len(b.InnerSegmentIDs) != 1 || b.InnerSegmentIDs[0] != 200 {
		t.Errorf("expected inner list untouched, got %v", b.InnerSegmentIDs)
	}
	if len(tree.Diagnostics.Warnings) != 0 {
		t.Errorf("expected no diagnostics, got %v", tree.Diagnostics.Warnings)
	}
}

func TestNeededSegmentIDs_UnionsOuterAndInner(t *testing.T) {
	tree := NewTree(8)
	a := NewBoundary(1, "A", "", "", "A", nil, nil, []int64{100, 101}, []int64{102})
	b := NewBoundary(2, "B", "", "", "B", nil, nil, []int64{101}, []int64{103})
	tree.Boundaries[1] = a
	tree.Boundaries[2] = b

	needed := NeededSegmentIDs(tree)

	for _, id := range []int64{100, 101, 102, 103} {
		if !needed[id] {
			t.Errorf("expected way %d to be needed", id)
		}
	}
	if len(needed) != 4 {
		t.Errorf("expected 4 distinct needed ids, got %d", len(needed))
	}
}
