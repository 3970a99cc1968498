package main

import (
	"github.com/paulmach/orb"
)

// Boundary is one administrative area: a country, province, prefecture,
// county, or any other level of the OSM admin hierarchy.
//
// SuperAreaIDs and RootCandidates both start out holding only the
// boundary's own ID as a sentinel, and are overwritten the first time a
// real parent (or root candidate set) is attached during DAG construction.
type Boundary struct {
	ID            int64
	Name          string
	NameEn        string
	NameZh        string
	NamePreferred string // caller's preferred-locale slot; see DESIGN.md Open Question

	AdminLevel *int // nil when the tag is absent or non-numeric

	SuperAreaIDs   []int64
	SubAreaIDs     []int64
	RootCandidates []int64
	RootID         int64

	OuterSegmentIDs []int64
	InnerSegmentIDs []int64

	Geometry orb.MultiPolygon
}

// NewBoundary builds a Boundary as it looks straight out of relation
// extraction: its own root candidate and root, its own sentinel super-area.
func NewBoundary(id int64, name, nameEn, nameZh, namePreferred string, adminLevel *int, subAreaIDs, outerIDs, innerIDs []int64) *Boundary {
	return &Boundary{
		ID:              id,
		Name:            name,
		NameEn:          nameEn,
		NameZh:          nameZh,
		NamePreferred:   namePreferred,
		AdminLevel:      adminLevel,
		SuperAreaIDs:    []int64{id},
		SubAreaIDs:      dedupInts(subAreaIDs),
		RootCandidates:  []int64{id},
		RootID:          id,
		OuterSegmentIDs: outerIDs,
		InnerSegmentIDs: innerIDs,
	}
}

// IsRoot reports whether b is currently a root of its forest: either it
// still carries the sentinel super-area (itself), or it has none at all.
func (b *Boundary) IsRoot() bool {
	return len(b.SuperAreaIDs) == 0 || (len(b.SuperAreaIDs) == 1 && b.SuperAreaIDs[0] == b.ID)
}

// AddSuperArea attaches a parent, replacing the sentinel on first use.
func (b *Boundary) AddSuperArea(parentID int64) {
	if b.IsRoot() {
		b.SuperAreaIDs = []int64{parentID}
		return
	}
	for _, existing := range b.SuperAreaIDs {
		if existing == parentID {
			return
		}
	}
	b.SuperAreaIDs = append(b.SuperAreaIDs, parentID)
}

// RemoveSuperArea severs a parent link, used by orphan-cascade removal.
func (b *Boundary) RemoveSuperArea(parentID int64) {
	b.SuperAreaIDs = removeID(b.SuperAreaIDs, parentID)
}

// AddSubArea attaches a child, de-duplicated on insert.
func (b *Boundary) AddSubArea(childID int64) {
	for _, existing := range b.SubAreaIDs {
		if existing == childID {
			return
		}
	}
	b.SubAreaIDs = append(b.SubAreaIDs, childID)
}

// RemoveSubArea detaches a child, used by orphan-cascade removal.
func (b *Boundary) RemoveSubArea(childID int64) {
	b.SubAreaIDs = removeID(b.SubAreaIDs, childID)
}

// AddRootCandidates unions a parent's candidate set into this boundary's,
// replacing the sentinel on first use.
func (b *Boundary) AddRootCandidates(parentCandidates []int64) {
	if b.IsRoot() {
		b.RootCandidates = append([]int64(nil), parentCandidates...)
		return
	}
	seen := make(map[int64]bool, len(b.RootCandidates))
	for _, id := range b.RootCandidates {
		seen[id] = true
	}
	for _, id := range parentCandidates {
		if !seen[id] {
			b.RootCandidates = append(b.RootCandidates, id)
			seen[id] = true
		}
	}
}

func removeID(ids []int64, target int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func dedupInts(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Segment is one way used as a ring piece. Immutable after extraction.
type Segment struct {
	ID     int64
	Line   orb.LineString
	Closed bool // coincident endpoints with >= 4 points
}

// Tree is the in-memory arena a single parse produces: the boundaries
// and segments it holds, plus the bookkeeping sets C2/C3 need to tell a
// legitimately-missing reference from a true gap.
//
// One Tree owns one boundary map, one segment map, one diagnostics
// sink; nothing is shared between trees built from different dumps or
// different root relations; there is no process-wide state.
type Tree struct {
	Boundaries map[int64]*Boundary
	Segments   map[int64]*Segment

	NonAdmin map[int64]bool // relations tagged type=boundary but not administrative
	Pruned   map[int64]bool // boundaries removed by level filtering

	RootID        int64
	MaxAdminLevel int

	Diagnostics *Diagnostics
}

// NewTree creates an empty arena ready to receive C1's output.
func NewTree(maxAdminLevel int) *Tree {
	return &Tree{
		Boundaries:    make(map[int64]*Boundary),
		Segments:      make(map[int64]*Segment),
		NonAdmin:      make(map[int64]bool),
		Pruned:        make(map[int64]bool),
		MaxAdminLevel: maxAdminLevel,
		Diagnostics:   NewDiagnostics(),
	}
}

// Roots returns every boundary currently at the top of its forest.
func (t *Tree) Roots() []*Boundary {
	var roots []*Boundary
	for _, b := range t.Boundaries {
		if b.IsRoot() {
			roots = append(roots, b)
		}
	}
	return roots
}

// Known reports whether id is accounted for by this tree in any way: a
// live boundary, a non-admin relation, or a level-pruned boundary. Any
// id referenced as a sub-area that is NOT known is a genuine gap
// that the repair stage must go fetch.
func (t *Tree) Known(id int64) bool {
	if _, ok := t.Boundaries[id]; ok {
		return true
	}
	return t.NonAdmin[id] || t.Pruned[id]
}

// RemoveBoundary deletes b and cascades the removal to any sub-area left
// with no remaining super-area, following the orphan-cascade rule
// exactly: unlink from every parent and every child first, then
// recurse into children that are now parentless.
func (t *Tree) RemoveBoundary(id int64) {
	b, ok := t.Boundaries[id]
	if !ok {
		return
	}
	for _, parentID := range append([]int64(nil), b.SuperAreaIDs...) {
		if parent, ok := t.Boundaries[parentID]; ok {
			parent.RemoveSubArea(id)
		}
	}
	children := append([]int64(nil), b.SubAreaIDs...)
	delete(t.Boundaries, id)

	for _, childID := range children {
		child, ok := t.Boundaries[childID]
		if !ok {
			continue
		}
		child.RemoveSuperArea(id)
		if len(child.SuperAreaIDs) == 0 {
			t.RemoveBoundary(childID)
		}
	}
}
