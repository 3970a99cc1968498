package main

// MergeTree runs C5: grafts another parse p onto t's resolved root
// rootID. Each root boundary of p becomes a direct sub-area of rootID,
// with its outer/inner segment lists reconciled against the root's own
// so a shared border between two adjoining dumps collapses into an
// internal edge rather than doubling the outline.
func MergeTree(t *Tree, rootID int64, p *Tree) {
	root, ok := t.Boundaries[rootID]
	if !ok {
		t.Diagnostics.Warn("merge target root %d not found, aborting merge", rootID)
		return
	}

	for _, b := range p.Boundaries {
		if !b.IsRoot() {
			continue
		}
		b.SuperAreaIDs = []int64{rootID}
		root.AddSubArea(b.ID)
		reconcileSegments(root, b)
		b.RootID = rootID
	}

	for id, b := range p.Boundaries {
		if b.IsRoot() {
			continue
		}
		if _, exists := t.Boundaries[id]; exists {
			t.Diagnostics.Warn("merge conflict: boundary %d already present, first wins", id)
			continue
		}
		t.Boundaries[id] = b
	}

	for id, seg := range p.Segments {
		if _, exists := t.Segments[id]; !exists {
			t.Segments[id] = seg
		}
	}
}

// reconcileSegments cancels segment ids shared between a grafted child
// and the root it's grafted onto: opposite-role overlap cancels (the
// segment becomes internal), same-role overlap also cancels (a shared
// exterior collapses), otherwise the id is appended to the root's
// matching-role list.
func reconcileSegments(root, child *Boundary) {
	for _, way := range child.InnerSegmentIDs {
		switch {
		case containsID(root.InnerSegmentIDs, way):
			root.InnerSegmentIDs = removeID(root.InnerSegmentIDs, way)
		case containsID(root.OuterSegmentIDs, way):
			root.OuterSegmentIDs = removeID(root.OuterSegmentIDs, way)
		default:
			root.InnerSegmentIDs = append(root.InnerSegmentIDs, way)
		}
	}
	for _, way := range child.OuterSegmentIDs {
		switch {
		case containsID(root.InnerSegmentIDs, way):
			root.InnerSegmentIDs = removeID(root.InnerSegmentIDs, way)
		case containsID(root.OuterSegmentIDs, way):
			root.OuterSegmentIDs = removeID(root.OuterSegmentIDs, way)
		default:
			root.OuterSegmentIDs = append(root.OuterSegmentIDs, way)
		}
	}
}

func containsID(ids []int64, target int64) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
