package main

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvlath/graph"
)

// BuildDAG runs C2: root discovery followed by a BFS propagation of
// parent links and root candidates down the containment graph. The
// adjacency itself is held in a katalvlaran/lvlath graph rather than a
// hand-rolled map of slices — every boundary becomes a vertex, every
// surviving subarea reference an edge, and the frontier walk dequeues
// by following Graph.Neighbors.
func BuildDAG(t *Tree) {
	g := graph.NewGraph(true, true)
	inDegree := make(map[int64]int, len(t.Boundaries))

	for id := range t.Boundaries {
		g.AddVertex(&graph.Vertex{ID: vertexID(id)})
		inDegree[id] = 0
	}
	for _, b := range t.Boundaries {
		for _, subID := range b.SubAreaIDs {
			if _, ok := t.Boundaries[subID]; !ok {
				continue
			}
			g.AddEdge(vertexID(b.ID), vertexID(subID), 1)
			inDegree[subID]++
		}
	}

	var frontier []int64
	for id, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, id)
		}
	}

	finished := 0
	queue := append([]int64(nil), frontier...)
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]
		parent, ok := t.Boundaries[parentID]
		if !ok {
			continue
		}
		for _, v := range g.Neighbors(vertexID(parentID)) {
			childID, err := strconv.ParseInt(v.ID, 10, 64)
			if err != nil {
				continue
			}
			child, ok := t.Boundaries[childID]
			if !ok {
				continue
			}
			child.AddRootCandidates(parent.RootCandidates)
			child.AddSuperArea(parentID)
			inDegree[childID]--
			if inDegree[childID] == 0 {
				queue = append(queue, childID)
			}
		}
		finished++
	}

	if finished != len(t.Boundaries) {
		t.Diagnostics.Warn("DAG cycle detected: %d of %d boundaries finalized", finished, len(t.Boundaries))
	}

	resolveRoots(t)
}

// resolveRoots picks, for every boundary, the root candidate with the
// smallest admin level strictly less than the boundary's own (or the
// tree's configured ceiling when the boundary's level is absent),
// breaking ties by order of first appearance in the candidate list.
func resolveRoots(t *Tree) {
	for _, b := range t.Boundaries {
		if len(b.RootCandidates) == 0 {
			continue
		}
		b.RootID = b.RootCandidates[0]
		if len(b.RootCandidates) <= 1 {
			continue
		}
		threshold := t.MaxAdminLevel
		if b.AdminLevel != nil {
			threshold = *b.AdminLevel
		}
		for _, candidateID := range b.RootCandidates {
			candidate, ok := t.Boundaries[candidateID]
			if !ok || candidate.AdminLevel == nil {
				continue
			}
			if *candidate.AdminLevel < threshold {
				b.RootID = candidateID
				threshold = *candidate.AdminLevel
			}
		}
	}
}

// FilterByAdminLevel prunes every boundary whose level is absent or
// exceeds maxLevel, recording each as pruned (not simply gone) so C3
// can tell a deliberately-excluded boundary from a genuine gap.
func FilterByAdminLevel(t *Tree, maxLevel int) {
	var toRemove []int64
	for id, b := range t.Boundaries {
		if b.AdminLevel == nil || *b.AdminLevel > maxLevel {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		t.Pruned[id] = true
	}
	for _, id := range toRemove {
		t.RemoveBoundary(id)
	}
}

// FilterByRoot removes every boundary whose resolved root differs from
// rootID, via the same orphan-cascade path as level filtering.
func FilterByRoot(t *Tree, rootID int64) {
	var toRemove []int64
	for id, b := range t.Boundaries {
		if b.RootID != rootID {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		t.RemoveBoundary(id)
	}
}

func vertexID(id int64) string {
	return fmt.Sprintf("%d", id)
}
