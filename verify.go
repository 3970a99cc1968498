package main

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
)

// ConsistencyReport is the result of checking a tree against the
// invariants the test suite is expected to assert.
type ConsistencyReport struct {
	OK       bool
	Failures []string
}

// Print logs the report as a pass/fail summary with one line per failure.
func (r *ConsistencyReport) Print() {
	if r.OK {
		slog.Info("consistency check PASSED")
		return
	}
	slog.Error("consistency check FAILED", "failures", len(r.Failures))
	for _, f := range r.Failures {
		slog.Error("consistency failure", "detail", f)
	}
}

// VerifyConsistency checks a tree against every quantified invariant:
// DAG consistency, root resolution, the level filter, the
// orphan-cascade guarantee, and polygon well-formedness.
func VerifyConsistency(t *Tree, maxAdminLevel int) *ConsistencyReport {
	r := &ConsistencyReport{OK: true}

	fail := func(format string, args ...interface{}) {
		r.OK = false
		r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	}

	for id, b := range t.Boundaries {
		for _, parentID := range b.SuperAreaIDs {
			if parentID == id {
				continue // root sentinel
			}
			parent, ok := t.Boundaries[parentID]
			if !ok {
				fail("boundary %d lists parent %d which does not exist", id, parentID)
				continue
			}
			if !containsID(parent.SubAreaIDs, id) {
				fail("boundary %d lists parent %d but %d does not list %d as a sub-area", id, parentID, parentID, id)
			}
		}
		for _, childID := range b.SubAreaIDs {
			child, ok := t.Boundaries[childID]
			if !ok {
				continue // legitimately pruned or non-admin; not a consistency failure
			}
			if !containsID(child.SuperAreaIDs, id) {
				fail("boundary %d lists sub-area %d but %d does not list %d as a parent", id, childID, childID, id)
			}
		}

		if len(b.RootCandidates) > 0 && !containsID(b.RootCandidates, b.RootID) {
			fail("boundary %d resolved root %d is not among its own candidates", id, b.RootID)
		}
		if b.AdminLevel != nil {
			for _, candidateID := range b.RootCandidates {
				candidate, ok := t.Boundaries[candidateID]
				if ok && candidate.AdminLevel != nil && *candidate.AdminLevel < *b.AdminLevel {
					root := t.Boundaries[b.RootID]
					if root == nil || root.AdminLevel == nil || *root.AdminLevel >= *b.AdminLevel {
						fail("boundary %d has a lower-level candidate but resolved root %d is not lower-level", id, b.RootID)
					}
					break
				}
			}
			if *b.AdminLevel > maxAdminLevel {
				fail("boundary %d survived filtering with level %d > max %d", id, *b.AdminLevel, maxAdminLevel)
			}
		}

		verifyPolygonWellFormed(b, fail)
	}

	return r
}

func verifyPolygonWellFormed(b *Boundary, fail func(string, ...interface{})) {
	for i, poly := range b.Geometry {
		if len(poly) == 0 {
			continue
		}
		outer := poly[0]
		for j := 1; j < len(poly); j++ {
			if !ringStrictlyContains(outer, poly[j]) {
				fail("boundary %d polygon %d: hole %d not strictly within its outer ring", b.ID, i, j)
			}
		}
	}
	for i := 0; i < len(b.Geometry); i++ {
		for j := i + 1; j < len(b.Geometry); j++ {
			if polygonsOverlap(b.Geometry[i], b.Geometry[j]) {
				fail("boundary %d outer rings %d and %d overlap", b.ID, i, j)
			}
		}
	}
}

// polygonsOverlap is a representative-point overlap test: true if
// either polygon's outer ring contains the other's first vertex.
func polygonsOverlap(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(b[0]) == 0 || len(a[0]) == 0 {
		return false
	}
	return ringStrictlyContains(a[0], b[0]) || ringStrictlyContains(b[0], a[0])
}
