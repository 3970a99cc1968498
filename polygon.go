package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AssemblePolygons runs C4 Phase C: for every surviving boundary,
// close its outer and inner segments into rings and attach holes.
func AssemblePolygons(t *Tree, diag *Diagnostics) {
	for _, b := range t.Boundaries {
		assembleBoundaryPolygon(b, t.Segments, diag)
	}
}

func assembleBoundaryPolygon(b *Boundary, segments map[int64]*Segment, diag *Diagnostics) {
	outerLines := collectLines(b.OuterSegmentIDs, segments)
	innerLines := collectLines(b.InnerSegmentIDs, segments)

	outerRings := closeRings(outerLines, diag, b.ID, "outer")
	innerRings := closeRings(innerLines, diag, b.ID, "inner")

	if len(b.OuterSegmentIDs) > 0 && len(outerRings) == 0 {
		diag.Warn("boundary %d: segments present but polygonization produced no outer ring", b.ID)
		b.Geometry = orb.MultiPolygon{}
		return
	}

	usedInner := make([]bool, len(innerRings))
	var mp orb.MultiPolygon
	for _, outer := range outerRings {
		poly := orb.Polygon{outer}
		for i, inner := range innerRings {
			if usedInner[i] {
				continue
			}
			if ringStrictlyContains(outer, inner) {
				poly = append(poly, inner)
				usedInner[i] = true
			}
		}
		mp = append(mp, poly)
	}
	for i, used := range usedInner {
		if !used {
			diag.Warn("boundary %d: inner ring %d not strictly contained in any outer ring, dropped", b.ID, i)
		}
	}
	b.Geometry = mp
}

func collectLines(ids []int64, segments map[int64]*Segment) []orb.LineString {
	var lines []orb.LineString
	for _, id := range ids {
		seg, ok := segments[id]
		if !ok {
			continue
		}
		lines = append(lines, seg.Line)
	}
	return lines
}

// closeRings implements the standard ring-closing polygonizer: repeated
// greedy endpoint matching across an unordered set of polylines,
// closing rings wherever the chain's head meets its tail. OSM way
// members carry no guaranteed order, so segment order is never assumed.
func closeRings(lines []orb.LineString, diag *Diagnostics, boundaryID int64, role string) []orb.Ring {
	remaining := make([]orb.LineString, len(lines))
	copy(remaining, lines)

	var rings []orb.Ring
	for len(remaining) > 0 {
		chain := remaining[0]
		remaining = remaining[1:]

		for {
			if isClosed(chain) {
				break
			}
			next, idx, prepend, reverse := findMatch(chain, remaining)
			if idx == -1 {
				break
			}
			remaining = append(remaining[:idx], remaining[idx+1:]...)
			if reverse {
				next = reverseLine(next)
			}
			if prepend {
				merged := append(orb.LineString{}, next...)
				chain = append(merged, chain[1:]...)
			} else {
				chain = append(chain, next[1:]...)
			}
		}

		if isClosed(chain) {
			rings = append(rings, orb.Ring(chain))
		} else if len(chain) > 0 {
			diag.Warn("boundary %d: %s ring failed to close (%d points)", boundaryID, role, len(chain))
		}
	}
	return rings
}

func isClosed(line orb.LineString) bool {
	return len(line) >= 4 && line[0] == line[len(line)-1]
}

// findMatch looks for a polyline in candidates whose endpoint touches
// chain's tail (append) or head (prepend), trying both orientations.
func findMatch(chain orb.LineString, candidates []orb.LineString) (match orb.LineString, idx int, prepend, reverse bool) {
	tail := chain[len(chain)-1]
	for i, seg := range candidates {
		if seg[0] == tail {
			return seg, i, false, false
		}
		if seg[len(seg)-1] == tail {
			return seg, i, false, true
		}
	}
	head := chain[0]
	for i, seg := range candidates {
		if seg[len(seg)-1] == head {
			return seg, i, true, false
		}
		if seg[0] == head {
			return seg, i, true, true
		}
	}
	return nil, -1, false, false
}

func reverseLine(line orb.LineString) orb.LineString {
	out := make(orb.LineString, len(line))
	for i, p := range line {
		out[len(line)-1-i] = p
	}
	return out
}

// ringStrictlyContains reports whether inner's first vertex lies inside
// outer, per planar.RingContains. Only that one vertex is tested: the
// rest of inner is not checked, so a ring that crosses outer's edge is
// not detected.
func ringStrictlyContains(outer, inner orb.Ring) bool {
	if len(inner) == 0 {
		return false
	}
	return planar.RingContains(outer, inner[0])
}
