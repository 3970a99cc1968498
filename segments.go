package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

const simplifyToleranceDegrees = 1e-4

// ResolveSegmentRoleOverlap applies the tie-break for a way id
// appearing in both a boundary's outer and inner lists: it
// participates only in the outer ring set, and a diagnostic is
// recorded (the reference parser leaves this case undefined; the
// outer-wins rule is this repo's own resolution).
func ResolveSegmentRoleOverlap(t *Tree) {
	for _, b := range t.Boundaries {
		outer := make(map[int64]bool, len(b.OuterSegmentIDs))
		for _, id := range b.OuterSegmentIDs {
			outer[id] = true
		}
		var kept []int64
		for _, id := range b.InnerSegmentIDs {
			if outer[id] {
				t.Diagnostics.Warn("boundary %d: way %d listed as both outer and inner, keeping outer", b.ID, id)
				continue
			}
			kept = append(kept, id)
		}
		b.InnerSegmentIDs = kept
	}
}

// NeededSegmentIDs runs C4 Phase A: the union of every outer and inner
// segment id referenced by a surviving boundary.
func NeededSegmentIDs(t *Tree) map[int64]bool {
	needed := make(map[int64]bool)
	for _, b := range t.Boundaries {
		for _, id := range b.OuterSegmentIDs {
			needed[id] = true
		}
		for _, id := range b.InnerSegmentIDs {
			needed[id] = true
		}
	}
	return needed
}

// ExtractSegments runs C4 Phase B: materializes the polyline of every
// way in needed, applying the single fixed Douglas-Peucker
// simplification. The dump is opened once per streaming pass and
// released before the next: one pass collects the node
// ids the needed ways reference, a second pass resolves their
// coordinates, a third assembles the polylines — bounding memory by
// the needed set rather than the whole dump.
func ExtractSegments(ctx context.Context, dumpPath string, needed map[int64]bool, diag *Diagnostics) (map[int64]*Segment, error) {
	logger := slog.With("stage", "segments", "dump", dumpPath, "needed", len(needed))
	logger.Info("extracting needed ways")

	wayNodeIDs, err := collectWayNodeIDs(ctx, dumpPath, needed)
	if err != nil {
		return nil, fmt.Errorf("collect way node ids: %w", err)
	}

	nodeCoords, err := collectNodeCoords(ctx, dumpPath, wayNodeIDs)
	if err != nil {
		return nil, fmt.Errorf("collect node coordinates: %w", err)
	}

	segments, err := assembleSegments(ctx, dumpPath, needed, nodeCoords, diag)
	if err != nil {
		return nil, fmt.Errorf("assemble segments: %w", err)
	}

	if len(segments) != len(needed) {
		diag.Warn("way count mismatch: expected %d, extracted %d", len(needed), len(segments))
	}

	logger.Info("segment extraction complete", "extracted", len(segments))
	return segments, nil
}

func openScanner(ctx context.Context, dumpPath string) (*osmpbf.Scanner, *os.File, error) {
	f, err := os.Open(dumpPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open dump: %w", err)
	}
	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	return scanner, f, nil
}

func collectWayNodeIDs(ctx context.Context, dumpPath string, needed map[int64]bool) (map[int64]bool, error) {
	scanner, f, err := openScanner(ctx, dumpPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer scanner.Close()

	nodeIDs := make(map[int64]bool)
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || !needed[int64(way.ID)] {
			continue
		}
		for _, n := range way.Nodes {
			nodeIDs[int64(n.ID)] = true
		}
	}
	return nodeIDs, scanner.Err()
}

func collectNodeCoords(ctx context.Context, dumpPath string, wanted map[int64]bool) (map[int64]orb.Point, error) {
	scanner, f, err := openScanner(ctx, dumpPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer scanner.Close()

	coords := make(map[int64]orb.Point, len(wanted))
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok || !wanted[int64(node.ID)] {
			continue
		}
		coords[int64(node.ID)] = orb.Point{node.Lon, node.Lat}
	}
	return coords, scanner.Err()
}

func assembleSegments(ctx context.Context, dumpPath string, needed map[int64]bool, coords map[int64]orb.Point, diag *Diagnostics) (map[int64]*Segment, error) {
	scanner, f, err := openScanner(ctx, dumpPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer scanner.Close()

	simplifier := simplify.DouglasPeucker(simplifyToleranceDegrees)
	segments := make(map[int64]*Segment, len(needed))

	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || !needed[int64(way.ID)] {
			continue
		}

		var line orb.LineString
		missing := false
		for _, n := range way.Nodes {
			p, ok := coords[int64(n.ID)]
			if !ok {
				missing = true
				continue
			}
			line = append(line, p)
		}
		if missing {
			diag.Warn("way %d references nodes missing from the dump", way.ID)
		}
		if len(line) < 2 {
			diag.Warn("way %d produced a degenerate polyline, skipping", way.ID)
			continue
		}

		simplified, _ := simplifier.Simplify(line).(orb.LineString)
		closed := len(simplified) >= 4 && simplified[0] == simplified[len(simplified)-1]

		segments[int64(way.ID)] = &Segment{
			ID:     int64(way.ID),
			Line:   simplified,
			Closed: closed,
		}
	}
	return segments, scanner.Err()
}
