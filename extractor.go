package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// ExtractRelations runs C1: a single streaming pass over the dump at
// dumpPath, partitioning every type=boundary relation into an
// administrative Boundary record or a bare non-admin id. Memory use is
// independent of dump size — only relation tags and membership lists
// are retained, never node or way geometry.
func ExtractRelations(ctx context.Context, dumpPath string, preferredLocale string) (*Tree, error) {
	logger := slog.With("stage", "extract", "dump", dumpPath)
	logger.Info("extracting boundary relations")

	f, err := os.Open(dumpPath)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	defer scanner.Close()

	tree := NewTree(0) // MaxAdminLevel set by the caller after level config is known
	seen := make(map[int64]bool)

	for scanner.Scan() {
		rel, ok := scanner.Object().(*osm.Relation)
		if !ok {
			continue
		}
		if rel.Tags.Find("type") != "boundary" {
			continue
		}

		id := int64(rel.ID)
		if seen[id] {
			logger.Warn("duplicate relation id, first wins", "id", id)
			continue
		}
		seen[id] = true

		if rel.Tags.Find("boundary") != "administrative" {
			tree.NonAdmin[id] = true
			continue
		}

		b, err := relationToBoundary(rel, preferredLocale)
		if err != nil {
			logger.Warn("malformed admin relation, skipping", "id", id, "error", err)
			continue
		}
		tree.Boundaries[id] = b
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dump: %w", err)
	}

	logger.Info("extraction complete", "admin_relations", len(tree.Boundaries), "non_admin_relations", len(tree.NonAdmin))
	return tree, nil
}

// relationToBoundary converts one OSM boundary=administrative relation
// into a Boundary, sorting its members by role: subarea relations,
// outer ways, inner ways. Node and way subareas are ignored by design.
func relationToBoundary(rel *osm.Relation, preferredLocale string) (*Boundary, error) {
	var subAreaIDs, outerIDs, innerIDs []int64

	for _, m := range rel.Members {
		switch m.Role {
		case "subarea":
			if m.Type == osm.TypeRelation {
				subAreaIDs = append(subAreaIDs, m.Ref)
			}
		case "outer":
			if m.Type == osm.TypeWay {
				outerIDs = append(outerIDs, m.Ref)
			}
		case "inner":
			if m.Type == osm.TypeWay {
				innerIDs = append(innerIDs, m.Ref)
			}
		}
	}

	adminLevel := parseAdminLevel(rel.Tags.Find("admin_level"))
	preferred := ""
	if preferredLocale != "" {
		preferred = rel.Tags.Find(preferredLocale)
	}

	return NewBoundary(
		int64(rel.ID),
		rel.Tags.Find("name"),
		rel.Tags.Find("name:en"),
		rel.Tags.Find("name:zh"),
		preferred,
		adminLevel,
		subAreaIDs, outerIDs, innerIDs,
	), nil
}

// parseAdminLevel parses the admin_level tag as an integer, returning
// nil when absent or non-numeric. The absent case is stored rather
// than filtered here; level filtering happens later.
func parseAdminLevel(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
