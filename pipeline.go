package main

import (
	"context"
	"fmt"
	"log/slog"
)

// Pipeline orchestrates the full C1→C5 run: extract, build the DAG,
// repair gaps, assemble polygons, and optionally persist the result.
type Pipeline struct {
	config   *Config
	store    *Store
	overpass *OverpassClient
}

// NewPipeline wires a pipeline from its collaborators. store may be nil
// for a dry run that never persists.
func NewPipeline(config *Config, store *Store) *Pipeline {
	return &Pipeline{
		config:   config,
		store:    store,
		overpass: NewOverpassClient(config.Overpass),
	}
}

// Build runs the full pipeline against the configured dump and returns
// the resulting tree. Partial results are returned alongside a
// non-nil error only when a fatal stage (dump read) fails outright;
// structural anomalies are recorded in the tree's Diagnostics instead.
func (p *Pipeline) Build(ctx context.Context) (*Tree, error) {
	logger := slog.With("stage", "pipeline")

	tree, err := ExtractRelations(ctx, p.config.OSM.DumpPath, p.config.OSM.PreferredLocale)
	if err != nil {
		return nil, fmt.Errorf("extract relations: %w", err)
	}
	tree.MaxAdminLevel = p.config.OSM.MaxAdminLevel

	BuildDAG(tree)
	FilterByAdminLevel(tree, p.config.OSM.MaxAdminLevel)
	if p.config.OSM.RootRelationID != 0 {
		FilterByRoot(tree, p.config.OSM.RootRelationID)
	}

	RepairGaps(ctx, p.overpass, tree, p.config.Overpass.IterationCap)

	ResolveSegmentRoleOverlap(tree)
	needed := NeededSegmentIDs(tree)
	segments, err := ExtractSegments(ctx, p.config.OSM.DumpPath, needed, tree.Diagnostics)
	if err != nil {
		return tree, fmt.Errorf("extract segments: %w", err)
	}
	tree.Segments = segments

	AssemblePolygons(tree, tree.Diagnostics)

	summary := tree.Summary()
	logger.Info("pipeline complete", "boundaries", summary.TotalBoundaries, "roots", summary.RootCount)
	return tree, nil
}

// Persist upserts every surviving boundary in tree into the output store.
func (p *Pipeline) Persist(ctx context.Context, tree *Tree) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("no store configured")
	}
	return p.store.UpsertTree(ctx, tree)
}

// Merge runs C5: builds a second tree from otherDumpPath and grafts it
// onto rootID in the primary tree.
func (p *Pipeline) Merge(ctx context.Context, tree *Tree, rootID int64, otherDumpPath string) error {
	other, err := ExtractRelations(ctx, otherDumpPath, p.config.OSM.PreferredLocale)
	if err != nil {
		return fmt.Errorf("extract relations for merge: %w", err)
	}
	other.MaxAdminLevel = p.config.OSM.MaxAdminLevel

	BuildDAG(other)
	FilterByAdminLevel(other, p.config.OSM.MaxAdminLevel)

	ResolveSegmentRoleOverlap(other)
	needed := NeededSegmentIDs(other)
	segments, err := ExtractSegments(ctx, otherDumpPath, needed, other.Diagnostics)
	if err != nil {
		return fmt.Errorf("extract segments for merge: %w", err)
	}
	other.Segments = segments
	AssemblePolygons(other, other.Diagnostics)

	MergeTree(tree, rootID, other)
	return nil
}
