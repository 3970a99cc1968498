package main

import (
	"fmt"
	"strings"
)

// Summary is the supplemented status report (original_source's
// print_status): total boundary count and the number of current roots.
type Summary struct {
	TotalBoundaries int
	RootCount       int
}

// Summary returns a status snapshot of the tree.
func (t *Tree) Summary() Summary {
	return Summary{
		TotalBoundaries: len(t.Boundaries),
		RootCount:       len(t.Roots()),
	}
}

// Sprint renders the boundary forest as a box-drawing tree, one entry
// per root, mirroring original_source/parser.py's print_hierarchy.
func (t *Tree) Sprint() string {
	var sb strings.Builder
	printed := make(map[int64]bool)
	roots := t.Roots()
	for i, root := range roots {
		t.sprintNode(&sb, root, printed, "", i == len(roots)-1)
	}
	return sb.String()
}

func (t *Tree) sprintNode(sb *strings.Builder, b *Boundary, printed map[int64]bool, header string, last bool) {
	if b == nil || printed[b.ID] {
		return
	}
	const (
		elbow = "└──"
		pipe  = "│  "
		tee   = "├──"
		blank = "   "
	)
	printed[b.ID] = true

	branch := tee
	if last {
		branch = elbow
	}
	level := "?"
	if b.AdminLevel != nil {
		level = fmt.Sprintf("%d", *b.AdminLevel)
	}
	fmt.Fprintf(sb, "%s%s%s(%s)\n", header, branch, b.Name, level)

	var children []*Boundary
	for _, subID := range b.SubAreaIDs {
		if child, ok := t.Boundaries[subID]; ok {
			children = append(children, child)
		}
	}
	nextHeader := header + pipe
	if last {
		nextHeader = header + blank
	}
	for i, child := range children {
		t.sprintNode(sb, child, printed, nextHeader, i == len(children)-1)
	}
}
