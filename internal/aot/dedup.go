package aot

import (
	"sort"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/schedule"
)

// dedupExisting rewires uses of a constant to resolution nodes that already
// exist in the graph, inserted while processing an earlier constant or by
// an earlier compilation stage, whenever one is available by same-block
// precedence or strict dominance. It is a pure rewiring step: no nodes are
// created, only edges redirected.
func dedupExisting(g *ir.Graph, sched *schedule.Schedule, node *ir.Node) {
	// Representative replacement node per block. When several land in one
	// block, the last in schedule order wins.
	reps := make(map[*ir.Block]*ir.Node)
	for _, u := range node.Usages() {
		if !u.Op().IsConstantReplacement() {
			continue
		}
		b := sched.BlockOf(u)
		if b == nil {
			// Inserted after this schedule was computed; nothing can be
			// said about its position.
			continue
		}
		if cur, ok := reps[b]; !ok || sched.Before(cur, u) {
			reps[b] = u
		}
	}
	if len(reps) == 0 {
		return
	}

	// Dominator candidates in block-ID order. First match wins; along any
	// single path only one dominator chain applies, so no tighter tie-break
	// is needed.
	repBlocks := make([]*ir.Block, 0, len(reps))
	for b := range reps {
		repBlocks = append(repBlocks, b)
	}
	sort.Slice(repBlocks, func(i, j int) bool { return repBlocks[i].ID() < repBlocks[j].ID() })

	for _, use := range node.Usages() {
		if use.Op().IsConstantReplacement() {
			continue
		}
		b := sched.BlockOf(use)
		replaced := false
		if e, ok := reps[b]; ok {
			// A resolution exists in the use's own block; reuse it only if
			// it is scheduled before the use.
			for _, x := range sched.OrderedNodes(b) {
				if x == use {
					// Use precedes the resolution: not yet computed there.
					break
				}
				if x == e {
					g.ReplaceFirstInput(use, node, e)
					replaced = true
					break
				}
			}
		}
		if !replaced {
			for _, d := range repBlocks {
				if sched.StrictlyDominates(d, b) {
					g.ReplaceFirstInput(use, node, reps[d])
					break
				}
			}
		}
	}
}
