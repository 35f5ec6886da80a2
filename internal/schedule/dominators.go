package schedule

import (
	"fmt"

	"github.com/keel-lang/keel/internal/ir"
)

// reversePostorder returns the blocks reachable from entry in reverse
// postorder, plus each block's postorder number. Unreachable blocks are a
// structural error: upstream construction never produces them, and dominance
// over them is undefined.
func reversePostorder(g *ir.Graph) ([]*ir.Block, []int, error) {
	blocks := g.Blocks()
	entry := g.Entry()
	if entry == nil {
		return nil, nil, fmt.Errorf("schedule: graph has no blocks")
	}

	po := make([]int, len(blocks))
	for i := range po {
		po[i] = -1
	}
	var order []*ir.Block
	var visit func(b *ir.Block)
	seen := make([]bool, len(blocks))
	visit = func(b *ir.Block) {
		seen[b.ID()] = true
		for _, s := range b.Successors() {
			if !seen[s.ID()] {
				visit(s)
			}
		}
		po[b.ID()] = len(order)
		order = append(order, b)
	}
	visit(entry)

	for _, b := range blocks {
		if !seen[b.ID()] {
			return nil, nil, fmt.Errorf("schedule: block %s is unreachable from entry", b.Name())
		}
	}

	// Reverse postorder.
	rpo := make([]*ir.Block, len(order))
	for i, b := range order {
		rpo[len(order)-1-i] = b
	}
	return rpo, po, nil
}

// immediateDominators runs the Cooper-Harvey-Kennedy iterative algorithm.
// The returned slice maps block ID to immediate dominator; the entry block
// maps to itself.
func immediateDominators(rpo []*ir.Block, po []int) []*ir.Block {
	idom := make([]*ir.Block, len(rpo))
	entry := rpo[0]
	idom[entry.ID()] = entry

	intersect := func(a, b *ir.Block) *ir.Block {
		for a != b {
			for po[a.ID()] < po[b.ID()] {
				a = idom[a.ID()]
			}
			for po[b.ID()] < po[a.ID()] {
				b = idom[b.ID()]
			}
		}
		return a
	}

	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] {
			var newIdom *ir.Block
			for _, p := range b.Predecessors() {
				if idom[p.ID()] == nil {
					continue // not yet processed
				}
				if newIdom == nil {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom != nil && idom[b.ID()] != newIdom {
				idom[b.ID()] = newIdom
				changed = true
			}
		}
	}
	return idom
}
