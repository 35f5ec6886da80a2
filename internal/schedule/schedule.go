package schedule

import (
	"fmt"
	"sort"

	"github.com/keel-lang/keel/internal/ir"
)

// Strategy selects how floating nodes are assigned to blocks.
type Strategy string

// Latest places each floating node in the latest common dominator of its
// users' blocks: as late as a single placement serving every use allows.
const Latest Strategy = "latest"

// Schedule is an immutable snapshot of block assignment, intra-block order,
// and dominance for one graph state.
type Schedule struct {
	blockOf map[*ir.Node]*ir.Block
	// order is indexed by block ID; pos is a node's position within its
	// owning block's order.
	order [][]*ir.Node
	pos   map[*ir.Node]int
	// pre and post are dominator-tree interval numbers by block ID.
	pre  []int
	post []int
}

// Compute analyzes the graph and returns a fresh schedule. It must be re-run
// after any graph mutation; the result never observes later changes.
func Compute(g *ir.Graph, strat Strategy) (*Schedule, error) {
	if strat != Latest {
		return nil, fmt.Errorf("schedule: unknown strategy %q", strat)
	}

	rpo, po, err := reversePostorder(g)
	if err != nil {
		return nil, err
	}
	idom := immediateDominators(rpo, po)

	s := &Schedule{
		blockOf: make(map[*ir.Node]*ir.Block),
		order:   make([][]*ir.Node, len(g.Blocks())),
		pos:     make(map[*ir.Node]int),
	}
	s.numberDominatorTree(g, idom)

	if err := s.assignFloating(g, idom); err != nil {
		return nil, err
	}
	s.orderBlocks(g)
	return s, nil
}

// BlockOf returns the block a node is scheduled in.
func (s *Schedule) BlockOf(n *ir.Node) *ir.Block {
	if b := n.Block(); b != nil {
		return b
	}
	return s.blockOf[n]
}

// OrderedNodes returns the block's nodes in schedule order: fixed nodes in
// control-flow order with the block's floating nodes interleaved before
// their first in-block user.
func (s *Schedule) OrderedNodes(b *ir.Block) []*ir.Node {
	nodes := s.order[b.ID()]
	out := make([]*ir.Node, len(nodes))
	copy(out, nodes)
	return out
}

// Before reports whether a is scheduled strictly before b within the same
// block. Nodes in different blocks are never "before" one another.
func (s *Schedule) Before(a, b *ir.Node) bool {
	return s.BlockOf(a) == s.BlockOf(b) && s.pos[a] < s.pos[b]
}

// Dominates reports whether a dominates b (including a == b).
func (s *Schedule) Dominates(a, b *ir.Block) bool {
	return s.pre[a.ID()] <= s.pre[b.ID()] && s.post[b.ID()] <= s.post[a.ID()]
}

// StrictlyDominates reports whether a dominates b and a != b.
func (s *Schedule) StrictlyDominates(a, b *ir.Block) bool {
	return a != b && s.Dominates(a, b)
}

// numberDominatorTree assigns pre/post interval numbers over the dominator
// tree so Dominates answers in O(1). Children are visited in block-ID order
// for determinism.
func (s *Schedule) numberDominatorTree(g *ir.Graph, idom []*ir.Block) {
	n := len(g.Blocks())
	children := make([][]*ir.Block, n)
	for _, b := range g.Blocks() {
		d := idom[b.ID()]
		if d != nil && d != b {
			children[d.ID()] = append(children[d.ID()], b)
		}
	}
	for _, c := range children {
		sort.Slice(c, func(i, j int) bool { return c[i].ID() < c[j].ID() })
	}

	s.pre = make([]int, n)
	s.post = make([]int, n)
	clock := 0
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		s.pre[b.ID()] = clock
		clock++
		for _, c := range children[b.ID()] {
			walk(c)
		}
		s.post[b.ID()] = clock
		clock++
	}
	walk(g.Entry())
}

// lca returns the latest common dominator of two blocks.
func (s *Schedule) lca(idom []*ir.Block, a, b *ir.Block) *ir.Block {
	for !s.Dominates(a, b) {
		a = idom[a.ID()]
	}
	return a
}

// assignFloating maps every floating node to a block: the latest common
// dominator of all its users' blocks. Users that are themselves floating are
// resolved recursively; a floating node without users lands in the entry
// block.
func (s *Schedule) assignFloating(g *ir.Graph, idom []*ir.Block) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*ir.Node]int)

	var assign func(n *ir.Node) (*ir.Block, error)
	assign = func(n *ir.Node) (*ir.Block, error) {
		if b := n.Block(); b != nil {
			return b, nil
		}
		if b, ok := s.blockOf[n]; ok {
			return b, nil
		}
		if state[n] == visiting {
			return nil, fmt.Errorf("schedule: usage cycle through floating node %s", n)
		}
		state[n] = visiting
		var b *ir.Block
		for _, u := range n.Usages() {
			ub, err := assign(u)
			if err != nil {
				return nil, err
			}
			if b == nil {
				b = ub
			} else {
				b = s.lca(idom, b, ub)
			}
		}
		if b == nil {
			b = g.Entry()
		}
		state[n] = done
		s.blockOf[n] = b
		return b, nil
	}

	for _, n := range g.Nodes() {
		if n.Block() == nil {
			if _, err := assign(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// orderBlocks builds the per-block schedule order. Floating nodes assigned
// to a block are emitted before their first in-block user (inputs before
// consumers); floating nodes with no in-block user are emitted before the
// terminator, or at the end if the block is not yet sealed.
func (s *Schedule) orderBlocks(g *ir.Graph) {
	// Group floating nodes by assigned block, in node-ID order.
	floats := make([][]*ir.Node, len(g.Blocks()))
	for _, n := range g.Nodes() {
		if n.Block() == nil {
			b := s.blockOf[n]
			floats[b.ID()] = append(floats[b.ID()], n)
		}
	}

	for _, b := range g.Blocks() {
		emitted := make(map[*ir.Node]bool)
		var out []*ir.Node

		var emitInputs func(n *ir.Node, dst *[]*ir.Node)
		emitInputs = func(n *ir.Node, dst *[]*ir.Node) {
			for _, in := range n.Inputs() {
				if in.Block() == nil && s.blockOf[in] == b && !emitted[in] {
					emitted[in] = true
					emitInputs(in, dst)
					*dst = append(*dst, in)
				}
			}
		}

		for _, f := range b.Nodes() {
			emitInputs(f, &out)
			out = append(out, f)
		}

		var leftover []*ir.Node
		for _, n := range floats[b.ID()] {
			if !emitted[n] {
				emitted[n] = true
				emitInputs(n, &leftover)
				leftover = append(leftover, n)
			}
		}
		if len(leftover) > 0 {
			if last := len(out) - 1; last >= 0 && isTerminator(out[last].Op()) {
				out = append(out[:last], append(leftover, out[last])...)
			} else {
				out = append(out, leftover...)
			}
		}

		s.order[b.ID()] = out
		for i, n := range out {
			s.pos[n] = i
		}
	}
}

func isTerminator(op ir.NodeOp) bool {
	switch op {
	case ir.OpIf, ir.OpGoto, ir.OpReturn:
		return true
	}
	return false
}
