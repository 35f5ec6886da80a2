package ir

import "fmt"

// Block is a basic block: a maximal straight-line run of fixed nodes. The
// first node is always OpBegin; the last is a terminator once the builder
// seals the block. Successor and predecessor edges form the CFG.
type Block struct {
	id    int
	nodes []*Node
	succs []*Block
	preds []*Block
}

// ID returns the block's graph-unique ID. Block 0 is the entry block.
func (b *Block) ID() int { return b.id }

// Name returns the dump form, "b0".
func (b *Block) Name() string { return fmt.Sprintf("b%d", b.id) }

// Nodes returns a snapshot copy of the block's fixed nodes in control-flow
// order.
func (b *Block) Nodes() []*Node {
	out := make([]*Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Successors returns the CFG successor blocks.
func (b *Block) Successors() []*Block { return b.succs }

// Predecessors returns the CFG predecessor blocks.
func (b *Block) Predecessors() []*Block { return b.preds }
