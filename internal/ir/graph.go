package ir

import (
	"fmt"

	"github.com/keel-lang/keel/internal/meta"
)

// Graph owns all nodes and blocks of one compilation unit. It is the unit of
// mutation: a pass holds the graph exclusively for its duration, and every
// structural change invalidates any schedule computed before it.
type Graph struct {
	ids    idAllocator
	nodes  []*Node // creation order; IDs are dense and increasing
	blocks []*Block
	method *meta.Method
}

// NewGraph creates an empty graph compiled in the context of method.
func NewGraph(method *meta.Method) *Graph {
	return &Graph{method: method}
}

// Method returns the method being compiled: the context against which type
// relationships are tested.
func (g *Graph) Method() *meta.Method { return g.method }

// Nodes returns a snapshot of all nodes in ID order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Blocks returns the graph's blocks in creation order. Block 0 is entry.
func (g *Graph) Blocks() []*Block { return g.blocks }

// Entry returns the entry block.
func (g *Graph) Entry() *Block {
	if len(g.blocks) == 0 {
		return nil
	}
	return g.blocks[0]
}

// NewBlock creates a block with its OpBegin node already in place. The first
// block created is the entry block.
func (g *Graph) NewBlock() *Block {
	b := &Block{id: len(g.blocks)}
	g.blocks = append(g.blocks, b)
	begin := g.newNode(OpBegin)
	begin.block = b
	b.nodes = append(b.nodes, begin)
	return b
}

// Connect adds a CFG edge from one block to another.
func (g *Graph) Connect(from, to *Block) {
	from.succs = append(from.succs, to)
	to.preds = append(to.preds, from)
}

func (g *Graph) newNode(op NodeOp, inputs ...*Node) *Node {
	n := &Node{id: g.ids.Next(), op: op, inputs: inputs}
	for _, in := range inputs {
		in.usages = append(in.usages, n)
	}
	g.nodes = append(g.nodes, n)
	return n
}

// AppendEffect appends a generic fixed consumer of args to block b.
func (g *Graph) AppendEffect(b *Block, args ...*Node) *Node {
	n := g.newNode(OpEffect, args...)
	n.block = b
	b.nodes = append(b.nodes, n)
	return n
}

// AppendTerminator appends a terminator (OpIf, OpGoto, OpReturn) to block b.
func (g *Graph) AppendTerminator(b *Block, op NodeOp) *Node {
	switch op {
	case OpIf, OpGoto, OpReturn:
	default:
		panic(fmt.Sprintf("ir: %s is not a terminator op", op))
	}
	n := g.newNode(op)
	n.block = b
	b.nodes = append(b.nodes, n)
	return n
}

// NewConst creates a floating OpConst node without interning. Upstream
// graph construction may legitimately carry several constant nodes with
// equal payloads; each is replaced independently.
func (g *Graph) NewConst(c Constant) *Node {
	n := g.newNode(OpConst)
	n.constant = c
	return n
}

// UniqueConst returns the graph's first constant node with the given
// payload, creating one on first use.
func (g *Graph) UniqueConst(c Constant) *Node {
	for _, n := range g.nodes {
		if n.op == OpConst && n.constant.Equal(c) {
			return n
		}
	}
	return g.NewConst(c)
}

// NewLoadCounters creates a floating counter-placeholder node for m.
func (g *Graph) NewLoadCounters(m *meta.Method) *Node {
	n := g.newNode(OpLoadCounters)
	n.method = m
	return n
}

// UniqueIndirectLoad returns the graph's indirect load of input, creating a
// floating OpIndirectLoad node on first use. Interning mirrors UniqueConst:
// one indirect load per loaded value per graph.
func (g *Graph) UniqueIndirectLoad(input *Node) *Node {
	for _, n := range g.nodes {
		if n.op == OpIndirectLoad && len(n.inputs) == 1 && n.inputs[0] == input {
			return n
		}
	}
	return g.newNode(OpIndirectLoad, input)
}

// NewResolve creates a fixed resolve node for input with the given action.
// The node is unscheduled until InsertAfter places it.
func (g *Graph) NewResolve(input *Node, action LoadAction) *Node {
	n := g.newNode(OpResolve, input)
	n.action = action
	return n
}

// NewInitializeType creates a fixed resolve-and-initialize node for input,
// unscheduled until InsertAfter places it.
func (g *Graph) NewInitializeType(input *Node) *Node {
	n := g.newNode(OpInitializeType, input)
	n.action = ActionInitialize
	return n
}

// NewResolveMethodCounters creates a fixed node that resolves m's runtime
// handle and loads its invocation counters. hint is the type-handle constant
// of m's declaring type, kept as an operand so later constant resolution can
// deduplicate against it. Unscheduled until InsertAfter places it.
func (g *Graph) NewResolveMethodCounters(m *meta.Method, hint *Node) *Node {
	n := g.newNode(OpResolveMethodCounters, hint)
	n.method = m
	n.action = ActionLoadCounters
	return n
}

// InsertAfter splices fixed node n into anchor's block immediately after
// anchor. anchor must be scheduled and n must be fixed and unscheduled.
func (g *Graph) InsertAfter(anchor, n *Node) {
	if anchor.block == nil {
		panic(fmt.Sprintf("ir: anchor %s is not scheduled in a block", anchor))
	}
	if !n.op.IsFixed() || n.block != nil {
		panic(fmt.Sprintf("ir: cannot insert %s after %s", n, anchor))
	}
	b := anchor.block
	for i, x := range b.nodes {
		if x == anchor {
			b.nodes = append(b.nodes[:i+1], append([]*Node{n}, b.nodes[i+1:]...)...)
			n.block = b
			return
		}
	}
	panic(fmt.Sprintf("ir: anchor %s missing from its block %s", anchor, b.Name()))
}

// ReplaceFirstInput rewires user's first input edge reading old to read new
// instead. Returns false if user has no such edge.
func (g *Graph) ReplaceFirstInput(user, old, new *Node) bool {
	for i, in := range user.inputs {
		if in == old {
			user.inputs[i] = new
			old.removeUsage(user)
			new.usages = append(new.usages, user)
			return true
		}
	}
	return false
}

// ReplaceAtUsages rewires every usage edge of old for which keep(user)
// reports true to read new instead. The usage list is snapshotted before any
// rewiring, so keep and the rewiring itself never observe a half-mutated
// list.
func (g *Graph) ReplaceAtUsages(old, new *Node, keep func(*Node) bool) {
	for _, u := range old.Usages() {
		if u == new {
			continue
		}
		if keep(u) {
			g.ReplaceFirstInput(u, old, new)
		}
	}
}

func (n *Node) removeUsage(user *Node) {
	for i, u := range n.usages {
		if u == user {
			n.usages = append(n.usages[:i], n.usages[i+1:]...)
			return
		}
	}
}
