package ir

import (
	"fmt"
	"strings"

	"github.com/keel-lang/keel/internal/meta"
)

// NodeOp is the closed set of node kinds this IR models. The replacement
// pass needs only enough node variety to express constants, control flow,
// generic value consumers, and the resolution-node family it creates.
type NodeOp uint8

const (
	OpInvalid NodeOp = iota

	// Fixed control-flow nodes.
	OpBegin  // block entry
	OpEffect // generic fixed consumer of values
	OpIf     // two-way control split, terminator
	OpGoto   // unconditional jump, terminator
	OpReturn // method exit, terminator

	// Floating value nodes produced upstream.
	OpConst        // carries a Constant payload
	OpLoadCounters // placeholder for a method's invocation counters

	// Resolution nodes, created only by the replacement pass (or sibling
	// AOT passes, for OpInitializeType).
	OpIndirectLoad          // floating cheap load of an already-resolved value
	OpResolve               // fixed runtime resolution call
	OpInitializeType        // fixed resolve-and-initialize call
	OpResolveMethodCounters // fixed resolve-method-and-load-counters call
)

// String returns the lowercase op name used in dumps.
func (op NodeOp) String() string {
	switch op {
	case OpBegin:
		return "begin"
	case OpEffect:
		return "effect"
	case OpIf:
		return "if"
	case OpGoto:
		return "goto"
	case OpReturn:
		return "return"
	case OpConst:
		return "const"
	case OpLoadCounters:
		return "loadcounters"
	case OpIndirectLoad:
		return "indirectload"
	case OpResolve:
		return "resolve"
	case OpInitializeType:
		return "initializetype"
	case OpResolveMethodCounters:
		return "resolvecounters"
	}
	return "invalid"
}

// IsFixed reports whether the op occupies a slot in a block's node list.
func (op NodeOp) IsFixed() bool {
	switch op {
	case OpBegin, OpEffect, OpIf, OpGoto, OpReturn, OpResolve, OpInitializeType, OpResolveMethodCounters:
		return true
	case OpConst, OpLoadCounters, OpIndirectLoad, OpInvalid:
		return false
	}
	return false
}

// IsAnchor reports whether the op is fixed with a deterministic single
// successor: the node after which new fixed work can be spliced. Control
// splits and exits are fixed but not anchors.
func (op NodeOp) IsAnchor() bool {
	switch op {
	case OpBegin, OpEffect, OpResolve, OpInitializeType, OpResolveMethodCounters:
		return true
	case OpIf, OpGoto, OpReturn, OpConst, OpLoadCounters, OpIndirectLoad, OpInvalid:
		return false
	}
	return false
}

// ReplacementKind classifies a node as resolution machinery. The set is
// closed and matched exhaustively wherever it is consumed.
type ReplacementKind uint8

const (
	ReplacementNone ReplacementKind = iota
	ReplacementIndirectLoad
	ReplacementResolve
	ReplacementInitializeType
	ReplacementMethodCounters
)

// Replacement maps an op to its replacement kind.
func (op NodeOp) Replacement() ReplacementKind {
	switch op {
	case OpIndirectLoad:
		return ReplacementIndirectLoad
	case OpResolve:
		return ReplacementResolve
	case OpInitializeType:
		return ReplacementInitializeType
	case OpResolveMethodCounters:
		return ReplacementMethodCounters
	case OpBegin, OpEffect, OpIf, OpGoto, OpReturn, OpConst, OpLoadCounters, OpInvalid:
		return ReplacementNone
	}
	return ReplacementNone
}

// IsConstantReplacement reports whether the op is terminal resolution form
// for a constant node.
func (op NodeOp) IsConstantReplacement() bool {
	switch op.Replacement() {
	case ReplacementIndirectLoad, ReplacementResolve, ReplacementInitializeType:
		return true
	case ReplacementNone, ReplacementMethodCounters:
		return false
	}
	return false
}

// IsCounterReplacement reports whether the op is terminal resolution form
// for a counter-placeholder node.
func (op NodeOp) IsCounterReplacement() bool {
	return op.Replacement() == ReplacementMethodCounters
}

// LoadAction tags a resolve node with the runtime work it performs.
type LoadAction uint8

const (
	// ActionResolve resolves the constant to a usable runtime value.
	ActionResolve LoadAction = iota
	// ActionInitialize additionally forces type initialization.
	ActionInitialize
	// ActionLoadCounters resolves a method and loads its counters.
	ActionLoadCounters
)

// String returns the lowercase action name used in dumps.
func (a LoadAction) String() string {
	switch a {
	case ActionResolve:
		return "resolve"
	case ActionInitialize:
		return "initialize"
	case ActionLoadCounters:
		return "loadcounters"
	}
	return "invalid"
}

// Node is a vertex of the graph. All mutation goes through Graph methods so
// input and usage lists stay consistent.
type Node struct {
	id     NodeID
	op     NodeOp
	inputs []*Node
	usages []*Node // one entry per input edge pointing here; non-owning
	block  *Block  // fixed nodes only

	constant Constant     // OpConst
	method   *meta.Method // OpLoadCounters, OpResolveMethodCounters
	action   LoadAction   // OpResolve, OpInitializeType, OpResolveMethodCounters
}

// ID returns the node's graph-unique ID.
func (n *Node) ID() NodeID { return n.id }

// Op returns the node kind.
func (n *Node) Op() NodeOp { return n.op }

// Block returns the containing block for fixed nodes, nil for floating ones.
func (n *Node) Block() *Block { return n.block }

// Constant returns the payload of an OpConst node, nil otherwise.
func (n *Node) Constant() Constant { return n.constant }

// Method returns the method payload of counter-related nodes, nil otherwise.
func (n *Node) Method() *meta.Method { return n.method }

// Action returns the load action of resolution calls.
func (n *Node) Action() LoadAction { return n.action }

// Inputs returns a snapshot copy of the node's input edges.
func (n *Node) Inputs() []*Node {
	out := make([]*Node, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Usages returns a snapshot copy of the usage list: the nodes reading this
// one, with one entry per input edge. Callers may rewire freely while
// iterating the snapshot.
func (n *Node) Usages() []*Node {
	out := make([]*Node, len(n.usages))
	copy(out, n.usages)
	return out
}

// UsageCount returns the number of input edges pointing at this node.
func (n *Node) UsageCount() int { return len(n.usages) }

// String returns the dump form: "n7 resolve action=initialize [n2]".
func (n *Node) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "n%d %s", n.id, n.op)
	switch n.op {
	case OpConst:
		fmt.Fprintf(&b, " %s", n.constant)
	case OpLoadCounters, OpResolveMethodCounters:
		fmt.Fprintf(&b, " method:%s", n.method.QualifiedName())
	}
	switch n.op {
	case OpResolve, OpInitializeType:
		fmt.Fprintf(&b, " action=%s", n.action)
	}
	if len(n.inputs) > 0 {
		ids := make([]string, len(n.inputs))
		for i, in := range n.inputs {
			ids[i] = fmt.Sprintf("n%d", in.id)
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(ids, " "))
	}
	return b.String()
}
