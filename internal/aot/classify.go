package aot

import "github.com/keel-lang/keel/internal/ir"

// counterNodes returns the graph's counter-placeholder nodes in ID order.
// The order is stable but otherwise insignificant.
func counterNodes(g *ir.Graph) []*ir.Node {
	var out []*ir.Node
	for _, n := range g.Nodes() {
		if n.Op() == ir.OpLoadCounters {
			out = append(out, n)
		}
	}
	return out
}

// constantNodes returns the graph's constant nodes in ID order.
func constantNodes(g *ir.Graph) []*ir.Node {
	var out []*ir.Node
	for _, n := range g.Nodes() {
		if n.Op() == ir.OpConst {
			out = append(out, n)
		}
	}
	return out
}

// constantNeedsReplacement reports whether any user of the constant is not
// itself resolution machinery. A fully replaced constant is only read by its
// replacement nodes and needs no further work.
func constantNeedsReplacement(n *ir.Node) bool {
	for _, u := range n.Usages() {
		if !u.Op().IsConstantReplacement() {
			return true
		}
	}
	return false
}

// counterNeedsReplacement is the counter-placeholder form of
// constantNeedsReplacement.
func counterNeedsReplacement(n *ir.Node) bool {
	for _, u := range n.Usages() {
		if !u.Op().IsCounterReplacement() {
			return true
		}
	}
	return false
}
