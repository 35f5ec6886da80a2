package ir

import (
	"fmt"
	"strings"
)

// Dump renders the graph as deterministic text: blocks with their fixed
// nodes in control-flow order, then floating nodes in ID order. The output
// is stable for identical graphs and is the unit of golden-file comparison
// in the conformance harness.
func (g *Graph) Dump() string {
	var b strings.Builder
	if g.method != nil {
		fmt.Fprintf(&b, "method %s\n", g.method.QualifiedName())
	}
	for _, blk := range g.blocks {
		fmt.Fprintf(&b, "block %s", blk.Name())
		if len(blk.succs) > 0 {
			names := make([]string, len(blk.succs))
			for i, s := range blk.succs {
				names[i] = s.Name()
			}
			fmt.Fprintf(&b, " -> %s", strings.Join(names, " "))
		}
		b.WriteString("\n")
		for _, n := range blk.nodes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	var floating []*Node
	for _, n := range g.nodes {
		if n.block == nil {
			floating = append(floating, n)
		}
	}
	if len(floating) > 0 {
		b.WriteString("floating\n")
		for _, n := range floating {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	return b.String()
}
