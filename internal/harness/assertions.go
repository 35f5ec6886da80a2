package harness

import (
	"fmt"
	"strings"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/schedule"
)

// AssertionError is returned when a structural check fails.
// It includes the graph dump to help debug the failure.
type AssertionError struct {
	Check    string // which check failed
	Expected string // human-readable expected outcome
	Actual   string // human-readable actual outcome
	Dump     string // graph dump for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Check failed: %s\n", e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Dump != "" {
		fmt.Fprintf(&buf, "\nGraph:\n%s", e.Dump)
	}
	return buf.String()
}

// checkOpCounts verifies the expected node count per op name.
func checkOpCounts(g *ir.Graph, counts map[string]int) error {
	actual := make(map[string]int)
	for _, n := range g.Nodes() {
		actual[n.Op().String()]++
	}
	for op, want := range counts {
		if actual[op] != want {
			return &AssertionError{
				Check:    "op_counts",
				Expected: fmt.Sprintf("%d %s nodes", want, op),
				Actual:   fmt.Sprintf("%d", actual[op]),
				Dump:     g.Dump(),
			}
		}
	}
	return nil
}

// checkPlacement verifies that every resolution node sits in a block
// dominating each of its users, strictly before same-block users.
func checkPlacement(g *ir.Graph) error {
	sched, err := schedule.Compute(g, schedule.Latest)
	if err != nil {
		return fmt.Errorf("placement check: %w", err)
	}
	for _, n := range g.Nodes() {
		if n.Op().Replacement() == ir.ReplacementNone {
			continue
		}
		nb := sched.BlockOf(n)
		for _, u := range n.Usages() {
			ub := sched.BlockOf(u)
			if !sched.Dominates(nb, ub) {
				return &AssertionError{
					Check:    "placement",
					Expected: fmt.Sprintf("%s in %s dominates its user %s", n, nb.Name(), u),
					Actual:   fmt.Sprintf("user is in %s", ub.Name()),
					Dump:     g.Dump(),
				}
			}
			if nb == ub && !sched.Before(n, u) {
				return &AssertionError{
					Check:    "placement",
					Expected: fmt.Sprintf("%s scheduled before its user %s in %s", n, u, nb.Name()),
					Actual:   "user precedes it",
					Dump:     g.Dump(),
				}
			}
		}
	}
	return nil
}

// checkReplaced verifies the pass postcondition: no constant or counter
// placeholder retains a user outside the resolution-node family.
func checkReplaced(g *ir.Graph) error {
	for _, n := range g.Nodes() {
		var bad *ir.Node
		switch n.Op() {
		case ir.OpConst:
			for _, u := range n.Usages() {
				if !u.Op().IsConstantReplacement() {
					bad = u
					break
				}
			}
		case ir.OpLoadCounters:
			for _, u := range n.Usages() {
				if !u.Op().IsCounterReplacement() {
					bad = u
					break
				}
			}
		}
		if bad != nil {
			return &AssertionError{
				Check:    "fully_replaced",
				Expected: fmt.Sprintf("%s read only by resolution nodes", n),
				Actual:   fmt.Sprintf("still read by %s", bad),
				Dump:     g.Dump(),
			}
		}
	}
	return nil
}
