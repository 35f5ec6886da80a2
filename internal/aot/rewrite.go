package aot

import (
	"fmt"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/meta"
	"github.com/keel-lang/keel/internal/schedule"
)

// findAnchorBefore returns the last anchor node scheduled before n in its
// block: the insertion point for new fixed resolution work serving n's
// position. Every block begins with an anchor, so a miss signals a defect in
// upstream scheduling, not an input condition.
func findAnchorBefore(sched *schedule.Schedule, n *ir.Node) *ir.Node {
	b := sched.BlockOf(n)
	var anchor *ir.Node
	for _, x := range sched.OrderedNodes(b) {
		if x.Op().IsAnchor() {
			anchor = x
		}
		if x == n {
			break
		}
	}
	if anchor == nil {
		panic(fmt.Sprintf("aot: no anchor precedes %s in %s", n, b.Name()))
	}
	return anchor
}

// replaceTypeConstant handles one type-handle constant: reuse existing
// resolutions first, then create at most one new resolution node per the
// policy and rewire the remaining uses to it.
func (p *Phase) replaceTypeConstant(g *ir.Graph, sched *schedule.Schedule, node *ir.Node, ctx *Context) error {
	c := node.Constant().(ir.TypeHandleConstant)
	t := c.Type
	if t == nil {
		return newUnsupportedConstantError(ctx.Unit, node, "", "type constant has no resolvable type")
	}
	if p.verifyFingerprints && badFingerprint(ctx.Fingerprints, t) {
		return newUnstableFingerprintError(ctx.Unit, node, t.Name())
	}
	if c.Compressed {
		return newUnsupportedConstantError(ctx.Unit, node, t.Name(), "compressed type handles are unsupported")
	}

	dedupExisting(g, sched, node)
	if !constantNeedsReplacement(node) {
		return nil
	}

	holder := g.Method().Declaring()
	d := p.classifyType(t, holder)
	ctx.Log.Debug("replacing type constant",
		"node", node.ID(), "type", t.Name(), "decision", d.String())

	var replacement *ir.Node
	switch d {
	case decideIndirectLoad:
		replacement = g.UniqueIndirectLoad(node)
	case decideResolve:
		replacement = g.NewResolve(node, ir.ActionResolve)
		g.InsertAfter(findAnchorBefore(sched, node), replacement)
	case decideResolveInitialize:
		replacement = g.NewResolve(node, ir.ActionInitialize)
		g.InsertAfter(findAnchorBefore(sched, node), replacement)
	}
	g.ReplaceAtUsages(node, replacement, func(u *ir.Node) bool {
		return !u.Op().IsConstantReplacement()
	})
	return nil
}

// replaceObjectConstant handles one object constant. Only interned strings
// are supported, and they always take a full resolve: no indirect-load
// shortcut exists for object constants.
func (p *Phase) replaceObjectConstant(g *ir.Graph, sched *schedule.Schedule, node *ir.Node, ctx *Context) error {
	c := node.Constant().(ir.ObjectConstant)
	if c.Type == nil || c.Type.Mirror() != meta.StringMirror {
		name := ""
		if c.Type != nil {
			name = c.Type.Name()
		}
		return newUnsupportedConstantError(ctx.Unit, node, name, "unsupported object constant type")
	}
	if c.Compressed {
		return newUnsupportedConstantError(ctx.Unit, node, c.Type.Name(), "compressed object references are unsupported")
	}

	ctx.Log.Debug("replacing string constant", "node", node.ID())
	r := g.NewResolve(node, ir.ActionResolve)
	g.InsertAfter(findAnchorBefore(sched, node), r)
	g.ReplaceAtUsages(node, r, func(u *ir.Node) bool {
		return u.Op() != ir.OpResolve
	})
	return nil
}

// replaceLoadCounters rewrites one counter placeholder into a combined
// resolve-method-and-load-counters node, synthesizing a type-handle hint
// constant for the method's declaring type. The hint is an ordinary type
// constant: stage B resolves it with the same policy as any other, and its
// resolution can be deduplicated against other uses of the same type.
func (p *Phase) replaceLoadCounters(g *ir.Graph, sched *schedule.Schedule, node *ir.Node, ctx *Context) {
	m := node.Method()
	hint := g.UniqueConst(ctx.Constants.HubConstant(m.Declaring()))
	r := g.NewResolveMethodCounters(m, hint)
	ctx.Log.Debug("replacing counter placeholder",
		"node", node.ID(), "counterMethod", m.QualifiedName(), "hint", hint.ID())
	g.InsertAfter(findAnchorBefore(sched, node), r)
	g.ReplaceAtUsages(node, r, func(u *ir.Node) bool {
		return !u.Op().IsCounterReplacement()
	})
}
