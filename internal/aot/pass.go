package aot

import (
	"fmt"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/meta"
	"github.com/keel-lang/keel/internal/schedule"
)

// Options configures a Phase.
type Options struct {
	// VerifyFingerprints gates indirect-load shortcuts on a non-zero
	// structural fingerprint. Enabled by default.
	VerifyFingerprints bool

	// BoxCacheMirrors is the allow-list of boxing-cache holder mirrors
	// whose constants require forced initialization. Defaults to
	// meta.DefaultBoxCacheMirrors.
	BoxCacheMirrors map[meta.Mirror]struct{}
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		VerifyFingerprints: true,
		BoxCacheMirrors:    meta.DefaultBoxCacheMirrors(),
	}
}

// Phase is the constant-replacement pass. A Phase is immutable after
// construction and reusable across compilation units.
//
// Phase deliberately performs no whole-graph post-condition verification:
// checking full graph consistency after this rewrite costs more than it is
// worth. Targeted invariants are asserted in the conformance harness
// instead.
type Phase struct {
	verifyFingerprints bool
	boxCaches          map[meta.Mirror]struct{}
}

// New creates a Phase with DefaultOptions.
func New() *Phase {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Phase. A nil BoxCacheMirrors set falls back to
// the default allow-list; pass an empty non-nil set to disable it.
func NewWithOptions(opts Options) *Phase {
	boxCaches := opts.BoxCacheMirrors
	if boxCaches == nil {
		boxCaches = meta.DefaultBoxCacheMirrors()
	}
	return &Phase{
		verifyFingerprints: opts.VerifyFingerprints,
		boxCaches:          boxCaches,
	}
}

// Run transforms the graph in place. On error the graph may be partially
// transformed and must be discarded: the pass is not safe to re-run on the
// result of a failed attempt.
func (p *Phase) Run(g *ir.Graph, ctx *Context) error {
	ctx.normalize()
	if p.verifyFingerprints && ctx.Fingerprints == nil {
		return fmt.Errorf("fingerprint verification enabled but no provider configured")
	}
	log := ctx.Log.With("unit", ctx.Unit, "method", g.Method().QualifiedName())
	runCtx := *ctx
	runCtx.Log = log

	// Stage A: replace counter placeholders, exposing type-handle hint
	// constants.
	if err := p.replaceCounters(g, &runCtx); err != nil {
		return fmt.Errorf("replace method counters: %w", err)
	}

	// Stage B: replace object and type constants, including the hints
	// stage A introduced.
	if err := p.replaceConstants(g, &runCtx); err != nil {
		return fmt.Errorf("replace constants: %w", err)
	}
	return nil
}

// replaceCounters is stage A. The schedule computed here reflects the graph
// before any replacement and is used for every insertion in the stage;
// nodes inserted by the stage itself are never looked up in it.
func (p *Phase) replaceCounters(g *ir.Graph, ctx *Context) error {
	sched, err := schedule.Compute(g, schedule.Latest)
	if err != nil {
		return err
	}
	replaced := 0
	for _, n := range counterNodes(g) {
		if !counterNeedsReplacement(n) {
			continue
		}
		p.replaceLoadCounters(g, sched, n, ctx)
		replaced++
	}
	if replaced > 0 {
		ctx.Log.Info("counter placeholders replaced", "count", replaced)
	}
	return nil
}

// replaceConstants is stage B. It recomputes the schedule so stage A's
// insertions are scheduled, then resolves every constant still carrying
// non-replacement users. Nodes created here are not re-scanned: new
// resolution nodes have no unresolved constant operands.
func (p *Phase) replaceConstants(g *ir.Graph, ctx *Context) error {
	sched, err := schedule.Compute(g, schedule.Latest)
	if err != nil {
		return err
	}
	replaced := 0
	for _, n := range constantNodes(g) {
		if !constantNeedsReplacement(n) {
			continue
		}
		switch n.Constant().(type) {
		case ir.TypeHandleConstant:
			if err := p.replaceTypeConstant(g, sched, n, ctx); err != nil {
				return err
			}
		case ir.ObjectConstant:
			if err := p.replaceObjectConstant(g, sched, n, ctx); err != nil {
				return err
			}
		}
		replaced++
	}
	if replaced > 0 {
		ctx.Log.Info("constants replaced", "count", replaced)
	}
	return nil
}
