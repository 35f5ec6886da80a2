package aot

import (
	"github.com/keel-lang/keel/internal/meta"
)

// decision is the outcome of the resolution policy for a type constant.
type decision uint8

const (
	// decideIndirectLoad: the AOT runtime guarantees the type is already
	// resolved; a cheap indirect load suffices.
	decideIndirectLoad decision = iota
	// decideResolve: a full runtime resolution call is required.
	decideResolve
	// decideResolveInitialize: resolution must additionally force type
	// initialization.
	decideResolveInitialize
)

func (d decision) String() string {
	switch d {
	case decideIndirectLoad:
		return "indirect-load"
	case decideResolve:
		return "full-resolve"
	case decideResolveInitialize:
		return "full-resolve-initialize"
	}
	return "invalid"
}

// classifyType decides how a type-handle constant for t is resolved when
// compiling a method declared by holder. Deterministic: identical inputs
// always produce the same decision.
func (p *Phase) classifyType(t, holder *meta.Type) decision {
	switch {
	case t.IsArray() && t.Elem().IsPrimitive():
		// Primitive arrays are pre-resolved by the AOT runtime; the
		// resolution call can be omitted.
		return decideIndirectLoad
	case t == holder || (t.IsAssignableFrom(holder) && !t.IsInterface()):
		// The compiling context's own non-interface supertype chain is
		// resolved by construction. Interfaces are matched by equality
		// only: interface resolution is not guaranteed transitively.
		return decideIndirectLoad
	case p.isBoxCache(t):
		// Klass constants originating from inlined boxing logic: the cache
		// holder must be initialized, not merely resolved, or the cache
		// array does not exist at the point of use.
		return decideResolveInitialize
	default:
		return decideResolve
	}
}

func (p *Phase) isBoxCache(t *meta.Type) bool {
	_, ok := p.boxCaches[t.Mirror()]
	return ok
}

// badFingerprint reports whether t's structural fingerprint blocks
// replacement. Primitive arrays never do; other arrays are checked through
// their elemental type.
func badFingerprint(fp meta.FingerprintProvider, t *meta.Type) bool {
	if t.IsArray() {
		elem := t.Elemental()
		if elem.IsPrimitive() {
			return false
		}
		return fp.FingerprintOf(elem) == 0
	}
	return fp.FingerprintOf(t) == 0
}
