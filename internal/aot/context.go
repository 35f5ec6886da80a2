package aot

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/meta"
)

// ConstantReflection produces constants from metadata. The pass uses it to
// synthesize the type-handle hint constant for a counter replacement's
// declaring type.
type ConstantReflection interface {
	// HubConstant returns the type-handle constant for t's runtime hub.
	HubConstant(t *meta.Type) ir.Constant
}

type hubReflection struct{}

func (hubReflection) HubConstant(t *meta.Type) ir.Constant {
	return ir.TypeHandleConstant{Type: t}
}

// DefaultConstantReflection returns the standard provider: a plain
// type-handle constant per hub.
func DefaultConstantReflection() ConstantReflection { return hubReflection{} }

// Context carries the collaborators for one pass run over one compilation
// unit.
type Context struct {
	// Fingerprints answers structural fingerprint queries. Required when
	// fingerprint verification is enabled.
	Fingerprints meta.FingerprintProvider

	// Constants synthesizes hint constants. Defaults to
	// DefaultConstantReflection when nil.
	Constants ConstantReflection

	// Unit is the compilation-unit token carried in errors and logs.
	// Defaults to a fresh token when empty.
	Unit string

	// Log receives per-stage and per-node diagnostics. Defaults to
	// slog.Default when nil.
	Log *slog.Logger
}

// NewContext creates a Context with a fresh unit token and default
// collaborators.
func NewContext(fingerprints meta.FingerprintProvider) *Context {
	return &Context{
		Fingerprints: fingerprints,
		Constants:    DefaultConstantReflection(),
		Unit:         NewUnitToken(),
		Log:          slog.Default(),
	}
}

// NewUnitToken generates a compilation-unit token. UUIDv7 tokens sort by
// creation time, which keeps interleaved unit logs groupable.
func NewUnitToken() string {
	return uuid.Must(uuid.NewV7()).String()
}

// normalize fills defaulted fields so the pass never branches on nil.
func (c *Context) normalize() {
	if c.Constants == nil {
		c.Constants = DefaultConstantReflection()
	}
	if c.Unit == "" {
		c.Unit = NewUnitToken()
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
}
