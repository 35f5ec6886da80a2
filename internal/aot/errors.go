package aot

import (
	"errors"
	"fmt"

	"github.com/keel-lang/keel/internal/ir"
)

// PassError represents a fatal error raised by the replacement pass.
//
// Pass errors abort the whole compilation unit:
//   - Unsupported constant: an object constant that is not an interned
//     string, a type constant with no resolvable type, or a compressed
//     encoding
//   - Unstable fingerprint: a type reports fingerprint 0 while verification
//     is enabled
//
// The structurally-impossible case of no anchor node preceding a constant
// is a defect in an upstream pass, not an input condition, and panics
// instead of returning a PassError.
type PassError struct {
	// Code identifies the error category.
	Code PassErrorCode

	// Message is a human-readable description.
	Message string

	// Unit identifies the compilation-unit run that failed.
	Unit string

	// TypeName names the offending type, when one is known.
	TypeName string

	// Node identifies the offending node.
	Node ir.NodeID
}

// PassErrorCode categorizes pass errors.
type PassErrorCode string

const (
	// ErrCodeUnsupportedConstant indicates a constant kind the pass cannot
	// replace.
	ErrCodeUnsupportedConstant PassErrorCode = "UNSUPPORTED_CONSTANT"

	// ErrCodeUnstableFingerprint indicates a type whose structural
	// fingerprint is 0 while verification is enabled.
	ErrCodeUnstableFingerprint PassErrorCode = "UNSTABLE_FINGERPRINT"
)

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("%s: %s (type=%s, node=n%d, unit=%s)", e.Code, e.Message, e.TypeName, e.Node, e.Unit)
	}
	return fmt.Sprintf("%s: %s (node=n%d, unit=%s)", e.Code, e.Message, e.Node, e.Unit)
}

// IsUnsupportedConstant returns true if the error is an unsupported-constant
// error. Uses errors.As to handle wrapped errors.
func IsUnsupportedConstant(err error) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeUnsupportedConstant
	}
	return false
}

// IsUnstableFingerprint returns true if the error is an unstable-fingerprint
// error. Uses errors.As to handle wrapped errors.
func IsUnstableFingerprint(err error) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeUnstableFingerprint
	}
	return false
}

// newUnsupportedConstantError creates a PassError for a constant the pass
// cannot replace.
func newUnsupportedConstantError(unit string, node *ir.Node, typeName, message string) *PassError {
	return &PassError{
		Code:     ErrCodeUnsupportedConstant,
		Message:  message,
		Unit:     unit,
		TypeName: typeName,
		Node:     node.ID(),
	}
}

// newUnstableFingerprintError creates a PassError for a type with an
// unstable fingerprint.
func newUnstableFingerprintError(unit string, node *ir.Node, typeName string) *PassError {
	return &PassError{
		Code:     ErrCodeUnstableFingerprint,
		Message:  "type shape is not stable across process images",
		Unit:     unit,
		TypeName: typeName,
		Node:     node.ID(),
	}
}
