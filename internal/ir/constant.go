package ir

import (
	"fmt"

	"github.com/keel-lang/keel/internal/meta"
)

// Constant is a sealed interface over the constant payloads a constant node
// can carry. Only TypeHandleConstant and ObjectConstant implement it.
type Constant interface {
	constant() // Sealed - only these types implement it

	// Equal reports payload equality; constant nodes are interned per graph
	// on this relation.
	Equal(o Constant) bool

	// String returns the canonical dump form.
	String() string
}

// TypeHandleConstant is a raw type handle embedded by the compiling process.
// It is only meaningful inside the compiling image and must be replaced
// before emission.
type TypeHandleConstant struct {
	Type *meta.Type

	// Compressed marks a narrow-encoded handle. Replacing compressed
	// handles is unsupported.
	Compressed bool
}

func (TypeHandleConstant) constant() {}

func (c TypeHandleConstant) Equal(o Constant) bool {
	oc, ok := o.(TypeHandleConstant)
	return ok && oc.Type == c.Type && oc.Compressed == c.Compressed
}

func (c TypeHandleConstant) String() string {
	name := "<nil>"
	if c.Type != nil {
		name = c.Type.Name()
	}
	if c.Compressed {
		return fmt.Sprintf("type:%s compressed", name)
	}
	return "type:" + name
}

// ObjectConstant is a raw object reference embedded by the compiling
// process. Only interned strings (Type mirror lang.String) are replaceable;
// Value holds the string payload in that case.
type ObjectConstant struct {
	Type  *meta.Type
	Value string

	// Compressed marks a narrow-encoded reference. Replacing compressed
	// references is unsupported.
	Compressed bool
}

func (ObjectConstant) constant() {}

func (c ObjectConstant) Equal(o Constant) bool {
	oc, ok := o.(ObjectConstant)
	return ok && oc.Type == c.Type && oc.Value == c.Value && oc.Compressed == c.Compressed
}

func (c ObjectConstant) String() string {
	name := "<nil>"
	if c.Type != nil {
		name = c.Type.Name()
	}
	if c.Compressed {
		return fmt.Sprintf("object:%s %q compressed", name, c.Value)
	}
	return fmt.Sprintf("object:%s %q", name, c.Value)
}
