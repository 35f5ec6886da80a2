package meta

// Kind classifies a type. The set is closed; there is no "unknown" kind.
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindArray
	KindPrimitive
)

// String returns the lowercase kind name used in CUE files and dumps.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	}
	return "invalid"
}

// Mirror is the identity of a type's runtime mirror object. Mirrors are
// compared by value; the boxing-cache allow-list is a set of Mirrors.
type Mirror string

// StringMirror identifies the interned-string class. Object constants whose
// type carries this mirror are the only supported object constants.
const StringMirror Mirror = "lang.String"

// Field is a name/type pair contributing to a type's structural shape.
// Only the shape matters here; there are no field values.
type Field struct {
	Name     string `json:"name"`
	TypeName string `json:"type"`
}

// Type is an interned type within a Universe. Pointer equality is identity:
// two *Type values from the same Universe are the same type iff they are the
// same pointer.
type Type struct {
	name     string
	kind     Kind
	super    *Type
	ifaces   []*Type
	elem     *Type // arrays only
	fields   []Field
	mirror   Mirror
	unstable bool
}

// Name returns the canonical type name (e.g. "app.Main", "int[]").
func (t *Type) Name() string { return t.name }

// Kind returns the type's kind.
func (t *Type) Kind() Kind { return t.kind }

// IsArray reports whether the type is an array type.
func (t *Type) IsArray() bool { return t.kind == KindArray }

// IsInterface reports whether the type is an interface.
func (t *Type) IsInterface() bool { return t.kind == KindInterface }

// IsPrimitive reports whether the type is a primitive.
func (t *Type) IsPrimitive() bool { return t.kind == KindPrimitive }

// Elem returns the direct component type of an array, or nil for non-arrays.
// For "int[][]" this is "int[]", not "int".
func (t *Type) Elem() *Type { return t.elem }

// Elemental returns the innermost component type of an array (itself for
// non-arrays). For "int[][]" this is "int".
func (t *Type) Elemental() *Type {
	e := t
	for e.kind == KindArray {
		e = e.elem
	}
	return e
}

// Super returns the direct superclass, or nil (interfaces and primitives
// have none; arrays share the universe's root class).
func (t *Type) Super() *Type { return t.super }

// Interfaces returns the directly declared interfaces.
func (t *Type) Interfaces() []*Type { return t.ifaces }

// Mirror returns the runtime mirror identity.
func (t *Type) Mirror() Mirror { return t.mirror }

// Unstable reports whether the type's shape is flagged as not stable across
// process images. Unstable types fingerprint to 0.
func (t *Type) Unstable() bool { return t.unstable }

// IsAssignableFrom reports whether a value of type o can be assigned to a
// location of type t, mirroring the runtime's subtyping rules:
//   - every type is assignable from itself
//   - primitives are assignable only from themselves
//   - a class is assignable from any class below it on the super chain
//   - an interface is assignable from any type that declares it, directly
//     or through a supertype
//   - an array is assignable from an array of an assignable reference
//     element type (primitive element arrays only from themselves)
func (t *Type) IsAssignableFrom(o *Type) bool {
	if t == o {
		return true
	}
	if t.kind == KindPrimitive || o.kind == KindPrimitive {
		return false
	}
	switch t.kind {
	case KindClass:
		for s := o.super; s != nil; s = s.super {
			if s == t {
				return true
			}
		}
		// Arrays hang below the root class via their super link, which the
		// loop above already follows.
		return false
	case KindInterface:
		return o.implements(t)
	case KindArray:
		if o.kind != KindArray {
			return false
		}
		if t.elem.kind == KindPrimitive || o.elem.kind == KindPrimitive {
			return false
		}
		return t.elem.IsAssignableFrom(o.elem)
	}
	return false
}

// implements walks the super chain and the transitive interface closure.
func (t *Type) implements(iface *Type) bool {
	for s := t; s != nil; s = s.super {
		for _, i := range s.ifaces {
			if i == iface || i.implements(iface) {
				return true
			}
		}
	}
	return false
}
