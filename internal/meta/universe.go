package meta

import (
	"fmt"
	"sort"
	"strings"
)

// primitiveNames are predeclared in every Universe.
var primitiveNames = []string{"bool", "byte", "char", "short", "int", "long", "float", "double"}

// RootClassName is the class at the top of every super chain. It is
// predeclared so arrays always have a supertype.
const RootClassName = "lang.Object"

// TypeDef describes a type to define in a Universe. Names in Super and
// Interfaces must already be defined (or be array forms of defined types).
type TypeDef struct {
	Name       string
	Kind       Kind
	Super      string // defaults to lang.Object for classes (except the root itself)
	Interfaces []string
	Fields     []Field
	Mirror     string // defaults to Name
	Unstable   bool
}

// Universe is the registry of types and methods for one compilation world.
// It is built once and read-only afterwards; it is not safe for concurrent
// mutation but safe for concurrent reads.
type Universe struct {
	types     map[string]*Type
	typeOrder []string
	methods   map[string]*Method
	prints    map[*Type]uint64
}

// NewUniverse creates a Universe with the primitives and the root class
// predeclared.
func NewUniverse() *Universe {
	u := &Universe{
		types:   make(map[string]*Type),
		methods: make(map[string]*Method),
		prints:  make(map[*Type]uint64),
	}
	for _, p := range primitiveNames {
		u.intern(&Type{name: p, kind: KindPrimitive, mirror: Mirror(p)})
	}
	u.intern(&Type{name: RootClassName, kind: KindClass, mirror: Mirror(RootClassName)})
	return u
}

func (u *Universe) intern(t *Type) *Type {
	u.types[t.name] = t
	u.typeOrder = append(u.typeOrder, t.name)
	return t
}

// Define adds a class or interface type. Array and primitive kinds cannot be
// defined directly; arrays are derived via ArrayOf or array-form lookups.
func (u *Universe) Define(def TypeDef) (*Type, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("define type: empty name")
	}
	if _, ok := u.types[def.Name]; ok {
		return nil, fmt.Errorf("define type %q: already defined", def.Name)
	}
	if def.Kind != KindClass && def.Kind != KindInterface {
		return nil, fmt.Errorf("define type %q: kind %s cannot be defined directly", def.Name, def.Kind)
	}
	t := &Type{
		name:     def.Name,
		kind:     def.Kind,
		fields:   def.Fields,
		mirror:   Mirror(def.Mirror),
		unstable: def.Unstable,
	}
	if t.mirror == "" {
		t.mirror = Mirror(def.Name)
	}
	if def.Kind == KindClass && def.Name != RootClassName {
		superName := def.Super
		if superName == "" {
			superName = RootClassName
		}
		super, err := u.Lookup(superName)
		if err != nil {
			return nil, fmt.Errorf("define type %q: super: %w", def.Name, err)
		}
		if super.kind != KindClass {
			return nil, fmt.Errorf("define type %q: super %q is not a class", def.Name, superName)
		}
		t.super = super
	}
	for _, in := range def.Interfaces {
		iface, err := u.Lookup(in)
		if err != nil {
			return nil, fmt.Errorf("define type %q: interface: %w", def.Name, err)
		}
		if iface.kind != KindInterface {
			return nil, fmt.Errorf("define type %q: %q is not an interface", def.Name, in)
		}
		t.ifaces = append(t.ifaces, iface)
	}
	return u.intern(t), nil
}

// MustDefine is Define for fixtures; it panics on error.
func (u *Universe) MustDefine(def TypeDef) *Type {
	t, err := u.Define(def)
	if err != nil {
		panic(err)
	}
	return t
}

// ArrayOf returns the interned array type with the given element type,
// creating it on first use. Arrays share the root class as supertype.
func (u *Universe) ArrayOf(elem *Type) *Type {
	name := elem.name + "[]"
	if t, ok := u.types[name]; ok {
		return t
	}
	t := &Type{
		name:   name,
		kind:   KindArray,
		elem:   elem,
		super:  u.types[RootClassName],
		mirror: Mirror(name),
	}
	return u.intern(t)
}

// Lookup resolves a type by canonical name. Trailing "[]" pairs derive array
// types on demand, so "int[][]" resolves as long as "int" exists.
func (u *Universe) Lookup(name string) (*Type, error) {
	if t, ok := u.types[name]; ok {
		return t, nil
	}
	if strings.HasSuffix(name, "[]") {
		elem, err := u.Lookup(strings.TrimSuffix(name, "[]"))
		if err != nil {
			return nil, err
		}
		return u.ArrayOf(elem), nil
	}
	return nil, fmt.Errorf("type %q not defined", name)
}

// MustLookup is Lookup for fixtures; it panics on error.
func (u *Universe) MustLookup(name string) *Type {
	t, err := u.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TypeNames returns all defined type names in definition order. Array types
// derived on demand appear after the explicit definitions.
func (u *Universe) TypeNames() []string {
	out := make([]string, len(u.typeOrder))
	copy(out, u.typeOrder)
	return out
}

// MethodNames returns all defined qualified method names, sorted.
func (u *Universe) MethodNames() []string {
	out := make([]string, 0, len(u.methods))
	for name := range u.methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefineMethod adds a method on an already-defined declaring type and
// returns it. The method is keyed by its qualified name.
func (u *Universe) DefineMethod(declaringName, name string) (*Method, error) {
	decl, err := u.Lookup(declaringName)
	if err != nil {
		return nil, fmt.Errorf("define method %s.%s: %w", declaringName, name, err)
	}
	m := &Method{name: name, declaring: decl}
	key := m.QualifiedName()
	if _, ok := u.methods[key]; ok {
		return nil, fmt.Errorf("define method %s: already defined", key)
	}
	u.methods[key] = m
	return m, nil
}

// MustDefineMethod is DefineMethod for fixtures; it panics on error.
func (u *Universe) MustDefineMethod(declaringName, name string) *Method {
	m, err := u.DefineMethod(declaringName, name)
	if err != nil {
		panic(err)
	}
	return m
}

// Method resolves a method by qualified name ("app.Main.run").
func (u *Universe) Method(qualified string) (*Method, error) {
	if m, ok := u.methods[qualified]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("method %q not defined", qualified)
}
