package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	build := func() *Universe {
		u := NewUniverse()
		u.MustDefine(TypeDef{Name: "app.Point", Kind: KindClass, Fields: []Field{
			{Name: "x", TypeName: "int"},
			{Name: "y", TypeName: "int"},
		}})
		return u
	}
	a, b := build(), build()
	pa := a.FingerprintOf(a.MustLookup("app.Point"))
	pb := b.FingerprintOf(b.MustLookup("app.Point"))
	assert.NotZero(t, pa)
	assert.Equal(t, pa, pb, "same shape in separate universes must fingerprint identically")

	// Memoized path returns the same value.
	assert.Equal(t, pa, a.FingerprintOf(a.MustLookup("app.Point")))
}

func TestFingerprintSensitiveToShape(t *testing.T) {
	u := NewUniverse()
	p1 := u.MustDefine(TypeDef{Name: "app.A", Kind: KindClass, Fields: []Field{{Name: "x", TypeName: "int"}}})
	p2 := u.MustDefine(TypeDef{Name: "app.B", Kind: KindClass, Fields: []Field{{Name: "x", TypeName: "int"}}})
	p3 := u.MustDefine(TypeDef{Name: "app.C", Kind: KindClass, Fields: []Field{{Name: "x", TypeName: "long"}}})

	assert.NotEqual(t, u.FingerprintOf(p1), u.FingerprintOf(p2), "name is part of the shape")
	assert.NotEqual(t, u.FingerprintOf(p1), u.FingerprintOf(p3))
}

func TestFingerprintUnstableIsZero(t *testing.T) {
	u := NewUniverse()
	bad := u.MustDefine(TypeDef{Name: "app.Hot", Kind: KindClass, Unstable: true})
	assert.Zero(t, u.FingerprintOf(bad))

	ok := u.MustDefine(TypeDef{Name: "app.Cold", Kind: KindClass})
	assert.NotZero(t, u.FingerprintOf(ok))
}
