package aot

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keel-lang/keel/internal/meta"
	"github.com/keel-lang/keel/internal/testutil"
)

func TestClassifyType(t *testing.T) {
	u := testutil.BuildUniverse()
	holder := u.MustLookup("app.Main")
	p := New()

	tests := []struct {
		name string
		typ  *meta.Type
		want decision
	}{
		{"holder itself", u.MustLookup("app.Main"), decideIndirectLoad},
		{"direct superclass", u.MustLookup("app.Base"), decideIndirectLoad},
		{"root class", u.MustLookup(meta.RootClassName), decideIndirectLoad},
		{"implemented interface", u.MustLookup("app.Iter"), decideResolve},
		{"unrelated class", u.MustLookup("app.Other"), decideResolve},
		{"primitive array", u.ArrayOf(u.MustLookup("int")), decideIndirectLoad},
		{"nested primitive array", u.ArrayOf(u.ArrayOf(u.MustLookup("int"))), decideResolve},
		{"reference array", u.ArrayOf(u.MustLookup("app.Other")), decideResolve},
		{"boxing cache holder", u.MustLookup("lang.Int.Cache"), decideResolveInitialize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.classifyType(tt.typ, holder)
			assert.Equal(t, tt.want, got)
			// Same inputs, same answer.
			assert.Equal(t, got, p.classifyType(tt.typ, holder))
		})
	}
}

func TestClassifyTypeInterfaceHolder(t *testing.T) {
	// When the compiling method's declaring type is itself an interface,
	// only exact equality earns the indirect load.
	u := testutil.BuildUniverse()
	iter := u.MustLookup("app.Iter")
	p := New()

	assert.Equal(t, decideIndirectLoad, p.classifyType(iter, iter))
	assert.Equal(t, decideResolve, p.classifyType(u.MustLookup("app.Other"), iter))
}

func TestClassifyTypeBoxCacheAllowList(t *testing.T) {
	// Every mirror in the default allow-list forces initialization; a
	// lookalike holder outside the list resolves like any other class.
	u := testutil.BuildUniverse()
	holder := u.MustLookup("app.Main")
	p := New()

	mirrors := make([]string, 0, len(meta.DefaultBoxCacheMirrors()))
	for m := range meta.DefaultBoxCacheMirrors() {
		mirrors = append(mirrors, string(m))
	}
	sort.Strings(mirrors)

	for _, name := range mirrors {
		t.Run(name, func(t *testing.T) {
			cache, err := u.Lookup(name)
			if err != nil {
				cache = u.MustDefine(meta.TypeDef{Name: name, Kind: meta.KindClass})
			}
			assert.Equal(t, decideResolveInitialize, p.classifyType(cache, holder))
		})
	}

	other := u.MustDefine(meta.TypeDef{Name: "app.Fake.Cache", Kind: meta.KindClass})
	assert.Equal(t, decideResolve, p.classifyType(other, holder))
}

func TestClassifyTypeBoxCacheOverride(t *testing.T) {
	u := testutil.BuildUniverse()
	holder := u.MustLookup("app.Main")
	cache := u.MustLookup("lang.Int.Cache")

	// An empty non-nil allow-list disables initialization forcing.
	p := NewWithOptions(Options{
		VerifyFingerprints: true,
		BoxCacheMirrors:    map[meta.Mirror]struct{}{},
	})
	assert.Equal(t, decideResolve, p.classifyType(cache, holder))

	// A nil allow-list falls back to the defaults.
	p = NewWithOptions(Options{VerifyFingerprints: true})
	assert.Equal(t, decideResolveInitialize, p.classifyType(cache, holder))
}

func TestClassifyTypeAssignabilityBeatsBoxCache(t *testing.T) {
	// If the cache holder happens to sit on the holder's super chain, the
	// indirect load wins: the policy arms are ordered.
	u := testutil.BuildUniverse()
	sub := u.MustDefine(meta.TypeDef{Name: "app.CacheUser", Kind: meta.KindClass, Super: "lang.Int.Cache"})
	p := New()

	assert.Equal(t, decideIndirectLoad, p.classifyType(u.MustLookup("lang.Int.Cache"), sub))
}

func TestBadFingerprint(t *testing.T) {
	u := testutil.BuildUniverse()

	tests := []struct {
		name string
		typ  *meta.Type
		want bool
	}{
		{"stable class", u.MustLookup("app.Main"), false},
		{"unstable class", u.MustLookup("app.Hot"), true},
		{"primitive array is exempt", u.ArrayOf(u.MustLookup("int")), false},
		{"array checks elemental type", u.ArrayOf(u.MustLookup("app.Hot")), true},
		{"nested array checks elemental type", u.ArrayOf(u.ArrayOf(u.MustLookup("app.Hot"))), true},
		{"stable array", u.ArrayOf(u.MustLookup("app.Other")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, badFingerprint(u, tt.typ))
		})
	}
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "indirect-load", decideIndirectLoad.String())
	require.Equal(t, "full-resolve", decideResolve.String())
	require.Equal(t, "full-resolve-initialize", decideResolveInitialize.String())
}
