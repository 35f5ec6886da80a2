package testutil

import "github.com/keel-lang/keel/internal/meta"

// BuildUniverse returns the standard test universe:
//
//	lang.Object
//	└── lang.String            (the interned-string class)
//	└── lang.Int.Cache         (boxing-cache holder, on the allow-list)
//	└── app.Base               (implements app.Iter)
//	    └── app.Main           (declares run, the usual top method)
//	└── app.Other              (declares helper)
//	└── app.Hot                (unstable: fingerprints to 0)
//	app.Iter                   (interface)
//
// Tests that need more define on top of it.
func BuildUniverse() *meta.Universe {
	u := meta.NewUniverse()
	u.MustDefine(meta.TypeDef{Name: "lang.String", Kind: meta.KindClass, Mirror: string(meta.StringMirror)})
	u.MustDefine(meta.TypeDef{Name: "lang.Int.Cache", Kind: meta.KindClass, Mirror: string(meta.MirrorIntCache)})
	u.MustDefine(meta.TypeDef{Name: "app.Iter", Kind: meta.KindInterface})
	u.MustDefine(meta.TypeDef{Name: "app.Base", Kind: meta.KindClass, Interfaces: []string{"app.Iter"}})
	u.MustDefine(meta.TypeDef{Name: "app.Main", Kind: meta.KindClass, Super: "app.Base"})
	u.MustDefine(meta.TypeDef{Name: "app.Other", Kind: meta.KindClass})
	u.MustDefine(meta.TypeDef{Name: "app.Hot", Kind: meta.KindClass, Unstable: true})
	u.MustDefineMethod("app.Main", "run")
	u.MustDefineMethod("app.Other", "helper")
	return u
}
