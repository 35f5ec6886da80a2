package meta

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// LoadError reports a universe file that failed to compile or validate.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return &LoadError{Field: "cue", Message: firstErr.Error()}
}

// LoadUniverse reads a universe CUE file and compiles it into a Universe.
//
// Expected shape:
//
//	universe: {
//		types: {
//			"lang.String": {kind: "class"}
//			"app.Main": {kind: "class", super: "lang.Object", fields: {x: "int"}}
//			"app.Iter": {kind: "interface"}
//		}
//		methods: {
//			"app.Main.run": {declaring: "app.Main"}
//		}
//	}
//
// Primitives and lang.Object are predeclared and must not be redefined.
// Array types are never declared; they derive from element types on lookup.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileUniverse(v.LookupPath(cue.ParsePath("universe")))
}

// CompileUniverse parses a CUE value holding the universe struct. Split from
// LoadUniverse so callers embedding universes in larger CUE configurations
// can compile the inner value directly.
func CompileUniverse(v cue.Value) (*Universe, error) {
	if !v.Exists() {
		return nil, &LoadError{Field: "universe", Message: "universe struct is required"}
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return nil, &LoadError{Field: "universe", Message: "universe must be a struct", Pos: v.Pos()}
	}

	u := NewUniverse()

	// Parse raw type definitions first; definition order in the file is not
	// required to be topological, so supers/interfaces resolve lazily.
	defs := make(map[string]TypeDef)
	var order []string
	typesVal := v.LookupPath(cue.ParsePath("types"))
	if typesVal.Exists() {
		iter, err := typesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Label()
			def, err := parseTypeDef(name, iter.Value())
			if err != nil {
				return nil, err
			}
			defs[name] = def
			order = append(order, name)
		}
	}

	var define func(name string, trail []string) error
	define = func(name string, trail []string) error {
		if _, ok := u.types[name]; ok {
			return nil
		}
		def, ok := defs[name]
		if !ok {
			// Array forms and predeclared names resolve through Lookup at
			// Define time; anything else is a hard error there.
			return nil
		}
		for _, t := range trail {
			if t == name {
				return &LoadError{Field: name, Message: "cyclic type definition"}
			}
		}
		trail = append(trail, name)
		if def.Super != "" {
			if err := define(def.Super, trail); err != nil {
				return err
			}
		}
		for _, in := range def.Interfaces {
			if err := define(in, trail); err != nil {
				return err
			}
		}
		if _, err := u.Define(def); err != nil {
			return &LoadError{Field: name, Message: err.Error()}
		}
		return nil
	}
	for _, name := range order {
		if err := define(name, nil); err != nil {
			return nil, err
		}
	}

	methodsVal := v.LookupPath(cue.ParsePath("methods"))
	if methodsVal.Exists() {
		iter, err := methodsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			qualified := iter.Label()
			declVal := iter.Value().LookupPath(cue.ParsePath("declaring"))
			if !declVal.Exists() {
				return nil, &LoadError{Field: qualified, Message: "declaring is required", Pos: iter.Value().Pos()}
			}
			declaring, err := declVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			name := qualified
			if len(declaring) < len(qualified) && qualified[:len(declaring)] == declaring && qualified[len(declaring)] == '.' {
				name = qualified[len(declaring)+1:]
			}
			if _, err := u.DefineMethod(declaring, name); err != nil {
				return nil, &LoadError{Field: qualified, Message: err.Error(), Pos: iter.Value().Pos()}
			}
		}
	}

	return u, nil
}

func parseTypeDef(name string, v cue.Value) (TypeDef, error) {
	def := TypeDef{Name: name}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return def, &LoadError{Field: name, Message: "kind is required", Pos: v.Pos()}
	}
	kind, err := kindVal.String()
	if err != nil {
		return def, formatCUEError(err)
	}
	switch kind {
	case "class":
		def.Kind = KindClass
	case "interface":
		def.Kind = KindInterface
	default:
		return def, &LoadError{Field: name, Message: fmt.Sprintf("kind must be class or interface, got %q", kind), Pos: kindVal.Pos()}
	}

	if sv := v.LookupPath(cue.ParsePath("super")); sv.Exists() {
		if def.Super, err = sv.String(); err != nil {
			return def, formatCUEError(err)
		}
	}
	if iv := v.LookupPath(cue.ParsePath("interfaces")); iv.Exists() {
		list, err := iv.List()
		if err != nil {
			return def, formatCUEError(err)
		}
		for list.Next() {
			in, err := list.Value().String()
			if err != nil {
				return def, formatCUEError(err)
			}
			def.Interfaces = append(def.Interfaces, in)
		}
	}
	if fv := v.LookupPath(cue.ParsePath("fields")); fv.Exists() {
		fields, err := fv.Fields()
		if err != nil {
			return def, formatCUEError(err)
		}
		for fields.Next() {
			tn, err := fields.Value().String()
			if err != nil {
				return def, formatCUEError(err)
			}
			def.Fields = append(def.Fields, Field{Name: fields.Label(), TypeName: tn})
		}
	}
	if mv := v.LookupPath(cue.ParsePath("mirror")); mv.Exists() {
		if def.Mirror, err = mv.String(); err != nil {
			return def, formatCUEError(err)
		}
	}
	if uv := v.LookupPath(cue.ParsePath("unstable")); uv.Exists() {
		unstable, err := uv.Bool()
		if err != nil {
			return def, formatCUEError(err)
		}
		def.Unstable = unstable
	}
	return def, nil
}
