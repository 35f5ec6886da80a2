package harness

import (
	"fmt"
	"sort"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/meta"
)

// buildGraph constructs the scenario's graph against a compiled universe.
// Construction order is deterministic: blocks in listed order, then
// constants and counters in sorted name order. Node IDs, and therefore
// dumps, stay stable for golden comparison.
func buildGraph(s *Scenario, u *meta.Universe) (*ir.Graph, error) {
	method, err := u.Method(s.Method)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	g := ir.NewGraph(method)

	blocks := make(map[string]*ir.Block, len(s.Blocks))
	for _, def := range s.Blocks {
		blocks[def.Name] = g.NewBlock()
	}
	for _, def := range s.Blocks {
		for _, succ := range def.Succ {
			g.Connect(blocks[def.Name], blocks[succ])
		}
	}

	values := make(map[string]*ir.Node, len(s.Constants)+len(s.Counters))
	for _, name := range sortedKeys(s.Constants) {
		c, err := buildConstant(s.Constants[name], u)
		if err != nil {
			return nil, fmt.Errorf("constant %q: %w", name, err)
		}
		values[name] = g.NewConst(c)
	}
	for _, name := range sortedKeys(s.Counters) {
		m, err := u.Method(s.Counters[name])
		if err != nil {
			return nil, fmt.Errorf("counter %q: %w", name, err)
		}
		values[name] = g.NewLoadCounters(m)
	}

	for _, def := range s.Blocks {
		b := blocks[def.Name]
		for _, effect := range def.Effects {
			args := make([]*ir.Node, len(effect))
			for i, ref := range effect {
				args[i] = values[ref]
			}
			g.AppendEffect(b, args...)
		}
		switch len(def.Succ) {
		case 0:
			g.AppendTerminator(b, ir.OpReturn)
		case 1:
			g.AppendTerminator(b, ir.OpGoto)
		case 2:
			g.AppendTerminator(b, ir.OpIf)
		}
	}

	return g, nil
}

// buildConstant resolves one constant definition against the universe.
func buildConstant(def ConstantDef, u *meta.Universe) (ir.Constant, error) {
	if def.Type != "" {
		t, err := u.Lookup(def.Type)
		if err != nil {
			return nil, err
		}
		return ir.TypeHandleConstant{Type: t, Compressed: def.Compressed}, nil
	}

	className := def.Of
	if className == "" {
		className = "lang.String"
	}
	t, err := u.Lookup(className)
	if err != nil {
		return nil, err
	}
	return ir.ObjectConstant{Type: t, Value: *def.String, Compressed: def.Compressed}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
