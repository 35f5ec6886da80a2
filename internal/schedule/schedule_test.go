package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keel-lang/keel/internal/ir"
	"github.com/keel-lang/keel/internal/meta"
)

func testMethod(t *testing.T) *meta.Method {
	t.Helper()
	u := meta.NewUniverse()
	u.MustDefine(meta.TypeDef{Name: "app.Main", Kind: meta.KindClass})
	return u.MustDefineMethod("app.Main", "run")
}

// diamond builds:
//
//	b0 -> b1, b2
//	b1 -> b3
//	b2 -> b3
func diamond(t *testing.T, g *ir.Graph) (b0, b1, b2, b3 *ir.Block) {
	t.Helper()
	b0 = g.NewBlock()
	b1 = g.NewBlock()
	b2 = g.NewBlock()
	b3 = g.NewBlock()
	g.Connect(b0, b1)
	g.Connect(b0, b2)
	g.Connect(b1, b3)
	g.Connect(b2, b3)
	g.AppendTerminator(b0, ir.OpIf)
	g.AppendTerminator(b1, ir.OpGoto)
	g.AppendTerminator(b2, ir.OpGoto)
	g.AppendTerminator(b3, ir.OpReturn)
	return
}

func TestDominanceDiamond(t *testing.T) {
	g := ir.NewGraph(testMethod(t))
	b0, b1, b2, b3 := diamond(t, g)
	s, err := Compute(g, Latest)
	require.NoError(t, err)

	assert.True(t, s.StrictlyDominates(b0, b1))
	assert.True(t, s.StrictlyDominates(b0, b2))
	assert.True(t, s.StrictlyDominates(b0, b3))
	assert.False(t, s.StrictlyDominates(b1, b3), "join point has two paths")
	assert.False(t, s.StrictlyDominates(b2, b3))
	assert.False(t, s.StrictlyDominates(b1, b2))
	assert.False(t, s.StrictlyDominates(b0, b0), "strict excludes self")
	assert.True(t, s.Dominates(b0, b0))
}

func TestDominanceChain(t *testing.T) {
	g := ir.NewGraph(testMethod(t))
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	g.Connect(b0, b1)
	g.Connect(b1, b2)
	g.AppendTerminator(b0, ir.OpGoto)
	g.AppendTerminator(b1, ir.OpGoto)
	g.AppendTerminator(b2, ir.OpReturn)

	s, err := Compute(g, Latest)
	require.NoError(t, err)
	assert.True(t, s.StrictlyDominates(b0, b2))
	assert.True(t, s.StrictlyDominates(b1, b2))
	assert.False(t, s.StrictlyDominates(b2, b1))
}

func TestFloatingAssignmentLCA(t *testing.T) {
	m := testMethod(t)
	g := ir.NewGraph(m)
	b0 := g.NewBlock()
	b1 := g.NewBlock()
	b2 := g.NewBlock()
	b3 := g.NewBlock()
	g.Connect(b0, b1)
	g.Connect(b0, b2)
	g.Connect(b1, b3)
	g.Connect(b2, b3)

	c := g.UniqueConst(ir.TypeHandleConstant{Type: m.Declaring()})
	u1 := g.AppendEffect(b1, c)
	g.AppendEffect(b2, c)
	solo := g.UniqueConst(ir.ObjectConstant{Type: m.Declaring(), Value: "x"})
	u3 := g.AppendEffect(b3, solo)

	g.AppendTerminator(b0, ir.OpIf)
	g.AppendTerminator(b1, ir.OpGoto)
	g.AppendTerminator(b2, ir.OpGoto)
	g.AppendTerminator(b3, ir.OpReturn)

	s, err := Compute(g, Latest)
	require.NoError(t, err)

	assert.Same(t, b0, s.BlockOf(c), "uses in two siblings meet at their dominator")
	assert.Same(t, b3, s.BlockOf(solo), "single-block use schedules at the use")
	assert.Same(t, b1, s.BlockOf(u1), "fixed nodes keep their block")

	// Constants are ordered before their first in-block user.
	order := s.OrderedNodes(b3)
	assert.True(t, s.Before(solo, u3))
	require.Len(t, order, 4) // begin, const, effect, return
	assert.Same(t, solo, order[1])

	// c has no user inside b0: it is placed before the terminator.
	b0Order := s.OrderedNodes(b0)
	require.Len(t, b0Order, 3) // begin, const, if
	assert.Same(t, c, b0Order[1])
	assert.Equal(t, ir.OpIf, b0Order[2].Op())
}

func TestFloatingChainOrdering(t *testing.T) {
	m := testMethod(t)
	g := ir.NewGraph(m)
	b0 := g.NewBlock()

	c := g.UniqueConst(ir.TypeHandleConstant{Type: m.Declaring()})
	load := g.UniqueIndirectLoad(c)
	use := g.AppendEffect(b0, load)
	g.AppendTerminator(b0, ir.OpReturn)

	s, err := Compute(g, Latest)
	require.NoError(t, err)

	assert.True(t, s.Before(c, load), "inputs schedule before consumers")
	assert.True(t, s.Before(load, use))
}

func TestComputeErrors(t *testing.T) {
	m := testMethod(t)

	g := ir.NewGraph(m)
	_, err := Compute(g, Latest)
	require.Error(t, err, "empty graph")

	g = ir.NewGraph(m)
	g.NewBlock()
	g.NewBlock() // never connected
	_, err = Compute(g, Latest)
	require.Error(t, err, "unreachable block")

	g = ir.NewGraph(m)
	g.NewBlock()
	_, err = Compute(g, Strategy("eager"))
	require.Error(t, err, "unknown strategy")
}

func TestScheduleIsSnapshot(t *testing.T) {
	m := testMethod(t)
	g := ir.NewGraph(m)
	b0 := g.NewBlock()
	u := g.AppendEffect(b0)
	g.AppendTerminator(b0, ir.OpReturn)

	s, err := Compute(g, Latest)
	require.NoError(t, err)
	before := s.OrderedNodes(b0)

	// Mutating the graph does not change the already-computed order.
	c := g.UniqueConst(ir.TypeHandleConstant{Type: m.Declaring()})
	r := g.NewResolve(c, ir.ActionResolve)
	g.InsertAfter(u, r)

	assert.Equal(t, before, s.OrderedNodes(b0))
}
