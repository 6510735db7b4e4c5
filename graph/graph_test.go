package graph_test

import (
	"encoding/json"
	"errors"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/graph"
	"github.com/kevinxiao27/lww-graph/internal/crdttest"
	"github.com/kevinxiao27/lww-graph/lww"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withNodes(c clock.Clock, nodes ...int) *graph.Graph[int] {
	g := graph.New[int](c)
	for _, n := range nodes {
		g.Add(graph.Node(n))
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := graph.New[int](clock.NewCounter())

	require.NoError(t, g.Add(graph.Node(1)))
	assert.True(t, g.Contains(graph.Node(1)))
}

func TestAddEdge(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1, 2)

	require.NoError(t, g.Add(graph.Edge(1, 2)))
	assert.True(t, g.Contains(graph.Edge(1, 2)))
	assert.False(t, g.Contains(graph.Edge(2, 1)))
}

func TestAddEdgeMissingDependent(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []int
		missing int
	}{
		{name: "second endpoint missing", nodes: []int{1}, missing: 2},
		{name: "first endpoint missing", nodes: []int{2}, missing: 1},
		{name: "both missing reports first", nodes: nil, missing: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := withNodes(clock.NewCounter(), tt.nodes...)

			err := g.Add(graph.Edge(1, 2))

			require.ErrorIs(t, err, graph.ErrDependentNotFound)
			var notFound *graph.DependentNotFoundError[int]
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, graph.Node(tt.missing), notFound.Entry)
			assert.False(t, g.Contains(graph.Edge(1, 2)))
		})
	}
}

func TestAddEdgeToRemovedNode(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1, 2)
	require.NoError(t, g.Remove(graph.Node(2)))

	err := g.Add(graph.Edge(1, 2))

	var notFound *graph.DependentNotFoundError[int]
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, graph.Node(2), notFound.Entry)
}

func TestRemoveMissingNode(t *testing.T) {
	g := graph.New[int](clock.NewCounter())

	err := g.Remove(graph.Node(1))

	assert.ErrorIs(t, err, lww.ErrElementDoesNotExist)
	assert.NotErrorIs(t, err, graph.ErrDependentFound)
}

func TestRemoveMissingEdge(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1, 2)

	assert.ErrorIs(t, g.Remove(graph.Edge(1, 2)), lww.ErrElementDoesNotExist)
}

func TestRemoveNodeWithDependentEdge(t *testing.T) {
	t.Run("outgoing", func(t *testing.T) {
		g := withNodes(clock.NewCounter(), 1, 2)
		require.NoError(t, g.Add(graph.Edge(1, 2)))

		err := g.Remove(graph.Node(1))

		var found *graph.DependentFoundError[int]
		require.ErrorAs(t, err, &found)
		assert.Equal(t, graph.Edge(1, 2), found.Entry)
		assert.ErrorIs(t, err, graph.ErrDependentFound)
		assert.True(t, g.Contains(graph.Node(1)))
	})

	t.Run("incoming", func(t *testing.T) {
		g := withNodes(clock.NewCounter(), 1, 2)
		require.NoError(t, g.Add(graph.Edge(1, 2)))

		var found *graph.DependentFoundError[int]
		require.ErrorAs(t, g.Remove(graph.Node(2)), &found)
		assert.Equal(t, graph.Edge(1, 2), found.Entry)
	})

	t.Run("first edge in canonical order", func(t *testing.T) {
		g := withNodes(clock.NewCounter(), 1, 2, 3, 4)
		require.NoError(t, g.Add(graph.Edge(1, 3)))
		require.NoError(t, g.Add(graph.Edge(4, 1)))
		require.NoError(t, g.Add(graph.Edge(1, 2)))

		for i := 0; i < 10; i++ {
			var found *graph.DependentFoundError[int]
			require.ErrorAs(t, g.Remove(graph.Node(1)), &found)
			assert.Equal(t, graph.Edge(1, 3), found.Entry)
		}
	})

	t.Run("self loop", func(t *testing.T) {
		g := withNodes(clock.NewCounter(), 1)
		require.NoError(t, g.Add(graph.Edge(1, 1)))

		var found *graph.DependentFoundError[int]
		require.ErrorAs(t, g.Remove(graph.Node(1)), &found)
		assert.Equal(t, graph.Edge(1, 1), found.Entry)
	})
}

func TestRemoveEdgeThenNode(t *testing.T) {
	g := graph.New[int](clock.NewCounter())
	require.NoError(t, g.Add(graph.Node(1)))
	require.NoError(t, g.Add(graph.Node(2)))
	require.NoError(t, g.Add(graph.Edge(1, 2)))

	require.ErrorIs(t, g.Remove(graph.Node(1)), graph.ErrDependentFound)
	require.NoError(t, g.Remove(graph.Edge(1, 2)))
	require.NoError(t, g.Remove(graph.Node(1)))

	assert.False(t, g.Contains(graph.Node(1)))
	assert.True(t, g.Contains(graph.Node(2)))
}

func TestContains(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1, 2)
	g.Remove(graph.Node(2))

	assert.True(t, g.Contains(graph.Node(1)))
	assert.False(t, g.Contains(graph.Node(2)))
	assert.False(t, g.Contains(graph.Edge(1, 2)))
}

func TestInvalidEntry(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1)
	var zero graph.Entry[int]

	assert.ErrorIs(t, g.Add(zero), graph.ErrInvalidEntry)
	assert.ErrorIs(t, g.Remove(zero), graph.ErrInvalidEntry)
	assert.False(t, g.Contains(zero))
}

func TestAll(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1, 2)
	require.NoError(t, g.Add(graph.Edge(1, 2)))

	want := mapset.NewSet(graph.Node(1), graph.Node(2), graph.Edge(1, 2))
	assert.True(t, want.Equal(g.All()))
	assert.Equal(t, []graph.Entry[int]{graph.Node(1), graph.Node(2), graph.Edge(1, 2)}, g.Elements())
}

func TestMerging(t *testing.T) {
	c := clock.NewCounter()

	a := withNodes(c, 1, 2, 3)
	require.NoError(t, a.Add(graph.Edge(1, 2)))
	require.NoError(t, a.Add(graph.Edge(2, 1)))

	b := withNodes(c, 1, 2)
	b.Remove(graph.Node(3))
	require.NoError(t, b.Add(graph.Edge(1, 2)))
	b.Remove(graph.Edge(2, 1))
	b.Add(graph.Node(4))
	b.Add(graph.Node(5))
	require.NoError(t, b.Add(graph.Edge(4, 5)))

	want := mapset.NewSet(
		graph.Node(1),
		graph.Node(2),
		graph.Edge(1, 2),
		graph.Node(4),
		graph.Node(5),
		graph.Edge(4, 5),
	)
	assert.True(t, want.Equal(a.Merging(b).All()), "got %v", a.Merging(b).All())
	assert.True(t, a.Merging(b).Equal(b.Merging(a)))
}

func TestMergingListsSharedEntriesOnce(t *testing.T) {
	c := clock.NewCounter()
	a := withNodes(c, 1, 2)
	require.NoError(t, a.Add(graph.Edge(1, 2)))
	b := withNodes(c, 2, 1, 3)
	require.NoError(t, b.Add(graph.Edge(1, 2)))

	merged := a.Merging(b)
	for i := 0; i < 5; i++ {
		merged = merged.Merging(b).Merging(a)
	}

	assert.Equal(t, []graph.Entry[int]{
		graph.Node(1), graph.Node(2), graph.Node(3), graph.Edge(1, 2),
	}, merged.Elements())
	assert.Equal(t, []int{1, 2, 3}, merged.Nodes())
	assert.Equal(t, []lww.Pair[int, int]{lww.MakePair(1, 2)}, merged.Edges())
	assert.Len(t, merged.State().Nodes.Additions, 3)
	assert.Len(t, merged.State().Edges.Additions, 1)
}

func TestMergingLeavesDanglingEdges(t *testing.T) {
	c := clock.NewCounter()
	a := withNodes(c, 1, 2)
	b := a.Merging(graph.New[int](c))

	require.NoError(t, a.Remove(graph.Node(2)))
	require.NoError(t, b.Add(graph.Edge(1, 2)))

	merged := a.Merging(b)

	assert.False(t, merged.Contains(graph.Node(2)))
	assert.True(t, merged.Contains(graph.Edge(1, 2)))
	assert.Equal(t, []lww.Pair[int, int]{lww.MakePair(1, 2)}, merged.Dangling())
	assert.Empty(t, a.Dangling())
	assert.Empty(t, b.Dangling())

	var found *graph.DependentFoundError[int]
	require.ErrorAs(t, merged.Remove(graph.Node(1)), &found)
	assert.Equal(t, graph.Edge(1, 2), found.Entry)
}

func TestGraphLaws(t *testing.T) {
	c := clock.NewCounter()

	a := withNodes(c, 1, 2)

	b := withNodes(c, 1, 2)
	b.Add(graph.Edge(1, 2))

	d := withNodes(c, 1, 2)
	d.Add(graph.Edge(1, 2))
	d.Remove(graph.Edge(1, 2))
	d.Remove(graph.Node(2))

	crdttest.CheckLaws[graph.Entry[int], graph.State[int]](t, a, b, d)
}

func TestString(t *testing.T) {
	g := withNodes(clock.NewCounter(), 1, 2)
	g.Add(graph.Edge(1, 2))

	assert.Equal(t, "Nodes:\n1 2\nEdges:\n1 -> 2", g.String())
	assert.Contains(t, g.Dump(), "Edges")
}

func TestStateRoundTrip(t *testing.T) {
	c := clock.NewCounter()
	g := withNodes(c, 1, 2, 3)
	g.Add(graph.Edge(1, 2))
	g.Remove(graph.Node(3))
	g.Remove(graph.Edge(2, 1))

	data, err := json.Marshal(g.State())
	require.NoError(t, err)

	var st graph.State[int]
	require.NoError(t, json.Unmarshal(data, &st))

	restored := graph.FromState(clock.NewCounter(), st)
	assert.True(t, g.Equal(restored))
	assert.Equal(t, g.State(), restored.State())
	assert.Equal(t, clock.Tag(6), st.MaxTag())
}

func TestEntry(t *testing.T) {
	assert.Equal(t, "1", graph.Node(1).String())
	assert.Equal(t, "(1,2)", graph.Edge(1, 2).String())
	assert.NotEqual(t, graph.Edge(1, 2), graph.Edge(2, 1))
	assert.NotEqual(t, graph.Node(1), graph.Edge(1, 0))

	data, err := json.Marshal(graph.Edge("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"edge","from":"a","to":"b"}`, string(data))

	var e graph.Entry[string]
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"node","from":"x"}`), &e))
	assert.Equal(t, graph.Node("x"), e)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"vertex","from":"x"}`), &e))
}

func TestErrorMessages(t *testing.T) {
	notFound := &graph.DependentNotFoundError[int]{Entry: graph.Node(2)}
	found := &graph.DependentFoundError[int]{Entry: graph.Edge(1, 2)}

	assert.Equal(t, "dependent node not found: 2", notFound.Error())
	assert.Equal(t, "dependent edge found: (1,2)", found.Error())
	assert.NotErrorIs(t, notFound, graph.ErrDependentFound)
	assert.NotErrorIs(t, found, graph.ErrDependentNotFound)
}
