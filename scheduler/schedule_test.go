package scheduler_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/scheduler"
)

func position(order []string, v string) int {
	for i, x := range order {
		if x == v {
			return i
		}
	}
	return -1
}

func TestSchedule_EmptyGraph(t *testing.T) {
	g := depgraph.New()
	order, err := scheduler.Schedule(g)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestSchedule_NoEdgesOrderedLexicographically(t *testing.T) {
	g := depgraph.New()
	g.AddNode("c")
	g.AddNode("a")
	g.AddNode("b")

	order, err := scheduler.Schedule(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSchedule_SimpleChain(t *testing.T) {
	g := depgraph.New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	order, err := scheduler.Schedule(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSchedule_TieBreaksLexicographically(t *testing.T) {
	// root -> z, root -> a, root -> m: all three become ready together,
	// and must come out in id order despite insertion order z,a,m.
	g := depgraph.New()
	require.NoError(t, g.AddEdge("root", "z"))
	require.NoError(t, g.AddEdge("root", "a"))
	require.NoError(t, g.AddEdge("root", "m"))

	order, err := scheduler.Schedule(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "m", "z"}, order)
}

func TestSchedule_RespectsAllEdges(t *testing.T) {
	g := depgraph.New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("a", "c"))
	require.NoError(t, g.AddEdge("b", "d"))
	require.NoError(t, g.AddEdge("c", "d"))

	order, err := scheduler.Schedule(g)
	require.NoError(t, err)
	assert.Less(t, position(order, "a"), position(order, "b"))
	assert.Less(t, position(order, "a"), position(order, "c"))
	assert.Less(t, position(order, "b"), position(order, "d"))
	assert.Less(t, position(order, "c"), position(order, "d"))
}

func TestSchedule_CycleRejected(t *testing.T) {
	g := depgraph.New()
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	_, err := scheduler.Schedule(g)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeGraphCycle, ce.Code)
}

// TestSchedule_DeterministicUnderShuffledConstruction builds the same
// graph repeatedly with edges added in randomized order and checks the
// schedule is identical every time: the result depends only on the
// node/edge set, never on insertion order.
func TestSchedule_DeterministicUnderShuffledConstruction(t *testing.T) {
	type edge struct{ from, to string }
	edges := []edge{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"},
		{"d", "e"}, {"a", "e"}, {"x", "y"}, {"y", "d"},
	}

	var first []string
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]edge, len(edges))
		copy(shuffled, edges)
		rand.New(rand.NewSource(int64(trial))).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		g := depgraph.New()
		for _, e := range shuffled {
			require.NoError(t, g.AddEdge(e.from, e.to))
		}
		order, err := scheduler.Schedule(g)
		require.NoError(t, err)

		if first == nil {
			first = order
		} else {
			assert.Equal(t, first, order)
		}
	}
}
