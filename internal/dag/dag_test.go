package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("soc")
	g.AddNode("soc") // idempotent
	g.AddNode("uart")
	assert.Len(t, g.nodes, 2)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("soc")
		g.AddNode("uart")
		g.AddNode("gpio")

		require.NoError(t, g.AddEdge("soc", "uart"))
		require.NoError(t, g.AddEdge("soc", "gpio"))

		deps, err := g.Dependents("soc")
		require.NoError(t, err)
		assert.Equal(t, []string{"gpio", "uart"}, deps)

		preds, err := g.Dependencies("uart")
		require.NoError(t, err)
		assert.Equal(t, []string{"soc"}, preds)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")

		assert.ErrorContains(t, g.AddEdge("dne", "a"), "source node not found")
		assert.ErrorContains(t, g.AddEdge("a", "dne"), "destination node not found")

		_, err := g.Dependents("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestDetectCycles(t *testing.T) {
	testCases := []struct {
		name    string
		nodes   []string
		edges   [][2]string
		wantErr string
	}{
		{name: "empty graph"},
		{name: "no edges", nodes: []string{"a", "b"}},
		{
			name:  "diamond is acyclic",
			nodes: []string{"soc", "periph", "mem", "uart"},
			edges: [][2]string{{"soc", "periph"}, {"soc", "mem"}, {"periph", "uart"}, {"mem", "uart"}},
		},
		{
			name:    "self instantiation",
			nodes:   []string{"soc"},
			edges:   [][2]string{{"soc", "soc"}},
			wantErr: "cycle detected: soc -> soc",
		},
		{
			name:    "longer cycle reports the full path",
			nodes:   []string{"a", "b", "c"},
			edges:   [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantErr: "cycle detected: a -> b -> c -> a",
		},
		{
			name:    "cycle in a disjoint component",
			nodes:   []string{"a", "b", "x", "y"},
			edges:   [][2]string{{"a", "b"}, {"x", "y"}, {"y", "x"}},
			wantErr: "cycle detected: x -> y -> x",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, n := range tc.nodes {
				g.AddNode(n)
			}
			for _, e := range tc.edges {
				require.NoError(t, g.AddEdge(e[0], e[1]))
			}

			err := g.DetectCycles()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}
