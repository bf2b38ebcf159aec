package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socgen/internal/topology"
)

func TestEnumerateSubsystems(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "periph" {
  instance "uart" "uart0" {}
}

subsystem "cluster" {
  instance "periph" "periph_a" {}
  instance "cpu" "cpu0" {}
}

subsystem "soc" {
  instance "cluster" "cluster0" {}
  instance "periph" "periph_b" {}
  instance "sram" "sram0" {}
}
`)
	root := h.fixture.Elaborate(t, "soc")

	nodes := topology.EnumerateSubsystems(root)

	paths := make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path()
	}
	require.Equal(t, []string{"soc", "soc.cluster0", "soc.cluster0.periph_a", "soc.periph_b"}, paths)

	leaf := h.fixture.Elaborate(t, "uart")
	require.Empty(t, topology.EnumerateSubsystems(leaf))
}
