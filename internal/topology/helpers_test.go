package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socgen/internal/testutil"
	"github.com/vk/socgen/internal/topology"
)

// extraModules adds a bus bridge and a fanned-out peripheral.
const extraModules = `
module "bridge" {
  size = hex("4000")
  ifports = [
    { name = "obi", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 32 },
    { name = "apb", modport = "master", prefix = "m_", ADDR_WIDTH = 32, DATA_WIDTH = 32 },
  ]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}

module "gpio" {
  size    = 256
  ifports = [{ name = "apb", modport = "slave", prefix = "s_", ADDR_WIDTH = 12, DATA_WIDTH = 32, N = 2 }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}
`

type harness struct {
	fixture *testutil.Fixture
	builder *topology.Builder
}

func newHarness(t *testing.T, sources ...string) *harness {
	t.Helper()
	all := append([]string{testutil.Protocols, testutil.Peripherals, extraModules}, sources...)
	f := testutil.Load(t, all...)
	return &harness{fixture: f, builder: topology.NewBuilder(f.Library, f.Registry)}
}

// buildTop builds the last subsystem the sources declare.
func (h *harness) buildTop(t *testing.T) (*topology.Subsystem, error) {
	t.Helper()
	top, err := h.fixture.Library.DefaultTop()
	require.NoError(t, err)
	return h.builder.BuildSubsystem(h.fixture.Ctx, h.fixture.Elaborate(t, top))
}

func (h *harness) module(t *testing.T, definition string) *topology.Module {
	t.Helper()
	m, err := h.builder.NewModule(h.fixture.Ctx, h.fixture.Elaborate(t, definition))
	require.NoError(t, err)
	return m
}

func findPort(t *testing.T, s *topology.Subsystem, path string) *topology.InterfacePort {
	t.Helper()
	p, err := s.FindPortInChildren(path)
	require.NoError(t, err)
	return p
}

func signalNames(sigs []*topology.Signal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Name()
	}
	return out
}
