package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socgen/internal/topology"
)

const dualClockModules = `
module "dual" {
  ifports = [{ name = "obi", modport = "master", prefix = "m_" }]

  signal "clk_core_iA" { signal_type = "clk" }
  signal "clk_core_iB" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}

module "timer" {
  size    = 64
  ifports = [{ name = "obi", modport = "slave", prefix = "s_" }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
  signal "tick_i" {
    input = true
    path  = "soc.tick_src"
  }
}
`

func TestBuildSubsystem_ClockMatching(t *testing.T) {
	t.Parallel()
	h := newHarness(t, dualClockModules, `
subsystem "soc" {
  signal "clk_iA" { signal_type = "clk" }
  signal "clk_iB" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
  signal "tick_src" {}

  instance "dual" "core0" {}
  instance "timer" "timer0" {}
}
`)
	s, err := h.buildTop(t)
	require.NoError(t, err)

	byChild := make(map[string]string)
	fallbacks := 0
	for _, b := range s.ClockBindings() {
		byChild[b.Module.Name()+"."+b.Signal.Name()] = b.Parent.Name()
		if b.Fallback {
			fallbacks++
		}
	}

	require.Equal(t, "clk_iA", byChild["core0.clk_core_iA"], "replica tags pair up when counts agree")
	require.Equal(t, "clk_iB", byChild["core0.clk_core_iB"])
	require.Equal(t, "clk_iA", byChild["timer0.clk_i"], "ambiguous matches fall back to the first clock")
	require.Equal(t, "rst_ni", byChild["timer0.rst_ni"])

	// timer0 and the fabric each have one clock against two candidates.
	require.Equal(t, 2, fallbacks)
	require.Len(t, s.Warnings(), 2)
	require.Contains(t, s.Warnings()[0], "ambiguous clock for timer0.clk_i")
	require.Contains(t, h.fixture.Logs.String(), "Ambiguous signal match")

	require.Len(t, s.SignalBindings(), 1)
	require.Equal(t, "tick_i", s.SignalBindings()[0].Signal.Name())
	require.Equal(t, "tick_src", s.SignalBindings()[0].Parent.Name())
}

func TestBuildSubsystem_UnresolvedSignalPath(t *testing.T) {
	t.Parallel()
	h := newHarness(t, dualClockModules, `
subsystem "soc" {
  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }

  instance "cpu" "cpu0" {}
  instance "timer" "timer0" {}
}
`)
	_, err := h.buildTop(t)
	require.ErrorIs(t, err, topology.ErrSignalNotFound)
	require.ErrorContains(t, err, "soc.timer0.tick_i")
}

func TestSubsystem_MatchingSignal(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
module "plic" {
  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
  signal "irq_i" { input = true }
  signal "ext_i" { input = true }
  signal "spare_i" { input = true }
}

subsystem "soc" {
`+clocks+`
  signal "irq_line" { to = "plic0.irq" }
  signal "ext_i" {}

  instance "cpu" "cpu0" {}
  instance "uart" "uart0" {}
  instance "plic" "plic0" {}
}
`)
	s, err := h.buildTop(t)
	require.NoError(t, err)
	plic, ok := s.Child("plic0")
	require.True(t, ok)
	uart, ok := s.Child("uart0")
	require.True(t, ok)

	pick := func(name string) *topology.Signal {
		for _, sig := range plic.AsModule().PortSignals() {
			if sig.Name() == name {
				return sig
			}
		}
		t.Fatalf("no signal %s", name)
		return nil
	}

	got, err := s.MatchingSignal(plic, pick("irq_i"))
	require.NoError(t, err)
	require.Equal(t, "irq_line", got.Name(), "a to hint on the parent wins")

	got, err = s.MatchingSignal(plic, pick("ext_i"))
	require.NoError(t, err)
	require.Equal(t, "ext_i", got.Name(), "exact names match")

	got, err = s.MatchingSignal(uart, uart.AsModule().PortSignals()[2])
	require.NoError(t, err)
	require.Equal(t, "uart0_irq_o", got.Name(), "propagated names match")

	_, err = s.MatchingSignal(plic, pick("spare_i"))
	require.ErrorIs(t, err, topology.ErrSignalNotFound)
}

func TestBuildSubsystem_HintNamingMissingChildSignal(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "soc" {
`+clocks+`
  signal "irq_line" { to = "uart0.intr" }

  instance "cpu" "cpu0" {}
  instance "uart" "uart0" {}
}
`)
	_, err := h.buildTop(t)
	require.ErrorIs(t, err, topology.ErrSignalNotFound)
	require.ErrorContains(t, err, `routing hint "uart0.intr"`)
}
