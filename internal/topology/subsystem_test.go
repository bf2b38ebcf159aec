package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socgen/internal/topology"
	"github.com/zclconf/go-cty/cty"
)

const clocks = `
  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" {
    signal_type = "rst"
    activelow   = true
  }
`

func TestBuildSubsystem_InsertsSingleAdapter(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "soc" {
`+clocks+`
  instance "cpu" "cpu0" {}
  instance "uart" "uart0" { at = hex("3000") }
}
`)
	s, err := h.buildTop(t)
	require.NoError(t, err)
	require.Equal(t, topology.StateDone, s.State())

	uartPort := findPort(t, s, "uart0.s_")
	cpuPort := findPort(t, s, "cpu0.m_")
	require.Equal(t, []*topology.InterfacePort{cpuPort}, s.Initiators())
	require.Equal(t, []*topology.InterfacePort{uartPort}, s.Endpoints())

	require.Len(t, s.Interconnects(), 1)
	ic := s.Interconnects()[0]
	require.Equal(t, "obi_interconnect", ic.Definition)
	require.Equal(t, "obi_interconnect_i", ic.Name())
	require.Equal(t, "obi", ic.Protocol)

	adapters := s.AllAdapters()
	require.Len(t, adapters, 1)
	a := adapters[0]
	require.Equal(t, "obi2apb", a.Definition)
	require.Equal(t, "obi2apb_uart0_s", a.Name())
	require.Same(t, cpuPort, a.From)
	require.Same(t, uartPort, a.To)
	require.Same(t, uartPort, a.MasterPort().Origin())
	require.Equal(t, uint64(0x3000), a.BaseAddress())
	require.Equal(t, uint64(0x400), a.Size())

	bound, ok := s.Binding(uartPort)
	require.True(t, ok)
	require.Same(t, a.SlavePort(), bound)
	require.Equal(t, []*topology.InterfacePort{a.SlavePort()}, ic.ExtMasterPorts)
	require.Equal(t, []*topology.InterfacePort{cpuPort}, ic.ExtSlavePorts)

	require.Equal(t, topology.SchemeMemMap, ic.Scheme)
	require.Equal(t, []uint64{0x3000, 0x3400}, topology.MemMap(ic.Regions), "pairs are base and end address")
	require.True(t, ic.Overrides["N_MST_PORTS"].RawEquals(cty.NumberIntVal(1)))
	_, hasSlv := ic.Overrides["N_SLV_PORTS"]
	require.False(t, hasSlv, "a single initiator keeps the definition's default")

	var memMap topology.HWParam
	for _, p := range ic.Parameters() {
		if p.Name == "MEM_MAP" {
			memMap = p
		}
	}
	require.Equal(t, "'{32'h00003000, 32'h00003400}", memMap.Literal())

	require.Len(t, s.AllModules(), 4)
	require.Len(t, s.ClockBindings(), 8, "a clock and a reset for cpu0, uart0, the adapter, and the fabric")
	for _, b := range s.ClockBindings() {
		require.False(t, b.Fallback)
	}
	require.Empty(t, s.Warnings())
	require.Equal(t, []string{"uart0_irq_o"}, signalNames(s.PropagatedSignals()))
}

func TestBuildSubsystem_NestedSlaveMaskFabric(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "periph" {
  size    = hex("4000")
  ifports = [{ name = "apb", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }]
`+clocks+`
  instance "uart" "uart0" { at = hex("0000") }
  instance "uart" "uart1" { at = hex("1000") }
  instance "uart" "uart2" { at = hex("2000") }
}

subsystem "soc" {
`+clocks+`
  instance "cpu" "cpu0" {}
  instance "periph" "periph0" { at = hex("1000_0000") }
}
`)
	soc, err := h.buildTop(t)
	require.NoError(t, err)

	child, ok := soc.Child("periph0")
	require.True(t, ok)
	periph, ok := child.(*topology.Subsystem)
	require.True(t, ok)

	require.Len(t, periph.Interconnects(), 1)
	ic := periph.Interconnects()[0]
	require.Equal(t, "apb_interconnect", ic.Definition)
	require.Equal(t, topology.SchemeSlaveMask, ic.Scheme)
	require.Empty(t, periph.AllAdapters())

	addrs, masks := topology.SlaveAddrMask(ic.Regions, ic.AddrWidth)
	require.Equal(t, []uint64{0x10002000, 0x10001000, 0x10000000}, addrs)
	require.Equal(t, []uint64{0xFFFFFC00, 0xFFFFFC00, 0xFFFFFC00}, masks)
	require.True(t, ic.Overrides["N_MST_PORTS"].RawEquals(cty.NumberIntVal(3)))

	require.Equal(t, []string{"uart0_irq_o", "uart1_irq_o", "uart2_irq_o"}, signalNames(periph.PropagatedSignals()))
	require.Equal(t, []string{"periph0_uart0_irq_o", "periph0_uart1_irq_o", "periph0_uart2_irq_o"}, signalNames(soc.PropagatedSignals()))

	require.Len(t, soc.AllAdapters(), 1)
	a := soc.AllAdapters()[0]
	require.Equal(t, "obi2apb_periph0_s", a.Name())
	require.Equal(t, uint64(0x10000000), a.BaseAddress())
	require.Equal(t, []uint64{0x10000000, 0x10004000}, topology.MemMap(soc.Interconnects()[0].Regions))
}

func TestBuildSubsystem_IsMemoized(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "periph" {
  ifports = [{ name = "apb", modport = "slave", prefix = "s_" }]
`+clocks+`
  instance "uart" "uart0" {}
}

subsystem "soc" {
`+clocks+`
  instance "cpu" "cpu0" {}
  instance "periph" "periph0" {}
}
`)
	soc, err := h.buildTop(t)
	require.NoError(t, err)

	child, _ := soc.Child("periph0")
	again, err := h.builder.BuildSubsystem(h.fixture.Ctx, child.AsModule().Node())
	require.NoError(t, err)
	require.Same(t, child, again)
}

func TestBuildSubsystem_UserInterconnect(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "soc" {
`+clocks+`
  intc_l = [{
    name      = "periph"
    slv_ports = ["bridge0.m_"]
    mst_ports = ["uart0.s_", "gpio0.s_[1]"]
  }]

  instance "cpu" "cpu0" {}
  instance "bridge" "bridge0" { at = hex("2000_0000") }
  instance "uart" "uart0" { at = hex("2000_0000") }
  instance "gpio" "gpio0" { at = hex("2000_1000") }
}
`)
	s, err := h.buildTop(t)
	require.NoError(t, err)
	require.Len(t, s.Interconnects(), 2)

	periph := s.Interconnects()[0]
	require.Equal(t, "periph_apb_interconnect_i", periph.Name())
	require.Equal(t, "periph_", periph.Prefix)
	require.Equal(t, []*topology.InterfacePort{findPort(t, s, "bridge0.m_")}, periph.ExtSlavePorts)
	require.Equal(t, []*topology.InterfacePort{findPort(t, s, "uart0.s_"), findPort(t, s, "gpio0.s_[1]")}, periph.ExtMasterPorts)

	fabric := s.Interconnects()[1]
	require.Equal(t, "obi_interconnect_i", fabric.Name())
	require.Equal(t, []*topology.InterfacePort{findPort(t, s, "cpu0.m_")}, fabric.ExtSlavePorts)

	// gpio0.s_[0] is left for the default fabric, which speaks obi.
	gpio0 := findPort(t, s, "gpio0.s_[0]")
	bound, ok := s.Binding(gpio0)
	require.True(t, ok)
	require.Equal(t, "obi2apb_gpio0_s_0", bound.Module().Name())

	// Every partitioned port is attached somewhere, directly or through an
	// adapter.
	attached := make(map[*topology.InterfacePort]bool)
	for _, ic := range s.Interconnects() {
		for _, p := range ic.ExternalPorts() {
			attached[p] = true
		}
	}
	for _, p := range append(s.Initiators(), s.Endpoints()...) {
		if q, ok := s.Binding(p); ok {
			p = q
		}
		require.True(t, attached[p], "port %s is not attached", p)
	}
}

func TestBuildSubsystem_Errors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		src     string
		wantErr error
		wantMsg string
	}{
		{
			name: "no adapter path",
			src: `subsystem "soc" {
` + clocks + `
  instance "cpu" "cpu0" {}
  instance "legacy" "legacy0" {}
}`,
			wantErr: topology.ErrNoAdapterPath,
			wantMsg: "expected tlul, found obi",
		},
		{
			name: "unresolved port path",
			src: `subsystem "soc" {
` + clocks + `
  intc_l = [{
    name      = "periph"
    slv_ports = ["cpu0.m_"]
    mst_ports = ["nosuch.s_"]
  }]
  instance "cpu" "cpu0" {}
  instance "uart" "uart0" {}
}`,
			wantErr: topology.ErrUnresolvedPortPath,
			wantMsg: `"nosuch.s_"`,
		},
		{
			name: "port claimed twice",
			src: `subsystem "soc" {
` + clocks + `
  intc_l = [
    { name = "a", slv_ports = ["cpu0.m_"], mst_ports = ["sram0.s_"] },
    { name = "b", slv_ports = ["cpu0.m_"], mst_ports = ["sram1.s_"] },
  ]
  instance "cpu" "cpu0" {}
  instance "sram" "sram0" {}
  instance "sram" "sram1" { at = hex("1000") }
}`,
			wantErr: topology.ErrConfiguration,
			wantMsg: `already attached to interconnect "a"`,
		},
		{
			name: "endpoint on the initiator side",
			src: `subsystem "soc" {
` + clocks + `
  intc_l = [{ name = "x", slv_ports = ["sram0.s_"], mst_ports = ["sram1.s_"] }]
  instance "sram" "sram0" {}
  instance "sram" "sram1" {}
}`,
			wantErr: topology.ErrConfiguration,
			wantMsg: "cannot act as an initiator",
		},
		{
			name: "initiators without endpoints",
			src: `subsystem "soc" {
` + clocks + `
  instance "cpu" "cpu0" {}
}`,
			wantErr: topology.ErrConfiguration,
			wantMsg: "without a counterpart",
		},
		{
			name: "no interconnect for protocol",
			src: `subsystem "soc" {
` + clocks + `
  instance "dma" "dma0" {}
  instance "sram" "sram0" {}
}`,
			wantErr: topology.ErrConfiguration,
			wantMsg: `no interconnect registered for protocol "axi"`,
		},
		{
			name: "no clock to drive children",
			src: `subsystem "soc" {
  instance "cpu" "cpu0" {}
  instance "sram" "sram0" {}
}`,
			wantErr: topology.ErrCardinality,
			wantMsg: "cannot drive cpu0.clk_i",
		},
		{
			name: "malformed interconnect list",
			src: `subsystem "soc" {
` + clocks + `
  intc_l = [{ slv_ports = [] }]
}`,
			wantErr: topology.ErrConfiguration,
			wantMsg: "has no name",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, tc.src)

			s, err := h.buildTop(t)

			require.Nil(t, s)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestSubsystem_FindPortInChildren(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
subsystem "soc" {
`+clocks+`
  instance "cpu" "cpu0" {}
  instance "gpio" "gpio0" {}
}
`)
	s, err := h.buildTop(t)
	require.NoError(t, err)
	initiators := append([]*topology.InterfacePort(nil), s.Initiators()...)
	endpoints := append([]*topology.InterfacePort(nil), s.Endpoints()...)

	p := findPort(t, s, "gpio0.s_[1]")
	require.Equal(t, 1, p.Index)

	_, err = s.FindPortInChildren("gpio0.s_[7]")
	require.ErrorIs(t, err, topology.ErrUnresolvedPortPath)
	_, err = s.FindPortInChildren("gpio0")
	require.ErrorIs(t, err, topology.ErrConfiguration)

	require.Equal(t, initiators, s.Initiators(), "lookups never change the partition")
	require.Equal(t, endpoints, s.Endpoints())
}
