package hcl_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/socgen/internal/registry"
	"github.com/vk/socgen/internal/source"
	"github.com/vk/socgen/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

const elaborateHCL = `
module "ram" {
  param "WORDS" { default = 256 }
  param "DATA_WIDTH" { default = 32 }
  param "BYTES" { default = WORDS * DATA_WIDTH / 8 }
  param "NAME" {
    default     = "SOCGEN_RAM"
    description = "macro exported to the generated package"
  }

  size     = BYTES
  kind     = lower("SRAM")
  ifports  = [{ name = "obi", modport = "slave", prefix = "s_", ADDR_WIDTH = clog2(BYTES) }]
  optional = null

  signal "clk_i" { signal_type = "clk" }
  signal "rdata_o" {
    width  = DATA_WIDTH
    output = true
  }
}

subsystem "top" {
  param "RAM_BASE" { default = hex("0x1000_0000") }

  instance "ram" "ram0" {
    at     = RAM_BASE
    params = { WORDS = 1024 }
  }
  instance "ram" "ram1" { at = RAM_BASE + hex("1000") }
}
`

func TestElaborate_Defaults(t *testing.T) {
	t.Parallel()
	lib, err := loadString(t, elaborateHCL)
	require.NoError(t, err)
	ctx, logs := testutil.Context(t)

	n, err := lib.Elaborate(ctx, "ram", "ram", nil)
	require.NoError(t, err)

	require.Equal(t, source.KindBlock, n.Kind())
	require.Equal(t, "ram", n.TypeName())
	require.Equal(t, uint64(1024), n.Size())
	require.True(t, n.Addressable())

	kind, ok := source.StringProperty(n, "kind")
	require.True(t, ok)
	require.Equal(t, "sram", kind)
	_, ok = n.Property("optional")
	require.False(t, ok, "null attributes are dropped")

	ports, _ := n.Property("ifports")
	rec := source.Elements(ports)[0]
	aw, _ := source.Field(rec, "ADDR_WIDTH")
	width, err := source.Uint(aw)
	require.NoError(t, err)
	require.Equal(t, uint64(10), width)

	names := make([]string, 0, 4)
	for _, p := range n.Parameters() {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"WORDS", "DATA_WIDTH", "BYTES", "NAME"}, names)

	sigs := source.Signals(n)
	require.Len(t, sigs, 2)
	require.Equal(t, uint(1), sigs[0].Width())
	require.Equal(t, uint(32), sigs[1].Width())
	require.True(t, source.BoolProperty(sigs[1], "output"))
	require.Equal(t, "ram.rdata_o", sigs[1].Path())

	require.Contains(t, logs.String(), "Definition elaborated.")
}

func TestElaborate_OverridesAndInstances(t *testing.T) {
	t.Parallel()
	lib, err := loadString(t, elaborateHCL)
	require.NoError(t, err)
	ctx, _ := testutil.Context(t)

	n, err := lib.Elaborate(ctx, "top", "soc", map[string]cty.Value{
		"RAM_BASE": cty.StringVal("8192"),
	})
	require.NoError(t, err)

	blocks := source.Blocks(n)
	require.Len(t, blocks, 2)
	ram0, ram1 := blocks[0], blocks[1]
	require.Equal(t, "soc.ram0", ram0.Path())
	require.Same(t, n, ram0.Parent())
	require.Equal(t, uint64(8192), ram0.AbsoluteAddress(), "string overrides convert to the default's type")
	require.Equal(t, uint64(4096), ram0.Size(), "instance params override defaults")
	require.Equal(t, uint64(8192+0x1000), ram1.AbsoluteAddress())
	require.Equal(t, uint64(1024), ram1.Size())
	require.Nil(t, n.Parent())
}

func TestElaborate_Errors(t *testing.T) {
	t.Parallel()
	lib, err := loadString(t, elaborateHCL+`
module "needs" {
  param "X" {}
}

module "narrow" {
  signal "s" { width = 0 }
}
`)
	require.NoError(t, err)
	ctx, _ := testutil.Context(t)

	testCases := []struct {
		name       string
		definition string
		overrides  map[string]cty.Value
		wantMsg    string
	}{
		{name: "unknown definition", definition: "nosuch", wantMsg: `unknown definition "nosuch"`},
		{name: "unknown override", definition: "ram", overrides: map[string]cty.Value{"DEPTH": cty.NumberIntVal(1)}, wantMsg: `module "ram" has no parameter "DEPTH"`},
		{name: "unconvertible override", definition: "ram", overrides: map[string]cty.Value{"WORDS": cty.StringVal("many")}, wantMsg: "Invalid parameter override"},
		{name: "missing value", definition: "needs", wantMsg: "Missing parameter value"},
		{name: "zero width", definition: "narrow", wantMsg: "width must be at least 1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n, err := lib.Elaborate(ctx, tc.definition, tc.definition, tc.overrides)
			require.Nil(t, n)
			require.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestEvaluateExpression(t *testing.T) {
	t.Parallel()
	lib, err := loadString(t, `module "x" {}`)
	require.NoError(t, err)
	ctx, _ := testutil.Context(t)

	testCases := []struct {
		expr string
		want cty.Value
	}{
		{expr: `hex("ff")`, want: cty.NumberIntVal(255)},
		{expr: `hex("0x1_0000")`, want: cty.NumberIntVal(0x10000)},
		{expr: `clog2(1024)`, want: cty.NumberIntVal(10)},
		{expr: `clog2(1000)`, want: cty.NumberIntVal(10)},
		{expr: `clog2(1)`, want: cty.Zero},
		{expr: `max(3, 7) * 2`, want: cty.NumberIntVal(14)},
		{expr: `upper("soc")`, want: cty.StringVal("SOC")},
	}
	for _, tc := range testCases {
		got, err := lib.EvaluateExpression(ctx, tc.expr)
		require.NoError(t, err, tc.expr)
		require.True(t, got.Equals(tc.want).True(), "%s = %#v", tc.expr, got)
	}

	_, err = lib.EvaluateExpression(ctx, `hex("xyz")`)
	require.ErrorContains(t, err, "invalid hex number")
	_, err = lib.EvaluateExpression(ctx, `1 +`)
	require.ErrorContains(t, err, "failed to parse expression")
	_, err = lib.EvaluateExpression(ctx, `SOME_VAR`)
	require.ErrorContains(t, err, "failed to evaluate expression")
}

func TestLibrary_Declarations(t *testing.T) {
	t.Parallel()
	lib, err := loadString(t, testutil.Protocols+`
adapter "bridge_apb_obi" {
  from = "apb"
  to   = "obi"
}

interconnect "crossbar" {
  protocol = "axi"
}
`)
	require.NoError(t, err)
	ctx, _ := testutil.Context(t)

	decls, err := lib.Declarations(ctx)
	require.NoError(t, err)

	byName := make(map[string]registry.Declaration)
	for _, d := range decls {
		byName[d.Name] = d
	}
	require.Equal(t, registry.Declaration{Kind: registry.DeclProtocol, Name: "obi"}, byName["obi"])
	require.Equal(t, registry.Declaration{Kind: registry.DeclAdapter, Name: "obi2apb", From: "obi", To: "apb"}, byName["obi2apb"])
	require.Equal(t, registry.Declaration{Kind: registry.DeclAdapter, Name: "bridge_apb_obi", From: "apb", To: "obi"}, byName["bridge_apb_obi"])
	require.Equal(t, registry.Declaration{Kind: registry.DeclInterconnect, Name: "apb_interconnect", Protocol: "apb"}, byName["apb_interconnect"])
	require.Equal(t, registry.Declaration{Kind: registry.DeclInterconnect, Name: "crossbar", Protocol: "axi"}, byName["crossbar"])
	require.Len(t, decls, 10)
}
