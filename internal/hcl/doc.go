// Package hcl implements the hardware description front end on top of
// HashiCorp HCL. It parses definition files into a Library and is the
// concrete source.Elaborator used by the synthesizer.
//
// A description file declares definitions with one of five block types:
//
//	interface "apb" {
//	  param "ADDR_WIDTH" { default = 32 }
//	  signal "paddr" {
//	    width   = ADDR_WIDTH
//	    request = true
//	  }
//	}
//
//	module "uart" {
//	  size    = hex("1000")
//	  ifports = [{ name = "apb", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }]
//	  signal "clk_i" { signal_type = "clk" }
//	}
//
//	subsystem "soc" {
//	  instance "uart" "uart0" { at = hex("2000") }
//	}
//
// plus `adapter` and `interconnect`. Inside a definition, `param` blocks
// declare parameters, `signal` blocks declare wires, `instance` blocks
// instantiate other definitions, and every other attribute becomes a
// property of the elaborated node. The block type is recorded as a boolean
// property (`intf`, `subsystem`, `adapter`, `interconnect`) so that
// consumers only ever need the generic source.Node contract.
package hcl
