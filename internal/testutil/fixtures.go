package testutil

// Protocols declares three bus protocols (obi, apb, axi), a protocol with no
// adapters (tlul), the adapters obi2apb and axi2obi, and interconnects for
// obi (MEM_MAP scheme) and apb (SLAVE_ADDR/SLAVE_MASK scheme).
const Protocols = `
interface "obi" {
  param "ADDR_WIDTH" { default = 32 }
  param "DATA_WIDTH" { default = 32 }

  signal "req" { request = true }
  signal "gnt" { response = true }
  signal "addr" {
    width   = ADDR_WIDTH
    request = true
  }
  signal "wdata" {
    width   = DATA_WIDTH
    request = true
  }
  signal "rvalid" { response = true }
  signal "rdata" {
    width    = DATA_WIDTH
    response = true
  }
}

interface "apb" {
  param "ADDR_WIDTH" { default = 32 }
  param "DATA_WIDTH" { default = 32 }

  signal "psel" { request = true }
  signal "penable" { request = true }
  signal "paddr" {
    width   = ADDR_WIDTH
    request = true
  }
  signal "prdata" {
    width    = DATA_WIDTH
    response = true
  }
  signal "pready" { response = true }
}

interface "axi" {
  param "ADDR_WIDTH" { default = 32 }
  param "DATA_WIDTH" { default = 64 }
  param "ID_WIDTH" { default = 4 }

  signal "awvalid" { request = true }
  signal "awready" { response = true }
  signal "awaddr" {
    width   = ADDR_WIDTH
    request = true
  }
  signal "awid" {
    width   = ID_WIDTH
    request = true
  }
  signal "rdata" {
    width    = DATA_WIDTH
    response = true
  }
}

interface "tlul" {
  signal "a_valid" { request = true }
  signal "d_valid" { response = true }
}

adapter "obi2apb" {
  param "SLV_INTF" {
    default = { name = "obi", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }
  }
  param "MST_INTF" {
    default = { name = "apb", modport = "master", prefix = "m_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }
  }

  ifports = [SLV_INTF, MST_INTF]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" {
    signal_type = "rst"
    activelow   = true
  }
}

adapter "axi2obi" {
  param "SLV_INTF" {
    default = { name = "axi", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 64 }
  }
  param "MST_INTF" {
    default = { name = "obi", modport = "master", prefix = "m_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }
  }

  ifports = [SLV_INTF, MST_INTF]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" {
    signal_type = "rst"
    activelow   = true
  }
}

interconnect "obi_interconnect" {
  param "N_SLV_PORTS" { default = 1 }
  param "N_MST_PORTS" { default = 1 }
  param "ADDR_WIDTH" { default = 32 }
  param "DATA_WIDTH" { default = 32 }
  param "MEM_MAP" { default = [] }

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}

interconnect "apb_interconnect" {
  param "N_MST_PORTS" { default = 1 }
  param "ADDR_WIDTH" { default = 32 }
  param "DATA_WIDTH" { default = 32 }
  param "SLAVE_ADDR" { default = [] }
  param "SLAVE_MASK" { default = [] }

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}
`

// Peripherals declares leaf modules using the protocols above: an obi
// master (cpu), an axi master (dma), an obi memory (sram), an apb
// peripheral with a propagated interrupt (uart), and a tlul peripheral that
// nothing can adapt to (legacy).
const Peripherals = `
module "cpu" {
  ifports = [{ name = "obi", modport = "master", prefix = "m_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" {
    signal_type = "rst"
    activelow   = true
  }
}

module "dma" {
  ifports = [{ name = "axi", modport = "master", prefix = "m_", ADDR_WIDTH = 32, DATA_WIDTH = 64 }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}

module "sram" {
  param "SIZE" { default = 4096 }

  size    = SIZE
  ifports = [{ name = "obi", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}

module "uart" {
  size      = hex("400")
  apb_intfs = [{ name = "apb", modport = "slave", prefix = "s_", ADDR_WIDTH = 32, DATA_WIDTH = 32 }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
  signal "irq_o" {
    output    = true
    propagate = true
  }
}

module "legacy" {
  size    = 256
  ifports = [{ name = "tlul", modport = "slave", prefix = "tl_" }]

  signal "clk_i" { signal_type = "clk" }
  signal "rst_ni" { signal_type = "rst" }
}
`
