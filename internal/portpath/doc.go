/*
Package portpath parses and formats the port path strings used by
user-declared interconnects to name a child's interface port.

The canonical form is a dot-separated relative module path followed by the
port's signal prefix, optionally indexed when the port is fanned out:

	cpu.m_
	periph.uart0.s_
	mem.s_[1]

The prefix is the text after the last dot and may be empty ("cpu."), since
a port declared without a prefix is still addressable.
*/
package portpath
