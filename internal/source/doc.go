// Package source defines the read contract between the interconnect
// synthesizer and whatever front end produced the elaborated hardware tree.
//
// The synthesizer only ever sees a Node: a type name, an instance name, an
// ordered bag of cty-typed properties, parameters, children, and, for
// addressable nodes, an absolute address and a size. Front ends either
// implement Node themselves or build Element trees, the concrete
// implementation provided here.
//
// Elaborator is the other half of the contract: the synthesizer asks it to
// instantiate adapter, interface, and interconnect definitions with computed
// parameter overrides, and to evaluate literal expressions.
package source
