// Package registry is the catalog of what the loaded description can
// synthesize: the known protocols, the direct protocol adapters in
// declaration order, and which interconnect definition serves each protocol.
//
// The registry is filled from a Catalog (the description front end) and then
// validated as a whole, so that a description referring to an unknown
// protocol is rejected before any subsystem is built.
package registry
