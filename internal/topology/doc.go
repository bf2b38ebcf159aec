// Package topology synthesizes the bus interconnect of a hardware
// description.
//
// Starting from an elaborated source tree (see package source), a Builder
// wraps every block in a Module, discovers its interface ports and signals,
// and builds each subsystem bottom-up: children first, then the partition of
// ports into initiators and endpoints, then any user-declared interconnects,
// and finally one default interconnect for whatever is left. Ports whose
// protocol differs from the fabric's are bridged with a chain of at most two
// adapters drawn from the registry. Each interconnect carries the address
// map of the endpoints it serves.
//
// The result is a read-only object graph intended for rendering; this
// package performs no file I/O.
package topology
