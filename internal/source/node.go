package source

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Kind distinguishes structural nodes from signal nodes.
type Kind int

const (
	// KindBlock is an addressable or structural node: a module, a subsystem,
	// an interface definition instance, an adapter, or an interconnect.
	KindBlock Kind = iota
	// KindSignal is a wire declared on a block.
	KindSignal
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Parameter is one elaborated parameter of a node. Its type is the type of
// Value.
type Parameter struct {
	Name  string
	Value cty.Value
}

// Node is one element of an elaborated source tree.
type Node interface {
	Kind() Kind
	// TypeName is the name of the definition the node was elaborated from.
	TypeName() string
	InstName() string
	// Path is the dot-separated instance path from the tree root.
	Path() string
	// Parent returns nil for a root node.
	Parent() Node

	// Property returns a named property and whether it was declared.
	Property(name string) (cty.Value, bool)
	// PropertyNames lists declared properties in declaration order.
	PropertyNames() []string
	Parameters() []Parameter
	Children() []Node

	Addressable() bool
	AbsoluteAddress() uint64
	Size() uint64
	// Width is meaningful for signal nodes only.
	Width() uint
}

// Elaborator instantiates named definitions. Implementations must be
// side-effect free with respect to previously returned trees, so that a
// definition can be elaborated once to discover its parameter shape and again
// with overrides applied.
type Elaborator interface {
	Elaborate(ctx context.Context, definition, instance string, overrides map[string]cty.Value) (Node, error)
	EvaluateExpression(ctx context.Context, literal string) (cty.Value, error)
}
