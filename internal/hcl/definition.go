package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/socgen/internal/hclexpr"
)

// Kind is the block type a definition was declared with.
type Kind int

const (
	KindInterface Kind = iota
	KindModule
	KindSubsystem
	KindAdapter
	KindInterconnect
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindModule:
		return "module"
	case KindSubsystem:
		return "subsystem"
	case KindAdapter:
		return "adapter"
	case KindInterconnect:
		return "interconnect"
	default:
		return "unknown"
	}
}

// tag is the boolean property that marks elaborated nodes of this kind.
func (k Kind) tag() string {
	switch k {
	case KindInterface:
		return "intf"
	case KindSubsystem:
		return "subsystem"
	case KindAdapter:
		return "adapter"
	case KindInterconnect:
		return "interconnect"
	default:
		return ""
	}
}

// Definition is one translated, validated definition block.
type Definition struct {
	Kind  Kind
	Name  string
	Range hcl.Range

	Params []*Param
	// Attributes are ordered by source position.
	Attributes []*hcl.Attribute
	Signals    []*Signal
	Instances  []*Instance

	exprs *hclexpr.Container
}

// Param is a declared parameter.
type Param struct {
	Name        string
	Default     hcl.Expression
	HasDefault  bool
	Description string
	Range       hcl.Range
}

// Signal is a declared signal with its raw attributes.
type Signal struct {
	Name       string
	Attributes []*hcl.Attribute
	Range      hcl.Range
}

// Instance is a child instantiation.
type Instance struct {
	Definition string
	Name       string
	At         hcl.Expression
	Params     hcl.Expression
	Range      hcl.Range
}

// Param returns the named parameter declaration.
func (d *Definition) Param(name string) (*Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
