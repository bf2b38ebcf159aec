package topology

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/vk/socgen/internal/registry"
	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
)

// Builder turns elaborated source nodes into modules, adapters,
// interconnects, and subsystems. A Builder is not safe for concurrent use.
type Builder struct {
	elab     source.Elaborator
	reg      *registry.Registry
	validate *validator.Validate

	templates  map[string]ParameterTemplate
	subsystems map[source.Node]*Subsystem
}

// NewBuilder creates a Builder that elaborates interfaces, adapters, and
// interconnects through elab and looks protocol bridges up in reg.
func NewBuilder(elab source.Elaborator, reg *registry.Registry) *Builder {
	return &Builder{
		elab:       elab,
		reg:        reg,
		validate:   validator.New(),
		templates:  make(map[string]ParameterTemplate),
		subsystems: make(map[source.Node]*Subsystem),
	}
}

// Template returns the parameter template of a definition, elaborating it
// with default values on first use.
func (b *Builder) Template(ctx context.Context, definition string) (ParameterTemplate, error) {
	if t, ok := b.templates[definition]; ok {
		return t, nil
	}
	n, err := b.elab.Elaborate(ctx, definition, definition, nil)
	if err != nil {
		return ParameterTemplate{}, fmt.Errorf("failed to elaborate %q with default parameters: %w", definition, err)
	}
	t := NewParameterTemplate(n.Parameters())
	b.templates[definition] = t
	return t, nil
}

// newPorts builds the ports one interface-instance record declares. A record
// with N > 1 fans out into N indexed ports.
func (b *Builder) newPorts(ctx context.Context, m *Module, prop string, i int, rec cty.Value) ([]*InterfacePort, error) {
	where := fmt.Sprintf("%s.%s[%d]", m.Path(), prop, i)

	d, err := decodeDescriptor(b.validate, rec)
	if err != nil {
		e := configErr(where, "invalid interface-instance record")
		e.Err = err
		return nil, e
	}

	tmpl, err := b.Template(ctx, d.Protocol)
	if err != nil {
		e := configErr(where, "unknown interface %q", d.Protocol)
		e.Err = err
		return nil, e
	}
	intf, err := b.elab.Elaborate(ctx, d.Protocol, d.Prefix+d.Protocol, tmpl.Overridden(numericFields(rec)))
	if err != nil {
		e := configErr(where, "failed to elaborate interface %q", d.Protocol)
		e.Err = err
		return nil, e
	}
	if !source.BoolProperty(intf, "intf") {
		return nil, configErr(where, "%q is not an interface definition", d.Protocol)
	}

	count := int(d.Count)
	ports := make([]*InterfacePort, 0, count)
	for idx := 0; idx < count; idx++ {
		p := &InterfacePort{
			Protocol:   d.Protocol,
			Role:       parseRole(d.Modport),
			AddrWidth:  uint(d.AddrWidth),
			DataWidth:  uint(d.DataWidth),
			Prefix:     d.Prefix,
			Capitalize: d.Capitalize,
			Index:      -1,
			record:     rec,
			module:     m,
		}
		if count > 1 {
			p.Index = idx
		}
		for _, sn := range source.Signals(intf) {
			sig, err := newSignal(sn, d.Prefix, d.Capitalize)
			if err != nil {
				return nil, err
			}
			p.signals = append(p.signals, sig)
		}
		ports = append(ports, p)
	}
	return ports, nil
}
