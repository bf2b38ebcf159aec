package topology

import (
	"context"
	"errors"
	"strings"

	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/source"
)

// Component is anything that can sit inside a subsystem.
type Component interface {
	AsModule() *Module
	// ExposedSignals are the signals visible to the parent: the module's own
	// signals plus anything it re-exposes from below.
	ExposedSignals() []*Signal
}

// Module is the normalized view of one elaborated block.
type Module struct {
	node            source.Node
	ports           []*InterfacePort
	portSignals     []*Signal
	internalSignals []*Signal
	params          []HWParam
}

// NewModule wraps an elaborated block, discovering its interface ports and
// signals.
func (b *Builder) NewModule(ctx context.Context, n source.Node) (*Module, error) {
	m := &Module{node: n, params: extractParameters(n)}

	var errs []error
	for _, sn := range source.Signals(n) {
		sig, err := newSignal(sn, "", false)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if sig.IsPort() {
			m.portSignals = append(m.portSignals, sig)
		} else {
			m.internalSignals = append(m.internalSignals, sig)
		}
	}

	for _, prop := range interfaceListProperties(n) {
		v, _ := n.Property(prop)
		if !source.IsCollection(v) {
			errs = append(errs, configErr(n.Path()+"."+prop, "expected a list of interface-instance records, got %s", v.Type().FriendlyName()))
			continue
		}
		for i, rec := range source.Elements(v) {
			ports, err := b.newPorts(ctx, m, prop, i, rec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			m.ports = append(m.ports, ports...)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Module discovered.",
		"module", n.Path(), "ports", len(m.ports), "signals", len(m.portSignals)+len(m.internalSignals))
	return m, nil
}

// interfaceListProperties returns the properties holding interface-instance
// records: ifports first, then any *_intfs or *_intc_ports list in
// declaration order.
func interfaceListProperties(n source.Node) []string {
	var out []string
	if _, ok := n.Property("ifports"); ok {
		out = append(out, "ifports")
	}
	for _, name := range n.PropertyNames() {
		if strings.HasSuffix(name, "_intfs") || strings.HasSuffix(name, "_intc_ports") {
			out = append(out, name)
		}
	}
	return out
}

func (m *Module) AsModule() *Module { return m }

func (m *Module) ExposedSignals() []*Signal {
	out := make([]*Signal, 0, len(m.portSignals)+len(m.internalSignals))
	out = append(out, m.portSignals...)
	return append(out, m.internalSignals...)
}

// Node returns the underlying source node.
func (m *Module) Node() source.Node { return m.node }

// Name is the instance name.
func (m *Module) Name() string { return m.node.InstName() }

// Type is the definition name.
func (m *Module) Type() string { return m.node.TypeName() }

// Path is the dotted hierarchical path of the instance.
func (m *Module) Path() string { return m.node.Path() }

// BaseAddress is the module's absolute base address.
func (m *Module) BaseAddress() uint64 { return m.node.AbsoluteAddress() }

// Size is the module's address-space size.
func (m *Module) Size() uint64 { return m.node.Size() }

func (m *Module) Ports() []*InterfacePort { return m.ports }
func (m *Module) PortSignals() []*Signal { return m.portSignals }
func (m *Module) InternalSignals() []*Signal { return m.internalSignals }
func (m *Module) Parameters() []HWParam { return m.params }

// SlavePorts returns the ports the module serves requests on.
func (m *Module) SlavePorts() []*InterfacePort {
	return m.portsWithRole(RoleSlave)
}

// MasterPorts returns the ports the module issues requests from.
func (m *Module) MasterPorts() []*InterfacePort {
	return m.portsWithRole(RoleMaster)
}

func (m *Module) portsWithRole(r Role) []*InterfacePort {
	var out []*InterfacePort
	for _, p := range m.ports {
		if p.Role == r {
			out = append(out, p)
		}
	}
	return out
}

// Clocks returns the module's clock inputs.
func (m *Module) Clocks() []*Signal {
	var out []*Signal
	for _, s := range m.portSignals {
		if s.Clock {
			out = append(out, s)
		}
	}
	return out
}

// Resets returns the module's reset inputs.
func (m *Module) Resets() []*Signal {
	var out []*Signal
	for _, s := range m.portSignals {
		if s.Reset {
			out = append(out, s)
		}
	}
	return out
}

// HasSignal reports whether the module has a port signal called name, or an
// internal signal whose routing hint points at name.
func (m *Module) HasSignal(name string) bool {
	for _, s := range m.portSignals {
		if s.Name() == name {
			return true
		}
	}
	for _, s := range m.internalSignals {
		if hintMatches(s.To, name) || hintMatches(s.From, name) {
			return true
		}
	}
	return false
}

// WireName is the parent-level wire carrying one of the module's signals.
func (m *Module) WireName(s *Signal) string {
	return m.Name() + "_" + stripSuffix(s.Name())
}
