package topology

import (
	"context"
	"strconv"

	"github.com/vk/socgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Interconnect is a fabric joining initiator-facing slave ports to
// endpoint-facing master ports of one protocol.
type Interconnect struct {
	*Module
	Definition string
	Protocol   string
	Prefix     string

	// ExtSlavePorts are the external ports the fabric serves: initiators.
	ExtSlavePorts []*InterfacePort
	// ExtMasterPorts are the external ports the fabric drives: endpoints.
	ExtMasterPorts []*InterfacePort

	AddrWidth uint
	DataWidth uint
	Scheme    AddressScheme
	Regions   []AddressRegion
	// Overrides are the parameter values the fabric was elaborated with.
	Overrides map[string]cty.Value
}

// MajorityProtocol returns the protocol most ports speak. Ties go to the
// protocol that appears first.
func MajorityProtocol(ports []*InterfacePort) string {
	counts := make(map[string]int)
	var order []string
	for _, p := range ports {
		if counts[p.Protocol] == 0 {
			order = append(order, p.Protocol)
		}
		counts[p.Protocol]++
	}
	best := ""
	for _, proto := range order {
		if counts[proto] > counts[best] {
			best = proto
		}
	}
	return best
}

// BuildInterconnect instantiates the interconnect registered for the
// protocol of the given ports. All ports must already share one protocol.
// sub, when set, only scopes error messages and logs.
func (b *Builder) BuildInterconnect(ctx context.Context, slavePorts, masterPorts []*InterfacePort, sub *Subsystem, prefix string) (*Interconnect, error) {
	where := prefix + "interconnect"
	if sub != nil {
		where = sub.Path() + "." + where
	}
	if len(slavePorts) == 0 || len(masterPorts) == 0 {
		return nil, cardinalityErr(where, "at least one port on each side",
			strconv.Itoa(len(slavePorts))+" initiators, "+strconv.Itoa(len(masterPorts))+" endpoints", "interconnect has an empty side")
	}

	protocol := slavePorts[0].Protocol
	for _, p := range append(append([]*InterfacePort(nil), slavePorts...), masterPorts...) {
		if p.Protocol != protocol {
			e := newError(ErrMixedProtocol, where, "port %s cannot join the fabric", p)
			e.Expected, e.Found = protocol, p.Protocol
			return nil, e
		}
	}

	definition, ok := b.reg.Interconnect(protocol)
	if !ok {
		return nil, configErr(where, "no interconnect registered for protocol %q", protocol)
	}
	tmpl, err := b.Template(ctx, definition)
	if err != nil {
		e := configErr(where, "cannot elaborate interconnect %q", definition)
		e.Err = err
		return nil, e
	}

	ic := &Interconnect{
		Definition:     definition,
		Protocol:       protocol,
		Prefix:         prefix,
		ExtSlavePorts:  append([]*InterfacePort(nil), slavePorts...),
		ExtMasterPorts: append([]*InterfacePort(nil), masterPorts...),
	}
	for _, p := range append(append([]*InterfacePort(nil), slavePorts...), masterPorts...) {
		ic.AddrWidth = max(ic.AddrWidth, p.AddrWidth)
		ic.DataWidth = max(ic.DataWidth, p.DataWidth)
	}
	for _, p := range masterPorts {
		mod := p.Origin().Module()
		ic.Regions = append(ic.Regions, AddressRegion{Port: p, Base: mod.BaseAddress(), Size: mod.Size()})
	}

	values := map[string]cty.Value{
		"N_MST_PORTS": cty.NumberIntVal(int64(len(masterPorts))),
		"ADDR_WIDTH":  cty.NumberUIntVal(uint64(ic.AddrWidth)),
		"DATA_WIDTH":  cty.NumberUIntVal(uint64(ic.DataWidth)),
	}
	if len(slavePorts) > 1 {
		values["N_SLV_PORTS"] = cty.NumberIntVal(int64(len(slavePorts)))
	}
	for name, v := range numericFields(slavePorts[0].Record()) {
		if _, set := values[name]; !set {
			values[name] = v
		}
	}

	memMap := tmpl.Declares("MEM_MAP")
	slaveMask := tmpl.Declares("SLAVE_ADDR") || tmpl.Declares("SLAVE_MASK")
	switch {
	case memMap && slaveMask:
		return nil, configErr(where, "interconnect %q declares both MEM_MAP and SLAVE_ADDR/SLAVE_MASK", definition)
	case memMap:
		ic.Scheme = SchemeMemMap
		values["MEM_MAP"] = numberList(MemMap(ic.Regions))
	case slaveMask:
		ic.Scheme = SchemeSlaveMask
		addrs, masks := SlaveAddrMask(ic.Regions, ic.AddrWidth)
		values["SLAVE_ADDR"] = numberList(addrs)
		values["SLAVE_MASK"] = numberList(masks)
	}

	ic.Overrides = tmpl.Overridden(values)
	instName := prefix + definition + "_i"
	n, err := b.elab.Elaborate(ctx, definition, instName, ic.Overrides)
	if err != nil {
		e := configErr(where, "cannot elaborate interconnect %q", definition)
		e.Err = err
		return nil, e
	}
	if ic.Module, err = b.NewModule(ctx, n); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Interconnect built.",
		"instance", instName, "protocol", protocol,
		"initiators", len(slavePorts), "endpoints", len(masterPorts), "scheme", ic.Scheme.String())
	return ic, nil
}

// IsDriver reports whether the fabric drives s on an attached port: requests
// toward endpoints, responses toward initiators.
func (ic *Interconnect) IsDriver(s *Signal, p *InterfacePort) (bool, error) {
	switch {
	case containsPort(ic.ExtSlavePorts, p):
		return drives(s, false)
	case containsPort(ic.ExtMasterPorts, p):
		return drives(s, true)
	default:
		return false, configErr(ic.Path(), "port %s is not attached to the interconnect", p)
	}
}

// ExternalPorts returns every attached external port, initiators first.
func (ic *Interconnect) ExternalPorts() []*InterfacePort {
	out := append([]*InterfacePort(nil), ic.ExtSlavePorts...)
	return append(out, ic.ExtMasterPorts...)
}

func numberList(vals []uint64) cty.Value {
	if len(vals) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	out := make([]cty.Value, len(vals))
	for i, v := range vals {
		out[i] = cty.NumberUIntVal(v)
	}
	return cty.ListVal(out)
}
