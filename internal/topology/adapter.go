package topology

import (
	"context"
	"strconv"
	"strings"

	"github.com/vk/socgen/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Adapter is a module converting one bus protocol into another. It has
// exactly one slave port, facing the initiator side, and one master port.
type Adapter struct {
	*Module
	Definition string
	// From and To are the ports whose parameters shaped the adapter.
	From *InterfacePort
	To   *InterfacePort

	slave  *InterfacePort
	master *InterfacePort
	origin *InterfacePort
}

func (b *Builder) newAdapter(ctx context.Context, def registry.Adapter, from, to, origin *InterfacePort, instName string) (*Adapter, error) {
	tmpl, err := b.Template(ctx, def.Name)
	if err != nil {
		e := configErr(instName, "cannot elaborate adapter %q", def.Name)
		e.Err = err
		return nil, e
	}

	values := make(map[string]cty.Value)
	if dflt, ok := tmpl.Default("SLV_INTF"); ok {
		values["SLV_INTF"] = OverrideRecord(dflt, from.Record())
	}
	if dflt, ok := tmpl.Default("MST_INTF"); ok {
		values["MST_INTF"] = OverrideRecord(dflt, to.Record())
	}
	n, err := b.elab.Elaborate(ctx, def.Name, instName, tmpl.Overridden(values))
	if err != nil {
		e := configErr(instName, "cannot elaborate adapter %q", def.Name)
		e.Err = err
		return nil, e
	}
	mod, err := b.NewModule(ctx, n)
	if err != nil {
		return nil, err
	}

	slaves, masters := mod.SlavePorts(), mod.MasterPorts()
	if len(slaves) != 1 {
		return nil, cardinalityErr(mod.Path(), "1 slave port", strconv.Itoa(len(slaves)), "adapter %q", def.Name)
	}
	if len(masters) != 1 {
		return nil, cardinalityErr(mod.Path(), "1 master port", strconv.Itoa(len(masters)), "adapter %q", def.Name)
	}
	if slaves[0].Protocol != def.From || masters[0].Protocol != def.To {
		e := invariantErr(mod.Path(), "adapter %q ports do not match its registration", def.Name)
		e.Expected = def.From + " -> " + def.To
		e.Found = slaves[0].Protocol + " -> " + masters[0].Protocol
		return nil, e
	}

	a := &Adapter{
		Module:     mod,
		Definition: def.Name,
		From:       from,
		To:         to,
		slave:      slaves[0],
		master:     masters[0],
		origin:     origin,
	}
	a.slave.origin = origin
	a.master.origin = origin
	return a, nil
}

// SlavePort is the port facing the initiator side.
func (a *Adapter) SlavePort() *InterfacePort { return a.slave }

// MasterPort is the port facing the endpoint side.
func (a *Adapter) MasterPort() *InterfacePort { return a.master }

// BaseAddress is the base address of the module the adapter stands for.
func (a *Adapter) BaseAddress() uint64 { return a.origin.Module().BaseAddress() }

// Size is the address-space size of the module the adapter stands for.
func (a *Adapter) Size() uint64 { return a.origin.Module().Size() }

// IsDriver reports whether the adapter drives s on port p. On its slave port
// it drives responses, on its master port requests.
func (a *Adapter) IsDriver(s *Signal, p *InterfacePort) (bool, error) {
	switch p {
	case a.slave:
		return drives(s, false)
	case a.master:
		return drives(s, true)
	default:
		return false, configErr(a.Path(), "port %s does not belong to adapter", p)
	}
}

// HostDrivenSignals are the adapter's own inputs that the enclosing
// subsystem must drive, such as clocks and resets.
func (a *Adapter) HostDrivenSignals() []*Signal {
	var out []*Signal
	for _, s := range a.PortSignals() {
		if s.Direction == DirInput {
			out = append(out, s)
		}
	}
	return out
}

// drives reports whether a component acting as master (or slave) on a port
// drives signal s of that port.
func drives(s *Signal, asMaster bool) (bool, error) {
	switch {
	case s.Request == s.Response:
		return false, invariantErr(s.Name(), "interface signal is tagged neither request nor response")
	case s.Request:
		return asMaster, nil
	default:
		return !asMaster, nil
	}
}

// adapterInstanceName names an adapter after the definition and the port it
// serves, e.g. "obi2apb_uart0_s".
func adapterInstanceName(prefix, definition string, anchor *InterfacePort) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(definition)
	sb.WriteByte('_')
	sb.WriteString(anchor.Module().Name())
	if p := strings.Trim(anchor.Prefix, "_"); p != "" {
		sb.WriteByte('_')
		sb.WriteString(p)
	}
	if anchor.Index >= 0 {
		sb.WriteByte('_')
		sb.WriteString(strconv.Itoa(anchor.Index))
	}
	return sb.String()
}
