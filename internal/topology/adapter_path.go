package topology

import (
	"context"
	"strconv"

	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/registry"
)

// MaxAdapterChain bounds the number of adapters between two protocols.
const MaxAdapterChain = 2

// AdapterPath is the chain of adapters bridging two ports. An empty path
// means the ports already speak the same protocol.
type AdapterPath struct {
	From     *InterfacePort
	To       *InterfacePort
	Adapters []*Adapter
}

// Empty reports whether no adapter is needed.
func (p *AdapterPath) Empty() bool { return len(p.Adapters) == 0 }

// First returns the adapter nearest the initiator side.
func (p *AdapterPath) First() *Adapter {
	if p.Empty() {
		return nil
	}
	return p.Adapters[0]
}

// Last returns the adapter nearest the endpoint side.
func (p *AdapterPath) Last() *Adapter {
	if p.Empty() {
		return nil
	}
	return p.Adapters[len(p.Adapters)-1]
}

// Ports returns the chain of ports the path connects, starting at From and
// ending at To.
func (p *AdapterPath) Ports() []*InterfacePort {
	out := []*InterfacePort{p.From}
	for _, a := range p.Adapters {
		out = append(out, a.SlavePort(), a.MasterPort())
	}
	return append(out, p.To)
}

// FindAdapterChain looks up at most two registered adapters converting from
// one protocol to another. A direct adapter wins; otherwise the first
// two-hop chain in registration order is returned. An adapter is only used
// for the protocols it declares, whatever its name suggests.
func FindAdapterChain(reg *registry.Registry, from, to string) ([]registry.Adapter, bool) {
	if a, ok := reg.Adapter(registry.AdapterName(from, to)); ok && a.From == from && a.To == to {
		return []registry.Adapter{a}, true
	}
	adapters := reg.Adapters()
	for _, a := range adapters {
		if a.From == from && a.To == to {
			return []registry.Adapter{a}, true
		}
	}
	for _, first := range adapters {
		if first.From != from {
			continue
		}
		for _, last := range adapters {
			if last.To == to && first.To == last.From {
				return []registry.Adapter{first, last}, true
			}
		}
	}
	return nil, false
}

// ResolveAdapterPath builds the adapters bridging from to to. Adapter
// instances are named after to and prefixed with prefix.
func (b *Builder) ResolveAdapterPath(ctx context.Context, from, to *InterfacePort, prefix string) (*AdapterPath, error) {
	return b.resolveAdapterPath(ctx, from, to, to, prefix)
}

// resolveAdapterPath builds the path with adapters named after, and standing
// for, anchor.
func (b *Builder) resolveAdapterPath(ctx context.Context, from, to, anchor *InterfacePort, prefix string) (*AdapterPath, error) {
	path := &AdapterPath{From: from, To: to}
	if from.Protocol == to.Protocol {
		return path, nil
	}

	chain, ok := FindAdapterChain(b.reg, from.Protocol, to.Protocol)
	if !ok {
		e := newError(ErrNoAdapterPath, anchor.String(), "no chain of at most %d adapters", MaxAdapterChain)
		e.Expected = to.Protocol
		e.Found = from.Protocol
		return nil, e
	}

	cur := from
	for i, def := range chain {
		name := adapterInstanceName(prefix, def.Name, anchor)
		if len(chain) > 1 {
			name += "_" + strconv.Itoa(i)
		}
		a, err := b.newAdapter(ctx, def, cur, to, anchor, name)
		if err != nil {
			return nil, err
		}
		path.Adapters = append(path.Adapters, a)
		cur = a.MasterPort()
	}

	ctxlog.FromContext(ctx).Debug("Adapter path resolved.",
		"from", from.Protocol, "to", to.Protocol, "port", anchor.String(), "adapters", len(path.Adapters))
	return path, nil
}
