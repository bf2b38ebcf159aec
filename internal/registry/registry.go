package registry

import (
	"context"
	"fmt"

	"github.com/vk/socgen/internal/ctxlog"
)

// DeclKind is the kind of a catalog declaration.
type DeclKind int

const (
	DeclProtocol DeclKind = iota
	DeclAdapter
	DeclInterconnect
)

// Declaration is one entry produced by a Catalog.
type Declaration struct {
	Kind DeclKind
	Name string
	// From and To are set for adapters.
	From, To string
	// Protocol is set for interconnects.
	Protocol string
}

// Catalog is implemented by description front ends.
type Catalog interface {
	Declarations(ctx context.Context) ([]Declaration, error)
}

// Adapter is a registered direct protocol adapter.
type Adapter struct {
	Name string
	From string
	To   string
}

// Registry holds every registered protocol, adapter, and interconnect.
type Registry struct {
	protocols     map[string]struct{}
	protocolOrder []string
	adapters      []Adapter
	adapterIndex  map[string]int
	interconnects map[string]string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		protocols:     make(map[string]struct{}),
		adapterIndex:  make(map[string]int),
		interconnects: make(map[string]string),
	}
}

// AdapterName is the canonical name of the direct adapter from one protocol
// to another.
func AdapterName(from, to string) string {
	return from + "2" + to
}

// RegisterProtocol records a protocol. Registering a protocol twice is a no-op.
func (r *Registry) RegisterProtocol(name string) {
	if _, ok := r.protocols[name]; ok {
		return
	}
	r.protocols[name] = struct{}{}
	r.protocolOrder = append(r.protocolOrder, name)
}

// RegisterAdapter appends a direct adapter. Registration order is the
// search order used when chaining adapters.
func (r *Registry) RegisterAdapter(a Adapter) error {
	if _, exists := r.adapterIndex[a.Name]; exists {
		return fmt.Errorf("adapter %q is already registered", a.Name)
	}
	if a.From == "" || a.To == "" {
		return fmt.Errorf("adapter %q must name both protocols", a.Name)
	}
	r.adapterIndex[a.Name] = len(r.adapters)
	r.adapters = append(r.adapters, a)
	return nil
}

// RegisterInterconnect binds an interconnect definition to a protocol.
func (r *Registry) RegisterInterconnect(protocol, definition string) error {
	if prev, exists := r.interconnects[protocol]; exists {
		return fmt.Errorf("protocol %q already has interconnect %q, cannot bind %q", protocol, prev, definition)
	}
	r.interconnects[protocol] = definition
	return nil
}

// Populate registers every declaration of a catalog in order.
func (r *Registry) Populate(ctx context.Context, c Catalog) error {
	logger := ctxlog.FromContext(ctx)

	decls, err := c.Declarations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read declarations: %w", err)
	}
	for _, d := range decls {
		switch d.Kind {
		case DeclProtocol:
			r.RegisterProtocol(d.Name)
		case DeclAdapter:
			if err := r.RegisterAdapter(Adapter{Name: d.Name, From: d.From, To: d.To}); err != nil {
				return err
			}
		case DeclInterconnect:
			if err := r.RegisterInterconnect(d.Protocol, d.Name); err != nil {
				return err
			}
		}
	}

	logger.Debug("Registry populated.",
		"protocols", len(r.protocols),
		"adapters", len(r.adapters),
		"interconnects", len(r.interconnects),
	)
	return nil
}

// Adapter returns the direct adapter with the given name.
func (r *Registry) Adapter(name string) (Adapter, bool) {
	i, ok := r.adapterIndex[name]
	if !ok {
		return Adapter{}, false
	}
	return r.adapters[i], true
}

// Adapters returns all adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	return append([]Adapter(nil), r.adapters...)
}

// Interconnect returns the interconnect definition serving a protocol.
func (r *Registry) Interconnect(protocol string) (string, bool) {
	def, ok := r.interconnects[protocol]
	return def, ok
}

// HasProtocol reports whether a protocol is registered.
func (r *Registry) HasProtocol(name string) bool {
	_, ok := r.protocols[name]
	return ok
}

// Protocols returns registered protocols in registration order.
func (r *Registry) Protocols() []string {
	return append([]string(nil), r.protocolOrder...)
}
