// Package report renders a built topology as a YAML or JSON document: one
// entry per subsystem with its instances, generated fabrics, adapters, and
// signal bindings.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vk/socgen/internal/portpath"
	"github.com/vk/socgen/internal/topology"
	"gopkg.in/yaml.v3"
)

// Report is the document root.
type Report struct {
	Top        string      `yaml:"top" json:"top"`
	Files      []string    `yaml:"files,omitempty" json:"files,omitempty"`
	Subsystems []Subsystem `yaml:"subsystems" json:"subsystems"`
}

type Subsystem struct {
	Path          string          `yaml:"path" json:"path"`
	Type          string          `yaml:"type" json:"type"`
	Instances     []Instance      `yaml:"instances" json:"instances"`
	Interconnects []Interconnect  `yaml:"interconnects,omitempty" json:"interconnects,omitempty"`
	Adapters      []Adapter       `yaml:"adapters,omitempty" json:"adapters,omitempty"`
	Bindings      []PortBinding   `yaml:"bindings,omitempty" json:"bindings,omitempty"`
	Clocks        []SignalBinding `yaml:"clocks,omitempty" json:"clocks,omitempty"`
	Signals       []SignalBinding `yaml:"signals,omitempty" json:"signals,omitempty"`
	Propagated    []string        `yaml:"propagated,omitempty" json:"propagated,omitempty"`
	Warnings      []string        `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

type Instance struct {
	Name   string            `yaml:"name" json:"name"`
	Type   string            `yaml:"type" json:"type"`
	Base   string            `yaml:"base,omitempty" json:"base,omitempty"`
	Size   string            `yaml:"size,omitempty" json:"size,omitempty"`
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
}

type Interconnect struct {
	Name       string            `yaml:"name" json:"name"`
	Definition string            `yaml:"definition" json:"definition"`
	Protocol   string            `yaml:"protocol" json:"protocol"`
	Scheme     string            `yaml:"scheme" json:"scheme"`
	Initiators []string          `yaml:"initiators" json:"initiators"`
	Endpoints  []string          `yaml:"endpoints" json:"endpoints"`
	AddressMap []Region          `yaml:"address_map" json:"address_map"`
	Params     map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Ports      []PortWiring      `yaml:"ports" json:"ports"`
}

// PortWiring lists the signals of one port attached to a generated module.
// Direction is seen from the module owning the port. Driver is "self" when
// the generated module drives the wire and "peer" otherwise.
type PortWiring struct {
	Port     string       `yaml:"port" json:"port"`
	Protocol string       `yaml:"protocol" json:"protocol"`
	Signals  []PortSignal `yaml:"signals" json:"signals"`
}

type PortSignal struct {
	Name      string `yaml:"name" json:"name"`
	Width     uint   `yaml:"width" json:"width"`
	Direction string `yaml:"direction" json:"direction"`
	Driver    string `yaml:"driver" json:"driver"`
}

type Region struct {
	Port string `yaml:"port" json:"port"`
	Base string `yaml:"base" json:"base"`
	Size string `yaml:"size" json:"size"`
	Mask string `yaml:"mask,omitempty" json:"mask,omitempty"`
}

type Adapter struct {
	Name       string `yaml:"name" json:"name"`
	Definition string `yaml:"definition" json:"definition"`
	From       string `yaml:"from" json:"from"`
	To         string `yaml:"to" json:"to"`
	Base       string `yaml:"base" json:"base"`
	Size       string `yaml:"size" json:"size"`
	// HostDriven are the adapter inputs the enclosing subsystem drives.
	HostDriven []string     `yaml:"host_driven,omitempty" json:"host_driven,omitempty"`
	Ports      []PortWiring `yaml:"ports" json:"ports"`
}

type PortBinding struct {
	Port    string `yaml:"port" json:"port"`
	BoundTo string `yaml:"bound_to" json:"bound_to"`
}

type SignalBinding struct {
	Module   string `yaml:"module" json:"module"`
	Signal   string `yaml:"signal" json:"signal"`
	Parent   string `yaml:"parent" json:"parent"`
	Fallback bool   `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// Build assembles a report from built subsystems, in the order given. It
// fails when a port signal has no resolvable direction.
func Build(top string, subsystems []*topology.Subsystem) (*Report, error) {
	r := &Report{Top: top, Subsystems: make([]Subsystem, 0, len(subsystems))}
	for _, s := range subsystems {
		sub, err := buildSubsystem(s)
		if err != nil {
			return nil, fmt.Errorf("subsystem %s: %w", s.Path(), err)
		}
		r.Subsystems = append(r.Subsystems, sub)
	}
	return r, nil
}

// driverFunc reports whether a generated module drives signal s of port p.
type driverFunc func(s *topology.Signal, p *topology.InterfacePort) (bool, error)

func wirePort(p *topology.InterfacePort, isDriver driverFunc) (PortWiring, error) {
	w := PortWiring{Port: PortLabel(p), Protocol: p.Protocol}
	for _, s := range p.Signals() {
		dir, err := p.DirectionFor(s)
		if err != nil {
			return PortWiring{}, err
		}
		drives, err := isDriver(s, p)
		if err != nil {
			return PortWiring{}, err
		}
		driver := "peer"
		if drives {
			driver = "self"
		}
		w.Signals = append(w.Signals, PortSignal{Name: s.Name(), Width: s.Width, Direction: dir.String(), Driver: driver})
	}
	return w, nil
}

func buildSubsystem(s *topology.Subsystem) (Subsystem, error) {
	out := Subsystem{
		Path:     s.Path(),
		Type:     s.Type(),
		Warnings: s.Warnings(),
	}
	for _, c := range s.Children() {
		m := c.AsModule()
		inst := Instance{Name: m.Name(), Type: m.Type(), Params: params(m.Parameters())}
		if m.Node().Addressable() {
			inst.Base = hex(m.BaseAddress())
			inst.Size = hex(m.Size())
		}
		out.Instances = append(out.Instances, inst)
	}
	for _, ic := range s.Interconnects() {
		rep, err := buildInterconnect(ic)
		if err != nil {
			return Subsystem{}, err
		}
		out.Interconnects = append(out.Interconnects, rep)
	}
	for _, a := range s.AllAdapters() {
		rep, err := buildAdapter(a)
		if err != nil {
			return Subsystem{}, err
		}
		out.Adapters = append(out.Adapters, rep)
	}
	for _, p := range append(append([]*topology.InterfacePort(nil), s.Initiators()...), s.Endpoints()...) {
		if q, ok := s.Binding(p); ok {
			out.Bindings = append(out.Bindings, PortBinding{Port: PortLabel(p), BoundTo: PortLabel(q)})
		}
	}
	for _, b := range s.ClockBindings() {
		out.Clocks = append(out.Clocks, signalBinding(b))
	}
	for _, b := range s.SignalBindings() {
		out.Signals = append(out.Signals, signalBinding(b))
	}
	for _, sig := range s.PropagatedSignals() {
		out.Propagated = append(out.Propagated, sig.Name())
	}
	return out, nil
}

func buildAdapter(a *topology.Adapter) (Adapter, error) {
	out := Adapter{
		Name:       a.Name(),
		Definition: a.Definition,
		From:       a.SlavePort().Protocol,
		To:         a.MasterPort().Protocol,
		Base:       hex(a.BaseAddress()),
		Size:       hex(a.Size()),
	}
	for _, s := range a.HostDrivenSignals() {
		out.HostDriven = append(out.HostDriven, s.Name())
	}
	for _, p := range []*topology.InterfacePort{a.SlavePort(), a.MasterPort()} {
		w, err := wirePort(p, a.IsDriver)
		if err != nil {
			return Adapter{}, err
		}
		out.Ports = append(out.Ports, w)
	}
	return out, nil
}

func buildInterconnect(ic *topology.Interconnect) (Interconnect, error) {
	out := Interconnect{
		Name:       ic.Name(),
		Definition: ic.Definition,
		Protocol:   ic.Protocol,
		Scheme:     ic.Scheme.String(),
		Params:     params(ic.Parameters()),
	}
	for _, p := range ic.ExtSlavePorts {
		out.Initiators = append(out.Initiators, PortLabel(p))
	}
	for _, p := range ic.ExtMasterPorts {
		out.Endpoints = append(out.Endpoints, PortLabel(p))
	}
	for _, r := range ic.Regions {
		region := Region{Port: PortLabel(r.Port), Base: hex(r.Base), Size: hex(r.Size)}
		if ic.Scheme == topology.SchemeSlaveMask {
			region.Mask = hex(topology.MaskFor(r.Size, ic.AddrWidth))
		}
		out.AddressMap = append(out.AddressMap, region)
	}
	for _, p := range ic.ExternalPorts() {
		w, err := wirePort(p, ic.IsDriver)
		if err != nil {
			return Interconnect{}, err
		}
		out.Ports = append(out.Ports, w)
	}
	return out, nil
}

func signalBinding(b topology.SignalBinding) SignalBinding {
	return SignalBinding{
		Module:   b.Module.Name(),
		Signal:   b.Signal.Name(),
		Parent:   b.Parent.Name(),
		Fallback: b.Fallback,
	}
}

// PortLabel names a port by its owning instance, e.g. "uart0.s_" or
// "gpio0.s_[1]".
func PortLabel(p *topology.InterfacePort) string {
	return portpath.New([]string{p.Module().Name()}, p.Prefix, p.Index).String()
}

func params(ps []topology.HWParam) map[string]string {
	if len(ps) == 0 {
		return nil
	}
	out := make(map[string]string, len(ps))
	for _, p := range ps {
		out[p.Name] = p.Literal()
	}
	return out
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%08X", v)
}

// Encode writes the report in the given format, "yaml" or "json".
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report as yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report as json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
