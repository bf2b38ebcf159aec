package topology

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/portpath"
	"github.com/vk/socgen/internal/source"
)

// BuildState tracks how far a subsystem build got.
type BuildState int

const (
	StateDiscovering BuildState = iota
	StatePartitioning
	StateUserInterconnects
	StateDefaultInterconnect
	StateBindingSignals
	StateDone
)

func (s BuildState) String() string {
	switch s {
	case StateDiscovering:
		return "discovering"
	case StatePartitioning:
		return "partitioning"
	case StateUserInterconnects:
		return "user_interconnects"
	case StateDefaultInterconnect:
		return "default_interconnect"
	case StateBindingSignals:
		return "binding_signals"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Subsystem is a module whose children are connected by generated
// interconnects.
type Subsystem struct {
	*Module

	children   []Component
	propagated []*Signal

	initiators []*InterfacePort
	endpoints  []*InterfacePort

	interconnects []*Interconnect
	adapterPaths  []*AdapterPath
	// bindings maps a port that needed adapting to the adapter port that
	// replaced it on the fabric.
	bindings map[*InterfacePort]*InterfacePort

	clockBindings  []SignalBinding
	signalBindings []SignalBinding
	warnings       []string

	state BuildState
}

// SignalBinding records which parent-level signal drives a child signal.
type SignalBinding struct {
	Module *Module
	Signal *Signal
	Parent *Signal
	// Fallback is set when the match was ambiguous and the first candidate
	// was taken.
	Fallback bool
}

// BuildSubsystem builds the subsystem rooted at n, building child
// subsystems first. Results are memoized per node.
func (b *Builder) BuildSubsystem(ctx context.Context, n source.Node) (*Subsystem, error) {
	if s, ok := b.subsystems[n]; ok {
		return s, nil
	}
	ctx = ctxlog.With(ctx, "subsystem", n.Path())
	logger := ctxlog.FromContext(ctx)

	mod, err := b.NewModule(ctx, n)
	if err != nil {
		return nil, err
	}
	s := &Subsystem{
		Module:   mod,
		bindings: make(map[*InterfacePort]*InterfacePort),
	}

	s.setState(ctx, StateDiscovering)
	if err := b.discoverChildren(ctx, s); err != nil {
		return nil, err
	}
	s.propagateSignals()
	if err := s.bindRoutedSignals(); err != nil {
		return nil, err
	}

	s.setState(ctx, StatePartitioning)
	initiators, endpoints := s.partition()
	s.initiators = append([]*InterfacePort(nil), initiators...)
	s.endpoints = append([]*InterfacePort(nil), endpoints...)

	s.setState(ctx, StateUserInterconnects)
	decls, err := parseInterconnectDecls(n)
	if err != nil {
		return nil, err
	}
	claimed := make(map[*InterfacePort]string)
	for _, d := range decls {
		slv, mst, err := s.resolveDecl(d, claimed)
		if err != nil {
			return nil, err
		}
		if _, err := b.connect(ctx, s, slv, mst, d.Name+"_"); err != nil {
			return nil, err
		}
		used := make(map[*InterfacePort]bool, len(slv)+len(mst))
		for _, p := range append(slv, mst...) {
			claimed[p] = d.Name
			used[p] = true
		}
		initiators = removePorts(initiators, used)
		endpoints = removePorts(endpoints, used)
	}

	s.setState(ctx, StateDefaultInterconnect)
	switch {
	case len(initiators) == 0 && len(endpoints) == 0:
		logger.Debug("No ports left for a default interconnect.")
	case len(initiators) == 0 || len(endpoints) == 0:
		left := append(append([]*InterfacePort(nil), initiators...), endpoints...)
		names := make([]string, len(left))
		for i, p := range left {
			names[i] = p.String()
		}
		e := configErr(s.Path(), "ports left without a counterpart: %s", strings.Join(names, ", "))
		e.Expected = "initiators and endpoints"
		e.Found = strconv.Itoa(len(initiators)) + " initiators, " + strconv.Itoa(len(endpoints)) + " endpoints"
		return nil, e
	default:
		if _, err := b.connect(ctx, s, initiators, endpoints, ""); err != nil {
			return nil, err
		}
	}

	s.setState(ctx, StateBindingSignals)
	if err := s.bindClocksAndResets(ctx); err != nil {
		return nil, err
	}

	s.setState(ctx, StateDone)
	b.subsystems[n] = s
	logger.Info("Subsystem built.",
		"children", len(s.children), "interconnects", len(s.interconnects), "adapters", len(s.AllAdapters()))
	return s, nil
}

func (s *Subsystem) setState(ctx context.Context, st BuildState) {
	s.state = st
	ctxlog.FromContext(ctx).Debug("Subsystem build state changed.", "state", st.String())
}

func (b *Builder) discoverChildren(ctx context.Context, s *Subsystem) error {
	var errs []error
	for _, cn := range source.Blocks(s.node) {
		if source.BoolProperty(cn, "subsystem") {
			child, err := b.BuildSubsystem(ctx, cn)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			s.children = append(s.children, child)
			continue
		}
		child, err := b.NewModule(ctx, cn)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.children = append(s.children, child)
	}
	return errors.Join(errs...)
}

// propagateSignals re-exposes every child signal marked for propagation,
// prefixed with the child's instance name.
func (s *Subsystem) propagateSignals() {
	for _, c := range s.children {
		for _, sig := range c.ExposedSignals() {
			if sig.Propagate {
				s.propagated = append(s.propagated, sig.withPrefix(c.AsModule().Name()+"_"+sig.Prefix))
			}
		}
	}
}

func (s *Subsystem) partition() (initiators, endpoints []*InterfacePort) {
	for _, c := range s.children {
		m := c.AsModule()
		initiators = append(initiators, m.MasterPorts()...)
		endpoints = append(endpoints, m.SlavePorts()...)
	}
	initiators = append(initiators, s.SlavePorts()...)
	endpoints = append(endpoints, s.MasterPorts()...)
	return initiators, endpoints
}

// resolveDecl resolves every path of a user-declared interconnect before
// anything is modified.
func (s *Subsystem) resolveDecl(d interconnectDecl, claimed map[*InterfacePort]string) (slv, mst []*InterfacePort, err error) {
	resolve := func(paths []string) ([]*InterfacePort, error) {
		out := make([]*InterfacePort, 0, len(paths))
		for _, raw := range paths {
			p, err := s.FindPortInChildren(raw)
			if err != nil {
				return nil, err
			}
			if owner, ok := claimed[p]; ok {
				return nil, configErr(s.Path(), "port %q is already attached to interconnect %q", raw, owner)
			}
			if containsPort(out, p) || containsPort(slv, p) {
				return nil, configErr(s.Path(), "port %q is listed twice in interconnect %q", raw, d.Name)
			}
			out = append(out, p)
		}
		return out, nil
	}
	if slv, err = resolve(d.SlavePaths); err != nil {
		return nil, nil, err
	}
	if mst, err = resolve(d.MasterPaths); err != nil {
		return nil, nil, err
	}
	return slv, mst, nil
}

// FindPortInChildren resolves a port path such as "uart0.s_" or
// "gpio0.s_[1]" against the ports of the direct children.
func (s *Subsystem) FindPortInChildren(raw string) (*InterfacePort, error) {
	want, err := portpath.Parse(raw)
	if err != nil {
		e := configErr(s.Path(), "malformed port path")
		e.Err = err
		return nil, e
	}
	for _, c := range s.children {
		for _, p := range c.AsModule().Ports() {
			if p.PortPath(s.Module).Equal(want) {
				return p, nil
			}
		}
	}
	return nil, newError(ErrUnresolvedPortPath, s.Path(), "%q matches no port of a direct child", raw)
}

// connect attaches initiators and endpoints to one new interconnect,
// inserting adapters for every port that does not speak the fabric's
// majority protocol.
func (b *Builder) connect(ctx context.Context, s *Subsystem, initiators, endpoints []*InterfacePort, prefix string) (*Interconnect, error) {
	for _, p := range initiators {
		if p.Role == RoleSlave && p.Module() != s.Module {
			return nil, configErr(s.Path(), "slave port %s cannot act as an initiator", p)
		}
	}
	for _, p := range endpoints {
		if p.Role == RoleMaster && p.Module() != s.Module {
			return nil, configErr(s.Path(), "master port %s cannot act as an endpoint", p)
		}
	}
	if len(initiators) == 0 || len(endpoints) == 0 {
		return nil, cardinalityErr(s.Path(), "at least one port on each side",
			strconv.Itoa(len(initiators))+" initiators, "+strconv.Itoa(len(endpoints))+" endpoints",
			"interconnect %q has an empty side", strings.TrimSuffix(prefix, "_"))
	}

	native := MajorityProtocol(initiators)
	var rep *InterfacePort
	for _, p := range initiators {
		if p.Protocol == native {
			rep = p
			break
		}
	}

	slv := make([]*InterfacePort, 0, len(initiators))
	for _, p := range initiators {
		if p.Protocol == native {
			slv = append(slv, p)
			continue
		}
		path, err := b.resolveAdapterPath(ctx, p, rep, p, prefix)
		if err != nil {
			return nil, err
		}
		s.adapterPaths = append(s.adapterPaths, path)
		s.bindings[p] = path.Last().MasterPort()
		slv = append(slv, path.Last().MasterPort())
	}

	mst := make([]*InterfacePort, 0, len(endpoints))
	for _, p := range endpoints {
		if p.Protocol == native {
			mst = append(mst, p)
			continue
		}
		path, err := b.resolveAdapterPath(ctx, rep, p, p, prefix)
		if err != nil {
			return nil, err
		}
		s.adapterPaths = append(s.adapterPaths, path)
		s.bindings[p] = path.First().SlavePort()
		mst = append(mst, path.First().SlavePort())
	}

	ic, err := b.BuildInterconnect(ctx, slv, mst, s, prefix)
	if err != nil {
		return nil, err
	}
	s.interconnects = append(s.interconnects, ic)
	return ic, nil
}

func (s *Subsystem) ExposedSignals() []*Signal {
	return append(s.Module.ExposedSignals(), s.propagated...)
}

// State returns how far the build progressed.
func (s *Subsystem) State() BuildState { return s.state }

// Children returns the direct children in declaration order.
func (s *Subsystem) Children() []Component { return s.children }

// PropagatedSignals are the child signals re-exposed by this subsystem.
func (s *Subsystem) PropagatedSignals() []*Signal { return s.propagated }

// Initiators returns the ports that issue requests into this subsystem's
// fabrics, as partitioned before any interconnect was built.
func (s *Subsystem) Initiators() []*InterfacePort { return s.initiators }

// Endpoints returns the ports that serve requests, as partitioned before any
// interconnect was built.
func (s *Subsystem) Endpoints() []*InterfacePort { return s.endpoints }

func (s *Subsystem) Interconnects() []*Interconnect { return s.interconnects }

func (s *Subsystem) AdapterPaths() []*AdapterPath { return s.adapterPaths }

// Binding returns the adapter port standing in for p on a fabric.
func (s *Subsystem) Binding(p *InterfacePort) (*InterfacePort, bool) {
	q, ok := s.bindings[p]
	return q, ok
}

// ClockBindings lists how every clock and reset at this level is driven.
func (s *Subsystem) ClockBindings() []SignalBinding { return s.clockBindings }

// SignalBindings lists the child signals connected through a path hint.
func (s *Subsystem) SignalBindings() []SignalBinding { return s.signalBindings }

// Warnings returns non-fatal diagnostics collected during the build.
func (s *Subsystem) Warnings() []string { return s.warnings }

// AllAdapters returns every adapter instantiated at this level.
func (s *Subsystem) AllAdapters() []*Adapter {
	var out []*Adapter
	for _, p := range s.adapterPaths {
		out = append(out, p.Adapters...)
	}
	return out
}

// AllModules returns every module instantiated at this level: children,
// then adapters, then interconnects.
func (s *Subsystem) AllModules() []*Module {
	var out []*Module
	for _, c := range s.children {
		out = append(out, c.AsModule())
	}
	for _, a := range s.AllAdapters() {
		out = append(out, a.Module)
	}
	for _, ic := range s.interconnects {
		out = append(out, ic.Module)
	}
	return out
}

// Child returns the direct child with the given instance name.
func (s *Subsystem) Child(name string) (Component, bool) {
	for _, c := range s.children {
		if c.AsModule().Name() == name {
			return c, true
		}
	}
	return nil, false
}
