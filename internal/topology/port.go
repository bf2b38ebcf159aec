package topology

import (
	"fmt"
	"strings"

	"github.com/vk/socgen/internal/portpath"
	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
)

// Role is the side of a bus connection a port plays.
type Role int

const (
	RoleSlave Role = iota
	RoleMaster
)

func (r Role) String() string {
	if r == RoleMaster {
		return "master"
	}
	return "slave"
}

func parseRole(s string) Role {
	if s == "master" {
		return RoleMaster
	}
	return RoleSlave
}

// InterfacePort is one instance of a bus protocol attached to a module.
type InterfacePort struct {
	Protocol   string
	Role       Role
	AddrWidth  uint
	DataWidth  uint
	Prefix     string
	Capitalize bool
	// Index selects the port within a fanned-out group, -1 when the
	// descriptor declared a single port.
	Index int

	record  cty.Value
	signals []*Signal
	module  *Module
	origin  *InterfacePort
}

// Module returns the module owning the port.
func (p *InterfacePort) Module() *Module {
	return p.module
}

// Origin returns the endpoint port an adapter port stands for, or the port
// itself.
func (p *InterfacePort) Origin() *InterfacePort {
	if p.origin == nil {
		return p
	}
	return p.origin
}

// Record returns the descriptor the port was declared with.
func (p *InterfacePort) Record() cty.Value {
	return p.record
}

// Signals returns the port's signals, already carrying its prefix.
func (p *InterfacePort) Signals() []*Signal {
	return p.signals
}

// Signal looks a port signal up by basename.
func (p *InterfacePort) Signal(basename string) (*Signal, error) {
	for _, s := range p.signals {
		if s.Basename == basename {
			return s, nil
		}
	}
	return nil, newError(ErrSignalNotFound, p.String(), "interface %q has no signal %q", p.Protocol, basename)
}

// DirectionFor resolves the module-level direction of one of the port's
// signals: requests flow from master to slave, responses back.
func (p *InterfacePort) DirectionFor(s *Signal) (Direction, error) {
	switch {
	case s.Response:
		if p.Role == RoleSlave {
			return DirOutput, nil
		}
		return DirInput, nil
	case s.Request:
		if p.Role == RoleSlave {
			return DirInput, nil
		}
		return DirOutput, nil
	default:
		return DirNone, invariantErr(p.String(), "interface signal %q is tagged neither request nor response", s.Basename)
	}
}

// PortPath returns the port's path relative to the given ancestor module.
func (p *InterfacePort) PortPath(ancestor *Module) *portpath.Path {
	rel := strings.TrimPrefix(p.module.Path(), ancestor.Path()+".")
	return portpath.New(strings.Split(rel, "."), p.Prefix, p.Index)
}

func (p *InterfacePort) String() string {
	var sb strings.Builder
	if p.module != nil {
		sb.WriteString(p.module.Path())
		sb.WriteByte('.')
	}
	sb.WriteString(p.Prefix)
	if p.Index >= 0 {
		fmt.Fprintf(&sb, "[%d]", p.Index)
	}
	fmt.Fprintf(&sb, " (%s %s)", p.Protocol, p.Role)
	return sb.String()
}

// numericFields returns the numeric fields of a descriptor record.
func numericFields(rec cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, name := range source.FieldNames(rec) {
		if v, ok := source.Field(rec, name); ok && source.IsNumber(v) {
			out[name] = v
		}
	}
	return out
}

func removePorts(list []*InterfacePort, drop map[*InterfacePort]bool) []*InterfacePort {
	out := make([]*InterfacePort, 0, len(list))
	for _, p := range list {
		if !drop[p] {
			out = append(out, p)
		}
	}
	return out
}

func containsPort(list []*InterfacePort, p *InterfacePort) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
