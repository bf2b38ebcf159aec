package portpath

import (
	"fmt"
	"slices"
	"strings"
)

// String serializes the Path into its canonical string representation.
func (p *Path) String() string {
	if p == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(p.Module, "."))
	sb.WriteRune('.')
	sb.WriteString(p.Prefix)
	if p.Index != -1 {
		sb.WriteString(fmt.Sprintf("[%d]", p.Index))
	}
	return sb.String()
}

// Equal reports whether two paths name the same port.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Prefix == other.Prefix &&
		p.Index == other.Index &&
		slices.Equal(p.Module, other.Module)
}

// ModulePath returns the dotted relative module path.
func (p *Path) ModulePath() string {
	return strings.Join(p.Module, ".")
}
