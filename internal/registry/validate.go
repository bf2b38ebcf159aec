package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/socgen/internal/ctxlog"
)

// Validate checks that every adapter and interconnect refers to a registered
// protocol. Protocols nobody can build a fabric for are only warned about,
// since a description may connect them point-to-point through adapters.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, a := range r.adapters {
		if !r.HasProtocol(a.From) {
			errs = append(errs, fmt.Sprintf("adapter '%s': input protocol '%s' is not declared", a.Name, a.From))
		}
		if !r.HasProtocol(a.To) {
			errs = append(errs, fmt.Sprintf("adapter '%s': output protocol '%s' is not declared", a.Name, a.To))
		}
		if a.From == a.To {
			errs = append(errs, fmt.Sprintf("adapter '%s': input and output protocol are both '%s'", a.Name, a.From))
		}
	}

	protocols := make([]string, 0, len(r.interconnects))
	for p := range r.interconnects {
		protocols = append(protocols, p)
	}
	sort.Strings(protocols)
	for _, p := range protocols {
		if !r.HasProtocol(p) {
			errs = append(errs, fmt.Sprintf("interconnect '%s': protocol '%s' is not declared", r.interconnects[p], p))
		}
	}

	for _, p := range r.protocolOrder {
		if _, ok := r.interconnects[p]; !ok {
			logger.Warn("Protocol has no interconnect definition; fabrics of this type cannot be built.", "protocol", p)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
