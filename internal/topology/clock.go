package topology

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/socgen/internal/ctxlog"
)

// MatchingSignal finds the parent-level signal that connects to sig of
// child. Candidates are tried in order: the signal's path hint, a parent
// signal whose to/from hint names sig, an exact name match, and the
// propagated name "<child>_<sig>".
func (s *Subsystem) MatchingSignal(child Component, sig *Signal) (*Signal, error) {
	candidates := s.ExposedSignals()
	childName := child.AsModule().Name()

	if sig.RoutePath != "" {
		want := sig.RoutePath[strings.LastIndex(sig.RoutePath, ".")+1:]
		for _, c := range candidates {
			if c.Name() == want {
				return c, nil
			}
		}
		e := newError(ErrSignalNotFound, child.AsModule().Path()+"."+sig.Name(), "path hint resolves to no parent signal")
		e.Expected = want
		return nil, e
	}

	for _, c := range candidates {
		for _, hint := range []string{c.To, c.From} {
			if !hintRefers(hint, sig.Name()) {
				continue
			}
			if mod := hintModule(hint); mod != "" && mod != childName {
				continue
			}
			return c, nil
		}
	}
	for _, c := range candidates {
		if c.Name() == sig.Name() {
			return c, nil
		}
	}
	propagated := childName + "_" + sig.Name()
	for _, c := range candidates {
		if c.Name() == propagated {
			return c, nil
		}
	}
	return nil, newError(ErrSignalNotFound, child.AsModule().Path()+"."+sig.Name(), "no parent signal connects to it")
}

// bindRoutedSignals resolves every routing hint at this level. Child signals
// with a path hint must find their parent signal, and parent hints naming a
// direct child must name one of its signals.
func (s *Subsystem) bindRoutedSignals() error {
	for _, c := range s.children {
		for _, sig := range c.AsModule().PortSignals() {
			if sig.RoutePath == "" {
				continue
			}
			parent, err := s.MatchingSignal(c, sig)
			if err != nil {
				return err
			}
			s.signalBindings = append(s.signalBindings, SignalBinding{Module: c.AsModule(), Signal: sig, Parent: parent})
		}
	}

	for _, sig := range s.Module.ExposedSignals() {
		for _, hint := range []string{sig.To, sig.From} {
			mod := hintModule(hint)
			if mod == "" {
				continue
			}
			child, ok := s.Child(mod)
			if !ok {
				continue
			}
			name := hint[strings.LastIndex(hint, ".")+1:]
			if !childHasHintedSignal(child, name) {
				e := newError(ErrSignalNotFound, s.Path()+"."+sig.Name(), "routing hint %q names no signal of %s", hint, mod)
				e.Expected = name
				return e
			}
		}
	}
	return nil
}

func childHasHintedSignal(c Component, name string) bool {
	if c.AsModule().HasSignal(name) {
		return true
	}
	for _, sig := range c.ExposedSignals() {
		if hintRefers(name, sig.Name()) {
			return true
		}
	}
	return false
}

// bindClocksAndResets connects every clock and reset input at this level to
// one of the subsystem's own clocks or resets.
func (s *Subsystem) bindClocksAndResets(ctx context.Context) error {
	for _, m := range s.AllModules() {
		if err := s.bindSync(ctx, m, "clock", s.Clocks(), m.Clocks()); err != nil {
			return err
		}
		if err := s.bindSync(ctx, m, "reset", s.Resets(), m.Resets()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Subsystem) bindSync(ctx context.Context, m *Module, what string, parents, siblings []*Signal) error {
	for _, sig := range siblings {
		parent, fallback, err := matchSyncSignal(parents, siblings, sig)
		if err != nil {
			return cardinalityErr(s.Path(), "at least one "+what, "none", "cannot drive %s.%s", m.Name(), sig.Name())
		}
		if fallback {
			msg := fmt.Sprintf("ambiguous %s for %s.%s, using %s", what, m.Name(), sig.Name(), parent.Name())
			s.warnings = append(s.warnings, msg)
			ctxlog.FromContext(ctx).Warn("Ambiguous signal match, using the first candidate.",
				"kind", what, "module", m.Name(), "signal", sig.Name(), "chosen", parent.Name())
		}
		s.clockBindings = append(s.clockBindings, SignalBinding{Module: m, Signal: sig, Parent: parent, Fallback: fallback})
	}
	return nil
}

// matchSyncSignal picks the parent clock (or reset) driving want. A single
// parent signal always wins; then an exact name; then, when parent and
// child have the same number of candidates, the matching replica tag.
// Anything else falls back to the first parent signal.
func matchSyncSignal(parents, siblings []*Signal, want *Signal) (*Signal, bool, error) {
	switch len(parents) {
	case 0:
		return nil, false, fmt.Errorf("no candidate for %s", want.Name())
	case 1:
		return parents[0], false, nil
	}
	for _, p := range parents {
		if p.Name() == want.Name() {
			return p, false, nil
		}
	}
	if len(parents) == len(siblings) {
		if tag := replicaTag(want.Name()); tag != "" {
			for _, p := range parents {
				if replicaTag(p.Name()) == tag {
					return p, false, nil
				}
			}
		}
	}
	return parents[0], true, nil
}
