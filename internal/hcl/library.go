package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/socgen/internal/hclexpr"
	"github.com/vk/socgen/internal/registry"
	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty/function"
)

// Library holds every loaded definition in declaration order and
// elaborates them on request. A Library is immutable once loaded, so
// elaboration calls may be repeated freely.
type Library struct {
	definitions []*Definition
	byName      map[string]*Definition
	functions   map[string]function.Function
}

var _ source.Elaborator = (*Library)(nil)

func newLibrary() *Library {
	return &Library{
		byName:    make(map[string]*Definition),
		functions: defaultFunctions(),
	}
}

func (l *Library) add(def *Definition) hcl.Diagnostics {
	if prev, ok := l.byName[def.Name]; ok {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Duplicate definition",
			Detail:   fmt.Sprintf("%s %q was already declared as a %s at %s.", def.Kind, def.Name, prev.Kind, prev.Range),
			Subject:  def.Range.Ptr(),
		}}
	}
	l.byName[def.Name] = def
	l.definitions = append(l.definitions, def)
	return nil
}

// Definition returns the named definition.
func (l *Library) Definition(name string) (*Definition, bool) {
	d, ok := l.byName[name]
	return d, ok
}

// Definitions returns all definitions in declaration order.
func (l *Library) Definitions() []*Definition {
	return append([]*Definition(nil), l.definitions...)
}

// DefaultTop returns the last declared subsystem, the conventional top of a
// description.
func (l *Library) DefaultTop() (string, error) {
	for i := len(l.definitions) - 1; i >= 0; i-- {
		if l.definitions[i].Kind == KindSubsystem {
			return l.definitions[i].Name, nil
		}
	}
	return "", fmt.Errorf("description declares no subsystem")
}

// validate runs the load-time checks that need the whole library: instance
// targets, parameter references, function names, and instantiation cycles.
func (l *Library) validate() hcl.Diagnostics {
	var diags hcl.Diagnostics

	known := make(map[string]struct{}, len(l.functions))
	for name := range l.functions {
		known[name] = struct{}{}
	}

	for _, def := range l.definitions {
		declared := make(map[string]struct{}, len(def.Params))
		for _, p := range def.Params {
			// A default may only refer to parameters declared before it.
			if p.HasDefault {
				c := hclexpr.NewContainer()
				c.Add(p.Default)
				diags = append(diags, referenceDiags(def, c, declared, known)...)
			}
			declared[p.Name] = struct{}{}
		}
		diags = append(diags, referenceDiags(def, def.exprs, declared, known)...)

		for _, in := range def.Instances {
			target, ok := l.byName[in.Definition]
			switch {
			case !ok:
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unknown definition",
					Detail:   fmt.Sprintf("Instance %q of %s %q refers to undeclared definition %q.", in.Name, def.Kind, def.Name, in.Definition),
					Subject:  in.Range.Ptr(),
				})
			case target.Kind == KindInterface:
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Interface cannot be instantiated",
					Detail:   fmt.Sprintf("Instance %q refers to interface %q; interfaces are attached through port descriptors.", in.Name, in.Definition),
					Subject:  in.Range.Ptr(),
				})
			}
		}
	}

	if err := buildInstanceGraph(l.definitions).DetectCycles(); err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Recursive instantiation",
			Detail:   fmt.Sprintf("Definitions instantiate each other in a loop (%s).", err),
		})
	}

	return diags
}

func referenceDiags(def *Definition, c *hclexpr.Container, declared, known map[string]struct{}) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, tr := range c.UndeclaredReferences(declared) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Reference to undeclared parameter",
			Detail:   fmt.Sprintf("%s %q has no parameter %q in scope.", def.Kind, def.Name, tr.RootName()),
			Subject:  tr.SourceRange().Ptr(),
		})
	}
	if unknown := c.UnknownFunctions(known); len(unknown) > 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Call to unknown function",
			Detail:   fmt.Sprintf("%s %q calls %s.", def.Kind, def.Name, strings.Join(unknown, ", ")),
			Subject:  def.Range.Ptr(),
		})
	}
	return diags
}

// Declarations describes the adapters, interconnects, and protocols this
// library provides, in declaration order. Adapter and interconnect
// definitions are elaborated with their defaults to read `from`, `to`, and
// `protocol`; adapters that omit them are named `<from>2<to>`.
func (l *Library) Declarations(ctx context.Context) ([]registry.Declaration, error) {
	var decls []registry.Declaration
	for _, def := range l.definitions {
		switch def.Kind {
		case KindInterface:
			decls = append(decls, registry.Declaration{Kind: registry.DeclProtocol, Name: def.Name})

		case KindAdapter:
			node, err := l.elaborate(ctx, def.Name, def.Name, nil)
			if err != nil {
				return nil, err
			}
			from, hasFrom := source.StringProperty(node, "from")
			to, hasTo := source.StringProperty(node, "to")
			if !hasFrom || !hasTo {
				var ok bool
				from, to, ok = strings.Cut(def.Name, "2")
				if !ok {
					return nil, fmt.Errorf("adapter %q: cannot derive protocols; declare `from` and `to`", def.Name)
				}
			}
			decls = append(decls, registry.Declaration{Kind: registry.DeclAdapter, Name: def.Name, From: from, To: to})

		case KindInterconnect:
			node, err := l.elaborate(ctx, def.Name, def.Name, nil)
			if err != nil {
				return nil, err
			}
			protocol, ok := source.StringProperty(node, "protocol")
			if !ok {
				protocol = strings.TrimSuffix(def.Name, "_interconnect")
			}
			decls = append(decls, registry.Declaration{Kind: registry.DeclInterconnect, Name: def.Name, Protocol: protocol})
		}
	}
	return decls, nil
}
