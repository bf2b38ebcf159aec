package hcl

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/dag"
	"github.com/vk/socgen/internal/fsutil"
	"github.com/vk/socgen/internal/hclexpr"
)

// Source is one in-memory description file.
type Source struct {
	Filename string
	Data     []byte
}

// Loader turns description files into a Library.
type Loader struct{}

// NewLoader creates a new HCL description loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under the given files and directories.
// Directories are expanded in sorted order, which fixes the declaration order
// of definitions spread across several files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Library, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	sources := make([]Source, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		sources = append(sources, Source{Filename: f, Data: data})
	}
	return l.LoadSources(ctx, sources...)
}

// LoadSources parses in-memory description files in the given order.
func (l *Loader) LoadSources(ctx context.Context, sources ...Source) (*Library, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	lib := newLibrary()

	var diags hcl.Diagnostics
	for _, src := range sources {
		file, parseDiags := parser.ParseHCL(src.Data, src.Filename)
		if parseDiags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", src.Filename, parseDiags)
		}

		var root fileRoot
		if decodeDiags := gohcl.DecodeBody(file.Body, nil, &root); decodeDiags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", src.Filename, decodeDiags)
		}

		for _, group := range []struct {
			kind   Kind
			blocks []*definitionBlock
		}{
			{KindInterface, root.Interfaces},
			{KindModule, root.Modules},
			{KindSubsystem, root.Subsystems},
			{KindAdapter, root.Adapters},
			{KindInterconnect, root.Interconnects},
		} {
			for _, block := range group.blocks {
				def, defDiags := translateDefinition(group.kind, block)
				diags = append(diags, defDiags...)
				if def != nil {
					diags = append(diags, lib.add(def)...)
				}
			}
		}
	}

	diags = append(diags, lib.validate()...)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid description: %w", diags)
	}

	logger.Debug("HCL loading complete.", "definitions", len(lib.definitions))
	return lib, nil
}

// translateDefinition converts a raw block into a Definition and collects
// its expressions for later reference analysis.
func translateDefinition(kind Kind, block *definitionBlock) (*Definition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	def := &Definition{
		Kind:  kind,
		Name:  block.Name,
		Range: block.DefRange,
		exprs: hclexpr.NewContainer(),
	}

	seenParams := make(map[string]struct{})
	for _, p := range block.Params {
		if _, dup := seenParams[p.Name]; dup {
			diags = append(diags, duplicateDiag("parameter", p.Name, p.DefRange))
			continue
		}
		seenParams[p.Name] = struct{}{}
		def.Params = append(def.Params, &Param{
			Name:        p.Name,
			Default:     p.Default,
			HasDefault:  isExprDefined(p.Default),
			Description: p.Description,
			Range:       p.DefRange,
		})
	}

	attrs, attrDiags := remainAttributes(block.Remain, "param", "signal", "instance")
	diags = append(diags, attrDiags...)
	def.Attributes = sortedAttributes(attrs)
	for _, a := range def.Attributes {
		def.exprs.Add(a.Expr)
	}

	seenSignals := make(map[string]struct{})
	for _, s := range block.Signals {
		if _, dup := seenSignals[s.Name]; dup {
			diags = append(diags, duplicateDiag("signal", s.Name, s.DefRange))
			continue
		}
		seenSignals[s.Name] = struct{}{}
		sigAttrs, sigDiags := remainAttributes(s.Remain)
		diags = append(diags, sigDiags...)
		sig := &Signal{Name: s.Name, Attributes: sortedAttributes(sigAttrs), Range: s.DefRange}
		for _, a := range sig.Attributes {
			def.exprs.Add(a.Expr)
		}
		def.Signals = append(def.Signals, sig)
	}

	seenInstances := make(map[string]struct{})
	for _, in := range block.Instances {
		if _, dup := seenInstances[in.Name]; dup {
			diags = append(diags, duplicateDiag("instance", in.Name, in.DefRange))
			continue
		}
		seenInstances[in.Name] = struct{}{}
		inst := &Instance{
			Definition: in.Definition,
			Name:       in.Name,
			Range:      in.DefRange,
		}
		if isExprDefined(in.At) {
			inst.At = in.At
		}
		if isExprDefined(in.Params) {
			inst.Params = in.Params
		}
		def.exprs.Add(inst.At, inst.Params)
		def.Instances = append(def.Instances, inst)
	}

	return def, diags
}

// remainAttributes reads the attributes left in a remain body. A native
// syntax remain body still lists the blocks the schema already decoded, and
// JustAttributes rejects any block at all, so its block diagnostic is
// dropped and only blocks outside decoded are reported.
func remainAttributes(body hcl.Body, decoded ...string) (hcl.Attributes, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	if syntaxBody, ok := body.(*hclsyntax.Body); ok {
		for _, b := range syntaxBody.Blocks {
			if slices.Contains(decoded, b.Type) {
				continue
			}
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Unexpected %q block", b.Type),
				Detail:   "Blocks are not allowed here.",
				Subject:  b.TypeRange.Ptr(),
			})
		}
		attrs, _ := body.JustAttributes()
		return attrs, diags
	}
	return body.JustAttributes()
}

// isExprDefined reports whether an optional attribute was present in the
// source. gohcl fills omitted optional expression fields with a zero-width
// placeholder, so the range size is the reliable signal.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

func sortedAttributes(attrs hcl.Attributes) []*hcl.Attribute {
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out
}

func duplicateDiag(what, name string, rng hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s definition", what),
		Detail:   fmt.Sprintf("The %s %q is declared more than once.", what, name),
		Subject:  rng.Ptr(),
	}
}

// buildInstanceGraph links every definition to the definitions it
// instantiates.
func buildInstanceGraph(defs []*Definition) *dag.Graph {
	g := dag.New()
	for _, d := range defs {
		g.AddNode(d.Name)
	}
	for _, d := range defs {
		for _, in := range d.Instances {
			// Unknown targets are reported separately.
			_ = g.AddEdge(d.Name, in.Definition)
		}
	}
	return g
}
