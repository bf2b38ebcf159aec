package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Elaborate instantiates a definition under the given instance name.
// Overrides must name declared parameters; a value overriding a parameter
// whose default is a primitive is converted to that primitive type.
func (l *Library) Elaborate(ctx context.Context, definition, instance string, overrides map[string]cty.Value) (source.Node, error) {
	el, err := l.elaborate(ctx, definition, instance, overrides)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// EvaluateExpression evaluates one HCL expression with the library's
// function table and no variables in scope.
func (l *Library) EvaluateExpression(ctx context.Context, literal string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(literal), "<expression>", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to parse expression %q: %w", literal, diags)
	}
	v, diags := expr.Value(l.evalContext(nil))
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to evaluate expression %q: %w", literal, diags)
	}
	return v, nil
}

func (l *Library) evalContext(vars map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: vars,
		Functions: l.functions,
	}
}

func (l *Library) elaborate(ctx context.Context, defName, instName string, overrides map[string]cty.Value) (*source.Element, error) {
	logger := ctxlog.FromContext(ctx)

	def, ok := l.byName[defName]
	if !ok {
		return nil, fmt.Errorf("unknown definition %q", defName)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := def.Param(name); !ok {
			return nil, fmt.Errorf("%s %q has no parameter %q", def.Kind, def.Name, name)
		}
	}

	params, diags := l.evalParams(def, overrides)
	if diags.HasErrors() {
		return nil, fmt.Errorf("elaborating %s %q as %q: %w", def.Kind, def.Name, instName, diags)
	}
	evalCtx := l.evalContext(params)

	el := source.NewElement(source.KindBlock, def.Name, instName)
	for _, p := range def.Params {
		el.SetParameter(p.Name, params[p.Name])
	}
	if tag := def.Kind.tag(); tag != "" {
		el.SetProperty(tag, cty.True)
	}

	for _, attr := range def.Attributes {
		v, valDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() || v.IsNull() {
			continue
		}
		if attr.Name == "size" {
			size, err := source.Uint(v)
			if err != nil {
				diags = append(diags, valueDiag(attr.Name, err, attr.Expr))
				continue
			}
			el.SetSize(size)
			continue
		}
		el.SetProperty(attr.Name, v)
	}

	for _, s := range def.Signals {
		sig := source.NewElement(source.KindSignal, s.Name, s.Name)
		for _, attr := range s.Attributes {
			v, valDiags := attr.Expr.Value(evalCtx)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() || v.IsNull() {
				continue
			}
			if attr.Name == "width" {
				w, err := source.Uint(v)
				if err != nil || w == 0 {
					if err == nil {
						err = fmt.Errorf("width must be at least 1")
					}
					diags = append(diags, valueDiag(attr.Name, err, attr.Expr))
					continue
				}
				sig.SetWidth(uint(w))
				continue
			}
			sig.SetProperty(attr.Name, v)
		}
		el.AddChild(sig)
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("elaborating %s %q as %q: %w", def.Kind, def.Name, instName, diags)
	}

	for _, in := range def.Instances {
		child, err := l.elaborateInstance(ctx, in, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("in %s %q: %w", def.Kind, def.Name, err)
		}
		el.AddChild(child)
	}

	logger.Debug("Definition elaborated.", "definition", def.Name, "instance", instName, "overrides", len(overrides))
	return el, nil
}

func (l *Library) elaborateInstance(ctx context.Context, in *Instance, evalCtx *hcl.EvalContext) (*source.Element, error) {
	var overrides map[string]cty.Value
	if in.Params != nil {
		v, diags := in.Params.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("instance %q params: %w", in.Name, diags)
		}
		if !v.IsNull() {
			if !source.IsRecord(v) {
				return nil, fmt.Errorf("instance %q params must be an object, got %s", in.Name, v.Type().FriendlyName())
			}
			overrides = make(map[string]cty.Value)
			for _, name := range source.FieldNames(v) {
				overrides[name], _ = source.Field(v, name)
			}
		}
	}

	child, err := l.elaborate(ctx, in.Definition, in.Name, overrides)
	if err != nil {
		return nil, err
	}

	if in.At != nil {
		v, diags := in.At.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("instance %q address: %w", in.Name, diags)
		}
		offset, err := source.Uint(v)
		if err != nil {
			return nil, fmt.Errorf("instance %q address: %w", in.Name, err)
		}
		child.SetOffset(offset)
	}
	return child, nil
}

// evalParams resolves parameter values in declaration order. Defaults see
// the parameters declared before them, overridden or not.
func (l *Library) evalParams(def *Definition, overrides map[string]cty.Value) (map[string]cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	values := make(map[string]cty.Value, len(def.Params))

	for _, p := range def.Params {
		var dflt cty.Value
		if p.HasDefault {
			v, valDiags := p.Default.Value(l.evalContext(values))
			if valDiags.HasErrors() {
				diags = append(diags, valDiags...)
				continue
			}
			dflt = v
		}

		if ov, ok := overrides[p.Name]; ok {
			conv, err := convertOverride(ov, dflt, p.HasDefault)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid parameter override",
					Detail:   fmt.Sprintf("Parameter %q: %s.", p.Name, err),
					Subject:  p.Range.Ptr(),
				})
				continue
			}
			values[p.Name] = conv
			continue
		}

		if !p.HasDefault {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing parameter value",
				Detail:   fmt.Sprintf("Parameter %q has no default and was not set.", p.Name),
				Subject:  p.Range.Ptr(),
			})
			continue
		}
		values[p.Name] = dflt
	}

	return values, diags
}

// convertOverride converts v to the type of the default when the default is
// a primitive. Structured defaults only fix the shape loosely, so structured
// overrides are passed through unchanged.
func convertOverride(v, dflt cty.Value, hasDefault bool) (cty.Value, error) {
	if !hasDefault || dflt.IsNull() || !dflt.Type().IsPrimitiveType() {
		return v, nil
	}
	conv, err := convert.Convert(v, dflt.Type())
	if err != nil {
		return cty.NilVal, fmt.Errorf("expected %s: %w", dflt.Type().FriendlyName(), err)
	}
	return conv, nil
}

func valueDiag(name string, err error, expr hcl.Expression) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Invalid %s", name),
		Detail:   err.Error(),
		Subject:  expr.Range().Ptr(),
	}
}
