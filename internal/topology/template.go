package topology

import (
	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
)

// ParameterTemplate lists the parameters a definition declares, with their
// default values. Overrides computed for a definition are always filtered
// through its template so that only declared names are ever passed on.
type ParameterTemplate struct {
	params []source.Parameter
	index  map[string]int
}

// NewParameterTemplate builds a template from an elaboration with default
// values.
func NewParameterTemplate(params []source.Parameter) ParameterTemplate {
	t := ParameterTemplate{
		params: append([]source.Parameter(nil), params...),
		index:  make(map[string]int, len(params)),
	}
	for i, p := range t.params {
		t.index[p.Name] = i
	}
	return t
}

// Declares reports whether the definition has a parameter called name.
func (t ParameterTemplate) Declares(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Default returns the default value of a declared parameter.
func (t ParameterTemplate) Default(name string) (cty.Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return cty.NilVal, false
	}
	return t.params[i].Value, true
}

// Names returns the declared parameter names in declaration order.
func (t ParameterTemplate) Names() []string {
	out := make([]string, len(t.params))
	for i, p := range t.params {
		out[i] = p.Name
	}
	return out
}

// Overridden keeps the values whose names the template declares.
func (t ParameterTemplate) Overridden(values map[string]cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value)
	for name, v := range values {
		if t.Declares(name) {
			out[name] = v
		}
	}
	return out
}

// OverrideRecord returns dflt with every numeric field replaced by the
// same-named numeric field of from. Fields from lacks, and non-numeric
// fields, keep their default.
func OverrideRecord(dflt, from cty.Value) cty.Value {
	if !source.IsRecord(dflt) || !dflt.Type().IsObjectType() {
		return dflt
	}
	attrs := make(map[string]cty.Value)
	for name := range dflt.Type().AttributeTypes() {
		v := dflt.GetAttr(name)
		if source.IsNumber(v) {
			if fv, ok := source.Field(from, name); ok && source.IsNumber(fv) {
				v = fv
			}
		}
		attrs[name] = v
	}
	return cty.ObjectVal(attrs)
}
