package topology

import (
	"fmt"
	"strings"

	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
)

// macroPrefix marks string parameters that name a generated constant and are
// therefore passed through to the rendered module.
const macroPrefix = "SOCGEN_"

// HWParam is a parameter passed to the rendered module instance.
type HWParam struct {
	Name  string
	Value cty.Value
}

func extractParameters(n source.Node) []HWParam {
	var out []HWParam
	for _, p := range n.Parameters() {
		v := p.Value
		switch {
		case source.IsNumber(v), source.IsNumberArray(v):
			out = append(out, HWParam{Name: p.Name, Value: v})
		case v.IsKnown() && !v.IsNull() && v.Type() == cty.String && strings.HasPrefix(v.AsString(), macroPrefix):
			out = append(out, HWParam{Name: p.Name, Value: v})
		}
	}
	return out
}

// Literal renders the value as a SystemVerilog literal. Numeric arrays use
// 32-bit hex elements.
func (p HWParam) Literal() string {
	v := p.Value
	switch {
	case source.IsNumber(v):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String()
		}
		return bf.Text('g', -1)
	case source.IsCollection(v):
		elems := source.Elements(v)
		parts := make([]string, 0, len(elems))
		for _, e := range elems {
			u, err := source.Uint(e)
			if err != nil {
				parts = append(parts, "'x")
				continue
			}
			parts = append(parts, fmt.Sprintf("32'h%08x", u))
		}
		return "'{" + strings.Join(parts, ", ") + "}"
	case v.Type() == cty.String:
		return v.AsString()
	default:
		return ""
	}
}
