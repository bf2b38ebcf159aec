package topology

import (
	"fmt"

	"github.com/vk/socgen/internal/source"
	"github.com/zclconf/go-cty/cty"
)

// interconnectDecl is one user-declared interconnect from a subsystem's
// intc_l property.
type interconnectDecl struct {
	Name        string
	SlavePaths  []string
	MasterPaths []string
}

func parseInterconnectDecls(n source.Node) ([]interconnectDecl, error) {
	v, ok := n.Property("intc_l")
	if !ok || v.IsNull() {
		return nil, nil
	}
	where := n.Path() + ".intc_l"
	if !source.IsCollection(v) {
		return nil, configErr(where, "expected a list of interconnect records, got %s", v.Type().FriendlyName())
	}

	var decls []interconnectDecl
	for i, rec := range source.Elements(v) {
		at := fmt.Sprintf("%s[%d]", where, i)
		if !source.IsRecord(rec) {
			return nil, configErr(at, "expected an interconnect record, got %s", rec.Type().FriendlyName())
		}
		var d interconnectDecl
		nv, ok := source.Field(rec, "name")
		if !ok {
			return nil, configErr(at, "interconnect record has no name")
		}
		name, err := source.String(nv)
		if err != nil || name == "" {
			return nil, configErr(at, "interconnect name must be a non-empty string")
		}
		d.Name = name
		if d.SlavePaths, err = stringList(rec, "slv_ports"); err != nil {
			return nil, configErr(at, "%v", err)
		}
		if d.MasterPaths, err = stringList(rec, "mst_ports"); err != nil {
			return nil, configErr(at, "%v", err)
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func stringList(rec cty.Value, field string) ([]string, error) {
	v, ok := source.Field(rec, field)
	if !ok || v.IsNull() {
		return nil, nil
	}
	if !source.IsCollection(v) {
		return nil, fmt.Errorf("field %q must be a list of port paths", field)
	}
	var out []string
	for _, e := range source.Elements(v) {
		s, err := source.String(e)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		out = append(out, s)
	}
	return out, nil
}
