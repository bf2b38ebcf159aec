package source

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Elements returns the elements of a list, tuple, or set value, or nil for
// any other value.
func Elements(v cty.Value) []cty.Value {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil
	}
	out := make([]cty.Value, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem)
	}
	return out
}

// IsCollection reports whether v is a list, tuple, or set.
func IsCollection(v cty.Value) bool {
	ty := v.Type()
	return ty.IsListType() || ty.IsTupleType() || ty.IsSetType()
}

// IsNumber reports whether v is a known, non-null number.
func IsNumber(v cty.Value) bool {
	return v.IsKnown() && !v.IsNull() && v.Type() == cty.Number
}

// IsNumberArray reports whether v is a collection whose elements are all
// numbers. An empty collection counts.
func IsNumberArray(v cty.Value) bool {
	if !v.IsKnown() || v.IsNull() || !IsCollection(v) {
		return false
	}
	for _, e := range Elements(v) {
		if !IsNumber(e) {
			return false
		}
	}
	return true
}

// IsRecord reports whether v is a known, non-null object or map.
func IsRecord(v cty.Value) bool {
	if !v.IsKnown() || v.IsNull() {
		return false
	}
	return v.Type().IsObjectType() || v.Type().IsMapType()
}

// Field returns the named attribute of an object or map value.
func Field(v cty.Value, name string) (cty.Value, bool) {
	if !IsRecord(v) {
		return cty.NilVal, false
	}
	ty := v.Type()
	if ty.IsObjectType() {
		if !ty.HasAttribute(name) {
			return cty.NilVal, false
		}
		return v.GetAttr(name), true
	}
	key := cty.StringVal(name)
	if !v.HasIndex(key).True() {
		return cty.NilVal, false
	}
	return v.Index(key), true
}

// FieldNames returns the attribute names of a record in sorted order.
func FieldNames(v cty.Value) []string {
	if !IsRecord(v) {
		return nil
	}
	var names []string
	for it := v.ElementIterator(); it.Next(); {
		k, _ := it.Element()
		names = append(names, k.AsString())
	}
	return names
}

// Uint converts a number value into a uint64.
func Uint(v cty.Value) (uint64, error) {
	if !IsNumber(v) {
		return 0, fmt.Errorf("expected a number, got %s", friendlyType(v))
	}
	var out uint64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// String converts a primitive value into a string.
func String(v cty.Value) (string, error) {
	if !v.IsKnown() || v.IsNull() {
		return "", fmt.Errorf("expected a string, got %s", friendlyType(v))
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("expected a string, got %s", friendlyType(v))
	}
	return sv.AsString(), nil
}

// Truthy reports whether v is, or converts to, the boolean true.
func Truthy(v cty.Value) bool {
	if !v.IsKnown() || v.IsNull() {
		return false
	}
	bv, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false
	}
	return bv.True()
}

// BoolProperty reports whether a node declares name with a true value.
func BoolProperty(n Node, name string) bool {
	v, ok := n.Property(name)
	return ok && Truthy(v)
}

// StringProperty returns a string property, if present.
func StringProperty(n Node, name string) (string, bool) {
	v, ok := n.Property(name)
	if !ok {
		return "", false
	}
	s, err := String(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// UintProperty returns a numeric property, if present. A present property
// that is not a non-negative integer is an error.
func UintProperty(n Node, name string) (uint64, bool, error) {
	v, ok := n.Property(name)
	if !ok || v.IsNull() {
		return 0, false, nil
	}
	u, err := Uint(v)
	if err != nil {
		return 0, true, fmt.Errorf("property %q of %s: %w", name, n.Path(), err)
	}
	return u, true, nil
}

func friendlyType(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.Type().FriendlyName()
}
