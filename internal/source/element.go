package source

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Element is the concrete, mutable-while-building implementation of Node.
// Front ends build Element trees and hand them out as Node; once handed out
// they must not be modified.
type Element struct {
	kind     Kind
	typeName string
	instName string
	parent   *Element

	propNames []string
	props     map[string]cty.Value
	params    []Parameter
	children  []*Element

	offset    uint64
	size      uint64
	addressed bool
	width     uint
}

// NewElement creates an empty element.
func NewElement(kind Kind, typeName, instName string) *Element {
	return &Element{
		kind:     kind,
		typeName: typeName,
		instName: instName,
		props:    make(map[string]cty.Value),
		width:    1,
	}
}

// SetProperty sets a property, keeping first-declaration order.
func (e *Element) SetProperty(name string, v cty.Value) {
	if _, ok := e.props[name]; !ok {
		e.propNames = append(e.propNames, name)
	}
	e.props[name] = v
}

// SetParameter records an elaborated parameter.
func (e *Element) SetParameter(name string, v cty.Value) {
	for i := range e.params {
		if e.params[i].Name == name {
			e.params[i].Value = v
			return
		}
	}
	e.params = append(e.params, Parameter{Name: name, Value: v})
}

// SetOffset sets the address offset relative to the parent and marks the
// element addressable.
func (e *Element) SetOffset(offset uint64) {
	e.offset = offset
	e.addressed = true
}

// SetSize sets the address span and marks the element addressable.
func (e *Element) SetSize(size uint64) {
	e.size = size
	e.addressed = true
}

// SetWidth sets the bit width of a signal element.
func (e *Element) SetWidth(width uint) {
	e.width = width
}

// AddChild appends a child and adopts it.
func (e *Element) AddChild(child *Element) {
	child.parent = e
	e.children = append(e.children, child)
}

func (e *Element) Kind() Kind       { return e.kind }
func (e *Element) TypeName() string { return e.typeName }
func (e *Element) InstName() string { return e.instName }

func (e *Element) Path() string {
	var names []string
	for cur := e; cur != nil; cur = cur.parent {
		names = append(names, cur.instName)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Property(name string) (cty.Value, bool) {
	v, ok := e.props[name]
	return v, ok
}

func (e *Element) PropertyNames() []string {
	return append([]string(nil), e.propNames...)
}

func (e *Element) Parameters() []Parameter {
	return append([]Parameter(nil), e.params...)
}

func (e *Element) Children() []Node {
	nodes := make([]Node, len(e.children))
	for i, c := range e.children {
		nodes[i] = c
	}
	return nodes
}

func (e *Element) Addressable() bool { return e.addressed }

// AbsoluteAddress sums the offsets of the element and all its ancestors.
func (e *Element) AbsoluteAddress() uint64 {
	var addr uint64
	for cur := e; cur != nil; cur = cur.parent {
		addr += cur.offset
	}
	return addr
}

func (e *Element) Size() uint64 { return e.size }
func (e *Element) Width() uint  { return e.width }
