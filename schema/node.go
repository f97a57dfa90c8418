// Package schema holds the in-memory GraphQL type graph that every generator reads.
//
// The graph is built once per run by Load and never mutated afterwards, so it is
// shared freely between concurrent generation tasks. Field and argument types refer
// to named types through shallow reference nodes (see Ref) and are resolved by name
// with Schema.Type; a type that mentions itself therefore forms a name cycle, never
// a pointer cycle.
package schema

import (
	"fmt"
	"sort"
)

// Kind is the closed set of type-node variants.
type Kind int

const (
	KindScalar Kind = iota
	KindEnum
	KindObject
	KindInterface
	KindUnion
	KindInputObject
	KindList
	KindNonNull
)

var kindNames = [...]string{
	KindScalar:      "SCALAR",
	KindEnum:        "ENUM",
	KindObject:      "OBJECT",
	KindInterface:   "INTERFACE",
	KindUnion:       "UNION",
	KindInputObject: "INPUT_OBJECT",
	KindList:        "LIST",
	KindNonNull:     "NON_NULL",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Wrapper reports whether the kind wraps another node instead of naming a type.
func (k Kind) Wrapper() bool {
	return k == KindList || k == KindNonNull
}

// Node is one schema type node.
type Node struct {
	Kind Kind
	// Name is empty for List and NonNull.
	Name string

	// Fields is set for Object and Interface.
	Fields []*Field
	// InputFields is set for InputObject.
	InputFields []*InputValue
	// Interfaces lists implemented interface names (Object only), in declaration order.
	Interfaces []string
	// Values lists enum literals in declaration order.
	Values []string
	// MemberTypes lists union member object names in declaration order.
	MemberTypes []string
	// OfType is the wrapped node of a List or NonNull.
	OfType *Node
}

// Field is an output field of an Object or Interface.
type Field struct {
	Name string
	Type *Node
	Args []*InputValue
}

// InputValue is a field argument or an input object field.
type InputValue struct {
	Name string
	Type *Node
}

// Ref returns a shallow reference to the named type.
func Ref(kind Kind, name string) *Node {
	return &Node{Kind: kind, Name: name}
}

// ListOf wraps inner in a List node.
func ListOf(inner *Node) *Node {
	return &Node{Kind: KindList, OfType: inner}
}

// NonNullOf wraps inner in a NonNull node.
func NonNullOf(inner *Node) *Node {
	return &Node{Kind: KindNonNull, OfType: inner}
}

// Field returns the field with the given name.
func (n *Node) Field(name string) (*Field, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Implements reports whether an Object declares the named interface.
func (n *Node) Implements(iface string) bool {
	for _, name := range n.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// String describes the node for error messages, e.g. "OBJECT User" or "[String!]".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindList:
		return "[" + n.OfType.String() + "]"
	case KindNonNull:
		return n.OfType.String() + "!"
	}
	if n.Name == "" {
		return n.Kind.String() + " <anonymous>"
	}
	return n.Kind.String() + " " + n.Name
}

// Schema is the immutable, fully-built type graph.
type Schema struct {
	types map[string]*Node

	// QueryType and MutationType are the root type names declared by the SDL
	// (empty when absent).
	QueryType    string
	MutationType string
}

// New builds a schema from named nodes. Later nodes replace earlier ones of the same name.
func New(nodes ...*Node) *Schema {
	s := &Schema{types: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		s.types[n.Name] = n
	}
	if _, ok := s.types["Query"]; ok {
		s.QueryType = "Query"
	}
	if _, ok := s.types["Mutation"]; ok {
		s.MutationType = "Mutation"
	}
	return s
}

// Type returns the named type.
func (s *Schema) Type(name string) (*Node, bool) {
	n, ok := s.types[name]
	return n, ok
}

// Names returns every type name, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of named types.
func (s *Schema) Len() int {
	return len(s.types)
}
