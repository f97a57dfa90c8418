package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
)

// RootParent is the parent type of resolvers on root operation types.
const RootParent = "null"

// ShapeField is one entry of an object's resolver shape.
type ShapeField struct {
	Name      string
	Signature string
	// Interface names the interface the field was inherited from, empty for own fields.
	Interface string
}

// Synthesizer derives resolver shapes and type aliases from a schema.
// It holds no mutable state after construction and is safe for concurrent use.
type Synthesizer struct {
	schema   *schema.Schema
	reserved schema.Reserved
	index    []*schema.Node
	output   *Renderer
	input    *Renderer
}

// NewSynthesizer computes the canonical index of s once and keeps it for every emission.
// Roots declared by the SDL are reserved in addition to the configured ones.
func NewSynthesizer(s *schema.Schema, reserved schema.Reserved, output, input *Renderer) *Synthesizer {
	reserved = reserved.WithSchemaRoots(s)
	return &Synthesizer{
		schema:   s,
		reserved: reserved,
		index:    schema.Index(s, reserved),
		output:   output,
		input:    input,
	}
}

// Index returns the canonical type index.
func (s *Synthesizer) Index() []*schema.Node {
	return s.index
}

// Roots returns the root operation types present in the schema.
func (s *Synthesizer) Roots() []*schema.Node {
	return s.reserved.Roots(s.schema)
}

// ResolverTypes returns every type that gets a resolver shape: roots first, then the
// objects of the canonical index.
func (s *Synthesizer) ResolverTypes() []*schema.Node {
	return append(s.Roots(), schema.Filter(s.index, schema.KindObject)...)
}

// Shape lists the resolver signatures of object t. Fields inherited from interfaces
// come first, in interface declaration order, each exactly once; own fields follow.
func (s *Synthesizer) Shape(t *schema.Node) ([]ShapeField, error) {
	if t.Kind != schema.KindObject {
		return nil, errors.Wrapf(errors.ErrUnhandledVariant, "resolver shape of %s", t)
	}
	parent := t.Name
	if s.reserved.IsRoot(t.Name) {
		parent = RootParent
	}

	var shape []ShapeField
	seen := make(map[string]bool)

	for _, ifaceName := range t.Interfaces {
		iface, ok := s.schema.Type(ifaceName)
		if !ok || iface.Kind != schema.KindInterface {
			return nil, errors.Newf("%s implements unknown interface %q", t.Name, ifaceName)
		}
		for _, f := range iface.Fields {
			if seen[f.Name] {
				continue
			}
			sig, err := s.signature(parent, f)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s", t.Name, f.Name)
			}
			seen[f.Name] = true
			shape = append(shape, ShapeField{Name: f.Name, Signature: sig, Interface: ifaceName})
		}
	}

	for _, f := range t.Fields {
		if seen[f.Name] {
			continue
		}
		sig, err := s.signature(parent, f)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", t.Name, f.Name)
		}
		seen[f.Name] = true
		shape = append(shape, ShapeField{Name: f.Name, Signature: sig})
	}
	return shape, nil
}

// signature renders Resolver<Parent, Output> or Resolver<Parent, Output, { args }>.
func (s *Synthesizer) signature(parent string, f *schema.Field) (string, error) {
	out, err := s.output.Render(f.Type)
	if err != nil {
		return "", err
	}
	if len(f.Args) == 0 {
		return fmt.Sprintf("Resolver<%s, %s>", parent, out), nil
	}
	args, err := s.record(f.Args, "; ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Resolver<%s, %s, { %s }>", parent, out, args), nil
}

// record renders input values as required record members joined by sep.
func (s *Synthesizer) record(values []*schema.InputValue, sep string) (string, error) {
	members := make([]string, 0, len(values))
	for _, v := range values {
		ts, err := s.input.Render(v.Type)
		if err != nil {
			return "", errors.Wrapf(err, "input value %s", v.Name)
		}
		members = append(members, fmt.Sprintf("%s: %s", v.Name, ts))
	}
	return strings.Join(members, sep), nil
}

// ConcreteTypes returns the object types behind an interface or union, in canonical
// index order. Interfaces have no reverse lookup, so the index is scanned.
// Root types have no model to alias and are rejected as members.
func (s *Synthesizer) ConcreteTypes(n *schema.Node) ([]string, error) {
	for _, root := range s.Roots() {
		if (n.Kind == schema.KindUnion && containsName(n.MemberTypes, root.Name)) ||
			(n.Kind == schema.KindInterface && root.Implements(n.Name)) {
			return nil, errors.WithHintf(
				errors.Wrapf(errors.ErrReservedName, "%s includes root type %s", n, root.Name),
				"wrap the fields of %s in an ordinary object type and use that in %s", root.Name, n.Name)
		}
	}

	var names []string
	switch n.Kind {
	case schema.KindUnion:
		for _, candidate := range s.index {
			if candidate.Kind == schema.KindObject && containsName(n.MemberTypes, candidate.Name) {
				names = append(names, candidate.Name)
			}
		}
	case schema.KindInterface:
		for _, candidate := range s.index {
			if candidate.Kind == schema.KindObject && candidate.Implements(n.Name) {
				names = append(names, candidate.Name)
			}
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnhandledVariant, "concrete types of %s", n)
	}
	return names, nil
}

// ResolverInterfaceName is the name of the generated resolver shape of a type.
func ResolverInterfaceName(typeName string) string {
	return typeName + "Resolvers"
}

// DiscriminantName is the name of the __typename alias of an abstract type.
func DiscriminantName(typeName string) string {
	return typeName + "$typename"
}

// EnumAlias renders an enum as a union of its literal values, in declaration order.
func (s *Synthesizer) EnumAlias(n *schema.Node) string {
	literals := make([]string, 0, len(n.Values))
	for _, v := range n.Values {
		literals = append(literals, strconv.Quote(v))
	}
	return fmt.Sprintf("export type %s = %s;", n.Name, unionOf(literals))
}

// AbstractAliases renders the member alias and the discriminant alias of an interface or union.
func (s *Synthesizer) AbstractAliases(n *schema.Node) (alias, discriminant string, err error) {
	concrete, err := s.ConcreteTypes(n)
	if err != nil {
		return "", "", err
	}
	literals := make([]string, 0, len(concrete))
	for _, name := range concrete {
		literals = append(literals, strconv.Quote(name))
	}
	alias = fmt.Sprintf("export type %s = %s;", n.Name, unionOf(concrete))
	discriminant = fmt.Sprintf("export type %s = %s;", DiscriminantName(n.Name), unionOf(literals))
	return alias, discriminant, nil
}

// InputRecord renders an input object as a record with every key required.
func (s *Synthesizer) InputRecord(n *schema.Node) (string, error) {
	if len(n.InputFields) == 0 {
		return fmt.Sprintf("export type %s = Record<string, never>;", n.Name), nil
	}
	body, err := s.record(n.InputFields, ";\n  ")
	if err != nil {
		return "", errors.Wrapf(err, "input %s", n.Name)
	}
	return fmt.Sprintf("export type %s = {\n  %s;\n};", n.Name, body), nil
}

// ResolverInterface renders the resolver shape of object t.
func (s *Synthesizer) ResolverInterface(t *schema.Node) (string, error) {
	shape, err := s.Shape(t)
	if err != nil {
		return "", err
	}
	name := ResolverInterfaceName(t.Name)
	if len(shape) == 0 {
		return fmt.Sprintf("export interface %s {}", name), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("export interface %s {\n", name))
	for _, f := range shape {
		sb.WriteString(fmt.Sprintf("  %s: %s;", f.Name, f.Signature))
		if f.Interface != "" {
			sb.WriteString(" // from " + f.Interface)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}

func unionOf(members []string) string {
	if len(members) == 0 {
		return "never"
	}
	return strings.Join(members, " | ")
}

func containsName(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
