package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
)

// Entry is one top-level definition of an additive scaffold, keyed by the name it exports.
type Entry struct {
	Name string
	Code string
}

const (
	listDefinition = "export type List<T> = ReadonlyArray<T>;"

	resolverDefinition = `export type Resolver<Parent, Output, Args = Record<string, never>> = (
  parent: Parent,
  args: Args,
  context: Context,
) => Output | Promise<Output>;`
)

// SchemaModule assembles the owned type definition file: shared helper types, enum,
// abstract and input aliases, one resolver interface per object and root, and the
// aggregate Resolvers interface. Every section follows the canonical index.
func (s *Synthesizer) SchemaModule(header string) (*Module, error) {
	m := NewModule(header)

	if err := m.RegisterTypeDef("List", func() (string, error) {
		return listDefinition, nil
	}); err != nil {
		return nil, err
	}
	if err := m.RegisterTypeDef("Resolver", func() (string, error) {
		m.ImportType(fromGeneratedToContext, "Context")
		return resolverDefinition, nil
	}); err != nil {
		return nil, err
	}

	var required []string
	for _, n := range s.index {
		keys, err := s.registerIndexNode(m, n)
		if err != nil {
			return nil, err
		}
		required = append(required, keys...)
	}
	for _, root := range s.Roots() {
		key, err := s.registerResolverInterface(m, root)
		if err != nil {
			return nil, err
		}
		required = append(required, key)
	}
	if err := m.RegisterTypeDef("Resolvers", s.aggregateProducer()); err != nil {
		return nil, err
	}
	required = append(required, "Resolvers")

	for _, key := range append([]string{"List", "Resolver"}, required...) {
		if err := m.RequireType(key); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerIndexNode registers the definitions one index node contributes and returns
// their keys in emission order.
func (s *Synthesizer) registerIndexNode(m *Module, n *schema.Node) ([]string, error) {
	switch n.Kind {
	case schema.KindScalar:
		m.ImportType(fromGenerated(ScalarFile(n.Name)), n.Name)
		return nil, nil

	case schema.KindEnum:
		return []string{n.Name}, m.RegisterTypeDef(n.Name, func() (string, error) {
			return s.EnumAlias(n), nil
		})

	case schema.KindInterface, schema.KindUnion:
		alias, discriminant, err := s.AbstractAliases(n)
		if err != nil {
			return nil, err
		}
		if err := m.RegisterTypeDef(n.Name, func() (string, error) {
			return alias, nil
		}); err != nil {
			return nil, err
		}
		key := DiscriminantName(n.Name)
		return []string{n.Name, key}, m.RegisterTypeDef(key, func() (string, error) {
			return discriminant, nil
		})

	case schema.KindInputObject:
		return []string{n.Name}, m.RegisterTypeDef(n.Name, func() (string, error) {
			return s.InputRecord(n)
		})

	case schema.KindObject:
		m.ImportType(fromGeneratedToModels, n.Name)
		key, err := s.registerResolverInterface(m, n)
		if err != nil {
			return nil, err
		}
		return []string{key}, nil
	}
	return nil, errors.Wrapf(errors.ErrUnhandledVariant, "index entry %s", n)
}

func (s *Synthesizer) registerResolverInterface(m *Module, t *schema.Node) (string, error) {
	key := ResolverInterfaceName(t.Name)
	return key, m.RegisterTypeDef(key, func() (string, error) {
		return s.ResolverInterface(t)
	})
}

func (s *Synthesizer) aggregateProducer() Producer {
	return func() (string, error) {
		types := s.ResolverTypes()
		if len(types) == 0 {
			return "export interface Resolvers {}", nil
		}
		var sb strings.Builder
		sb.WriteString("export interface Resolvers {\n")
		for _, t := range types {
			sb.WriteString(fmt.Sprintf("  %s: %s;\n", t.Name, ResolverInterfaceName(t.Name)))
		}
		sb.WriteString("}")
		return sb.String(), nil
	}
}

// ContextModule assembles the context scaffold.
func ContextModule(header string) *Module {
	m := NewModule(header)
	m.EmitType(`// TODO: add the request-scoped values resolvers need (loaders, session, ...).
export interface Context {}`)
	return m
}

// ModelEntries lists the model definitions the models scaffold must export: one per
// non-root object, in canonical index order.
func (s *Synthesizer) ModelEntries() []Entry {
	objects := schema.Filter(s.index, schema.KindObject)
	entries := make([]Entry, 0, len(objects))
	for _, t := range objects {
		entries = append(entries, Entry{
			Name: t.Name,
			Code: fmt.Sprintf("export type %s = {\n  // TODO: describe the value resolvers of %s receive as parent.\n};", t.Name, t.Name),
		})
	}
	return entries
}

// ModelsModule assembles a fresh models scaffold from entries.
func ModelsModule(header string, entries []Entry) *Module {
	m := NewModule(header)
	for _, e := range entries {
		m.EmitType(e.Code)
	}
	return m
}

// ScalarModule assembles the implementation scaffold of a custom scalar. Its contract
// is ScalarExports.
func ScalarModule(header, name string) *Module {
	m := NewModule(header)
	m.EmitType(fmt.Sprintf("// TODO: choose the runtime representation of %s.\nexport type %s = unknown;", name, name))
	m.Emit(fmt.Sprintf(`export function serialize(value: %s): unknown {
  // TODO: convert %s to its wire form.
  return value;
}`, name, name))
	m.Emit(fmt.Sprintf(`export const decoder = (input: unknown): %s => {
  // TODO: validate input before trusting it as %s.
  return input as %s;
};`, name, name, name))
	return m
}

// ScalarExports is the contract of a scalar implementation file.
func ScalarExports(name string) []string {
	return []string{name, "serialize", "decoder"}
}

// InterfaceModule assembles the dispatch scaffold of an interface or union. Its
// contract is InterfaceExports.
func InterfaceModule(header, name string) *Module {
	m := NewModule(header)
	m.ImportType(fromScaffoldToSchema, name, DiscriminantName(name))
	m.Emit(fmt.Sprintf(`export function dispatch(value: %s): %s {
  // TODO: inspect value and return its concrete type name.
  throw new Error("dispatch is not implemented for %s");
}`, name, DiscriminantName(name), name))
	return m
}

// InterfaceExports is the contract of an interface dispatch file.
func InterfaceExports() []string {
	return []string{"dispatch"}
}

// ResolverModule assembles the resolver scaffold of object t with one placeholder per
// field of its shape. Its contract is ResolverExports.
func (s *Synthesizer) ResolverModule(header string, t *schema.Node) (*Module, error) {
	shape, err := s.Shape(t)
	if err != nil {
		return nil, err
	}
	shapeName := ResolverInterfaceName(t.Name)

	m := NewModule(header)
	m.ImportType(fromScaffoldToSchema, shapeName)

	if len(shape) == 0 {
		m.Emit(fmt.Sprintf("export const %s: %s = {};", t.Name, shapeName))
		return m, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("export const %s: %s = {\n", t.Name, shapeName))
	for _, f := range shape {
		sb.WriteString(fmt.Sprintf(`  %s: () => {
    // TODO: resolve %s.%s.
    throw new Error("%s.%s is not implemented");
  },
`, f.Name, t.Name, f.Name, t.Name, f.Name))
	}
	sb.WriteString("};")
	m.Emit(sb.String())
	return m, nil
}

// ResolverExports is the contract of a resolver implementation file.
func ResolverExports(typeName string) []string {
	return []string{typeName}
}

// ScalarsIndexModule assembles the owned scalar registry over every custom scalar.
func (s *Synthesizer) ScalarsIndexModule(header string) *Module {
	m := NewModule(header)
	scalars := schema.Filter(s.index, schema.KindScalar)
	if len(scalars) == 0 {
		m.Emit("export const scalars = {};")
		return m
	}

	var sb strings.Builder
	sb.WriteString("export const scalars = {\n")
	for _, n := range scalars {
		m.ImportNamespace(fromGenerated(ScalarFile(n.Name)), n.Name)
		sb.WriteString(fmt.Sprintf("  %s: { serialize: %s.serialize, decoder: %s.decoder },\n", n.Name, n.Name, n.Name))
	}
	sb.WriteString("};")
	m.Emit(sb.String())
	return m
}

// AbstractTypes returns the interfaces and unions of the index.
func (s *Synthesizer) AbstractTypes() []*schema.Node {
	var out []*schema.Node
	for _, n := range s.index {
		if n.Kind == schema.KindInterface || n.Kind == schema.KindUnion {
			out = append(out, n)
		}
	}
	return out
}

// DispatchIndexModule assembles the owned dispatcher registry over every interface and union.
func (s *Synthesizer) DispatchIndexModule(header string) *Module {
	m := NewModule(header)
	abstract := s.AbstractTypes()
	if len(abstract) == 0 {
		m.Emit("export const dispatchers = {};")
		return m
	}

	var sb strings.Builder
	sb.WriteString("export const dispatchers = {\n")
	for _, n := range abstract {
		m.ImportNamespace(fromGenerated(InterfaceFile(n.Name)), n.Name)
		sb.WriteString(fmt.Sprintf("  %s: %s.dispatch,\n", n.Name, n.Name))
	}
	sb.WriteString("};")
	m.Emit(sb.String())
	return m
}

// ResolversIndexModule assembles the owned resolver map over every resolver scaffold.
func (s *Synthesizer) ResolversIndexModule(header string) *Module {
	m := NewModule(header)
	m.ImportType(fromIndexToSchema, "Resolvers")

	types := s.ResolverTypes()
	if len(types) == 0 {
		m.Emit("export const resolvers = {} as Resolvers;")
		return m
	}

	var sb strings.Builder
	sb.WriteString("export const resolvers: Resolvers = {\n")
	for _, t := range types {
		m.ImportNamed(fromGenerated(ResolverFile(t.Name)), t.Name)
		sb.WriteString(fmt.Sprintf("  %s,\n", t.Name))
	}
	sb.WriteString("};")
	m.Emit(sb.String())
	return m
}
