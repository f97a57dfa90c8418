package schema

import (
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/teranos/schemagen/errors"
)

// Load parses SDL sources and builds the type graph.
// Validation is left to gqlparser; introspection types and fields are dropped.
func Load(sources ...*ast.Source) (*Schema, error) {
	parsed, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse schema")
	}
	return FromAST(parsed)
}

// LoadString is a convenience wrapper around Load for a single in-memory document.
func LoadString(name, sdl string) (*Schema, error) {
	return Load(&ast.Source{Name: name, Input: sdl})
}

// FromAST converts a gqlparser schema into a Schema.
func FromAST(parsed *ast.Schema) (*Schema, error) {
	s := &Schema{types: make(map[string]*Node, len(parsed.Types))}

	for name, def := range parsed.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		node, err := convertDefinition(parsed, def)
		if err != nil {
			return nil, err
		}
		s.types[name] = node
	}

	if parsed.Query != nil {
		s.QueryType = parsed.Query.Name
	}
	if parsed.Mutation != nil {
		s.MutationType = parsed.Mutation.Name
	}
	return s, nil
}

func convertDefinition(parsed *ast.Schema, def *ast.Definition) (*Node, error) {
	kind, err := convertKind(def.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", def.Name)
	}
	node := &Node{Kind: kind, Name: def.Name}

	switch kind {
	case KindObject, KindInterface:
		for _, fd := range def.Fields {
			if strings.HasPrefix(fd.Name, "__") {
				continue
			}
			typ, err := convertType(parsed, fd.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s", def.Name, fd.Name)
			}
			field := &Field{Name: fd.Name, Type: typ}
			for _, arg := range fd.Arguments {
				argType, err := convertType(parsed, arg.Type)
				if err != nil {
					return nil, errors.Wrapf(err, "argument %s.%s(%s)", def.Name, fd.Name, arg.Name)
				}
				field.Args = append(field.Args, &InputValue{Name: arg.Name, Type: argType})
			}
			node.Fields = append(node.Fields, field)
		}
		if kind == KindObject {
			node.Interfaces = append(node.Interfaces, def.Interfaces...)
		}
	case KindInputObject:
		for _, fd := range def.Fields {
			typ, err := convertType(parsed, fd.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "input field %s.%s", def.Name, fd.Name)
			}
			node.InputFields = append(node.InputFields, &InputValue{Name: fd.Name, Type: typ})
		}
	case KindEnum:
		for _, v := range def.EnumValues {
			node.Values = append(node.Values, v.Name)
		}
	case KindUnion:
		node.MemberTypes = append(node.MemberTypes, def.Types...)
	}
	return node, nil
}

func convertKind(kind ast.DefinitionKind) (Kind, error) {
	switch kind {
	case ast.Scalar:
		return KindScalar, nil
	case ast.Enum:
		return KindEnum, nil
	case ast.Object:
		return KindObject, nil
	case ast.Interface:
		return KindInterface, nil
	case ast.Union:
		return KindUnion, nil
	case ast.InputObject:
		return KindInputObject, nil
	default:
		return 0, errors.Newf("unsupported definition kind %q", kind)
	}
}

// convertType turns a gqlparser type reference into wrapper nodes around a shallow
// named reference.
func convertType(parsed *ast.Schema, t *ast.Type) (*Node, error) {
	var node *Node
	if t.Elem != nil {
		inner, err := convertType(parsed, t.Elem)
		if err != nil {
			return nil, err
		}
		node = ListOf(inner)
	} else {
		def, ok := parsed.Types[t.NamedType]
		if !ok {
			return nil, errors.Newf("unknown type name %q", t.NamedType)
		}
		kind, err := convertKind(def.Kind)
		if err != nil {
			return nil, err
		}
		node = Ref(kind, def.Name)
	}

	if t.NonNull {
		node = NonNullOf(node)
	}
	return node, nil
}
