package typescript

import (
	"github.com/teranos/schemagen/errors"
)

// generatedNames are declared or imported by generated modules alongside schema
// types. A schema type with one of these names would shadow or redeclare them.
var generatedNames = map[string]string{
	"List":          "the List helper of " + SchemaFile,
	"Resolver":      "the Resolver helper of " + SchemaFile,
	"Resolvers":     "the Resolvers aggregate of " + SchemaFile,
	"Context":       "the Context type imported from " + ContextFile,
	"ReadonlyArray": "the TypeScript global used by List",
	"Record":        "the TypeScript global used by Resolver",
	"Promise":       "the TypeScript global used by Resolver",
	"Error":         "the TypeScript global thrown by scaffolds",
	"scalars":       "the registry exported by " + ScalarsIndexFile,
	"dispatchers":   "the registry exported by " + DispatchIndexFile,
	"resolvers":     "the map exported by " + ResolversIndexFile,
	"serialize":     "the scalar scaffold export",
	"decoder":       "the scalar scaffold export",
	"dispatch":      "the interface scaffold export",
}

// CheckNames rejects schemas whose type names collide with names the generated
// modules declare: the shared helpers and every <T>Resolvers shape. Abstract types
// with a root type among their members are rejected as well.
func (s *Synthesizer) CheckNames() error {
	for _, name := range s.schema.Names() {
		if s.reserved.IsBuiltinScalar(name) {
			continue
		}
		if owner, ok := generatedNames[name]; ok {
			return errors.WithHintf(
				errors.Wrapf(errors.ErrReservedName, "type %q collides with %s", name, owner),
				"rename %s in the schema", name)
		}
	}
	for _, t := range s.ResolverTypes() {
		shape := ResolverInterfaceName(t.Name)
		if _, ok := s.schema.Type(shape); ok {
			return errors.WithHintf(
				errors.Wrapf(errors.ErrReservedName, "type %q collides with the resolver shape of %s", shape, t.Name),
				"rename %s or %s in the schema", shape, t.Name)
		}
	}
	for _, n := range s.AbstractTypes() {
		if _, err := s.ConcreteTypes(n); err != nil {
			return err
		}
	}
	return nil
}
