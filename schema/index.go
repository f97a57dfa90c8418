package schema

// BuiltinScalars are the five scalar names every GraphQL schema predefines.
var BuiltinScalars = []string{"Int", "Float", "String", "Boolean", "ID"}

// Reserved names the types that never appear in the canonical index.
// Callers pass it explicitly; nothing here reads global configuration.
type Reserved struct {
	RootTypes []string
	Scalars   []string
}

// IsRoot reports whether name is a reserved root type.
func (r Reserved) IsRoot(name string) bool {
	return contains(r.RootTypes, name)
}

// IsBuiltinScalar reports whether name is a reserved builtin scalar.
func (r Reserved) IsBuiltinScalar(name string) bool {
	return contains(r.Scalars, name)
}

// Roots returns the reserved root types present in s, in configured order,
// followed by SDL-declared roots the configuration did not list.
func (r Reserved) Roots(s *Schema) []*Node {
	var roots []*Node
	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, r.RootTypes...), s.QueryType, s.MutationType) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if n, ok := s.Type(name); ok && n.Kind == KindObject {
			roots = append(roots, n)
		}
	}
	return roots
}

// WithSchemaRoots returns r extended by the root names the SDL declared.
func (r Reserved) WithSchemaRoots(s *Schema) Reserved {
	out := Reserved{
		RootTypes: append([]string{}, r.RootTypes...),
		Scalars:   r.Scalars,
	}
	for _, name := range []string{s.QueryType, s.MutationType} {
		if name != "" && !contains(out.RootTypes, name) {
			out.RootTypes = append(out.RootTypes, name)
		}
	}
	return out
}

// Index returns the canonical type index: every named type except reserved roots
// and builtin scalars, sorted by name. Every emission that iterates types uses this
// order, which makes output a pure function of the schema.
func Index(s *Schema, reserved Reserved) []*Node {
	index := make([]*Node, 0, s.Len())
	for _, name := range s.Names() {
		if reserved.IsRoot(name) || reserved.IsBuiltinScalar(name) {
			continue
		}
		n, _ := s.Type(name)
		index = append(index, n)
	}
	return index
}

// Filter returns the nodes of index with the given kind, preserving order.
func Filter(index []*Node, kind Kind) []*Node {
	var out []*Node
	for _, n := range index {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
