package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/schemagen/errors"
)

// Producer renders one definition. It may require other definitions of the same module.
type Producer func() (string, error)

// Module accumulates imports and definitions for one output file.
// A Module belongs to a single generation task and is not safe for concurrent use.
type Module struct {
	header string

	namespaces map[string]string              // module -> binding
	defaults   map[string]string              // module -> binding
	named      map[string]map[string]struct{} // module -> identifiers
	typeOnly   map[string]map[string]struct{} // module -> identifiers

	types  *registry
	values *registry
}

// NewModule creates an empty module whose serialized form starts with header.
// The header is emitted verbatim, so it should already be comment text.
func NewModule(header string) *Module {
	return &Module{
		header:     strings.TrimRight(header, "\n"),
		namespaces: make(map[string]string),
		defaults:   make(map[string]string),
		named:      make(map[string]map[string]struct{}),
		typeOnly:   make(map[string]map[string]struct{}),
		types:      newRegistry("type definition"),
		values:     newRegistry("definition"),
	}
}

// ImportNamespace records `import * as binding from "from"`.
// Registering the same module again replaces the binding.
func (m *Module) ImportNamespace(from, binding string) {
	m.namespaces[from] = binding
}

// ImportDefault records `import binding from "from"`.
func (m *Module) ImportDefault(from, binding string) {
	m.defaults[from] = binding
}

// ImportNamed records `import { names... } from "from"`.
func (m *Module) ImportNamed(from string, names ...string) {
	addNames(m.named, from, names)
}

// ImportType records `import type { names... } from "from"`.
func (m *Module) ImportType(from string, names ...string) {
	addNames(m.typeOnly, from, names)
}

func addNames(set map[string]map[string]struct{}, from string, names []string) {
	ids, ok := set[from]
	if !ok {
		ids = make(map[string]struct{})
		set[from] = ids
	}
	for _, name := range names {
		ids[name] = struct{}{}
	}
}

// RegisterDef stores a value definition producer under key.
func (m *Module) RegisterDef(key string, p Producer) error {
	return m.values.register(key, p)
}

// RegisterTypeDef stores a type definition producer under key.
func (m *Module) RegisterTypeDef(key string, p Producer) error {
	return m.types.register(key, p)
}

// Require appends the value definition registered under key, once.
func (m *Module) Require(key string) error {
	return m.values.require(key)
}

// RequireType appends the type definition registered under key, once.
func (m *Module) RequireType(key string) error {
	return m.types.require(key)
}

// Emit appends code to the value section without deduplication.
func (m *Module) Emit(code string) {
	m.values.out = append(m.values.out, strings.TrimRight(code, "\n"))
}

// EmitType appends code to the type section without deduplication.
func (m *Module) EmitType(code string) {
	m.types.out = append(m.types.out, strings.TrimRight(code, "\n"))
}

// Serialize renders the module: header, imports, type definitions, value
// definitions, separated by blank lines. Empty sections are left out. Serialize
// does not modify the module.
func (m *Module) Serialize() string {
	var sections []string
	if m.header != "" {
		sections = append(sections, m.header)
	}
	if imports := m.importLines(); len(imports) > 0 {
		sections = append(sections, strings.Join(imports, "\n"))
	}
	if len(m.types.out) > 0 {
		sections = append(sections, strings.Join(m.types.out, "\n\n"))
	}
	if len(m.values.out) > 0 {
		sections = append(sections, strings.Join(m.values.out, "\n\n"))
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// importLine is one rendered import with the identifier it sorts by.
type importLine struct {
	lead string
	text string
}

// importLines renders the four import groups in fixed priority: namespace, named,
// default, type-only. Within a group lines sort by their leading identifier,
// case-insensitively, never by module path.
func (m *Module) importLines() []string {
	var namespace, named, defaults, typeOnly []importLine

	for from, binding := range m.namespaces {
		namespace = append(namespace, importLine{
			lead: binding,
			text: fmt.Sprintf("import * as %s from %q;", binding, from),
		})
	}
	for from, ids := range m.named {
		if len(ids) == 0 {
			continue
		}
		sorted := sortIdentifiers(ids)
		named = append(named, importLine{
			lead: sorted[0],
			text: fmt.Sprintf("import { %s } from %q;", strings.Join(sorted, ", "), from),
		})
	}
	for from, binding := range m.defaults {
		defaults = append(defaults, importLine{
			lead: binding,
			text: fmt.Sprintf("import %s from %q;", binding, from),
		})
	}
	for from, ids := range m.typeOnly {
		if len(ids) == 0 {
			continue
		}
		sorted := sortIdentifiers(ids)
		typeOnly = append(typeOnly, importLine{
			lead: sorted[0],
			text: fmt.Sprintf("import type { %s } from %q;", strings.Join(sorted, ", "), from),
		})
	}

	var lines []string
	for _, group := range [][]importLine{namespace, named, defaults, typeOnly} {
		sort.Slice(group, func(i, j int) bool {
			return lessFold(group[i].lead, group[j].lead, group[i].text, group[j].text)
		})
		for _, l := range group {
			lines = append(lines, l.text)
		}
	}
	return lines
}

func sortIdentifiers(ids map[string]struct{}) []string {
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return lessFold(sorted[i], sorted[j], sorted[i], sorted[j])
	})
	return sorted
}

// lessFold orders by a case-insensitively, then by tie exactly.
func lessFold(a, b, tieA, tieB string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return tieA < tieB
}

// registry is a require-once store of definition producers.
type registry struct {
	kind      string
	producers map[string]Producer
	required  map[string]bool
	out       []string
}

func newRegistry(kind string) *registry {
	return &registry{
		kind:      kind,
		producers: make(map[string]Producer),
		required:  make(map[string]bool),
	}
}

func (r *registry) register(key string, p Producer) error {
	if _, exists := r.producers[key]; exists {
		return errors.Wrapf(errors.ErrDuplicateDef, "%s %q", r.kind, key)
	}
	r.producers[key] = p
	return nil
}

func (r *registry) require(key string) error {
	if r.required[key] {
		return nil
	}
	p, ok := r.producers[key]
	if !ok {
		return errors.Wrapf(errors.ErrUnknownDef, "%s %q", r.kind, key)
	}
	// Mark before producing so a producer that requires itself terminates.
	r.required[key] = true
	code, err := p()
	if err != nil {
		return errors.Wrapf(err, "failed to produce %s %q", r.kind, key)
	}
	r.out = append(r.out, strings.TrimRight(code, "\n"))
	return nil
}
