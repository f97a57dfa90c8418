package typescript

import (
	"strings"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
)

// NullSentinel is appended to every nullable rendering. NonNull rendering strips it
// again, so every branch of Render must end its output with exactly this suffix.
const NullSentinel = " | null"

// OutputScalars maps the builtin scalars to TypeScript for output positions
var OutputScalars = map[string]string{
	"Int":     "number",
	"Float":   "number",
	"String":  "string",
	"Boolean": "boolean",
	"ID":      "string | number",
}

// InputScalars maps the builtin scalars to TypeScript for argument and input positions.
// IDs arrive from the wire as strings.
var InputScalars = map[string]string{
	"Int":     "number",
	"Float":   "number",
	"String":  "string",
	"Boolean": "boolean",
	"ID":      "string",
}

// Renderer turns schema type nodes into TypeScript type-reference expressions.
// Output and input renderers share the algorithm but dispatch over different
// variant lattices and scalar tables.
type Renderer struct {
	input   bool
	scalars map[string]string
}

// NewOutputRenderer creates a renderer for field result types
func NewOutputRenderer(scalars map[string]string) *Renderer {
	return &Renderer{scalars: scalars}
}

// NewInputRenderer creates a renderer for arguments and input object fields
func NewInputRenderer(scalars map[string]string) *Renderer {
	return &Renderer{input: true, scalars: scalars}
}

// Render returns the nullable-by-default TypeScript expression for n.
func (r *Renderer) Render(n *schema.Node) (string, error) {
	if r.input {
		return schema.DispatchInput(n, schema.InputHandlers[string]{
			Scalar:      r.scalar,
			Enum:        r.named,
			InputObject: r.named,
			List:        r.list,
			NonNull:     r.nonNull,
		})
	}
	return schema.DispatchOutput(n, schema.OutputHandlers[string]{
		Scalar:    r.scalar,
		NonNull:   r.nonNull,
		Object:    r.named,
		List:      r.list,
		Enum:      r.named,
		Interface: r.named,
		Union:     r.named,
	})
}

func (r *Renderer) scalar(n *schema.Node) (string, error) {
	if n.Name == "" {
		return "", errors.Wrapf(errors.ErrMissingTypeName, "scalar reference %s", n)
	}
	if ts, ok := r.scalars[n.Name]; ok {
		return ts + NullSentinel, nil
	}
	return n.Name + NullSentinel, nil
}

func (r *Renderer) named(n *schema.Node) (string, error) {
	if n.Name == "" {
		return "", errors.Wrapf(errors.ErrMissingTypeName, "named reference %s", n)
	}
	return n.Name + NullSentinel, nil
}

func (r *Renderer) list(n *schema.Node) (string, error) {
	inner, err := r.Render(n.OfType)
	if err != nil {
		return "", err
	}
	return "List<" + inner + ">" + NullSentinel, nil
}

func (r *Renderer) nonNull(n *schema.Node) (string, error) {
	inner, err := r.Render(n.OfType)
	if err != nil {
		return "", err
	}
	return StripNullable(inner)
}

// StripNullable removes the nullable suffix from expr. An expression without the
// exact suffix means some rendering branch broke the suffix contract.
func StripNullable(expr string) (string, error) {
	if !strings.HasSuffix(expr, NullSentinel) {
		return "", errors.Wrapf(errors.ErrMalformedNullableExpr, "%q does not end with %q", expr, NullSentinel)
	}
	return strings.TrimSuffix(expr, NullSentinel), nil
}
