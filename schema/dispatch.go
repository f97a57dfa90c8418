package schema

import (
	"github.com/teranos/schemagen/errors"
)

// Handler handles one node variant.
type Handler[T any] func(n *Node) (T, error)

// OutputHandlers covers the output-position lattice. Any nil handler falls through
// to Default; with no Default the dispatch fails with ErrUnhandledVariant.
type OutputHandlers[T any] struct {
	Scalar    Handler[T]
	NonNull   Handler[T]
	Object    Handler[T]
	List      Handler[T]
	Enum      Handler[T]
	Interface Handler[T]
	Union     Handler[T]
	Default   Handler[T]
}

// InputHandlers covers the input-position lattice. Interface and Union never appear
// in input position and InputObject never in output position, so the two sets are
// deliberately disjoint.
type InputHandlers[T any] struct {
	Scalar      Handler[T]
	Enum        Handler[T]
	InputObject Handler[T]
	List        Handler[T]
	NonNull     Handler[T]
	Default     Handler[T]
}

// DispatchOutput calls the handler registered for n's variant.
// Variants are classified in the order Scalar, NonNull, Object, List, Enum, Interface, Union.
func DispatchOutput[T any](n *Node, h OutputHandlers[T]) (T, error) {
	if n == nil {
		var zero T
		return zero, errors.Wrap(errors.ErrUnhandledVariant, "output dispatch of nil node")
	}

	var handler Handler[T]
	switch n.Kind {
	case KindScalar:
		handler = h.Scalar
	case KindNonNull:
		handler = h.NonNull
	case KindObject:
		handler = h.Object
	case KindList:
		handler = h.List
	case KindEnum:
		handler = h.Enum
	case KindInterface:
		handler = h.Interface
	case KindUnion:
		handler = h.Union
	}
	return run(n, handler, h.Default, "output")
}

// DispatchInput calls the handler registered for n's variant.
// Variants are classified in the order Scalar, Enum, InputObject, List, NonNull.
func DispatchInput[T any](n *Node, h InputHandlers[T]) (T, error) {
	if n == nil {
		var zero T
		return zero, errors.Wrap(errors.ErrUnhandledVariant, "input dispatch of nil node")
	}

	var handler Handler[T]
	switch n.Kind {
	case KindScalar:
		handler = h.Scalar
	case KindEnum:
		handler = h.Enum
	case KindInputObject:
		handler = h.InputObject
	case KindList:
		handler = h.List
	case KindNonNull:
		handler = h.NonNull
	}
	return run(n, handler, h.Default, "input")
}

func run[T any](n *Node, handler, fallback Handler[T], position string) (T, error) {
	if n.Kind.Wrapper() && n.OfType == nil {
		var zero T
		return zero, errors.Wrapf(errors.ErrUnhandledVariant, "%s position: %s wraps no type", position, n.Kind)
	}
	if handler != nil {
		return handler(n)
	}
	if fallback != nil {
		return fallback(n)
	}
	var zero T
	return zero, errors.Wrapf(errors.ErrUnhandledVariant, "%s position has no handler for %s", position, n)
}
