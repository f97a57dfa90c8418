// Package errors provides error handling for schemagen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for users who need to fix their input
//
// Usage:
//
//	// Wrap with context
//	if err := render(node); err != nil {
//	    return errors.Wrapf(err, "failed to render field %s", field.Name)
//	}
//
//	// Check the taxonomy
//	if errors.Is(err, errors.ErrContractViolation) {
//	    // a hand-edited scaffold lost a required export
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Generation error taxonomy.
// Every member except ErrOrphanFile aborts a run on first occurrence.
// Wrap these with errors.Wrapf() to add context while preserving the type.
var (
	// ErrUnhandledVariant indicates a type node reached a dispatch site with no handler for its kind
	ErrUnhandledVariant = New("unhandled type variant")

	// ErrMalformedNullableExpr indicates a nullable rendering did not end with the nullable suffix
	ErrMalformedNullableExpr = New("malformed nullable type expression")

	// ErrMissingTypeName indicates an anonymous node where a named type was required
	ErrMissingTypeName = New("missing type name")

	// ErrUnknownDef indicates a require of a definition key that was never registered
	ErrUnknownDef = New("unknown definition")

	// ErrDuplicateDef indicates a definition key registered twice in one module
	ErrDuplicateDef = New("duplicate definition")

	// ErrReservedName indicates a schema type whose name collides with a name the
	// generated code declares itself
	ErrReservedName = New("reserved name")

	// ErrContractViolation indicates a hand-edited scaffold file lacks a required export
	ErrContractViolation = New("scaffold contract violation")

	// ErrOrphanFile labels a file in a generated directory that the run did not produce.
	// Orphans are warnings: they fail the category, never the run.
	ErrOrphanFile = New("orphan file")
)

// IsFatal reports whether err belongs to the run-aborting part of the taxonomy.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return IsAny(err,
		ErrUnhandledVariant,
		ErrMalformedNullableExpr,
		ErrMissingTypeName,
		ErrUnknownDef,
		ErrDuplicateDef,
		ErrReservedName,
		ErrContractViolation,
	)
}
