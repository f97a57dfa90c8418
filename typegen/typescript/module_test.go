package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
)

func TestModuleImportDedupe(t *testing.T) {
	m := NewModule("")
	m.ImportType("./schema", "User")
	m.ImportType("./schema", "User")
	m.ImportType("./schema", "Post")

	assert.Equal(t, "import type { Post, User } from \"./schema\";\n", m.Serialize())
}

func TestModuleImportGroups(t *testing.T) {
	m := NewModule("")
	m.ImportType("./schema", "Resolvers")
	m.ImportDefault("graphql-tag", "gql")
	m.ImportNamed("../resolvers/User", "User")
	m.ImportNamed("../resolvers/Query", "Query")
	m.ImportNamespace("../scalars/Date", "Date")
	m.ImportNamespace("../scalars/Cursor", "cursor")

	want := `import * as cursor from "../scalars/Cursor";
import * as Date from "../scalars/Date";
import { Query } from "../resolvers/Query";
import { User } from "../resolvers/User";
import gql from "graphql-tag";
import type { Resolvers } from "./schema";
`
	assert.Equal(t, want, m.Serialize())
}

func TestModuleImportsSortByIdentifierNotPath(t *testing.T) {
	m := NewModule("")
	m.ImportNamed("./a", "zeta")
	m.ImportNamed("./z", "Alpha")

	assert.Equal(t, "import { Alpha } from \"./z\";\nimport { zeta } from \"./a\";\n", m.Serialize())
}

func TestModuleRequireOnce(t *testing.T) {
	m := NewModule("// header")
	calls := 0
	require.NoError(t, m.RegisterTypeDef("List", func() (string, error) {
		calls++
		return "export type List<T> = ReadonlyArray<T>;", nil
	}))

	require.NoError(t, m.RequireType("List"))
	require.NoError(t, m.RequireType("List"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "// header\n\nexport type List<T> = ReadonlyArray<T>;\n", m.Serialize())
}

func TestModuleProducerRequiresDependency(t *testing.T) {
	m := NewModule("")
	require.NoError(t, m.RegisterTypeDef("Context", func() (string, error) {
		return "export interface Context {}", nil
	}))
	require.NoError(t, m.RegisterTypeDef("Resolver", func() (string, error) {
		m.ImportType("./context", "Session")
		if err := m.RequireType("Context"); err != nil {
			return "", err
		}
		return "export type Resolver = (context: Context) => void;", nil
	}))

	require.NoError(t, m.RequireType("Resolver"))
	require.NoError(t, m.RequireType("Context"))

	want := `import type { Session } from "./context";

export interface Context {}

export type Resolver = (context: Context) => void;
`
	assert.Equal(t, want, m.Serialize())
}

func TestModuleSelfRequireTerminates(t *testing.T) {
	m := NewModule("")
	require.NoError(t, m.RegisterDef("loop", func() (string, error) {
		if err := m.Require("loop"); err != nil {
			return "", err
		}
		return "const loop = 1;", nil
	}))

	require.NoError(t, m.Require("loop"))
	assert.Equal(t, "const loop = 1;\n", m.Serialize())
}

func TestModuleUnknownAndDuplicate(t *testing.T) {
	m := NewModule("")

	err := m.Require("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownDef))

	err = m.RequireType("missing")
	assert.True(t, errors.Is(err, errors.ErrUnknownDef))

	noop := func() (string, error) { return "", nil }
	require.NoError(t, m.RegisterDef("x", noop))
	err = m.RegisterDef("x", noop)
	assert.True(t, errors.Is(err, errors.ErrDuplicateDef))

	// Value and type registries are separate namespaces.
	assert.NoError(t, m.RegisterTypeDef("x", noop))
}

func TestModuleProducerErrorPropagates(t *testing.T) {
	m := NewModule("")
	require.NoError(t, m.RegisterTypeDef("Broken", func() (string, error) {
		return "", errors.ErrMalformedNullableExpr
	}))

	err := m.RequireType("Broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedNullableExpr))
	assert.Contains(t, err.Error(), `"Broken"`)
}

func TestModuleSectionOrder(t *testing.T) {
	m := NewModule("/* eslint-disable */\n")
	m.Emit("export const a = 1;")
	m.EmitType("export type A = number;")
	m.ImportType("./b", "B")

	want := `/* eslint-disable */

import type { B } from "./b";

export type A = number;

export const a = 1;
`
	assert.Equal(t, want, m.Serialize())
}

func TestModuleEmptySerialize(t *testing.T) {
	assert.Equal(t, "", NewModule("").Serialize())
}

func TestModuleSerializeIsStable(t *testing.T) {
	build := func() string {
		m := NewModule("")
		for _, name := range []string{"Post", "User", "Comment", "author", "Node"} {
			m.ImportType("./schema", name)
			m.ImportNamespace("../scalars/"+name, name)
		}
		return m.Serialize()
	}

	first := build()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, build())
	}
}
