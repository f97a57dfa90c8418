package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
)

const testSDL = `
scalar DateTime

enum Role { ADMIN USER GUEST }

interface Node { id: ID! }

interface Timestamped {
  id: ID!
  createdAt: DateTime
}

type User implements Node & Timestamped {
  id: ID!
  name: String
  role: Role!
  friends(first: Int, after: String): [User!]!
  createdAt: DateTime
}

type Post implements Node {
  id: ID!
  author: User
}

union SearchResult = User | Post

input UserInput {
  name: String!
  role: Role
}

type Query {
  user: User
  node(id: ID!): Node
  search(term: String!): [SearchResult]
}

type Mutation {
  createUser(input: UserInput!): User!
}
`

var testReserved = schema.Reserved{
	RootTypes: []string{"Query", "Mutation"},
	Scalars:   schema.BuiltinScalars,
}

func newTestSynthesizer(t *testing.T, sdl string) *Synthesizer {
	t.Helper()
	s, err := schema.LoadString("schema.graphql", sdl)
	require.NoError(t, err)
	return NewSynthesizer(s, testReserved, NewOutputRenderer(OutputScalars), NewInputRenderer(InputScalars))
}

func typeNode(t *testing.T, syn *Synthesizer, name string) *schema.Node {
	t.Helper()
	n, ok := syn.schema.Type(name)
	require.True(t, ok, "type %s", name)
	return n
}

func TestShapeRootAndObject(t *testing.T) {
	syn := newTestSynthesizer(t, `
type Query { user: User }
type User { id: ID!, name: String }
`)

	query, err := syn.Shape(typeNode(t, syn, "Query"))
	require.NoError(t, err)
	assert.Equal(t, []ShapeField{{Name: "user", Signature: "Resolver<null, User | null>"}}, query)

	user, err := syn.Shape(typeNode(t, syn, "User"))
	require.NoError(t, err)
	assert.Equal(t, []ShapeField{
		{Name: "id", Signature: "Resolver<User, string | number>"},
		{Name: "name", Signature: "Resolver<User, string | null>"},
	}, user)
}

func TestShapeInterfaceFieldsFirstOnce(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	shape, err := syn.Shape(typeNode(t, syn, "User"))
	require.NoError(t, err)

	var names, from []string
	for _, f := range shape {
		names = append(names, f.Name)
		from = append(from, f.Interface)
	}
	assert.Equal(t, []string{"id", "createdAt", "name", "role", "friends"}, names)
	assert.Equal(t, []string{"Node", "Timestamped", "", "", ""}, from)
}

func TestShapeArguments(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	shape, err := syn.Shape(typeNode(t, syn, "User"))
	require.NoError(t, err)
	friends := shape[len(shape)-1]
	assert.Equal(t, "Resolver<User, List<User>, { first: number | null; after: string | null }>", friends.Signature)

	mutation, err := syn.Shape(typeNode(t, syn, "Mutation"))
	require.NoError(t, err)
	assert.Equal(t, "Resolver<null, User, { input: UserInput }>", mutation[0].Signature)
}

func TestShapeRejectsNonObject(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	_, err := syn.Shape(typeNode(t, syn, "Node"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnhandledVariant))
}

func TestAbstractAliases(t *testing.T) {
	syn := newTestSynthesizer(t, `
type A { x: Int }
type B { y: Int }
union U = B | A
type Query { u: U }
`)

	alias, discriminant, err := syn.AbstractAliases(typeNode(t, syn, "U"))
	require.NoError(t, err)
	assert.Equal(t, "export type U = A | B;", alias)
	assert.Equal(t, `export type U$typename = "A" | "B";`, discriminant)
}

func TestAbstractAliasesWithoutImplementors(t *testing.T) {
	syn := newTestSynthesizer(t, `
interface Lonely { id: ID! }
type Query { l: Lonely }
`)

	alias, discriminant, err := syn.AbstractAliases(typeNode(t, syn, "Lonely"))
	require.NoError(t, err)
	assert.Equal(t, "export type Lonely = never;", alias)
	assert.Equal(t, "export type Lonely$typename = never;", discriminant)
}

func TestConcreteTypesOfInterface(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	names, err := syn.ConcreteTypes(typeNode(t, syn, "Node"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Post", "User"}, names)

	_, err = syn.ConcreteTypes(typeNode(t, syn, "Role"))
	assert.True(t, errors.Is(err, errors.ErrUnhandledVariant))
}

func TestConcreteTypesRejectsRootMembers(t *testing.T) {
	syn := newTestSynthesizer(t, `
type A { x: Int }
union U = A | Query
interface Named { name: String }
type Query implements Named { name: String, u: U }
`)

	_, err := syn.ConcreteTypes(typeNode(t, syn, "U"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrReservedName))
	assert.Contains(t, err.Error(), "UNION U includes root type Query")

	_, err = syn.ConcreteTypes(typeNode(t, syn, "Named"))
	assert.True(t, errors.Is(err, errors.ErrReservedName))

	assert.True(t, errors.Is(syn.CheckNames(), errors.ErrReservedName))
}

func TestEnumAlias(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)
	assert.Equal(t, `export type Role = "ADMIN" | "USER" | "GUEST";`, syn.EnumAlias(typeNode(t, syn, "Role")))
}

func TestInputRecord(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	got, err := syn.InputRecord(typeNode(t, syn, "UserInput"))
	require.NoError(t, err)
	assert.Equal(t, "export type UserInput = {\n  name: string;\n  role: Role | null;\n};", got)

	empty := &schema.Node{Kind: schema.KindInputObject, Name: "Empty"}
	got, err = syn.InputRecord(empty)
	require.NoError(t, err)
	assert.Equal(t, "export type Empty = Record<string, never>;", got)
}

func TestResolverInterface(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	got, err := syn.ResolverInterface(typeNode(t, syn, "Post"))
	require.NoError(t, err)
	want := `export interface PostResolvers {
  id: Resolver<Post, string | number>; // from Node
  author: Resolver<Post, User | null>;
}`
	assert.Equal(t, want, got)
}

func TestResolverTypesRootsFirst(t *testing.T) {
	syn := newTestSynthesizer(t, testSDL)

	var names []string
	for _, n := range syn.ResolverTypes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Query", "Mutation", "Post", "User"}, names)
}
