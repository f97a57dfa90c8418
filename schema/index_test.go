package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultReserved = Reserved{
	RootTypes: []string{"Query", "Mutation"},
	Scalars:   BuiltinScalars,
}

func names(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestIndex(t *testing.T) {
	s, err := LoadString("schema.graphql", testSDL)
	require.NoError(t, err)

	index := Index(s, defaultReserved)
	assert.Equal(t,
		[]string{"DateTime", "Node", "Post", "Role", "SearchResult", "User", "UserInput"},
		names(index))
}

func TestIndexIsDeterministic(t *testing.T) {
	first, err := LoadString("schema.graphql", testSDL)
	require.NoError(t, err)
	second, err := LoadString("schema.graphql", testSDL)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, names(Index(first, defaultReserved)), names(Index(second, defaultReserved)))
	}
}

func TestIndexHonorsConfiguredRoots(t *testing.T) {
	s := New(
		&Node{Kind: KindObject, Name: "RootQuery"},
		&Node{Kind: KindObject, Name: "Query"},
		&Node{Kind: KindScalar, Name: "String"},
	)

	custom := Reserved{RootTypes: []string{"RootQuery"}, Scalars: BuiltinScalars}
	assert.Equal(t, []string{"Query"}, names(Index(s, custom)))
	assert.Equal(t, []string{"RootQuery"}, names(Index(s, defaultReserved)))
}

func TestReservedRoots(t *testing.T) {
	s := New(
		&Node{Kind: KindObject, Name: "Mutation"},
		&Node{Kind: KindObject, Name: "Query"},
	)

	assert.Equal(t, []string{"Query", "Mutation"}, names(defaultReserved.Roots(s)))
	assert.Equal(t, []string{"Query"}, names(Reserved{RootTypes: []string{"Query", "Subscription"}}.Roots(&Schema{
		types:     s.types,
		QueryType: "Query",
	})))
}

func TestWithSchemaRoots(t *testing.T) {
	s := &Schema{types: map[string]*Node{}, QueryType: "RootQuery"}

	r := defaultReserved.WithSchemaRoots(s)
	assert.Equal(t, []string{"Query", "Mutation", "RootQuery"}, r.RootTypes)
	assert.Equal(t, []string{"Query", "Mutation"}, defaultReserved.RootTypes, "receiver must not change")
}

func TestFilter(t *testing.T) {
	s, err := LoadString("schema.graphql", testSDL)
	require.NoError(t, err)

	objects := Filter(Index(s, defaultReserved), KindObject)
	assert.Equal(t, []string{"Post", "User"}, names(objects))
}
