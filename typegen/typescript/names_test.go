package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
)

func TestCheckNamesRejectsCollisions(t *testing.T) {
	tests := []struct {
		name    string
		sdl     string
		message string
	}{
		{
			name:    "enum named like the List helper",
			sdl:     "enum List { A B }\ntype Query { list: List }",
			message: `type "List" collides with the List helper`,
		},
		{
			name:    "enum named like a resolver shape",
			sdl:     "type Foo { id: ID }\nenum FooResolvers { A }\ntype Query { foo: Foo, e: FooResolvers }",
			message: `type "FooResolvers" collides with the resolver shape of Foo`,
		},
		{
			name:    "object named like the aggregate",
			sdl:     "type Resolvers { id: ID }\ntype Query { r: Resolvers }",
			message: `type "Resolvers" collides with the Resolvers aggregate`,
		},
		{
			name:    "type shadowing a TypeScript global",
			sdl:     "type Error { message: String }\ntype Query { e: Error }",
			message: `type "Error" collides with the TypeScript global`,
		},
		{
			name:    "object named like a root shape",
			sdl:     "type QueryResolvers { id: ID }\ntype Query { q: QueryResolvers }",
			message: "collides with the resolver shape of Query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestSynthesizer(t, tt.sdl).CheckNames()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrReservedName))
			assert.True(t, errors.IsFatal(err))
			assert.Contains(t, err.Error(), tt.message)
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestCheckNamesAcceptsOrdinarySchema(t *testing.T) {
	assert.NoError(t, newTestSynthesizer(t, testSDL).CheckNames())
}
