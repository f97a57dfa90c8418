package scaffold

import (
	"context"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/typegen/exports"
	"github.com/teranos/schemagen/typegen/format"
)

const root = "/project/src/graphql"

func newTestController(t *testing.T) (*Controller, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewController(fs, root, exports.TypeScript{}, format.Normalizer{}, nil), fs
}

func writeFile(t *testing.T, fs afero.Fs, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, root+"/"+rel, []byte(content), 0o644))
}

func readFile(t *testing.T, fs afero.Fs, rel string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, root+"/"+rel)
	require.NoError(t, err)
	return string(b)
}

func static(content string) func() (string, error) {
	return func() (string, error) { return content, nil }
}

func TestDecideOwnedAlwaysWrites(t *testing.T) {
	c, fs := newTestController(t)
	writeFile(t, fs, "__generated__/schema.ts", "stale\n")

	d, err := c.Decide(Artifact{Path: "__generated__/schema.ts", Class: Owned})
	require.NoError(t, err)
	assert.Equal(t, ActionWrite, d.Action)
}

func TestDecideContract(t *testing.T) {
	c, fs := newTestController(t)
	scalar := Artifact{
		Path:     "scalars/DateTime.ts",
		Class:    Contract,
		Required: []string{"DateTime", "serialize", "decoder"},
	}

	d, err := c.Decide(scalar)
	require.NoError(t, err)
	assert.Equal(t, ActionWrite, d.Action, "absent contract file is scaffolded")

	writeFile(t, fs, scalar.Path, `export type DateTime = string;
export function serialize(v: DateTime) { return v; }
export const decoder = (x: unknown) => x as DateTime;
`)
	d, err = c.Decide(scalar)
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, d.Action)
}

func TestDecideContractViolation(t *testing.T) {
	c, fs := newTestController(t)
	writeFile(t, fs, "scalars/DateTime.ts", `export type DateTime = string;
export function serialize(v: DateTime) { return v; }
// export const decoder = ...
`)

	_, err := c.Decide(Artifact{
		Path:     "scalars/DateTime.ts",
		Class:    Contract,
		Required: []string{"DateTime", "serialize", "decoder"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrContractViolation))
	assert.True(t, errors.IsFatal(err))

	var violation *ContractViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "scalars/DateTime.ts", violation.File)
	assert.Equal(t, "decoder", violation.Symbol)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestDecideAdditive(t *testing.T) {
	c, fs := newTestController(t)
	models := Artifact{
		Path:  "models.ts",
		Class: Additive,
		Entries: []Entry{
			{Name: "Post", Code: "export type Post = {};"},
			{Name: "User", Code: "export type User = {};"},
			{Name: "Tag", Code: "export type Tag = {};"},
		},
	}

	d, err := c.Decide(models)
	require.NoError(t, err)
	assert.Equal(t, ActionWrite, d.Action)

	writeFile(t, fs, "models.ts", "export type User = { id: string };\n")
	d, err = c.Decide(models)
	require.NoError(t, err)
	assert.Equal(t, ActionAppend, d.Action)
	assert.Equal(t, []string{"Post", "Tag"}, d.Missing)

	writeFile(t, fs, "models.ts", "export type User = {};\nexport type Post = {};\nexport type Tag = {};\n")
	d, err = c.Decide(models)
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, d.Action)
}

func TestApplyWriteCreatesAndFormats(t *testing.T) {
	c, fs := newTestController(t)
	a := Artifact{Path: "__generated__/schema.ts", Class: Owned, Render: static("export type A = 1;   \n\n\n")}

	outcome, err := c.Apply(context.Background(), a, Decision{Action: ActionWrite})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, "export type A = 1;\n", readFile(t, fs, a.Path))

	outcome, err = c.Apply(context.Background(), a, Decision{Action: ActionWrite})
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.False(t, outcome.Wrote())

	a.Render = static("export type A = 2;")
	outcome, err = c.Apply(context.Background(), a, Decision{Action: ActionWrite})
	require.NoError(t, err)
	assert.Equal(t, Rewritten, outcome)
	assert.Equal(t, "export type A = 2;\n", readFile(t, fs, a.Path))
}

func TestApplyAppendKeepsExistingBytes(t *testing.T) {
	c, fs := newTestController(t)
	existing := "// my notes  \nexport type User = { id: string };"
	writeFile(t, fs, "models.ts", existing)

	a := Artifact{
		Path:  "models.ts",
		Class: Additive,
		Entries: []Entry{
			{Name: "Post", Code: "export type Post = {\n  // TODO\n};"},
			{Name: "User", Code: "export type User = {};"},
		},
	}
	d, err := c.Decide(a)
	require.NoError(t, err)

	outcome, err := c.Apply(context.Background(), a, d)
	require.NoError(t, err)
	assert.Equal(t, Appended, outcome)
	assert.Equal(t, existing+"\n\nexport type Post = {\n  // TODO\n};\n", readFile(t, fs, "models.ts"))

	d, err = c.Decide(a)
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, d.Action)
}

func TestApplySkip(t *testing.T) {
	c, fs := newTestController(t)
	writeFile(t, fs, "context.ts", "export interface Context { db: string }\n")

	outcome, err := c.Apply(context.Background(), Artifact{Path: "context.ts", Class: Contract}, Decision{Action: ActionSkip})
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
	assert.Equal(t, "export interface Context { db: string }\n", readFile(t, fs, "context.ts"))
}

func TestApplyRenderError(t *testing.T) {
	c, _ := newTestController(t)
	a := Artifact{Path: "x.ts", Class: Owned, Render: func() (string, error) {
		return "", errors.ErrUnknownDef
	}}

	_, err := c.Apply(context.Background(), a, Decision{Action: ActionWrite})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownDef))
}

func TestApplyCancelled(t *testing.T) {
	c, fs := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Apply(ctx, Artifact{Path: "x.ts", Class: Owned, Render: static("x")}, Decision{Action: ActionWrite})
	require.ErrorIs(t, err, context.Canceled)

	ok, err := afero.Exists(fs, root+"/x.ts")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrphans(t *testing.T) {
	c, fs := newTestController(t)
	pattern := regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.ts$`)

	orphans, err := c.Orphans("resolvers", pattern, nil)
	require.NoError(t, err)
	assert.Empty(t, orphans, "missing directory has no orphans")

	writeFile(t, fs, "resolvers/User.ts", "")
	writeFile(t, fs, "resolvers/Zed.ts", "")
	writeFile(t, fs, "resolvers/Old.ts", "")
	writeFile(t, fs, "resolvers/helpers.test.ts", "")
	writeFile(t, fs, "resolvers/README.md", "")
	require.NoError(t, fs.MkdirAll(root+"/resolvers/Nested.ts", 0o755))

	orphans, err = c.Orphans("resolvers", pattern, []string{"User.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Old.ts", "Zed.ts"}, orphans)
}

func TestClassAndActionNames(t *testing.T) {
	assert.Equal(t, "owned", Owned.String())
	assert.Equal(t, "additive", Additive.String())
	assert.Equal(t, "append", ActionAppend.String())
	assert.Equal(t, "rewritten", Rewritten.String())
}
