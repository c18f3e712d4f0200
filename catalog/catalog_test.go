package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c := Default()

	add, ok := c.Builtin("add")
	require.True(t, ok)
	assert.Equal(t, "arithmetic", add.Module)
	require.Len(t, add.Params(), 2)
	assert.Equal(t, "valueA", add.Params()[0].Name)
	assert.Contains(t, add.Returns(), "integer")

	for _, name := range []string{"print", "loop", "function", "if", "every?", "to"} {
		assert.True(t, c.IsBuiltin(name), name)
	}

	assert.True(t, c.IsType("integer"))
	assert.True(t, c.IsType("null"))
	assert.False(t, c.IsType("print"))
	assert.True(t, c.IsUnit("km"))
	assert.True(t, c.IsColor("red"))
	assert.False(t, c.IsBuiltin("greet"))
}

func TestDefault_EveryBuiltinHasParsedSignature(t *testing.T) {
	t.Parallel()

	for _, b := range Default().Builtins() {
		require.NotNil(t, b.Parsed, b.Name)
		assert.Equal(t, b.Name, b.Parsed.Name)
		assert.NotEmpty(t, b.Description, b.Name)
	}
}

func TestParseSignature(t *testing.T) {
	t.Parallel()

	sig, err := ParseSignature("every? collection:block|range params:literal|block condition:block -> logical")
	require.NoError(t, err)

	want := &Signature{
		Name: "every?",
		Params: []Param{
			{Name: "collection", Types: []string{"block", "range"}},
			{Name: "params", Types: []string{"literal", "block"}},
			{Name: "condition", Types: []string{"block"}},
		},
		Returns: []string{"logical"},
	}

	if diff := cmp.Diff(want, sig); diff != "" {
		t.Errorf("ParseSignature mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "every? collection:block|range params:literal|block condition:block -> logical", sig.String())
}

func TestParseSignature_NoParams(t *testing.T) {
	t.Parallel()

	sig, err := ParseSignature("now -> date")
	require.NoError(t, err)
	assert.Empty(t, sig.Params)
	assert.Equal(t, []string{"date"}, sig.Returns)
}

func TestParseSignature_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseSignature("add x: -> integer")
	require.Error(t, err)
}

func TestLoad_Extra(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")

	extra := `
builtins:
  - name: greet
    module: local
    signature: 'greet person:string -> nothing'
    description: Greet someone.
  - name: add
    module: local
    signature: 'add a:integer b:integer -> integer'
    description: Local add.
colors:
  - rebeccapurple
`
	require.NoError(t, os.WriteFile(path, []byte(extra), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	greet, ok := c.Builtin("greet")
	require.True(t, ok)
	assert.Equal(t, "person", greet.Params()[0].Name)

	add, _ := c.Builtin("add")
	assert.Equal(t, "local", add.Module)
	assert.True(t, c.IsColor("rebeccapurple"))
	assert.True(t, c.IsColor("red"))
}

func TestLoad_SignatureNameMismatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := `
builtins:
  - name: greet
    signature: 'hello person:string'
    description: Wrong name.
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSignatureName))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
