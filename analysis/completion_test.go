package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

func labels(items []analysis.CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}

	return out
}

func TestComplete_PrefixSymbolsFirst(t *testing.T) {
	t.Parallel()

	f := analyze(t, "total: 5\nprint to")

	items := f.Complete(arturo.Pos(1, 8))
	require.NotEmpty(t, items)

	assert.Equal(t, "total", items[0].Label)
	assert.Equal(t, analysis.CompletionVariable, items[0].Kind)
	assert.Equal(t, ":integer", items[0].Detail)
	assert.Contains(t, labels(items), "to")
}

func TestComplete_BuiltinDetail(t *testing.T) {
	t.Parallel()

	f := analyze(t, "pri")

	var found *analysis.CompletionItem

	items := f.Complete(arturo.Pos(0, 3))
	for i := range items {
		if items[i].Label == "print" {
			found = &items[i]
		}
	}

	require.NotNil(t, found)
	assert.Equal(t, analysis.CompletionFunction, found.Kind)
	assert.Equal(t, "print value:any -> nothing", found.Detail)
	assert.NotEmpty(t, found.Documentation)
}

func TestComplete_Types(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: to :int")

	items := f.Complete(arturo.Pos(0, 10))
	require.NotEmpty(t, items)
	assert.Contains(t, labels(items), "integer")

	for _, it := range items {
		assert.Equal(t, analysis.CompletionType, it.Kind, it.Label)
	}
}

func TestComplete_CustomTypes(t *testing.T) {
	t.Parallel()

	f := analyze(t, "define :person [name]\nx: to :pers")

	assert.Contains(t, labels(f.Complete(arturo.Pos(1, 11))), "person")
}

func TestComplete_Colors(t *testing.T) {
	t.Parallel()

	f := analyze(t, "c: #re")

	items := f.Complete(arturo.Pos(0, 6))
	assert.Contains(t, labels(items), "red")

	for _, it := range items {
		assert.Equal(t, analysis.CompletionColor, it.Kind)
	}
}

func TestComplete_FuzzyFallback(t *testing.T) {
	t.Parallel()

	f := analyze(t, "velocity: 1\nprint vlc")

	assert.Contains(t, labels(f.Complete(arturo.Pos(1, 9))), "velocity")
}

func TestComplete_NothingInStringsOrLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		col   int
	}{
		{"string", `print "total"`, 9},
		{"comment", "print 1 ; to", 12},
		{"literal", "x: 'to", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := analyze(t, tt.input)
			assert.Empty(t, f.Complete(arturo.Pos(0, tt.col)))
		})
	}
}

func TestComplete_EmptyPrefixListsEverything(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: 1\nprint ")

	items := f.Complete(arturo.Pos(1, 6))

	assert.Greater(t, len(items), 100)
	assert.Equal(t, "x", items[0].Label)
	assert.Contains(t, labels(items), "true")
}
