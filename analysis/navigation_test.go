package analysis_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

func TestDefinition(t *testing.T) {
	t.Parallel()

	f := analyze(t, "total: 5\nprint total")

	span := f.Definition(arturo.Pos(1, 8))
	require.NotNil(t, span)
	assert.Equal(t, arturo.LineSpan(0, 0, 5), *span)
}

func TestDefinition_None(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		col   int
	}{
		{"builtin", "print 1", 2},
		{"unknown", "print qzx", 7},
		{"in string", "total: 5\n\"total\"", -1},
		{"attribute", "total: 5\nx.total", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := analyze(t, tt.input)

			p := arturo.Pos(0, tt.col)
			if tt.col < 0 {
				p = arturo.Pos(1, -tt.col+1)
			}

			assert.Nil(t, f.Definition(p))
		})
	}
}

func TestReferences(t *testing.T) {
	t.Parallel()

	f := analyze(t, "total: 5\nprint total\ny: total + 1\nprint \"total\"")

	refs := f.References(arturo.Pos(1, 8), true)
	require.Len(t, refs, 3)

	assert.Equal(t, arturo.LineSpan(0, 0, 5), refs[0].Span)
	assert.True(t, refs[0].Write)
	assert.Equal(t, arturo.LineSpan(1, 6, 11), refs[1].Span)
	assert.False(t, refs[1].Write)
	assert.Equal(t, arturo.LineSpan(2, 3, 8), refs[2].Span)

	withoutDecl := f.References(arturo.Pos(1, 8), false)
	require.Len(t, withoutDecl, 2)
	assert.Equal(t, arturo.LineSpan(1, 6, 11), withoutDecl[0].Span)
}

func TestReferences_IncludesBlocksAndLiterals(t *testing.T) {
	t.Parallel()

	f := analyze(t, "n: 1\nloop 1..3 'i [print n]\nx: 'n\ny: n.size")

	refs := f.References(arturo.Pos(0, 0), true)

	require.Len(t, refs, 4)
	assert.Equal(t, 1, refs[1].Span.Start.Line-1)
	assert.Equal(t, arturo.LineSpan(2, 4, 5), refs[2].Span)
	assert.Equal(t, arturo.LineSpan(3, 3, 4), refs[3].Span)
}

func TestHighlights(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: 1\nx: x + 1")

	hl := f.Highlights(arturo.Pos(0, 0))
	require.Len(t, hl, 3)

	assert.True(t, hl[0].Write)
	assert.True(t, hl[1].Write)
	assert.False(t, hl[2].Write)
}

func TestRename(t *testing.T) {
	t.Parallel()

	f := analyze(t, "count: 5\nprint count")

	res, err := f.Rename(arturo.Pos(1, 7), "amount")
	require.NoError(t, err)

	assert.Equal(t, "count", res.Name)
	assert.False(t, res.BuiltinCollision)
	assert.Equal(t, []analysis.TextEdit{
		{Span: arturo.LineSpan(0, 0, 5), NewText: "amount"},
		{Span: arturo.LineSpan(1, 6, 11), NewText: "amount"},
	}, res.Edits)
}

func TestRename_InvalidIdentifier(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: 5\nprint x")

	for _, name := range []string{"7x", "", "a b", "x!"} {
		res, err := f.Rename(arturo.Pos(0, 0), name)
		assert.Nil(t, res, name)
		assert.True(t, errors.Is(err, analysis.ErrInvalidIdentifier), name)
	}
}

func TestRename_BuiltinCollision(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: 5\nprint x")

	res, err := f.Rename(arturo.Pos(0, 0), "print")
	require.NoError(t, err)

	assert.True(t, res.BuiltinCollision)
	assert.Len(t, res.Edits, 2)
}

func TestRename_AcceptsDashAndQuestionMark(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: 5")

	for _, name := range []string{"new-name", "ready?", "_x1"} {
		_, err := f.Rename(arturo.Pos(0, 0), name)
		assert.NoError(t, err, name)
	}
}

func TestRename_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		pos   arturo.Span
		want  error
	}{
		{"builtin", "print 1", arturo.LineSpan(0, 1, 1), analysis.ErrBuiltinTarget},
		{"type", "x: to :integer 5", arturo.LineSpan(0, 8, 8), analysis.ErrTypeTarget},
		{"custom type", "define :thing []\nprint thing", arturo.LineSpan(1, 7, 7), analysis.ErrTypeTarget},
		{"unknown", "print qzx", arturo.LineSpan(0, 7, 7), analysis.ErrNoSymbol},
		{"whitespace", "x: 1", arturo.LineSpan(0, 3, 3), analysis.ErrNoSymbol},
		{"string", "x: \"abc\"", arturo.LineSpan(0, 5, 5), analysis.ErrNoSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := analyze(t, tt.input)

			_, err := f.Rename(tt.pos.Start, "fresh")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRename_Parameter(t *testing.T) {
	t.Parallel()

	f := analyze(t, "f: function [val][\n    print val\n]")

	res, err := f.Rename(arturo.Pos(1, 11), "v2")
	require.NoError(t, err)
	assert.Len(t, res.Edits, 2)
}

func TestPrepareRename(t *testing.T) {
	t.Parallel()

	f := analyze(t, "x: 5\nprint x")

	span, name, err := f.PrepareRename(arturo.Pos(1, 6))
	require.NoError(t, err)
	assert.Equal(t, "x", name)
	assert.Equal(t, arturo.LineSpan(1, 6, 7), span)

	_, _, err = f.PrepareRename(arturo.Pos(1, 2))
	assert.True(t, errors.Is(err, analysis.ErrBuiltinTarget))
}
