package analysis_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

func TestInlayHints_BuiltinParameters(t *testing.T) {
	t.Parallel()

	got := analyze(t, "print add 1 2").InlayHints(0, 0)

	want := []analysis.InlayHint{
		{Position: arturo.Pos(0, 10), Label: "valueA:", Kind: analysis.InlayParameter, PaddingRight: true},
		{Position: arturo.Pos(0, 12), Label: "valueB:", Kind: analysis.InlayParameter, PaddingRight: true},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("InlayHints() mismatch (-want +got):\n%s", diff)
	}
}

func TestInlayHints_UserFunction(t *testing.T) {
	t.Parallel()

	got := analyze(t, "f: function [a b][a + b]\nf 1 \"two\"").InlayHints(1, 1)

	require.Len(t, got, 2)
	assert.Equal(t, "a:", got[0].Label)
	assert.Equal(t, arturo.Pos(1, 2), got[0].Position)
	assert.Equal(t, "b:", got[1].Label)
	assert.Equal(t, arturo.Pos(1, 4), got[1].Position)
}

func TestInlayHints_InfixArgument(t *testing.T) {
	t.Parallel()

	got := analyze(t, "if x > 2 [print 1]").InlayHints(0, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "condition:", got[0].Label)
	assert.Equal(t, arturo.Pos(0, 3), got[0].Position)
	assert.Equal(t, "action:", got[1].Label)
	assert.Equal(t, arturo.Pos(0, 9), got[1].Position)
}

func TestInlayHints_NestedCall(t *testing.T) {
	t.Parallel()

	got := analyze(t, "add size [1] 2").InlayHints(0, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "valueA:", got[0].Label)
	assert.Equal(t, arturo.Pos(0, 4), got[0].Position)
	assert.Equal(t, "valueB:", got[1].Label)
	assert.Equal(t, arturo.Pos(0, 13), got[1].Position)
}

func TestInlayHints_SingleParameterCallsNotAnnotated(t *testing.T) {
	t.Parallel()

	assert.Empty(t, analyze(t, "print 1").InlayHints(0, 0))
}

func TestInlayHints_Types(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.InlayParameters = false

	got := analyzeWith(t, opts, "x: 5\ny: foo\nz: to :string 1\ns: \"hi\" ; greeting").InlayHints(0, 3)

	want := []analysis.InlayHint{
		{Position: arturo.Pos(0, 4), Label: ": integer", Kind: analysis.InlayType, PaddingLeft: true},
		{Position: arturo.Pos(3, 7), Label: ": string", Kind: analysis.InlayType, PaddingLeft: true},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("InlayHints() mismatch (-want +got):\n%s", diff)
	}
}

func TestInlayHints_Disabled(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.InlayParameters = false
	opts.InlayTypes = false

	assert.Empty(t, analyzeWith(t, opts, "x: 5\nprint add 1 2").InlayHints(0, 1))
}

func TestInlayHints_RangeClamped(t *testing.T) {
	t.Parallel()

	assert.Len(t, analyze(t, "x: 5").InlayHints(-3, 40), 1)
}
