package lsp_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func renameParams(line, character uint32, newName string) *protocol.RenameParams {
	return &protocol.RenameParams{
		TextDocumentPositionParams: at(line, character),
		NewName:                    newName,
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	openDocument(t, server, "count: 5\nprint count")

	edit, err := server.Rename(context.Background(), renameParams(1, 7, "amount"))
	require.NoError(t, err)
	require.NotNil(t, edit)

	want := map[protocol.DocumentURI][]protocol.TextEdit{
		testURI: {
			{Range: lspRange(0, 0, 0, 5), NewText: "amount"},
			{Range: lspRange(1, 6, 1, 11), NewText: "amount"},
		},
	}
	if diff := cmp.Diff(want, edit.Changes); diff != "" {
		t.Errorf("Rename() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, client.Messages())
}

func TestRename_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		line    uint32
		char    uint32
		newName string
		message string
	}{
		{
			name:    "builtin",
			input:   "print 1",
			char:    1,
			newName: "show",
			message: `Cannot rename builtin function "print"`,
		},
		{
			name:    "type",
			input:   "x: to :integer 5",
			char:    8,
			newName: "whole",
			message: `Cannot rename type "integer"`,
		},
		{
			name:    "invalid identifier",
			input:   "x: 5\nprint x",
			newName: "7x",
			message: `Cannot rename: "7x" is not a valid Arturo identifier`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, client := newTestServer(t)
			openDocument(t, server, tt.input)

			edit, err := server.Rename(context.Background(), renameParams(tt.line, tt.char, tt.newName))
			require.NoError(t, err)
			assert.Nil(t, edit)

			msgs := client.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, protocol.MessageTypeError, msgs[0].Type)
			assert.Equal(t, tt.message, msgs[0].Message)
		})
	}
}

func TestRename_NoSymbolIsSilent(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	openDocument(t, server, "print qzx")

	edit, err := server.Rename(context.Background(), renameParams(0, 7, "fresh"))
	require.NoError(t, err)
	assert.Nil(t, edit)
	assert.Empty(t, client.Messages())
}

func TestRename_BuiltinCollisionWarns(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	openDocument(t, server, "x: 5\nprint x")

	edit, err := server.Rename(context.Background(), renameParams(0, 0, "print"))
	require.NoError(t, err)
	require.NotNil(t, edit)
	assert.Len(t, edit.Changes[testURI], 2)

	msgs := client.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, protocol.MessageTypeWarning, msgs[0].Type)
	assert.Contains(t, msgs[0].Message, "will shadow it")
}

func TestPrepareRename(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	ctx := context.Background()
	openDocument(t, server, "x: 5\nprint x")

	rng, err := server.PrepareRename(ctx, &protocol.PrepareRenameParams{TextDocumentPositionParams: at(1, 6)})
	require.NoError(t, err)
	require.NotNil(t, rng)
	assert.Equal(t, lspRange(1, 6, 1, 7), *rng)

	rng, err = server.PrepareRename(ctx, &protocol.PrepareRenameParams{TextDocumentPositionParams: at(1, 2)})
	require.NoError(t, err)
	assert.Nil(t, rng)

	msgs := client.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, `Cannot rename builtin function "print"`, msgs[0].Message)
}
