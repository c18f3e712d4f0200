package lsp_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo/lsp"
)

// slowMockClient delays PublishDiagnostics to simulate a JSON-RPC connection
// whose write blocks.
type slowMockClient struct {
	mockClient

	diagnosticsDelay time.Duration
	mu               sync.Mutex
	blocked          bool
}

func (m *slowMockClient) PublishDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) error {
	m.mu.Lock()
	m.blocked = true
	m.mu.Unlock()

	time.Sleep(m.diagnosticsDelay)

	m.mu.Lock()
	m.blocked = false
	m.mu.Unlock()

	return m.mockClient.PublishDiagnostics(ctx, params)
}

func (m *slowMockClient) IsBlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.blocked
}

func newSlowTestServer(t *testing.T, delay time.Duration) (*lsp.Server, *slowMockClient) {
	t.Helper()

	client := &slowMockClient{diagnosticsDelay: delay}
	server := lsp.NewServer(client, zap.NewNop())
	t.Cleanup(server.Close)

	return server, client
}

// A completion request that arrives while didChange is publishing must not
// wait for the publish to finish.
func TestServer_Deadlock_DidChangeCompletion(t *testing.T) {
	t.Parallel()

	server, client := newSlowTestServer(t, 300*time.Millisecond)
	ctx := context.Background()

	_, _ = server.Initialize(ctx, &protocol.InitializeParams{})

	content := "total: 5\nprint to"

	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = server.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: content},
		})
	}()

	deadline := time.Now().Add(time.Second)
	for !client.IsBlocked() {
		if time.Now().After(deadline) {
			t.Fatal("PublishDiagnostics was never called")
		}

		time.Sleep(time.Millisecond)
	}

	completed := make(chan struct{})

	go func() {
		defer close(completed)

		_, _ = server.Completion(ctx, &protocol.CompletionParams{TextDocumentPositionParams: at(1, 8)})
	}()

	select {
	case <-completed:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Completion blocked behind PublishDiagnostics")
	}

	<-done
}

// Concurrent edits and queries must neither deadlock nor race.
func TestServer_ConcurrentEditsAndQueries(t *testing.T) {
	t.Parallel()

	server, _ := newSlowTestServer(t, time.Millisecond)
	ctx := context.Background()

	openDocument(t, server, "x: 1\nprint x")

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_ = server.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
				TextDocument: protocol.VersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
					Version:                int32(i + 2), //nolint:gosec
				},
				ContentChanges: []protocol.TextDocumentContentChangeEvent{
					{Text: fmt.Sprintf("x: %d\nprint x\ny: x + %d", i, i)},
				},
			})
		}()

		go func() {
			defer wg.Done()

			_, _ = server.Completion(ctx, &protocol.CompletionParams{TextDocumentPositionParams: at(1, 7)})
			_, _ = server.Hover(ctx, &protocol.HoverParams{TextDocumentPositionParams: at(1, 6)})
			_, _ = server.References(ctx, &protocol.ReferenceParams{TextDocumentPositionParams: at(0, 0)})
			_, _ = server.SemanticTokensFull(ctx, &protocol.SemanticTokensParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			})
		}()
	}

	finished := make(chan struct{})

	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent requests did not finish")
	}
}
