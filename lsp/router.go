package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// MethodInlayHint is not among the protocol package's method constants.
const MethodInlayHint = "textDocument/inlayHint"

// Handler returns the jsonrpc2 handler that routes every supported method to
// its Server method. Unknown methods are answered with MethodNotFound, and a
// panicking handler is answered with an empty result.
func (s *Server) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) (err error) {
		replied := false
		tracked := func(ctx context.Context, result any, err error) error {
			replied = true

			return reply(ctx, result, err)
		}

		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Handler panic",
					zap.String("method", req.Method()),
					zap.Any("panic", r),
					zap.Stack("stack"))

				if !replied {
					err = reply(ctx, nil, nil)
				}
			}
		}()

		return s.route(ctx, tracked, req)
	}
}

func (s *Server) route(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case protocol.MethodInitialize:
		return call(ctx, reply, req, s.Initialize)
	case protocol.MethodInitialized:
		return notify(ctx, reply, req, s.Initialized)
	case protocol.MethodShutdown:
		return reply(ctx, nil, s.Shutdown(ctx))
	case protocol.MethodExit:
		return reply(ctx, nil, s.Exit(ctx))

	case protocol.MethodTextDocumentDidOpen:
		return notify(ctx, reply, req, s.DidOpen)
	case protocol.MethodTextDocumentDidChange:
		return notify(ctx, reply, req, s.DidChange)
	case protocol.MethodTextDocumentDidClose:
		return notify(ctx, reply, req, s.DidClose)
	case protocol.MethodTextDocumentDidSave:
		return notify(ctx, reply, req, s.DidSave)
	case protocol.MethodWorkspaceDidChangeConfiguration:
		return notify(ctx, reply, req, s.DidChangeConfiguration)

	case protocol.MethodTextDocumentHover:
		return call(ctx, reply, req, s.Hover)
	case protocol.MethodTextDocumentCompletion:
		return call(ctx, reply, req, s.Completion)
	case protocol.MethodTextDocumentDefinition:
		return call(ctx, reply, req, s.Definition)
	case protocol.MethodTextDocumentReferences:
		return call(ctx, reply, req, s.References)
	case protocol.MethodTextDocumentDocumentHighlight:
		return call(ctx, reply, req, s.DocumentHighlight)
	case protocol.MethodTextDocumentDocumentSymbol:
		return call(ctx, reply, req, s.DocumentSymbol)
	case protocol.MethodTextDocumentPrepareRename:
		return call(ctx, reply, req, s.PrepareRename)
	case protocol.MethodTextDocumentRename:
		return call(ctx, reply, req, s.Rename)
	case protocol.MethodTextDocumentFoldingRange:
		return call(ctx, reply, req, s.FoldingRanges)
	case protocol.MethodTextDocumentCodeLens:
		return call(ctx, reply, req, s.CodeLens)
	case protocol.MethodTextDocumentFormatting:
		return call(ctx, reply, req, s.Formatting)
	case MethodInlayHint:
		return call(ctx, reply, req, s.InlayHint)
	case protocol.MethodSemanticTokensFull:
		return call(ctx, reply, req, s.SemanticTokensFull)

	default:
		s.logger.Debug("Method not found", zap.String("method", req.Method()))

		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// call decodes the request params, runs fn and replies with its result.
func call[P, R any](ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, fn func(context.Context, *P) (R, error)) error {
	var params P
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	result, err := fn(ctx, &params)

	return reply(ctx, result, err)
}

// notify decodes the params of a notification and runs fn.
func notify[P any](ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, fn func(context.Context, *P) error) error {
	var params P
	if err := decodeParams(req, &params); err != nil {
		return reply(ctx, nil, err)
	}

	return reply(ctx, nil, fn(ctx, &params))
}

func decodeParams(req jsonrpc2.Request, params any) error {
	raw := req.Params()
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, params); err != nil {
		return jsonrpc2.Errorf(jsonrpc2.InvalidParams, "%s: %v", req.Method(), err)
	}

	return nil
}
