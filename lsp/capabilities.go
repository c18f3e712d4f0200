package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/rlch/arturo/analysis"
)

// go.lsp.dev/protocol v0.12.0 predates inlay hints and has no semantic token
// options type, so the initialize result carries its own capability struct.

// InitializeResult is the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities   `json:"capabilities"`
	ServerInfo   *protocol.ServerInfo `json:"serverInfo,omitempty"`
}

// ServerCapabilities extends the protocol capabilities with inlay hints.
type ServerCapabilities struct {
	protocol.ServerCapabilities

	InlayHintProvider bool `json:"inlayHintProvider,omitempty"`
}

type semanticTokensOptions struct {
	Legend protocol.SemanticTokensLegend `json:"legend"`
	Full   bool                          `json:"full"`
	Range  bool                          `json:"range"`
}

func semanticTokensLegend() protocol.SemanticTokensLegend {
	legend := protocol.SemanticTokensLegend{
		TokenTypes:     make([]protocol.SemanticTokenTypes, 0, len(analysis.SemanticTokenTypes)),
		TokenModifiers: make([]protocol.SemanticTokenModifiers, 0, len(analysis.SemanticTokenModifiers)),
	}

	for _, t := range analysis.SemanticTokenTypes {
		legend.TokenTypes = append(legend.TokenTypes, protocol.SemanticTokenTypes(t))
	}

	for _, m := range analysis.SemanticTokenModifiers {
		legend.TokenModifiers = append(legend.TokenModifiers, protocol.SemanticTokenModifiers(m))
	}

	return legend
}

func serverCapabilities() ServerCapabilities {
	return ServerCapabilities{
		ServerCapabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{":", "#"},
			},
			ReferencesProvider:        true,
			DocumentHighlightProvider: true,
			DocumentSymbolProvider:    true,
			RenameProvider: &protocol.RenameOptions{
				PrepareProvider: true,
			},
			CodeLensProvider:           &protocol.CodeLensOptions{},
			FoldingRangeProvider:       true,
			DocumentFormattingProvider: true,
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend(),
				Full:   true,
			},
		},
		InlayHintProvider: true,
	}
}
