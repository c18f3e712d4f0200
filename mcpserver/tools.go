package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

// Tool names.
const (
	ToolDiagnostics = "arturo_diagnostics"
	ToolSymbols     = "arturo_symbols"
	ToolHover       = "arturo_hover"
	ToolDefinition  = "arturo_definition"
	ToolReferences  = "arturo_references"
	ToolFormat      = "arturo_format"
)

func fileArg() mcp.ToolOption {
	return mcp.WithString("file",
		mcp.Required(),
		mcp.Description("File path relative to the workspace root"),
	)
}

func positionArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		fileArg(),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("Line number (zero-based)"),
		),
		mcp.WithNumber("character",
			mcp.Required(),
			mcp.Description("Byte offset within the line (zero-based)"),
		),
	}
}

func (s *Server) registerTools() {
	s.server.AddTools(
		server.ServerTool{
			Tool: mcp.NewTool(ToolDiagnostics,
				mcp.WithDescription("Report undefined identifiers, type mismatches and unbalanced brackets in an Arturo file"),
				fileArg(),
			),
			Handler: s.handleDiagnostics,
		},
		server.ServerTool{
			Tool: mcp.NewTool(ToolSymbols,
				mcp.WithDescription("List the functions and variables an Arturo file defines"),
				fileArg(),
			),
			Handler: s.handleSymbols,
		},
		server.ServerTool{
			Tool: mcp.NewTool(ToolHover,
				append([]mcp.ToolOption{
					mcp.WithDescription("Describe the builtin, binding, type or literal at a position"),
				}, positionArgs()...)...,
			),
			Handler: s.handleHover,
		},
		server.ServerTool{
			Tool: mcp.NewTool(ToolDefinition,
				append([]mcp.ToolOption{
					mcp.WithDescription("Find where the identifier at a position is bound"),
				}, positionArgs()...)...,
			),
			Handler: s.handleDefinition,
		},
		server.ServerTool{
			Tool: mcp.NewTool(ToolReferences,
				append([]mcp.ToolOption{
					mcp.WithDescription("Find every occurrence of the identifier at a position"),
					mcp.WithBoolean("include_declaration",
						mcp.Description("Include the binding itself in results (default: true)"),
					),
				}, positionArgs()...)...,
			),
			Handler: s.handleReferences,
		},
		server.ServerTool{
			Tool: mcp.NewTool(ToolFormat,
				mcp.WithDescription("Return the formatted source of an Arturo file without writing it"),
				fileArg(),
			),
			Handler: s.handleFormat,
		},
	)
}

type location struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	EndLine   int    `json:"endLine"`
	EndChar   int    `json:"endCharacter"`
}

func (s *Server) location(f *analysis.AnalyzedFile, span arturo.Span) location {
	return location{
		File:      s.display(f.Path),
		Line:      span.Start.Line - 1,
		Character: span.Start.Column - 1,
		EndLine:   span.End.Line - 1,
		EndChar:   span.End.Column - 1,
	}
}

type diagnosticResult struct {
	location

	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

func (s *Server) handleDiagnostics(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, errResult := s.fileRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	out := make([]diagnosticResult, 0, len(f.Diagnostics))
	for _, d := range f.Diagnostics {
		out = append(out, diagnosticResult{
			location: s.location(f, d.Span),
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
		})
	}

	return jsonResult(out)
}

type symbolResult struct {
	location

	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) handleSymbols(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, errResult := s.fileRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	syms := f.DocumentSymbols()

	out := make([]symbolResult, 0, len(syms))
	for _, sym := range syms {
		out = append(out, symbolResult{
			location: s.location(f, sym.Selection),
			Name:     sym.Name,
			Kind:     sym.Kind.String(),
			Detail:   sym.Detail,
		})
	}

	return jsonResult(out)
}

func (s *Server) handleHover(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, pos, errResult := s.positionRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	content := f.Hover(pos)
	if content == "" {
		return mcp.NewToolResultText("No hover information"), nil
	}

	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleDefinition(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, pos, errResult := s.positionRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	span := f.Definition(pos)
	if span == nil {
		return mcp.NewToolResultText("No definition found"), nil
	}

	loc := s.location(f, *span)

	return mcp.NewToolResultText(fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Character)), nil
}

func (s *Server) handleReferences(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, pos, errResult := s.positionRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	refs := f.References(pos, request.GetBool("include_declaration", true))
	if len(refs) == 0 {
		return mcp.NewToolResultText("No references found"), nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Found %d reference(s):\n", len(refs))

	for i, r := range refs {
		loc := s.location(f, r.Span)
		fmt.Fprintf(&b, "%d. %s:%d:%d\n", i+1, loc.File, loc.Line, loc.Character)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleFormat(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, errResult := s.fileRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	return mcp.NewToolResultText(arturo.FormatDocument(f.Doc, s.config.Format)), nil
}

// fileRequest analyzes the file named by the request, or returns the error
// result to send back.
func (s *Server) fileRequest(request mcp.CallToolRequest) (*analysis.AnalyzedFile, *mcp.CallToolResult) {
	file, err := request.RequireString("file")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	f, err := s.analyze(file)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	return f, nil
}

func (s *Server) positionRequest(request mcp.CallToolRequest) (*analysis.AnalyzedFile, lexer.Position, *mcp.CallToolResult) {
	f, errResult := s.fileRequest(request)
	if errResult != nil {
		return nil, lexer.Position{}, errResult
	}

	line, err := request.RequireInt("line")
	if err != nil {
		return nil, lexer.Position{}, mcp.NewToolResultError(err.Error())
	}

	character, err := request.RequireInt("character")
	if err != nil {
		return nil, lexer.Position{}, mcp.NewToolResultError(err.Error())
	}

	if line < 0 || character < 0 {
		return nil, lexer.Position{}, mcp.NewToolResultError("line and character must be non-negative")
	}

	return f, arturo.Pos(line, character), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
