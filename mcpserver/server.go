// Package mcpserver exposes Arturo analysis as Model Context Protocol tools.
package mcpserver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/server"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
)

// Server answers MCP tool calls about Arturo files under a workspace root.
type Server struct {
	root     string
	config   *arturo.Config
	analyzer *analysis.Analyzer
	logger   *zap.Logger
	server   *server.MCPServer
}

// New creates a server rooted at root. The nearest config file above root is
// honored; without one the defaults apply.
func New(root string, logger *zap.Logger) (*Server, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve root %s", root)
	}

	cfg, cfgPath, err := arturo.LoadConfig(absRoot)

	switch {
	case err == nil:
		logger.Info("Loaded config", zap.String("path", cfgPath))
	case errors.Is(err, arturo.ErrConfigNotFound):
		cfg = arturo.DefaultConfig()
	default:
		return nil, err
	}

	base := absRoot
	if cfgPath != "" {
		base = filepath.Dir(cfgPath)
	}

	analyzer, err := analysis.NewAnalyzerForConfig(cfg, base)
	if err != nil {
		return nil, err
	}

	s := &Server{
		root:     absRoot,
		config:   cfg,
		analyzer: analyzer,
		logger:   logger,
		server: server.NewMCPServer(
			arturo.ServerName,
			arturo.ServerVersion,
			server.WithToolCapabilities(true),
		),
	}

	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.server
}

// Serve runs the server over stdio until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("Serving MCP over stdio", zap.String("root", s.root))

	return server.ServeStdio(s.server)
}

// resolve maps a tool's file argument to a path. Relative paths are taken
// from the root; file:// URIs are accepted too.
func (s *Server) resolve(file string) string {
	if strings.HasPrefix(file, uri.FileScheme+"://") {
		return uri.New(file).Filename()
	}

	if filepath.IsAbs(file) {
		return file
	}

	return filepath.Join(s.root, file)
}

// analyze reads and analyzes the named file.
func (s *Server) analyze(file string) (*analysis.AnalyzedFile, error) {
	path := s.resolve(file)

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", file)
	}

	return s.analyzer.Analyze(path, content), nil
}

// display renders a path relative to the root when it lies below it.
func (s *Server) display(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return rel
}
