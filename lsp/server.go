// Package lsp implements a Language Server Protocol server for Arturo.
package lsp

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/arturo"
	"github.com/rlch/arturo/analysis"
	"github.com/rlch/arturo/catalog"
)

// Server answers LSP requests for Arturo documents.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// Configuration and the analyzer built from it. generation is bumped
	// whenever either changes and is part of the cache key.
	config      *arturo.Config
	configPath  string
	initOptions *initializationOptions
	analyzer    *analysis.Analyzer
	generation  uint64
	cache       *analysisCache

	reloadMu sync.Mutex
	watcher  *configWatcher

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
	exitOnce      sync.Once
	exited        chan struct{}
}

// Document represents an open document in the server. A Document is never
// mutated after it is stored; changes replace it.
type Document struct {
	URI      protocol.DocumentURI
	Version  int32
	Content  string
	Analysis *analysis.AnalyzedFile
}

// NewServer creates a new LSP server using the default configuration until
// initialize names a workspace.
func NewServer(client protocol.Client, logger *zap.Logger) *Server {
	cache, err := newAnalysisCache(analysisCacheBytes)
	if err != nil {
		logger.Warn("Analysis cache disabled", zap.Error(err))
	}

	cfg := arturo.DefaultConfig()

	return &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
		config:    cfg,
		analyzer:  analysis.MustNewAnalyzer(catalog.Default(), analysis.OptionsFromConfig(cfg)),
		cache:     cache,
		exited:    make(chan struct{}),
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*InitializeResult, error) {
	s.logger.Info("Initialize")

	switch {
	case params.RootURI != "":
		s.workspaceRoot = URIToPath(params.RootURI)
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = URIToPath(protocol.DocumentURI(params.WorkspaceFolders[0].URI))
	}

	if s.workspaceRoot != "" {
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	}

	opts, err := parseInitializationOptions(params.InitializationOptions)
	if err != nil {
		s.logger.Warn("Ignoring initializationOptions", zap.Error(err))
	}

	s.mu.Lock()
	s.initOptions = opts
	s.mu.Unlock()

	s.reloadConfig(context.Background(), false)

	return &InitializeResult{
		Capabilities: serverCapabilities(),
		ServerInfo: &protocol.ServerInfo{
			Name:    arturo.ServerName,
			Version: arturo.ServerVersion,
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	s.watchConfig()

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	s.Close()

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	s.exitOnce.Do(func() { close(s.exited) })

	return nil
}

// Exited is closed once the client sends exit.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

// Close stops the config watcher and releases the analysis cache.
func (s *Server) Close() {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.close(); err != nil {
			s.logger.Warn("Failed to stop config watcher", zap.Error(err))
		}

		s.watcher = nil
	}

	s.mu.Lock()
	cache := s.cache
	s.cache = nil
	s.mu.Unlock()

	cache.close()
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	// Hold lock only for analysis and the document map update
	s.mu.Lock()
	doc := &Document{
		URI:      params.TextDocument.URI,
		Version:  params.TextDocument.Version,
		Content:  params.TextDocument.Text,
		Analysis: s.analyzeLocked(params.TextDocument.URI, params.TextDocument.Text),
	}
	s.documents[doc.URI] = doc
	s.mu.Unlock()

	// Publish diagnostics outside the lock to prevent deadlock
	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	start := time.Now()
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync: the last change carries the whole document.
	content := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.mu.Lock()
	if _, ok := s.documents[params.TextDocument.URI]; !ok {
		s.mu.Unlock()
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	doc := &Document{
		URI:      params.TextDocument.URI,
		Version:  params.TextDocument.Version,
		Content:  content,
		Analysis: s.analyzeLocked(params.TextDocument.URI, content),
	}
	s.documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(ctx, doc)

	s.logger.Debug("DidChange done", zap.Duration("elapsed", time.Since(start)))

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear diagnostics outside the lock to prevent deadlock
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// DidChangeConfiguration applies settings pushed by the editor after startup.
func (s *Server) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	opts, err := parseInitializationOptions(params.Settings)
	if err != nil {
		s.logger.Warn("Ignoring configuration change", zap.Error(err))

		return nil
	}

	s.mu.Lock()
	s.initOptions = opts
	s.mu.Unlock()

	s.reloadConfig(ctx, true)

	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// currentConfig returns the active configuration. Callers must not modify it.
func (s *Server) currentConfig() *arturo.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// analyzeLocked analyzes content with the current analyzer. s.mu must be held.
func (s *Server) analyzeLocked(uri protocol.DocumentURI, content string) *analysis.AnalyzedFile {
	return s.cache.analyze(s.analyzer, s.generation, URIToPath(uri), content)
}

// reloadConfig rebuilds the configuration and analyzer, re-analyzes every
// open document and, when publish is set, republishes their diagnostics.
func (s *Server) reloadConfig(ctx context.Context, publish bool) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cfg, path := s.loadConfig()
	analyzer := s.buildAnalyzer(cfg, path)

	s.mu.Lock()
	s.config = cfg
	s.configPath = path
	s.analyzer = analyzer
	s.generation++

	docs := make([]*Document, 0, len(s.documents))
	for uri, old := range s.documents {
		doc := &Document{
			URI:      old.URI,
			Version:  old.Version,
			Content:  old.Content,
			Analysis: s.analyzeLocked(uri, old.Content),
		}
		s.documents[uri] = doc
		docs = append(docs, doc)
	}
	s.mu.Unlock()

	s.logger.Info("Configuration loaded",
		zap.String("path", path),
		zap.Int("documents", len(docs)))

	if !publish {
		return
	}

	for _, doc := range docs {
		s.publishDiagnostics(ctx, doc)
	}
}

// loadConfig layers defaults, the nearest config file and the editor settings.
func (s *Server) loadConfig() (*arturo.Config, string) {
	cfg := arturo.DefaultConfig()
	path := ""

	if s.workspaceRoot != "" {
		fileCfg, found, err := arturo.LoadConfig(s.workspaceRoot)

		switch {
		case err == nil:
			cfg, path = fileCfg, found
		case errors.Is(err, arturo.ErrConfigNotFound):
		default:
			s.logger.Warn("Failed to load config, using defaults", zap.Error(err))
		}
	}

	s.mu.RLock()
	opts := s.initOptions
	s.mu.RUnlock()

	if err := opts.apply(cfg); err != nil {
		s.logger.Warn("Ignoring editor settings", zap.Error(err))
	}

	return cfg, path
}

// buildAnalyzer constructs an analyzer for cfg, falling back to the embedded
// catalog and no suppressions when either fails to load.
func (s *Server) buildAnalyzer(cfg *arturo.Config, configPath string) *analysis.Analyzer {
	cat := catalog.Default()

	base := s.workspaceRoot
	if configPath != "" {
		base = filepath.Dir(configPath)
	}

	if path := analysis.CatalogPath(cfg, base); path != "" {
		extended, err := catalog.Load(path)
		if err != nil {
			s.logger.Warn("Failed to load catalog, using builtins only", zap.Error(err))
		} else {
			cat = extended
		}
	}

	opts := analysis.OptionsFromConfig(cfg)

	a, err := analysis.NewAnalyzer(cat, opts)
	if err != nil {
		s.logger.Warn("Invalid suppression, ignoring all", zap.Error(err))

		opts.Suppress = nil
		a = analysis.MustNewAnalyzer(cat, opts)
	}

	return a
}

// watchConfig starts watching the workspace root, and the directory of the
// config file when it lives above the root.
func (s *Server) watchConfig() {
	if s.workspaceRoot == "" {
		return
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.watcher != nil {
		return
	}

	dirs := []string{s.workspaceRoot}

	s.mu.RLock()
	if s.configPath != "" && filepath.Dir(s.configPath) != filepath.Clean(s.workspaceRoot) {
		dirs = append(dirs, filepath.Dir(s.configPath))
	}
	s.mu.RUnlock()

	w, err := newConfigWatcher(s.logger, dirs, func() {
		s.reloadConfig(context.Background(), true)
	})
	if err != nil {
		s.logger.Warn("Config hot reload disabled", zap.Error(err))

		return
	}

	s.watcher = w
}
