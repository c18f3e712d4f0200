package lsp

import (
	"time"

	"go.uber.org/zap"
)

// traceHandler brackets a handler with debug entries naming it, so a stalled
// request shows up in the log as a start entry with no finish. Call the returned
// func with defer.
func (s *Server) traceHandler(name string) func() {
	start := time.Now()
	s.logger.Debug("Handler started", zap.String("handler", name))

	return func() {
		s.logger.Debug("Handler finished", zap.String("handler", name), zap.Duration("elapsed", time.Since(start)))
	}
}
