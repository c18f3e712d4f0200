package lsp

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// clientLogQueue is how many entries may wait for delivery before new ones
// are dropped.
const clientLogQueue = 100

// clientLogCore is a zapcore.Core that forwards entries to the editor as
// window/logMessage notifications, so they show up in its LSP log view.
type clientLogCore struct {
	zapcore.LevelEnabler

	encoder zapcore.Encoder
	fields  []zapcore.Field
	sink    *clientLogSink
}

// clientLogSink is shared by a core and all of its With children.
type clientLogSink struct {
	client protocol.Client
	queue  chan *protocol.LogMessageParams

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientLogger returns a logger that writes to fallback and forwards
// entries at or above level to the client. Delivery is asynchronous; when the
// queue is full entries are dropped rather than blocking the caller. The
// returned stop function ends delivery.
func NewClientLogger(client protocol.Client, fallback zapcore.Core, level zapcore.LevelEnabler) (*zap.Logger, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sink := &clientLogSink{
		client: client,
		queue:  make(chan *protocol.LogMessageParams, clientLogQueue),
		ctx:    ctx,
		cancel: cancel,
	}

	sink.wg.Add(1)

	go sink.run()

	core := &clientLogCore{
		LevelEnabler: level,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		sink: sink,
	}

	return zap.New(zapcore.NewTee(core, fallback)), sink.stop
}

func (s *clientLogSink) run() {
	defer s.wg.Done()

	for {
		select {
		case msg := <-s.queue:
			// The client may already be gone; nothing useful to do with the error.
			_ = s.client.LogMessage(s.ctx, msg)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *clientLogSink) stop() {
	s.cancel()
	s.wg.Wait()
}

// With implements zapcore.Core.
func (c *clientLogCore) With(fields []zapcore.Field) zapcore.Core {
	return &clientLogCore{
		LevelEnabler: c.LevelEnabler,
		encoder:      c.encoder.Clone(),
		fields:       append(c.fields[:len(c.fields):len(c.fields)], fields...),
		sink:         c.sink,
	}
}

// Check implements zapcore.Core.
func (c *clientLogCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

// Write implements zapcore.Core.
func (c *clientLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(entry, append(c.fields[:len(c.fields):len(c.fields)], fields...))
	if err != nil {
		return err
	}

	msg := &protocol.LogMessageParams{
		Type:    messageType(entry.Level),
		Message: strings.TrimSpace(buf.String()),
	}
	buf.Free()

	select {
	case c.sink.queue <- msg:
	default:
	}

	return nil
}

// Sync implements zapcore.Core.
func (c *clientLogCore) Sync() error {
	return nil
}

// messageType maps zap levels to LSP message types.
func messageType(level zapcore.Level) protocol.MessageType {
	switch {
	case level >= zapcore.ErrorLevel:
		return protocol.MessageTypeError
	case level == zapcore.WarnLevel:
		return protocol.MessageTypeWarning
	case level == zapcore.InfoLevel:
		return protocol.MessageTypeInfo
	default:
		return protocol.MessageTypeLog
	}
}
