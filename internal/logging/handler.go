package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SwappableHandler is a slog.Handler whose output handler can be replaced
// at runtime. Handlers derived through WithAttrs and WithGroup share the
// root, so component loggers created at startup follow later swaps.
type SwappableHandler struct {
	root *swapRoot
	ops  []handlerOp

	cache atomic.Pointer[derived]
}

type swapRoot struct {
	inner atomic.Pointer[slog.Handler]
	gen   atomic.Uint64
}

// handlerOp is one WithAttrs or WithGroup call, replayed on the current
// root handler.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

type derived struct {
	gen uint64
	h   slog.Handler
}

// NewSwappableHandler creates a SwappableHandler wrapping h.
func NewSwappableHandler(h slog.Handler) *SwappableHandler {
	root := &swapRoot{}
	root.inner.Store(&h)
	return &SwappableHandler{root: root}
}

// Swap replaces the output handler for this handler and everything derived
// from it.
func (s *SwappableHandler) Swap(h slog.Handler) {
	s.root.inner.Store(&h)
	s.root.gen.Add(1)
}

func (s *SwappableHandler) current() slog.Handler {
	gen := s.root.gen.Load()
	if d := s.cache.Load(); d != nil && d.gen == gen {
		return d.h
	}
	h := *s.root.inner.Load()
	for _, op := range s.ops {
		if op.group != "" {
			h = h.WithGroup(op.group)
		} else {
			h = h.WithAttrs(op.attrs)
		}
	}
	s.cache.Store(&derived{gen: gen, h: h})
	return h
}

// Enabled delegates to the current handler.
func (s *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.current().Enabled(ctx, level)
}

// Handle delegates to the current handler.
func (s *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return s.current().Handle(ctx, r)
}

// WithAttrs returns a handler that adds attrs on top of whatever handler is
// current when a record is handled.
func (s *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	return s.derive(handlerOp{attrs: attrs})
}

// WithGroup returns a handler that opens group name on top of whatever
// handler is current when a record is handled.
func (s *SwappableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return s.derive(handlerOp{group: name})
}

func (s *SwappableHandler) derive(op handlerOp) *SwappableHandler {
	ops := make([]handlerOp, len(s.ops), len(s.ops)+1)
	copy(ops, s.ops)
	return &SwappableHandler{root: s.root, ops: append(ops, op)}
}
