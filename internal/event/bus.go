package event

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Type identifies a category of event.
type Type string

// Curation events.
const (
	// SourceFetched carries source, albums and failed counts.
	SourceFetched Type = "source.fetched"
	// ReleaseSubmitted carries action, target and the album count.
	ReleaseSubmitted Type = "release.submitted"
	// AlbumIgnored carries the title left unresolved.
	AlbumIgnored Type = "album.ignored"
	// AlbumBanned carries the artist id and the banned url.
	AlbumBanned Type = "album.banned"
	// CurationCompleted carries the artist id and per-outcome counts.
	CurationCompleted Type = "curation.completed"
)

// Event represents something that happened during a session.
type Event struct {
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// LogValue renders the event as a group with its data keys sorted.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("type", string(e.Type))}
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Data[k]))
	}
	return slog.GroupValue(attrs...)
}

// Handler processes one event. Handlers run on the dispatcher goroutine.
type Handler func(Event)

type subscription struct {
	types   []Type
	handler Handler
}

func (s subscription) wants(t Type) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Bus delivers events to subscribers on a single goroutine, in publish
// order. Publish never blocks.
type Bus struct {
	ch     chan Event
	logger *slog.Logger

	mu   sync.RWMutex
	subs []subscription

	start   sync.Once
	stop    sync.Once
	quit    chan struct{}
	done    chan struct{}
	closed  atomic.Bool
	dropped atomic.Uint64
}

// NewBus creates a bus buffering up to bufSize undelivered events.
func NewBus(logger *slog.Logger, bufSize int) *Bus {
	if bufSize <= 0 {
		bufSize = 64
	}
	return &Bus{
		ch:     make(chan Event, bufSize),
		logger: logger.With(slog.String("component", "event-bus")),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Subscribe registers h for the given types, or for every type when none
// are given. Handlers are called in subscription order.
func (b *Bus) Subscribe(h Handler, types ...Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{types: types, handler: h})
}

// Publish queues e for delivery, stamping it when Timestamp is zero. Events
// published to a full or closed bus are dropped.
func (b *Bus) Publish(e Event) {
	if b.closed.Load() {
		b.dropped.Add(1)
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	select {
	case b.ch <- e:
	default:
		b.dropped.Add(1)
		b.logger.Warn("event bus full, dropping event", slog.String("type", string(e.Type)))
	}
}

// Dropped returns how many events were never queued.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Start launches the dispatcher. It runs until ctx is done or Close is
// called, then delivers what is still buffered. Calling Start again has no
// effect.
func (b *Bus) Start(ctx context.Context) {
	b.start.Do(func() {
		go b.run(ctx)
	})
}

// Close stops the bus and waits until buffered events are delivered. It
// must only be called after Start.
func (b *Bus) Close() {
	b.stop.Do(func() {
		b.closed.Store(true)
		close(b.quit)
	})
	<-b.done
}

func (b *Bus) run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case e := <-b.ch:
			b.dispatch(e)
		case <-ctx.Done():
			b.closed.Store(true)
			b.flush()
			return
		case <-b.quit:
			b.flush()
			return
		}
	}
}

func (b *Bus) flush() {
	for {
		select {
		case e := <-b.ch:
			b.dispatch(e)
		default:
			return
		}
	}
}

func (b *Bus) dispatch(e Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if s.wants(e.Type) {
			b.call(s.handler, e)
		}
	}
}

func (b *Bus) call(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", slog.String("type", string(e.Type)), slog.Any("panic", r))
		}
	}()
	h(e)
}
