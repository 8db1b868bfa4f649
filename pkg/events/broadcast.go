package events

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racemetrics/log"
)

// Broadcaster hands published events to every subscriber. A subscriber that
// does not receive within the send timeout misses the event.
type Broadcaster struct {
	source      chan Event
	addListener chan chan Event
	delListener chan (<-chan Event)
	listeners   []chan Event
	ctx         context.Context
	cancel      context.CancelFunc
	sendTimeout time.Duration
	l           *log.Logger
	closeOnce   sync.Once

	mu      sync.Mutex
	numSnd  int64
	numSkip int64
}

var _ Publisher = (*Broadcaster)(nil)

type BroadcastOption func(*Broadcaster)

func WithSendTimeout(d time.Duration) BroadcastOption {
	return func(b *Broadcaster) {
		b.sendTimeout = d
	}
}

func NewBroadcaster(opts ...BroadcastOption) *Broadcaster {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Broadcaster{
		source:      make(chan Event, 64),
		addListener: make(chan chan Event),
		delListener: make(chan (<-chan Event)),
		ctx:         ctx,
		cancel:      cancel,
		sendTimeout: 50 * time.Millisecond,
		l:           log.Default().Named("events.broadcast"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.registerMetrics()
	go b.serve()
	return b
}

// Publish queues e for delivery. Events are dropped once the broadcaster
// is closed.
func (b *Broadcaster) Publish(ctx context.Context, e Event) {
	select {
	case <-b.ctx.Done():
	case <-ctx.Done():
	case b.source <- e:
	}
}

// Subscribe returns a channel receiving all events published from now on.
// The channel is closed by Unsubscribe or Close.
func (b *Broadcaster) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	select {
	case b.addListener <- ch:
	case <-b.ctx.Done():
		close(ch)
	}
	return ch
}

func (b *Broadcaster) Unsubscribe(ch <-chan Event) {
	select {
	case b.delListener <- ch:
	case <-b.ctx.Done():
	}
}

func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.l.Info("closing broadcaster",
			log.Int64("snd", b.numSnd), log.Int64("skip", b.numSkip))
		b.mu.Unlock()
		b.cancel()
	})
}

func (b *Broadcaster) serve() {
	defer func() {
		for _, ch := range b.listeners {
			close(ch)
		}
		b.listeners = nil
	}()
	for {
		select {
		case <-b.ctx.Done():
			return
		case ch := <-b.addListener:
			b.listeners = append(b.listeners, ch)
			b.l.Debug("listener added", log.Int("listeners", len(b.listeners)))
		case ch := <-b.delListener:
			for i, listener := range b.listeners {
				if listener == ch {
					b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
					close(listener)
					break
				}
			}
			b.l.Debug("listener removed", log.Int("listeners", len(b.listeners)))
		case e := <-b.source:
			b.deliver(e)
		}
	}
}

func (b *Broadcaster) deliver(e Event) {
	for _, listener := range b.listeners {
		select {
		case listener <- e:
			b.count(&b.numSnd)
		case <-time.After(b.sendTimeout):
			b.count(&b.numSkip)
		}
	}
}

func (b *Broadcaster) count(v *int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	*v++
}

func (b *Broadcaster) registerMetrics() {
	meter := otel.Meter("racemetrics/events")
	for name, value := range map[string]*int64{
		"racemetrics.events.sent":    &b.numSnd,
		"racemetrics.events.skipped": &b.numSkip,
	} {
		if _, err := meter.Int64ObservableCounter(name,
			metric.WithUnit("{event}"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				b.mu.Lock()
				defer b.mu.Unlock()
				o.Observe(*value)
				return nil
			})); err != nil {
			b.l.Warn("could not register metric",
				log.String("metric", name), log.ErrorField(err))
		}
	}
}

type fanout []Publisher

// Fanout publishes each event to all pubs.
func Fanout(pubs ...Publisher) Publisher {
	return fanout(pubs)
}

func (f fanout) Publish(ctx context.Context, e Event) {
	for _, p := range f {
		p.Publish(ctx, e)
	}
}

func (f fanout) Close() {
	for _, p := range f {
		p.Close()
	}
}
