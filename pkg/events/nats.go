package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/racemetrics/log"
)

type (
	NatsPublisher struct {
		conn   *nats.Conn
		prefix string
		l      *log.Logger
	}
	Option func(*NatsPublisher)
)

var _ Publisher = (*NatsPublisher)(nil)

func WithSubjectPrefix(prefix string) Option {
	return func(n *NatsPublisher) {
		n.prefix = prefix
	}
}

func WithLogger(l *log.Logger) Option {
	return func(n *NatsPublisher) {
		n.l = l
	}
}

// Connect opens a connection to the nats server at url.
func Connect(url string, opts ...Option) (*NatsPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("racemetrics"))
	if err != nil {
		return nil, err
	}
	return NewNatsPublisher(conn, opts...), nil
}

func NewNatsPublisher(conn *nats.Conn, opts ...Option) *NatsPublisher {
	ret := &NatsPublisher{
		conn:   conn,
		prefix: DefaultSubjectPrefix,
		l:      log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (n *NatsPublisher) Publish(_ context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		n.l.Warn("could not marshal event", log.ErrorField(err))
		return
	}
	subject := Subject(n.prefix, e)
	if err := n.conn.Publish(subject, data); err != nil {
		n.l.Warn("could not publish event",
			log.String("subject", subject), log.ErrorField(err))
		return
	}
	n.l.Debug("published", log.String("subject", subject),
		log.String("id", e.ID.String()))
}

func (n *NatsPublisher) Close() {
	if err := n.conn.Drain(); err != nil {
		n.l.Warn("drain failed", log.ErrorField(err))
	}
}
