package event

import (
	"context"
	"net/http"
	"slices"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
)

const ServiceName = "EventService"

// WatchRequest restricts the stream to the given entities. An empty list
// streams all changes.
type WatchRequest struct {
	Entities []events.Entity `json:"entities,omitempty"`
}

func NewServer(opts ...Option) *eventServer {
	ret := &eventServer{
		log: log.Default().Named("grpc.event"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type Option func(*eventServer)

func WithBroadcaster(b *events.Broadcaster) Option {
	return func(srv *eventServer) {
		srv.broadcaster = b
	}
}

func WithPermissionEvaluator(pe permission.PermissionEvaluator) Option {
	return func(srv *eventServer) {
		srv.pe = pe
	}
}

type eventServer struct {
	broadcaster *events.Broadcaster
	pe          permission.PermissionEvaluator
	log         *log.Logger
}

func (s *eventServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	m := util.NewServiceMux(ServiceName, s.pe, nil, opts...)
	util.ServerStream(m, "WatchChanges", permission.PermissionRead, s.WatchChanges)
	return m.Handler()
}

// WatchChanges streams change events until the client disconnects or the
// broadcaster is closed.
//
//nolint:whitespace // editor/linter issue
func (s *eventServer) WatchChanges(
	ctx context.Context,
	req *WatchRequest,
	stream *connect.ServerStream[events.Event],
) error {
	ch := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(ch)
	s.log.Debug("client subscribed", log.Any("entities", req.Entities))
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("client left")
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if len(req.Entities) > 0 && !slices.Contains(req.Entities, e.Entity) {
				continue
			}
			if err := stream.Send(&e); err != nil {
				return err
			}
		}
	}
}
