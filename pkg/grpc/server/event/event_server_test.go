package event

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/testsupport/testserver"
)

func TestWatchChanges(t *testing.T) {
	b := events.NewBroadcaster()
	defer b.Close()
	pe, err := permission.NewOpaPermissionEvaluator()
	require.NoError(t, err)
	srv := testserver.Start(t, NewServer(
		WithBroadcaster(b), WithPermissionEvaluator(pe)).Handler)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := testserver.Client[WatchRequest, events.Event](
		srv, util.ProcedureName(ServiceName, "WatchChanges"), "")

	// keep publishing until the subscription is established
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.Publish(ctx, events.Event{Entity: events.EntityCar, Action: events.ActionCreated})
				b.Publish(ctx, events.Event{Entity: events.EntitySession, Action: events.ActionEnded})
			}
		}
	}()

	stream, err := client.CallServerStream(ctx, connect.NewRequest(&WatchRequest{
		Entities: []events.Entity{events.EntitySession},
	}))
	require.NoError(t, err)
	defer stream.Close()
	for i := 0; i < 3; i++ {
		require.True(t, stream.Receive(), "stream ended: %v", stream.Err())
		assert.Equal(t, events.EntitySession, stream.Msg().Entity)
		assert.Equal(t, events.ActionEnded, stream.Msg().Action)
	}
}
