package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/cmd/common"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/event"
	"github.com/mpapenbr/racemetrics/pkg/grpc/server/util"
	"github.com/mpapenbr/racemetrics/version"
)

func NewWatchCmd() *cobra.Command {
	var (
		addr     string
		token    string
		entities []string
		creds    clientcredentials.Config
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "prints change events of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.SetupLogging()
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			req := &event.WatchRequest{}
			for _, e := range entities {
				req.Entities = append(req.Entities, events.Entity(e))
			}
			return watch(ctx, cmd.OutOrStdout(), httpClient(ctx, &creds), addr, token, req)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "server address")
	cmd.Flags().StringVar(&token, "token", "", "api token")
	cmd.Flags().StringSliceVar(&entities, "entity", nil,
		"only show changes of these entities (car, session, ...)")
	cmd.Flags().StringVar(&creds.TokenURL, "token-url", "",
		"fetch a bearer token from this OAuth2 token endpoint")
	cmd.Flags().StringVar(&creds.ClientID, "client-id", "", "OAuth2 client id")
	cmd.Flags().StringVar(&creds.ClientSecret, "client-secret", "", "OAuth2 client secret")
	return cmd
}

// httpClient adds bearer tokens of the client credentials grant to all
// requests if a token endpoint is configured.
func httpClient(ctx context.Context, creds *clientcredentials.Config) *http.Client {
	if creds.TokenURL == "" {
		return http.DefaultClient
	}
	if len(creds.Scopes) == 0 {
		creds.Scopes = []string{"openid"}
	}
	return creds.Client(ctx)
}

//nolint:whitespace // editor/linter issue
func watch(
	ctx context.Context,
	w io.Writer,
	hc *http.Client,
	addr, token string,
	req *event.WatchRequest,
) error {
	client := connect.NewClient[event.WatchRequest, events.Event](
		hc,
		addr+util.ProcedureName(event.ServiceName, "WatchChanges"),
		connect.WithCodec(util.JSONCodec{}),
	)
	r := connect.NewRequest(req)
	if token != "" {
		r.Header().Set("api-token", token)
	}
	if v := util.CanonicalVersion(version.Version); v != "" {
		r.Header().Set(util.ClientVersionHeader, v)
	}
	stream, err := client.CallServerStream(ctx, r)
	if err != nil {
		return fmt.Errorf("could not watch changes: %w", err)
	}
	defer stream.Close()
	log.Info("watching changes", log.String("addr", addr))

	enc := json.NewEncoder(w)
	for stream.Receive() {
		if err := enc.Encode(stream.Msg()); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("done")
	return nil
}
