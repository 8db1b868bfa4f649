package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // served on localhost only
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/cmd/common"
	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/db/postgres"
	"github.com/mpapenbr/racemetrics/pkg/events"
	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
	"github.com/mpapenbr/racemetrics/pkg/grpc/permission"
	"github.com/mpapenbr/racemetrics/pkg/service"
)

//nolint:funlen // flag definitions
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.ServerAddr,
		"server-addr",
		"a",
		"localhost:8080",
		"api server listen address")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data (stdout for local output)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().StringVar(&config.AdminToken,
		"admin-token",
		"",
		"token granting admin access")
	cmd.Flags().StringVar(&config.EngineerToken,
		"engineer-token",
		"",
		"token granting engineer access")
	cmd.Flags().BoolVar(&config.AnonymousWrite,
		"anonymous-write",
		false,
		"callers without token get engineer permissions")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"publish change events to this NATS server")
	cmd.Flags().StringVar(&config.RulebookFile,
		"rulebook-file",
		"",
		"yaml file with additional compliance rulebooks")
	cmd.Flags().StringVar(&config.DefaultRulebook,
		"default-rulebook",
		"",
		"rulebook used when a compliance request names none")
	cmd.Flags().StringVar(&config.DashboardCacheTTL,
		"dashboard-cache-ttl",
		"0s",
		"serve the dashboard from a cache for this duration")
	cmd.Flags().StringVar(&config.OIDCIssuer,
		"oidc-issuer",
		"",
		"accept bearer tokens issued by this OIDC provider")
	cmd.Flags().StringVar(&config.OIDCClientID,
		"oidc-client-id",
		"",
		"audience expected in bearer tokens")
	cmd.Flags().StringVar(&config.OIDCRoleClaim,
		"oidc-role-claim",
		"roles",
		"claim holding the roles (admin, engineer, viewer)")
	cmd.Flags().StringVar(&config.PolicyFile,
		"policy-file",
		"",
		"rego module replacing the builtin authorization policy")
	cmd.Flags().StringVar(&config.PolicyDataFile,
		"policy-data-file",
		"",
		"json file replacing the builtin role permissions")
	cmd.Flags().StringVar(&config.MinClientVersion,
		"min-client-version",
		"",
		"reject clients sending an older X-Client-Version (semver)")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert",
		"",
		"server certificate file")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key",
		"",
		"server key file")
	cmd.Flags().StringVar(&config.TLSCAFile,
		"tls-ca",
		"",
		"CA file to verify client certificates")
	return cmd
}

//nolint:funlen,cyclop // startup sequence
func startServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sqlLogger := common.SetupLogging()
	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("addr", config.ServerAddr),
		log.String("nats", config.NatsURL),
		log.Bool("anonymousWrite", config.AnonymousWrite),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // profiling only
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	common.WaitForServices()

	var telemetry *config.Telemetry
	pgTracer := []pgx.QueryTracer{
		postgres.NewSQLTracer(sqlLogger,
			common.ParseLogLevel(config.SQLLogLevel, log.DebugLevel)),
	}
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			pgTracer = append(pgTracer, postgres.NewOtlpTracer())
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	pool := common.OpenPool(postgres.WithTracer(pgTracer...))
	defer pool.Close()

	broadcaster := events.NewBroadcaster()
	publisher := events.Publisher(broadcaster)
	if config.NatsURL != "" {
		nats, err := events.Connect(config.NatsURL)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		log.Info("Publishing change events", log.String("nats", config.NatsURL))
		publisher = events.Fanout(broadcaster, nats)
	}
	defer publisher.Close()

	svc, err := common.NewService(pool, service.WithPublisher(publisher))
	if err != nil {
		return err
	}

	pe, err := permission.NewPermissionEvaluator(
		permission.WithPolicyFile(config.PolicyFile),
		permission.WithDataFile(config.PolicyDataFile))
	if err != nil {
		return err
	}

	var extraAuth []auth.Option
	if config.OIDCIssuer != "" {
		verifier, err := auth.NewOIDCVerifier(ctx, config.OIDCIssuer, config.OIDCClientID)
		if err != nil {
			return err
		}
		log.Info("Accepting bearer tokens", log.String("issuer", config.OIDCIssuer))
		extraAuth = append(extraAuth,
			auth.WithOIDCVerifier(verifier, config.OIDCRoleClaim))
	}

	tlsConfig, err := newTLSConfig(ctx,
		config.TLSCertFile, config.TLSKeyFile, config.TLSCAFile)
	if err != nil {
		return err
	}

	//nolint:gosec // timeouts are handled per request
	server := &http.Server{
		Addr:      config.ServerAddr,
		Handler:   newHandler(svc, broadcaster, pe, extraAuth...),
		TLSConfig: tlsConfig,
	}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server",
			log.String("addr", config.ServerAddr),
			log.Bool("tls", tlsConfig != nil))
		if tlsConfig != nil {
			errChan <- server.ListenAndServeTLS("", "")
		} else {
			errChan <- server.ListenAndServe()
		}
	}()
	setupGoRoutinesDump()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server could not be started", log.ErrorField(err))
			return err
		}
	case <-ctx.Done():
		log.Debug("Got signal, shutting down")
		// running WatchChanges streams end when the broadcaster is closed
		broadcaster.Close()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown incomplete", log.ErrorField(err))
		}
	}
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}
