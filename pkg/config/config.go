package config

import "context"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules applied to log output
	MigrationSourceURL string // location of migration files
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry ("stdout" for local debugging)
	ProfilingPort      int    // port for profiling
	ServerAddr         string // listen addr for the api server
	AdminToken         string // token for admin access
	EngineerToken      string // token for engineer access
	AnonymousWrite     bool   // anonymous callers get engineer permissions
	NatsURL            string // if set, change events are published to this NATS server
	RulebookFile       string // additional compliance rulebooks (yaml)
	DefaultRulebook    string // rulebook used when a request names none
	DashboardCacheTTL  string // duration the dashboard is served from cache
	TLSCertFile        string // server certificate (reloaded on change)
	TLSKeyFile         string // server key (reloaded on change)
	TLSCAFile          string // CA used to verify client certificates
	MinClientVersion   string // reject clients announcing an older version
	OIDCIssuer         string // accept bearer tokens of this issuer
	OIDCClientID       string // expected audience of bearer tokens
	OIDCRoleClaim      string // claim holding the roles of the caller
	PolicyFile         string // custom rego authorization policy
	PolicyDataFile     string // custom role permissions for the policy
)

// Config holds the configuration values which are used by the application
type Config struct {
	DefaultRulebook string // rulebook used when a request names none
	AnonymousWrite  bool   // anonymous callers get engineer permissions
}

type ctxKey struct{}

func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored in ctx or nil.
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return nil
	}
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return nil
}
