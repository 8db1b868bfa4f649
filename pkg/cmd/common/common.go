// Package common holds the setup steps shared by the commands.
package common

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/compliance"
	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/db/postgres"
	bobRepos "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob"
	"github.com/mpapenbr/racemetrics/pkg/service"
	"github.com/mpapenbr/racemetrics/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogging installs the default logger according to the log flags and
// returns the logger to be used for sql statements.
func SetupLogging() *log.Logger {
	var logger, sqlLogger *log.Logger
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		if filter, err := log.WithFilter(config.LogFilter); err == nil {
			opts = append(opts, filter)
		} else {
			fmt.Fprintf(os.Stderr, "ignoring invalid log filter: %v\n", err)
		}
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel), opts...)
		sqlLogger = log.New(os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr,
			ParseLogLevel(config.LogLevel, log.DebugLevel), opts...)
		sqlLogger = log.DevLogger(os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	}
	log.ResetDefault(logger)
	return sqlLogger
}

// WaitForServices blocks until the database and, if configured, the NATS
// server accept connections. The process exits after the configured timeout.
func WaitForServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	addrs := []string{}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		addrs = append(addrs, addr)
	}
	if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
		addrs = append(addrs, addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	wg := sync.WaitGroup{}
	for _, addr := range addrs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := utils.WaitForTCP(ctx, addr); err != nil {
				log.Fatal("required services not ready", log.ErrorField(err))
			}
		}()
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}

// OpenPool connects to the configured database.
func OpenPool(opts ...postgres.PoolConfigOption) *pgxpool.Pool {
	return postgres.InitWithURL(config.DB, opts...)
}

// LoadRulebooks returns the builtin rulebooks plus those of the configured
// rulebook file.
func LoadRulebooks() (*compliance.Registry, error) {
	reg, err := compliance.NewRegistry()
	if err != nil {
		return nil, err
	}
	if config.RulebookFile != "" {
		if err := reg.LoadFile(config.RulebookFile); err != nil {
			return nil, fmt.Errorf("rulebook file %s: %w", config.RulebookFile, err)
		}
	}
	return reg, nil
}

// NewService wires the service on top of the pool.
//
//nolint:whitespace // editor/linter issue
func NewService(pool *pgxpool.Pool, opts ...service.Option) (
	*service.Service, error,
) {
	reg, err := LoadRulebooks()
	if err != nil {
		return nil, err
	}
	db := bob.NewDB(stdlib.OpenDBFromPool(pool))
	all := append([]service.Option{
		service.WithRulebooks(reg),
		service.WithDefaultRulebook(config.DefaultRulebook),
	}, opts...)
	return service.New(
		bobRepos.NewRepositories(db),
		bobRepos.NewTransactionManager(db),
		all...), nil
}
