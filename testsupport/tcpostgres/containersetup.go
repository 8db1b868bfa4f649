package tcpostgres

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage  = "postgres:16-alpine"
	containerName = "racemetrics-test"
	dbUser        = "postgres"
	dbPassword    = "password"
	dbName        = "racemetrics"
)

var pgPort = nat.Port("5432/tcp")

// StartPostgres runs the shared test database container and returns the
// connection url. A running container with the same name is reused.
// Extra options are applied after the defaults.
//
//nolint:whitespace // editor/linter issue
func StartPostgres(ctx context.Context, opts ...testcontainers.ContainerCustomizer) (
	string, error,
) {
	all := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithTmpfs(map[string]string{"/var/lib/postgresql/data": "rw"}),
		testcontainers.WithReuseByName(containerName),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second)),
	}
	ctr, err := postgres.Run(ctx, defaultImage, append(all, opts...)...)
	if err != nil {
		return "", err
	}
	host, err := ctr.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := ctr.MappedPort(ctx, pgPort)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, host, port.Port(), dbName), nil
}
