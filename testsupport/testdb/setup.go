package testdb

import (
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/mpapenbr/racemetrics/testsupport/tcpostgres"
)

var (
	once sync.Once
	pool *pgxpool.Pool
)

// InitTestDB returns a pool to the migrated test database with all tables
// cleared. The pool is shared by the tests of a package.
// Set TESTDB_URL to use an existing database instead of a container.
func InitTestDB() *pgxpool.Pool {
	once.Do(func() {
		if os.Getenv("TESTDB_URL") != "" {
			pool = tcpg.SetupExternalTestDB()
		} else {
			pool = tcpg.SetupTestDB()
		}
	})
	tcpg.ClearAllTables(pool)
	return pool
}
