//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/racemetrics/pkg/db/migrate"
	database "github.com/mpapenbr/racemetrics/pkg/db/postgres"
)

// SetupTestDB returns a pool to the migrated database of the test container.
func SetupTestDB() *pgxpool.Pool {
	dbURL, err := StartPostgres(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	return migrateAndConnect(dbURL)
}

// SetupExternalTestDB uses the database referenced by TESTDB_URL
func SetupExternalTestDB() *pgxpool.Pool {
	return migrateAndConnect(os.Getenv("TESTDB_URL"))
}

func migrateAndConnect(dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearRecommendationTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from recommendation")
}

func ClearSetupTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from car_setup")
}

func ClearSessionTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from performance_data")
	pool.Exec(context.Background(), "delete from session")
}

func ClearMetricTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from metric")
	pool.Exec(context.Background(), "delete from metric_category")
}

func ClearCarTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from car")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearRecommendationTable(pool)
	ClearSetupTable(pool)
	ClearSessionTable(pool)
	ClearMetricTable(pool)
	ClearCarTable(pool)
}
