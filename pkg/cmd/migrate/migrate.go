package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/cmd/common"
	"github.com/mpapenbr/racemetrics/pkg/config"
	dbmigrate "github.com/mpapenbr/racemetrics/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		Long: `Applies the database migrations. By default the migrations built into
the binary are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migration-source-url",
		"m",
		"",
		"url to external migration files (e.g. file:///migrations)")

	return cmd
}

func startMigration(_ context.Context) error {
	common.SetupLogging()
	common.WaitForServices()

	if config.MigrationSourceURL == "" {
		log.Info("Using embedded migrations")
		if err := dbmigrate.MigrateDB(config.DB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("Database is up to date")
		return nil
	}

	log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
	m, err := migrate.New(config.MigrationSourceURL, prepareURLForDB(config.DB))
	if err != nil {
		return fmt.Errorf("could not create migration: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No Migration required")
		return nil
	}
	return err
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	}
	return fmt.Sprintf("%s?%s", url, options)
}
