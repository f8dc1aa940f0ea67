package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	dsnFlag        = "dsn"
	migrationsFlag = "migrations"

	defaultMigrationsPath = "./migrations"
)

func main() {
	dsn, migrationsPath := getFlagsValues()
	validateFlags(dsn)
	applyMigrations(dsn, migrationsPath)
}

type migrateLogger struct {
	logger *slog.Logger
}

func newMigrateLogger() migrateLogger {
	return migrateLogger{logger: slog.Default()}
}

func (ml migrateLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml migrateLogger) Verbose() bool { return true }

func getFlagsValues() (dsn, migrations string) {
	dsnP := pflag.StringP(
		dsnFlag, "d", "", "database connection string, user:pass@host:port/db",
	)
	migrationsP := pflag.StringP(
		migrationsFlag, "m", defaultMigrationsPath, "path to migration files",
	)
	pflag.Parse()
	return *dsnP, *migrationsP
}

func validateFlags(dsn string) {
	if dsn == "" {
		slog.Error("too few args",
			"err", fmt.Errorf("--%s flag: required", dsnFlag))
		fallDown()
	}
}

func applyMigrations(dsn, migrationsPath string) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("pgx5://%s", dsn),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = newMigrateLogger()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migrations applied")
}

func fallDown() {
	os.Exit(2)
}
