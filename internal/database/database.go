package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okhotnik/minesweeper-agent/internal/config"
)

func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.NewPgxpoolConfig()
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

func Migrate(migrations fs.FS) error {
	url, err := config.DbURL()
	if err != nil {
		return err
	}
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("unable to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func ConnectAndMigrate(ctx context.Context, migrations fs.FS) (*pgxpool.Pool, error) {
	conn, err := Connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := Migrate(migrations); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
