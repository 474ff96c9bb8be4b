// Package migrations holds the database schema as versioned SQL files
// baked into the binary and applies them with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var files embed.FS

// Source returns the embedded migrations as a golang-migrate source.
func Source() (source.Driver, error) {
	return iofs.New(files, "sql")
}

// New opens a migrator for databaseURL, a pgx5:// url.
func New(databaseURL string) (*migrate.Migrate, error) {
	src, err := Source()
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open migrator: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations.
func Up(databaseURL string) error {
	return run(databaseURL, "up", (*migrate.Migrate).Up)
}

// Down rolls back every migration.
func Down(databaseURL string) error {
	return run(databaseURL, "down", (*migrate.Migrate).Down)
}

func run(databaseURL, direction string, step func(*migrate.Migrate) error) error {
	m, err := New(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.WithFields(log.Fields{"source": srcErr, "database": dbErr}).Warn("close migrator")
		}
	}()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.WithField("direction", direction).Info("schema already current")
			return nil
		}
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.WithFields(log.Fields{"direction": direction, "version": version, "dirty": dirty}).Info("schema migrated")
	return nil
}
