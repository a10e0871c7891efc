package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// Migrator applies the SQL files under migrations/ that define the
// patient session and score history schema.
type Migrator struct {
	m   *migrate.Migrate
	log *logrus.Logger
}

// NewMigrator opens a migrator against databaseURL reading migration
// files from sourcePath.
func NewMigrator(databaseURL, sourcePath string, logger *logrus.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+sourcePath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening migration source %s: %w", sourcePath, err)
	}
	return &Migrator{m: m, log: logger}, nil
}

// Up applies every pending migration. A schema that is already current
// is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Debug("Schema already current")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}
	mg.logVersion("Schema migrated")
	return nil
}

// Down rolls back the most recent migration only; full teardown of a
// database holding patient history is deliberately not exposed.
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Debug("Nothing to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migration: %w", err)
	}
	mg.logVersion("Schema rolled back one step")
	return nil
}

// Version reports the current schema version and whether a failed
// migration left it dirty. A pristine database reports version zero.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		mg.log.WithError(err).Warn("Could not read schema version")
		return
	}
	mg.log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info(msg)
}

// Close releases the migration source and its database handle.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("closing migration source: %w", srcErr)
	}
	return dbErr
}
