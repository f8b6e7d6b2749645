// AngelaMos | 2026
// migrations.go

package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator applies the embedded schema to a database opened with the pgx
// stdlib driver.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) (*Migrator, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Open connects a dedicated handle to url and wraps it in a Migrator.
func Open(url string, logger *slog.Logger) (*Migrator, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}

	m, err := New(db, logger)
	if err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on setup failure
		return nil, err
	}

	return m, nil
}

func (g *Migrator) Up() error {
	err := g.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ := g.Version()
	g.logger.Info("migrations applied", "version", version)
	return nil
}

// Down rolls back the given number of steps; steps <= 0 rolls back all.
func (g *Migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = g.m.Steps(-steps)
	} else {
		err = g.m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}

	g.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

// Version reports the applied version. A database with no migrations
// reports 0 and no error.
func (g *Migrator) Version() (uint, bool, error) {
	version, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force marks version as applied and clears the dirty flag.
func (g *Migrator) Force(version int) error {
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("force migration version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the driver. The underlying *sql.DB is
// closed too, so callers should hand in a dedicated handle.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}
