// AngelaMos | 2026
// testdb.go

//go:build integration

// Package testdb starts a throwaway Postgres container with the schema
// applied, for repository tests run with -tags integration.
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/migrations"
)

// New returns a migrated database. The container is terminated when the
// test finishes.
func New(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("diary"),
		postgres.WithUsername("diary"),
		postgres.WithPassword("diary"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	m, err := migrations.Open(url, nil)
	if err != nil {
		t.Fatalf("open migrator: %v", err)
	}
	if err := m.Up(); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	_ = m.Close() //nolint:errcheck // dedicated handle

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}

// InsertUser creates an active member whose id, email and username all
// derive from name.
func InsertUser(t *testing.T, db *sqlx.DB, name string) string {
	t.Helper()

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO users (id, email, password_hash, username)
		VALUES ($1, $2, 'x', $1)`,
		name, fmt.Sprintf("%s@example.com", name),
	)
	if err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return name
}

// SetStatus changes a user's account status.
func SetStatus(t *testing.T, db *sqlx.DB, id, status string) {
	t.Helper()

	if _, err := db.ExecContext(context.Background(),
		`UPDATE users SET status = $2 WHERE id = $1`, id, status); err != nil {
		t.Fatalf("set status %s: %v", id, err)
	}
}
