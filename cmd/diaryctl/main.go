// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "diaryctl",
	Short: "Operator tooling for the diary service",
	Long: `diaryctl runs maintenance tasks against the diary service database.

Commands:
  migrate      - Apply, roll back or inspect schema migrations
  gen-keys     - Generate the ES256 key pair used to sign access tokens
  create-admin - Create an administrator account
  seed-cards   - Insert or update fortune cards from a JSON file`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	return config.Load(path)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// withDatabase loads config, opens the pool and hands both to fn.
func withDatabase(
	ctx context.Context,
	fn func(cfg *config.Config, db *core.Database) error,
) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	return fn(cfg, db)
}
