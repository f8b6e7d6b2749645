// AngelaMos | 2026
// admin.go

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/auth"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/user"
)

const adminPasswordEnv = "DIARY_ADMIN_PASSWORD"

var (
	adminEmail    string
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account.

The password is read from --password or, when omitted, from the
DIARY_ADMIN_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := adminPassword
		if password == "" {
			password = os.Getenv(adminPasswordEnv)
		}

		req := auth.RegisterRequest{
			Email:    adminEmail,
			Password: password,
			Username: adminUsername,
		}
		if err := core.NewValidator().Struct(req); err != nil {
			return errors.New(core.FormatValidationError(err))
		}
		if err := core.CheckPasswordStrength(password); err != nil {
			return errors.New("password must contain a letter and a digit")
		}

		hash, err := core.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		return withDatabase(cmd.Context(), func(cfg *config.Config, db *core.Database) error {
			ids, err := core.NewIDGenerator(cfg.IDs)
			if err != nil {
				return err
			}

			svc := user.NewService(user.NewRepository(db.DB), ids)
			admin, err := svc.CreateAdmin(cmd.Context(), req.Email, hash, req.Username)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Username, admin.ID)
			return nil
		})
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("email")    //nolint:errcheck // flag is defined above
	_ = createAdminCmd.MarkFlagRequired("username") //nolint:errcheck // flag is defined above

	rootCmd.AddCommand(createAdminCmd)
}
