// AngelaMos | 2026
// keys.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/auth"
)

var (
	privateKeyPath string
	publicKeyPath  string
	overwriteKeys  bool
)

var genKeysCmd = &cobra.Command{
	Use:   "gen-keys",
	Short: "Generate an ES256 key pair for access tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !overwriteKeys {
			for _, path := range []string{privateKeyPath, publicKeyPath} {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, pass --force to replace it", path)
				}
			}
		}

		for _, path := range []string{privateKeyPath, publicKeyPath} {
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("create key directory: %w", err)
			}
		}

		if err := auth.GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privateKeyPath, publicKeyPath)
		return nil
	},
}

func init() {
	genKeysCmd.Flags().StringVar(&privateKeyPath, "private", "keys/private.pem", "private key output path")
	genKeysCmd.Flags().StringVar(&publicKeyPath, "public", "keys/public.pem", "public key output path")
	genKeysCmd.Flags().BoolVar(&overwriteKeys, "force", false, "replace existing key files")

	rootCmd.AddCommand(genKeysCmd)
}
