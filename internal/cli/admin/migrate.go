package admin

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/veldtlabs/docvault/internal/config"
	"github.com/veldtlabs/docvault/internal/repository"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  "Apply pending schema migrations and exit",
		RunE:  runMigrate,
	}

	cmd.Flags().String("migrations", "migrations", "Path to the migrations directory")

	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	migrationsDir, _ := cmd.Flags().GetString("migrations")
	if err := repository.Migrate(cfg.DatabaseURL, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("migrations applied")
	return nil
}
