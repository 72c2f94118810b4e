package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ryanolv/doctor-agenda/internal/config"
	"github.com/ryanolv/doctor-agenda/internal/repository/postgres"
	"github.com/ryanolv/doctor-agenda/pkg/auth"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Administrative commands for doctor-agenda",
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openMigrator(dir string) (*postgres.Migrator, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewMigrator(db, dir), func() { db.Close() }, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			migrator, closeDB, err := openMigrator(dir)
			if err != nil {
				return err
			}
			defer closeDB()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s).\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			migrator, closeDB, err := openMigrator(dir)
			if err != nil {
				return err
			}
			defer closeDB()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			for _, s := range statuses {
				applied := "pending"
				if s.AppliedAt != nil {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%03d  %-30s %s\n", s.Version, s.Name, applied)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// tokenCmd issues a bearer token for local testing against the API.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("user")
			userID, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			token, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.TokenTTL()).GenerateAccessToken(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("user", "", "User id (UUID) to put in the token")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
