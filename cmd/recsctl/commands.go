package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/bootstrap"
	"github.com/tbourn/go-recs-backend/internal/config"
	"github.com/tbourn/go-recs-backend/internal/repo"
	"github.com/tbourn/go-recs-backend/internal/services"
	"github.com/tbourn/go-recs-backend/internal/sysutil"
)

var version = "dev"

// errSomeFailed is returned by generate --all when at least one user failed.
var errSomeFailed = errors.New("generation failed for some users")

// generator is the part of services.RecommendationService the batch needs.
type generator interface {
	Generate(ctx context.Context, userID string, force bool) (*services.GenerateResult, error)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recsctl",
		Short:         "Operate the course recommendation service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("db", "", "SQLite path (overrides DB_PATH)")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "recsctl", version)
			},
		},
		newMigrateCmd(),
		newGenerateCmd(),
		newPurgeCmd(),
	)
	return root
}

// loadConfig reads the environment and applies the --db override.
func loadConfig(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	logger := sysutil.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	return cfg, logger, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := bootstrap.OpenDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			logger.Info().Str("db", cfg.DBPath).Msg("schema migrated")
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-idempotency",
		Short: "Delete expired idempotency keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := bootstrap.OpenDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			n, err := services.NewIdempotencyService(db, cfg.IdempotencyTTL).Purge(cmd.Context(), time.Now().UTC())
			if err != nil {
				return err
			}
			logger.Info().Int64("purged", n).Msg("expired idempotency keys removed")
			fmt.Fprintf(cmd.OutOrStdout(), "purged=%d\n", n)
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		userID string
		all    bool
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate recommendations for one user or for every known user",
		Example: "  recsctl generate --user-id user123 --force\n" +
			"  recsctl generate --all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (userID == "") == !all {
				return errors.New("exactly one of --user-id and --all is required")
			}
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := bootstrap.OpenDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			rt, err := bootstrap.Build(cmd.Context(), db, cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			users := []string{userID}
			if all {
				if users, err = repo.ListKnownUserIDs(cmd.Context(), db); err != nil {
					return fmt.Errorf("list users: %w", err)
				}
			}
			return generateFor(cmd.Context(), rt.Services.Recommendations, users, force, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "generate for this user")
	cmd.Flags().BoolVar(&all, "all", false, "generate for every user with interactions or enrollments")
	cmd.Flags().BoolVar(&force, "force", false, "replace batches that are still active")
	return cmd
}

// generateFor runs Generate for each user in turn. A failing user is logged
// and counted; the batch carries on and reports errSomeFailed at the end.
func generateFor(ctx context.Context, gen generator, users []string, force bool, out io.Writer, logger zerolog.Logger) error {
	start := time.Now()
	var regenerated, unchanged, failed int
	for _, uid := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := gen.Generate(ctx, uid, force)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("user_id", uid).Msg("generate failed")
			continue
		}
		if res.Regenerated {
			regenerated++
		} else {
			unchanged++
		}
		logger.Debug().
			Str("user_id", uid).
			Int("count", len(res.Items)).
			Bool("regenerated", res.Regenerated).
			Msg("generated")
	}

	fmt.Fprintf(out, "users=%d regenerated=%d unchanged=%d failed=%d took=%s\n",
		len(users), regenerated, unchanged, failed, time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSomeFailed, failed, len(users))
	}
	return nil
}
