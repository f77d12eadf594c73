package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/internal/services"
	"github.com/dcodingdev/gearguard/pkg/config"
	"github.com/dcodingdev/gearguard/pkg/database/postgresql"
	"github.com/dcodingdev/gearguard/pkg/service"
	"github.com/dcodingdev/gearguard/seeders"
)

var (
	ok   = color.New(color.FgGreen, color.Bold).SprintFunc()
	fail = color.New(color.FgRed, color.Bold).SprintFunc()
	info = color.New(color.FgCyan).SprintFunc()
)

func main() {
	cfg := config.New()
	logger := zap.NewNop()

	root := &cobra.Command{
		Use:           "seed",
		Short:         "GearGuard database administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(seedCmd(cfg, logger), migrateCmd(cfg, logger), tokenCmd(cfg, logger))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, fail("error:"), err)
		os.Exit(1)
	}
}

func connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	fmt.Println(info("database:"), cfg.Postgres.DSN)
	return postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
}

func seedCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations and optionally load the demo dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrateUp(ctx, pool); err != nil {
				return err
			}
			if !demo {
				fmt.Println(ok("schema ready"), "(pass --demo to load sample data)")
				return nil
			}
			if err := seeders.SeedDemo(ctx, pool); err != nil {
				return err
			}
			fmt.Println(ok("demo data loaded"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "load demo users, teams, equipment and requests")
	return cmd
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := postgresql.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up(ctx)
}

func migrateCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Run schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, err := postgresql.NewMigrator(pool)
			if err != nil {
				return err
			}
			defer migrator.Close()

			switch args[0] {
			case "up":
				err = migrator.Up(ctx)
			case "down":
				err = migrator.Down(ctx)
			default:
				err = migrator.Status(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Println(ok("migrate " + args[0] + " done"))
			return nil
		},
	}
}

func tokenCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := repositories.NewUserRepository(pool, logger).FindByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}
			jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger)
			token, err := jwtSvc.GenerateToken(services.ActorFromUser(user))
			if err != nil {
				return err
			}
			fmt.Println(info("role:"), user.Role, info("ttl:"), jwtSvc.GetAccessTokenTTL())
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
