package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sheetboard/internal/app"
	"sheetboard/internal/core/config"
	"sheetboard/internal/service"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sheetboard-admin",
	Short:         "Operator commands for sheetboard",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(blockCmd(true))
	rootCmd.AddCommand(blockCmd(false))
	rootCmd.AddCommand(deleteUserCmd)
}

// boot loads config and opens stores the same way the API does, then calls fn.
func boot(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	_ = godotenv.Load()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// migrations only run through the migrate command
	cfg.DB.AutoMigrate = false
	log, cleanup := app.NewLogger(cfg.Log)
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()
	infra, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := infra.Close(context.Background()); err != nil {
			log.Warn("infra close", zap.Error(err))
		}
	}()
	a, err := app.New(cfg, log, infra)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables (SQL) or indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return boot(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Infra.Stores.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		})
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return boot(cmd, func(ctx context.Context, a *app.App) error {
			users, err := a.Admin.Users(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tBLOCKED\tPLAN\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
					u.ID, u.Email, u.Name, u.Role, u.Blocked, u.Plan.ID, u.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		})
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Per-user file counts and storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return boot(cmd, func(ctx context.Context, a *app.App) error {
			rows, err := a.Admin.Analytics(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tFILES\tSIZE\tLAST LOGIN")
			for _, r := range rows {
				last := "-"
				if r.LastLogin != nil {
					last = r.LastLogin.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Email, r.FileCount, r.TotalFileSize, last)
			}
			return tw.Flush()
		})
	},
}

func blockCmd(block bool) *cobra.Command {
	use, short, raw := "unblock <id>", "Allow a blocked user back in", "false"
	if block {
		use, short, raw = "block <id>", "Block a user from signing in", "true"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return boot(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Admin.BlockUser(ctx, args[0], service.BlockInput{Block: []byte(raw)})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s blocked=%t\n", u.Email, u.Blocked)
				return nil
			})
		},
	}
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <id>",
	Short: "Delete a user and every file they own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return boot(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Admin.DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s and their files deleted\n", args[0])
			return nil
		})
	},
}
