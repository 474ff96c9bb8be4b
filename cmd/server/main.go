package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "trellix/docs"
	"trellix/internal/config"
	"trellix/internal/migrations"
	"trellix/internal/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// @title           Trellix API
// @version         1.0
// @description     Kanban boards with intent-tagged mutations.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Trellix API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	cmd.AddCommand(newServeCmd(), newMigrateCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			server.ConfigureLogging(log.StandardLogger(), cfg.LogLevel, cfg.LogFormat)
			if args[0] == "down" {
				return migrations.Down(cfg.MigrateURL())
			}
			return migrations.Up(cfg.MigrateURL())
		},
	}
}

func serve() error {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.WithError(err).Error("server initialization failed")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}
