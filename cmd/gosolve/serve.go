package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolve/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the solver tools over HTTP:

  POST /tool, POST /solve, POST /system, GET /schema, GET /health, GET /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, release, err := newService(ctx)
		if err != nil {
			return err
		}
		defer release()

		logger.Info("starting gosolve", "cache", cfg.Cache.Backend, "solve_timeout", cfg.Server.SolveTimeout)
		if err := server.Run(ctx, cfg.Server.Addr, server.NewHandler(svc, logger), logger); err != nil {
			return err
		}
		logger.Info("gosolve server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
