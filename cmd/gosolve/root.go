package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/cache"
	"github.com/njchilds90/gosolve/internal/config"
	"github.com/njchilds90/gosolve/internal/logging"
	"github.com/njchilds90/gosolve/internal/service"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gosolve",
	Short: "gosolve solves algebraic equations symbolically",
	Long: `gosolve solves equations, inequalities and small systems for a symbol,
returning exact solutions. Expressions are given as JSON trees.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); cmd.Flags().Changed("log-level") {
			loaded.Log.Level = lvl
		}
		level, err := logging.ParseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(level, loaded.Log.Format, os.Stderr)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "gosolve.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

// newService wires the configured solver, cache and logger. The returned
// func releases the cache.
func newService(ctx context.Context) (*service.Service, func(), error) {
	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	solver := gosolve.NewSolver(cfg.SolverOptions(logger)...)
	svc := service.New(solver,
		service.WithCache(c),
		service.WithLogger(logger),
		service.WithTimeout(cfg.Server.SolveTimeout),
	)
	release := func() {
		if err := c.Close(); err != nil {
			logger.Warn("cache close failed", "error", err)
		}
	}
	return svc, release, nil
}

// callTool runs one request through a fresh service and prints the response.
func callTool(cmd *cobra.Command, req gosolve.ToolRequest) error {
	format, _ := cmd.Flags().GetString("format")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := newService(ctx)
	if err != nil {
		return err
	}
	defer release()

	resp, err := svc.Call(ctx, req)
	if err != nil {
		return err
	}
	if err := render(cmd.OutOrStdout(), req.Tool, resp, format); err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("%s failed", req.Tool)
	}
	return nil
}
