// salesboard serves the retail sales dashboard over HTTP and exports it to xlsx.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/salesboard/salesboard/internal/core/config"
	"github.com/salesboard/salesboard/internal/export"
	"github.com/salesboard/salesboard/internal/server"
	"github.com/spf13/cobra"
)

var (
	// Flags
	configPath string
	outPath    string
)

var rootCmd = &cobra.Command{
	Use:   "salesboard",
	Short: "Retail sales dashboard",
	Long: `salesboard loads the configured sales sources once, aggregates them in
memory and serves the dashboard tabs as JSON, PNG charts and an xlsx export.

Every config key can be overridden from the environment with the SALESBOARD_
prefix, using __ for nesting (SALESBOARD_SERVER__PORT=9090).`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the sales table and serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := corecfg.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		slog.Info("Loaded config", "sources", len(cfg.Sources), "panels", len(cfg.PanelLoading.Panels))

		app, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		// Warm the loader so a broken source fails startup instead of the first request.
		if _, err := app.loader.Table(ctx); err != nil {
			return fmt.Errorf("failed to load sales data: %w", err)
		}

		srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), app.loader, cfg.Server.Mode)
		app.dashboard.RegisterRoutes(srv.Engine)

		// HTTP server blocks until ctx is cancelled.
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}

		slog.Info("Shutdown complete")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the overview and insights tabs to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := corecfg.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		app, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		sheets, err := app.dashboard.Workbook(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		if err := export.Write(f, sheets); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		slog.Info("Workbook written", "path", outPath, "sheets", len(sheets))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "salesboard.yaml", "Path to configuration file")
	exportCmd.Flags().StringVar(&outPath, "out", "salesboard.xlsx", "Output workbook path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("salesboard failed", "error", err)
		os.Exit(1)
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
