package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bzzzm/ghiseul-monitor/internal/browser"
	"github.com/bzzzm/ghiseul-monitor/internal/config"
	"github.com/bzzzm/ghiseul-monitor/internal/monitor"
	"github.com/bzzzm/ghiseul-monitor/internal/observability"
	"github.com/bzzzm/ghiseul-monitor/internal/server"
	"github.com/bzzzm/ghiseul-monitor/internal/status"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Starts the monitor loop and the status endpoint",
		// Bind flags to their corresponding Viper keys here so that
		// command-line flags correctly override values from the config file
		// and environment variables.
		PreRunE: func(cmd *cobra.Command, args []string) error {
			bindings := map[string]string{
				"monitor.username":       "username",
				"monitor.password":       "password",
				"monitor.institution":    "institution",
				"monitor.refresh":        "refresh",
				"monitor.render_timeout": "timeout",
				"browser.persistent":     "persistent-driver",
				"browser.data_dir":       "driver-dir",
				"web.host":               "web-host",
				"web.port":               "web-port",
				"web.endpoint":           "web-endpoint",
			}
			for key, flag := range bindings {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger.Info("Starting monitor",
				zap.String("institution", cfg.Monitor.Institution),
				zap.Duration("refresh", cfg.Monitor.Refresh),
				zap.Bool("persistent_driver", cfg.Browser.Persistent),
				zap.String("listen", cfg.Web.Addr()),
				zap.String("endpoint", cfg.Web.Endpoint),
			)

			store := status.NewStore()

			factory := func(ctx context.Context) (monitor.Session, error) {
				return browser.NewSession(ctx, cfg.Browser, cfg.Monitor.RenderTimeout, logger)
			}
			life := monitor.NewLifecycle(cfg.Browser.Persistent, factory, logger)

			engine := monitor.NewEngine(cfg.Monitor, life, store, logger)
			srv := server.NewServer(cfg.Web, store, logger)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return engine.Run(gctx) })
			g.Go(func() error { return srv.Run(gctx) })

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Monitor stopped with error", zap.Error(err))
				return err
			}

			logger.Info("Monitor stopped")
			return nil
		},
	}

	runCmd.Flags().StringP("username", "u", "", "ghiseul.ro account username. (Overrides config/env)")
	runCmd.Flags().StringP("password", "p", "", "ghiseul.ro account password. (Overrides config/env)")
	runCmd.Flags().StringP("institution", "i", "", "Institution identifier to monitor. (Overrides config/env)")
	runCmd.Flags().Duration("refresh", 10*time.Minute, "Interval between monitor cycles.")
	runCmd.Flags().Duration("timeout", 30*time.Second, "Maximum time to wait for a page element to render.")
	runCmd.Flags().Bool("persistent-driver", true, "Reuse one browser instance across cycles.")
	runCmd.Flags().String("driver-dir", "/tmp/chrome", "Chrome user data directory.")
	runCmd.Flags().String("web-host", "0.0.0.0", "Status endpoint listen host.")
	runCmd.Flags().Int("web-port", 8080, "Status endpoint listen port.")
	runCmd.Flags().String("web-endpoint", "/monitor", "Status endpoint path.")

	return runCmd
}
