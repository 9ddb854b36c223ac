package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/adscout/adscout/internal/poll"
)

func dashboardCmd() *cobra.Command {
	var (
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your dashboard stats",
		Long: "Show aggregate stats for the authenticated user's listings.\n" +
			"With --watch the stats are refreshed on the configured interval\n" +
			"until interrupted.",
		Example: `  adscout dashboard
  adscout dashboard --watch
  adscout dashboard --watch --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := newClient(cfg)

			refresh := func(ctx context.Context) error {
				stats, err := client.DashboardStats(ctx)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(stats)
				}
				return printDashboardStats(stats)
			}

			if !watch {
				return refresh(cmd.Context())
			}

			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}

			log := newLogger(cfg)
			refresher, err := poll.NewRefresher(func(ctx context.Context) error {
				if err := refresh(ctx); err != nil {
					return err
				}
				fmt.Println()
				return nil
			}, cfg.Dashboard.PollInterval, poll.WithRefresherLogger(log))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := refresher.Start(); err != nil {
				return err
			}
			<-ctx.Done()
			refresher.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "refresh on the configured interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address while watching")

	return cmd
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintln(os.Stderr, "metrics server:", err)
	}
}
