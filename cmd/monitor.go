package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/agentpay/agentpay/addr"
	"github.com/agentpay/agentpay/monitor"
)

var (
	monitorAddressFlag  string
	monitorIntervalFlag time.Duration
	monitorOutputFlag   string
	monitorWebhookFlag  string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch an address for incoming token payments",
	Long: `Watch an address and report every incoming token transfer as it lands on
chain. Runs until interrupted. Only payments arriving after startup are
reported; use the history command for the backlog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := selectedNetwork()
		if err != nil {
			return err
		}
		address, err := addr.Parse(monitorAddressFlag)
		if err != nil {
			return err
		}

		logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}))

		notifiers := []monitor.Notifier{monitor.NewConsoleNotifier(os.Stdout)}
		if monitorOutputFlag != "" {
			notifiers = append(notifiers, monitor.NewFileNotifier(monitorOutputFlag))
		}
		if monitorWebhookFlag != "" {
			notifiers = append(notifiers, monitor.NewWebhookNotifier(monitorWebhookFlag))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := monitor.New(chainClient(network), network, address, monitorIntervalFlag, logger, notifiers...)
		if err := m.Run(ctx); err != nil {
			return err
		}
		logger.Info("monitor stopped")
		return nil
	},
}

func init() {
	monitorCmd.Flags().StringVar(&monitorAddressFlag, "address", "", "address to watch (required)")
	monitorCmd.Flags().DurationVar(&monitorIntervalFlag, "interval", monitor.DefaultInterval, "polling interval")
	monitorCmd.Flags().StringVar(&monitorOutputFlag, "output", "", "append payments as JSON lines to this file")
	monitorCmd.Flags().StringVar(&monitorWebhookFlag, "webhook", "", "POST each payment as JSON to this URL")
	monitorCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(monitorCmd)
}
