package monitor

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/clambin/warmup-bridge/internal/app"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = cobra.Command{
	Use:   "run",
	Short: "Run the bridge for all configured Warmup accounts",
	RunE:  run(viper.GetViper(), prometheus.DefaultRegisterer),
}

func run(v *viper.Viper, registry prometheus.Registerer) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return Run(ctx, v, cmd.Root().Version, registry, slog.Default())
	}
}

// Run creates the application and runs it until ctx is canceled
func Run(ctx context.Context, v *viper.Viper, version string, registry prometheus.Registerer, logger *slog.Logger) error {
	logger.Info("warmup-bridge starting", "version", version)
	defer logger.Info("warmup-bridge stopped")

	a, err := app.New(ctx, v, version, registry, logger)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
