package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srg/hrmon/internal/transport/goble"
	"github.com/srg/hrmon/monitor"
	"github.com/srg/hrmon/pkg/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd runs the monitor directly; there are no subcommands or positional
// arguments.
var rootCmd = &cobra.Command{
	Use:   "hrmon",
	Short: "Stream heart rate values from a BLE heart rate monitor",
	Long: `Streams heart rate values from a supported BLE heart rate monitor.

Scans for the first supported device, connects, subscribes to the standard
Heart Rate Measurement characteristic (2A37) and prints each decoded value
(beats per minute) to stdout, one per line. Lost connections are retried
until the stream completes cleanly or the process is interrupted.

Exits silently when no supported monitor can be found; raise --log-level to
see discovery and transport diagnostics on stderr.`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE:    runMonitor,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ctrl+C is a normal exit, not an error - exit silently
		if errors.Is(err, context.Canceled) {
			return
		}
		os.Exit(1)
	}
}

func init() {
	// Values go to stdout, diagnostics to the logging sink - keep cobra quiet.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg := config.DefaultConfig()

	logger, err := configureLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := monitor.NewFactory(goble.NewManager(logger), cfg, logger)
	session, err := factory.Detect(ctx)
	if err != nil {
		// Resolution failure exits with no output; the discovery layer has
		// already reported per-candidate errors to the sink.
		logger.WithError(err).Error("Monitor detection failed")
		return nil
	}

	for value := range session.Start(ctx) {
		fmt.Println(value)
	}
	return nil
}
