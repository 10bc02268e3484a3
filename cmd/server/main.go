// Command server runs a single matching venue behind an HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"matchvenue/internal/api"
	"matchvenue/internal/clock"
	"matchvenue/internal/dispatch"
	"matchvenue/internal/engine"
	"matchvenue/internal/idalloc"
	"matchvenue/internal/metrics"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matchvenue",
		Short: "Single-venue limit order book matching engine",
	}
	cmd.AddCommand(serveCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		listenAddr    string
		logLevel      string
		idStrategy    string
		idStart       uint64
		orderCapacity int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the matching engine and its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			var allocator idalloc.Allocator
			switch idStrategy {
			case "sequential":
				allocator = idalloc.NewSequential(idStart)
			case "uuid":
				allocator = idalloc.NewUUIDBased()
			default:
				logger.Fatal().Str("strategy", idStrategy).Msg("unknown id allocator strategy")
			}

			collector := metrics.NewCollector(prometheus.DefaultRegisterer)
			eng := engine.New(orderCapacity, clock.Monotonic(), logger, collector)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d := dispatch.New(ctx, logger)
			defer func() {
				if err := d.Shutdown(); err != nil {
					logger.Error().Err(err).Msg("dispatcher shutdown")
				}
			}()

			srv := api.New(listenAddr, eng, d, allocator, logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run()
			}()

			select {
			case <-ctx.Done():
				logger.Info().Msg("shutting down")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zerolog level (debug, info, warn, error)")
	cmd.Flags().StringVar(&idStrategy, "id-strategy", "sequential", "order id allocator: sequential or uuid")
	cmd.Flags().Uint64Var(&idStart, "id-start", 0, "starting value for the sequential id allocator")
	cmd.Flags().IntVar(&orderCapacity, "order-capacity", 1<<16, "initial capacity hint for the order index")

	return cmd
}
