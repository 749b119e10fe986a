package main

import (
	"context"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	_ "github.com/nadzzz/deskpilot/docs"
	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/dispatch"
	"github.com/nadzzz/deskpilot/internal/health"
	"github.com/nadzzz/deskpilot/internal/transport"
	grpctransport "github.com/nadzzz/deskpilot/internal/transport/grpc"
	httptransport "github.com/nadzzz/deskpilot/internal/transport/http"
	mqtttransport "github.com/nadzzz/deskpilot/internal/transport/mqtt"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the command daemon",
	Long: `serve starts every enabled transport (HTTP, gRPC, MQTT) and the health
server, and blocks until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		config.SetupLogging(cfg.Logging)
		slog.Info("deskpilot starting", "version", version)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	classifier, err := newClassifier(ctx, cfg.Classifier)
	if err != nil {
		return err
	}
	defer classifier.Close()

	interp, err := newInterpreter(cfg)
	if err != nil {
		return err
	}

	synth, err := newSynthesizer(cfg.TTS)
	if err != nil {
		return err
	}
	if synth != nil {
		defer synth.Close()
	}

	dispatcher := dispatch.New(classifier, interp, synth)
	transports := newTransports(cfg.Transports)

	healthServer := health.New(cfg.Server.HealthPort)
	healthServer.SetDetail("classifier", classifier.Name())
	healthServer.SetDetail("workdir", interp.Workdir().Get())
	vol, bright := interp.Devices()
	healthServer.SetDetail("volume", vol.Name())
	healthServer.SetDetail("brightness", bright.Name())
	names := make([]string, 0, len(transports))
	for _, t := range transports {
		names = append(names, t.Name())
	}
	healthServer.SetDetail("transports", strings.Join(names, ","))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthServer.ListenAndServe(ctx)
	})
	for _, t := range transports {
		g.Go(func() error {
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, dispatcher); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
				return err
			}
			return nil
		})
	}

	healthServer.SetReady(true)
	slog.Info("deskpilot ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	<-ctx.Done()
	healthServer.SetReady(false)
	slog.Info("shutdown signal received, draining...")

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	err = g.Wait()
	slog.Info("deskpilot stopped")
	return err
}

func newTransports(cfg config.TransportsConfig) []transport.Transport {
	var transports []transport.Transport
	if cfg.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.HTTP))
	}
	if cfg.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.GRPC))
	}
	if cfg.MQTT.Enabled {
		transports = append(transports, mqtttransport.New(cfg.MQTT))
	}
	return transports
}
