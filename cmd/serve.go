package main

import (
	"context"
	"errors"
	"intake/internal/api"
	"intake/internal/api/handler/v1handler"
	"intake/internal/config"
	"intake/internal/intake"
	"intake/internal/worker"
	"intake/pkg/camera"
	"intake/pkg/catalog"
	"intake/pkg/logger"
	"intake/pkg/metrics"
	"intake/pkg/tone"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// newToneEmitter picks the audio cue player configured for this host.
func newToneEmitter(cfg *config.Config) intake.ToneEmitter {
	switch cfg.Intake.Tone.Mode {
	case "bell":
		return tone.NewBell(os.Stdout)
	case "command":
		return tone.Command{
			Path:       cfg.Intake.Tone.Command,
			Args:       cfg.Intake.Tone.Args,
			SampleRate: cfg.Intake.Tone.SampleRate,
		}
	default:
		return tone.Nop{}
	}
}

// newCameraSource returns nil when no camera is configured, so terminals
// report "no camera found".
func newCameraSource(cfg *config.Config) intake.CameraSource {
	if len(cfg.Camera.Devices) == 0 {
		return nil
	}

	return camera.NewSnapshot(cfg.Camera.Devices,
		camera.WithFPS(cfg.Camera.FPS),
		camera.WithHTTPClient(&http.Client{Timeout: cfg.Camera.FrameTimeout}))
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the intake API server and the catalog refresh worker",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
			if err != nil {
				logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
			}
			instruments, err := metrics.NewIntake(mp.Meter("intake"))
			if err != nil {
				logger.Fatal(ctx, "could not create intake metrics", zap.Error(err))
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			cat := catalog.NewMemory()
			if n, err := cat.Refresh(ctx, strg); err != nil {
				logger.Warn(ctx, "could not load catalog, starting empty", zap.Error(err))
			} else {
				logger.Info(ctx, "catalog loaded", zap.Int("products", n))
			}

			riverClient, err := worker.Start(ctx, strg.Pool, worker.Options{
				MaxWorkers:      cfg.Worker.MaxWorkers,
				RefreshInterval: cfg.Catalog.RefreshInterval,
			}, cat, strg)
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			terminals := intake.NewManager(intake.Deps{
				Catalog: cat,
				Tone:    newToneEmitter(cfg),
				Camera:  newCameraSource(cfg),
				Metrics: instruments,
				Tracer:  otel.Tracer("intake"),
			}, intake.NewTerminalOptions(cfg))

			stopWebserver := setupServer(ctx, cfg, api.Deps{
				Deps: v1handler.Deps{
					Terminals: terminals,
					Products:  strg,
					Jobs:      strg,
					Tx:        strg,
				},
			})

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			terminals.CloseAll()

			logger.Info(shutdownCtx, "stopping workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop workers", zap.Error(err))
			}
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "could not stop meter provider", zap.Error(err))
			}
		},
	}

	return cmd
}
