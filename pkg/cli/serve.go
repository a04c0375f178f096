package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskmatrix/pkg/controller/http"
	"github.com/secmon-lab/riskmatrix/pkg/service/worker"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
	"github.com/secmon-lab/riskmatrix/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var reassessInterval time.Duration
	var scoringCfg config.Scoring
	var repoCfg config.Repository
	var storageCfg config.Storage
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKMATRIX_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "reassess-interval",
			Usage:       "Interval of the background reassessment of all risks (0 disables it)",
			Value:       15 * time.Minute,
			Sources:     cli.EnvVars("RISKMATRIX_REASSESS_INTERVAL"),
			Destination: &reassessInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, scoringCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			scoring, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring configuration")
			}

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			store, closeStore, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize evidence storage")
			}
			defer closeStore()

			m := metrics.New()
			ucOpts := []usecase.Option{
				usecase.WithScoringConfig(scoring),
				usecase.WithMetrics(m),
			}
			if store != nil {
				ucOpts = append(ucOpts, usecase.WithEvidenceStorage(store))
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack critical risk alerts enabled", "slack", slackCfg)
			} else {
				logging.Default().Info("Slack not configured, critical risk alerts are disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			var reassessWorker *worker.ReassessmentWorker
			if reassessInterval > 0 {
				reassessWorker = worker.NewReassessmentWorker(uc.Risk, reassessInterval)
				if err := reassessWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start reassessment worker")
				}
			}

			server := &http.Server{
				Addr: addr,
				Handler: httpctrl.New(uc,
					httpctrl.WithMetrics(m),
					httpctrl.WithSentry(sentryCfg.Enabled()),
				),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			var stopWorker func()
			if reassessWorker != nil {
				stopWorker = reassessWorker.Stop
			}

			logging.Default().Info("Starting HTTP server", "addr", addr, "scoring", scoringCfg.Path())
			return runServer(server, sigCh, stopWorker)
		},
	}
}

// runServer serves until the server fails or a signal arrives. stop, when
// set, runs on both paths once the server is no longer accepting requests.
func runServer(server *http.Server, sigCh <-chan os.Signal, stop func()) error {
	if stop != nil {
		defer stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Default().Info("Received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}

		logging.Default().Info("Server shutdown completed")
		return nil
	}
}
