package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/paperless-date-normalizer/internal/config"
	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
	"github.com/kirillkom/paperless-date-normalizer/internal/core/ports"
	"github.com/kirillkom/paperless-date-normalizer/internal/core/usecase"
	"github.com/kirillkom/paperless-date-normalizer/internal/infrastructure/paperless"
	"github.com/kirillkom/paperless-date-normalizer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/paperless-date-normalizer/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.RunMetrics

	NormalizeUC ports.DocumentNormalizer

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	runMetrics := metrics.NewRunMetrics()

	api := paperless.NewWithOptions(cfg.APIURL, cfg.APIToken, paperless.Options{
		Timeout:  cfg.HTTPTimeout,
		Observer: runMetrics.ObserveRequest,
	})

	var (
		publisher ports.EventPublisher = nats.Noop{}
		closeFn                        = func() {}
	)
	if cfg.NATSURL != "" {
		queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		publisher = queue
		closeFn = queue.Close
	}

	return &App{
		Config:      cfg,
		Metrics:     runMetrics,
		NormalizeUC: usecase.NewNormalizeDocumentUseCase(api, publisher, cfg.DryRun),
		closeFn:     closeFn,
	}, nil
}

// Run normalizes the configured document once and pushes run metrics when a
// Pushgateway is configured.
func (a *App) Run(ctx context.Context) (domain.NormalizeResult, error) {
	started := time.Now()
	result, err := a.NormalizeUC.NormalizeByID(ctx, a.Config.DocumentID)

	outcome := result.Outcome
	if err != nil {
		outcome = domain.OutcomeFailed
	}
	a.Metrics.FinishRun(string(outcome), time.Since(started))

	if a.Config.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if pushErr := a.Metrics.Push(pushCtx, a.Config.PushgatewayURL, a.Config.DocumentID); pushErr != nil {
			slog.Warn("metrics_push", "error", pushErr)
		}
	}
	return result, err
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
