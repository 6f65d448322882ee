package exchange

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/api/metrics"
	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

// CargoAPI is the slice of the exchange client the publisher needs.
type CargoAPI interface {
	CreateCargo(ctx context.Context, load *domain.Load) (int64, error)
	DeleteCargo(ctx context.Context, exchangeID int64) error
}

// Publisher implements ports.LoadPublisher against the exchange client.
type Publisher struct {
	api  CargoAPI
	repo ports.LoadRepository
	log  zerolog.Logger
}

func NewPublisher(api CargoAPI, repo ports.LoadRepository, log zerolog.Logger) *Publisher {
	return &Publisher{api: api, repo: repo, log: log}
}

// PublishAll pushes every unpublished load and records the created order
// ids. One load failing never stops the run.
func (p *Publisher) PublishAll(ctx context.Context) (*ports.PublishSummary, error) {
	loads, err := p.repo.ListUnpublished(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ports.PublishSummary{Total: len(loads), Results: make([]ports.PublishResult, 0, len(loads))}
	for _, load := range loads {
		exchangeID, err := p.api.CreateCargo(ctx, load)
		if err != nil {
			metrics.PublishResultsTotal.WithLabelValues("error").Inc()
			p.log.Error().Err(err).Str("load_id", load.ID).Msg("publish failed")
			summary.Results = append(summary.Results, ports.PublishResult{LoadID: load.ID, Error: err.Error()})
			continue
		}
		if err := p.repo.SetExchangeID(ctx, load.ID, exchangeID); err != nil {
			// The order exists remotely but is untracked locally; surfaced in
			// the summary for the operator.
			metrics.PublishResultsTotal.WithLabelValues("error").Inc()
			p.log.Error().Err(err).Str("load_id", load.ID).Int64("exchange_id", exchangeID).
				Msg("exchange id not recorded")
			summary.Results = append(summary.Results, ports.PublishResult{LoadID: load.ID, ExchangeID: exchangeID, Error: err.Error()})
			continue
		}
		metrics.PublishResultsTotal.WithLabelValues("ok").Inc()
		summary.Results = append(summary.Results, ports.PublishResult{LoadID: load.ID, ExchangeID: exchangeID, Success: true})
	}
	return summary, nil
}

// UnpublishAll withdraws every published load from the exchange.
func (p *Publisher) UnpublishAll(ctx context.Context) (*ports.PublishSummary, error) {
	loads, err := p.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ports.PublishSummary{Total: len(loads), Results: make([]ports.PublishResult, 0, len(loads))}
	for _, load := range loads {
		if load.ExchangeID == nil {
			continue
		}
		exchangeID := *load.ExchangeID
		if err := p.api.DeleteCargo(ctx, exchangeID); err != nil {
			p.log.Error().Err(err).Str("load_id", load.ID).Int64("exchange_id", exchangeID).
				Msg("unpublish failed")
			summary.Results = append(summary.Results, ports.PublishResult{LoadID: load.ID, ExchangeID: exchangeID, Error: err.Error()})
			continue
		}
		if err := p.repo.ClearExchangeID(ctx, load.ID); err != nil {
			summary.Results = append(summary.Results, ports.PublishResult{LoadID: load.ID, ExchangeID: exchangeID, Error: err.Error()})
			continue
		}
		summary.Results = append(summary.Results, ports.PublishResult{LoadID: load.ID, ExchangeID: exchangeID, Success: true})
	}
	return summary, nil
}

// Run republishes on a fixed interval until ctx is cancelled. Used when the
// deployment wants the exchange kept in sync without operator action.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.PublishAll(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.log.Error().Err(err).Msg("scheduled publish failed")
			}
		}
	}
}
