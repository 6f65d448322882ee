package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shohjahon1code/telegram-parser/internal/api/metrics"
	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

// Pipeline sequences extract → normalize → validate → enrich for one inbound
// message. Each Process call owns its candidate set end to end; concurrent
// calls share no mutable state.
type Pipeline struct {
	extractor  *Extractor
	normalizer *Normalizer
	validator  *Validator
	enricher   *Enricher
	log        zerolog.Logger
}

func NewPipeline(extractor *Extractor, normalizer *Normalizer, validator *Validator, enricher *Enricher, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		normalizer: normalizer,
		validator:  validator,
		enricher:   enricher,
		log:        log,
	}
}

// Process turns one raw message into the accepted load set.
//
// Only extraction can fail the whole message. Validation drops individual
// candidates (reasons retained in the result); enrichment degrades per
// point. When every candidate is dropped, the result is returned alongside
// domain.ErrNoValidRecords so the caller can tell "nothing usable" apart
// from "extraction broke".
func (p *Pipeline) Process(ctx context.Context, msg ports.InboundMessage) (*ports.ProcessResult, error) {
	started := time.Now()

	candidates, err := p.extractor.Extract(ctx, msg.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoExtractionResult):
			metrics.ExtractionFailuresTotal.WithLabelValues("empty").Inc()
		default:
			metrics.ExtractionFailuresTotal.WithLabelValues("malformed").Inc()
		}
		return nil, err
	}

	result := &ports.ProcessResult{}
	for i, candidate := range candidates {
		if candidate == nil {
			candidate = &domain.Load{}
		}
		load := p.normalizer.Normalize(candidate)

		// Structural checks are cheap and local; run them before spending
		// remote lookups on a candidate that cannot be admitted anyway.
		reason, ok := p.validator.Validate(load)
		if !ok {
			p.log.Info().Int("candidate", i).Str("reason", string(reason)).Msg("candidate rejected")
			metrics.RecordsRejectedTotal.WithLabelValues(string(reason)).Inc()
			result.Rejections = append(result.Rejections, ports.Rejection{Index: i, Reason: reason})
			continue
		}

		p.enrichPoints(ctx, load)

		load.SourceChatID = msg.ChatID
		load.SourceMessageID = msg.MessageID
		load.CreatedAt = time.Now().UTC()

		metrics.RecordsAdmittedTotal.Inc()
		result.Loads = append(result.Loads, load)
	}

	metrics.PipelineDuration.Observe(time.Since(started).Seconds())

	if len(result.Loads) == 0 {
		return result, domain.ErrNoValidRecords
	}
	return result, nil
}

// enrichPoints resolves both points concurrently. The two lookups are
// independent remote calls; a failure on either side leaves that point with
// nil coordinates and never fails the load.
func (p *Pipeline) enrichPoints(ctx context.Context, load *domain.Load) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range load.Points {
		point := &load.Points[i]
		g.Go(func() error {
			p.enricher.EnrichPoint(gctx, point)
			return nil
		})
	}
	_ = g.Wait()

	for i := range load.Points {
		outcome := "resolved"
		if load.Points[i].LocationID == nil {
			outcome = "unresolved"
		}
		metrics.EnrichmentLookupsTotal.WithLabelValues(outcome).Inc()
	}
}
