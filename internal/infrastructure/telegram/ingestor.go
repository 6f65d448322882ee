package telegram

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/api/metrics"
	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

// Deduper answers whether a message body has already been processed.
// The Redis-backed checker satisfies it.
type Deduper interface {
	IsDuplicate(ctx context.Context, text string) (bool, error)
	Mark(ctx context.Context, text string) error
}

// Ingestor is the worker-side consumer: it runs one message through dedup,
// the extraction pipeline, and storage.
type Ingestor struct {
	dedup     Deduper
	processor ports.MessageProcessor
	repo      ports.LoadRepository
	log       zerolog.Logger
}

func NewIngestor(dedup Deduper, processor ports.MessageProcessor, repo ports.LoadRepository, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		dedup:     dedup,
		processor: processor,
		repo:      repo,
		log:       log,
	}
}

// Consume handles one inbound message. Duplicates and extraction failures
// end the message without storage; a dedup backend failure is treated as
// not-a-duplicate so an outage never silences the feed.
func (i *Ingestor) Consume(ctx context.Context, msg ports.InboundMessage) error {
	dup, err := i.dedup.IsDuplicate(ctx, msg.Text)
	if err != nil {
		i.log.Warn().Err(err).Msg("dedup check failed, processing anyway")
	}
	if dup {
		metrics.MessagesProcessedTotal.WithLabelValues("duplicate").Inc()
		i.log.Debug().
			Int64("chat_id", msg.ChatID).
			Int64("message_id", msg.MessageID).
			Msg("duplicate message skipped")
		return nil
	}

	result, err := i.processor.Process(ctx, msg)
	switch {
	case errors.Is(err, domain.ErrNoValidRecords):
		metrics.MessagesProcessedTotal.WithLabelValues("no_valid_records").Inc()
		i.markSeen(ctx, msg.Text)
		i.log.Info().
			Int64("chat_id", msg.ChatID).
			Int64("message_id", msg.MessageID).
			Int("rejected", len(result.Rejections)).
			Msg("message produced no valid records")
		return nil
	case err != nil:
		metrics.MessagesProcessedTotal.WithLabelValues("extraction_failed").Inc()
		i.markSeen(ctx, msg.Text)
		return err
	}

	if err := i.repo.InsertMany(ctx, result.Loads); err != nil {
		// Not marked seen: a retried forward of the same text gets another
		// chance at storage.
		metrics.MessagesProcessedTotal.WithLabelValues("storage_failed").Inc()
		return err
	}

	metrics.MessagesProcessedTotal.WithLabelValues("admitted").Inc()
	i.markSeen(ctx, msg.Text)
	i.log.Info().
		Int64("chat_id", msg.ChatID).
		Int64("message_id", msg.MessageID).
		Int("loads", len(result.Loads)).
		Int("rejected", len(result.Rejections)).
		Msg("message admitted")
	return nil
}

func (i *Ingestor) markSeen(ctx context.Context, text string) {
	if err := i.dedup.Mark(ctx, text); err != nil {
		i.log.Warn().Err(err).Msg("dedup mark failed")
	}
}
