package telegram

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/api/metrics"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// Sink receives accepted messages; the queue dispatcher satisfies it.
type Sink interface {
	Enqueue(msg ports.InboundMessage)
}

// Config drives the listener: which bot to poll, which chats to accept,
// and how aggressively to gate admissions.
type Config struct {
	BotToken     string
	BaseURL      string
	ChatIDs      []int64
	PollInterval time.Duration
	RateLimit    int
	RateWindow   time.Duration
}

// Listener polls getUpdates and forwards channel messages to the sink.
type Listener struct {
	client       *botClient
	sink         Sink
	gate         *rateGate
	chatAllowed  map[int64]bool
	pollInterval time.Duration
	offset       int64
	log          zerolog.Logger
}

func NewListener(cfg Config, sink Sink, log zerolog.Logger) *Listener {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	chatAllowed := make(map[int64]bool, len(cfg.ChatIDs))
	for _, id := range cfg.ChatIDs {
		chatAllowed[id] = true
	}

	return &Listener{
		client:       newBotClient(baseURL, cfg.BotToken),
		sink:         sink,
		gate:         newRateGate(cfg.RateLimit, cfg.RateWindow),
		chatAllowed:  chatAllowed,
		pollInterval: interval,
		log:          log,
	}
}

// Run polls until ctx is cancelled. Poll errors are logged and retried on
// the next tick; the update offset only advances past updates that were
// actually seen, so a transient failure loses nothing.
func (l *Listener) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.poll(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.log.Error().Err(err).Msg("telegram poll failed")
			}
		}
	}
}

func (l *Listener) poll(ctx context.Context) error {
	for {
		resp, err := l.client.getUpdates(ctx, l.offset, 100)
		if err != nil {
			return err
		}
		if len(resp.Result) == 0 {
			return nil
		}

		for _, upd := range resp.Result {
			if upd.UpdateID >= l.offset {
				l.offset = upd.UpdateID + 1
			}
			l.handle(upd)
		}

		if len(resp.Result) < 100 {
			return nil
		}
	}
}

func (l *Listener) handle(upd update) {
	msg := upd.content()
	if msg == nil {
		return
	}
	if len(l.chatAllowed) > 0 && !l.chatAllowed[msg.Chat.ID] {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}

	body := messageBody(msg)
	if strings.TrimSpace(body) == "" {
		return
	}

	if !l.gate.Allow() {
		metrics.MessagesProcessedTotal.WithLabelValues("rate_limited").Inc()
		l.log.Warn().
			Int64("chat_id", msg.Chat.ID).
			Int64("message_id", msg.MessageID).
			Msg("message dropped by rate gate")
		return
	}

	l.sink.Enqueue(ports.InboundMessage{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Sender:    senderName(msg.From),
		Text:      body,
		Timestamp: time.Unix(msg.Date, 0).UTC(),
	})
}
