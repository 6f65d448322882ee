package ports

import (
	"context"
	"time"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

// InboundMessage is one raw chat message handed to the pipeline by the
// transport collaborator.
type InboundMessage struct {
	ChatID    int64
	MessageID int64
	Sender    string
	Text      string
	Timestamp time.Time
}

// Rejection records why one extracted candidate was dropped. Kept in the
// per-message result for observability; dropped candidates never surface to
// storage.
type Rejection struct {
	// Index is the candidate's position in the extraction output.
	Index  int
	Reason domain.RejectReason
}

// ProcessResult is the outcome of running one message through the pipeline.
type ProcessResult struct {
	// Loads is the accepted subset, ready for storage.
	Loads []*domain.Load
	// Rejections holds the structured reasons for every dropped candidate.
	Rejections []Rejection
}

// MessageProcessor turns one raw chat message into zero or more schema-valid
// loads.
//
// The only errors that cross this boundary are
// domain.ErrNoExtractionResult, domain.ErrMalformedExtractionResponse (the
// message is dropped with no partial output) and domain.ErrNoValidRecords
// (every candidate was rejected; the returned result still carries the
// rejection reasons). Enrichment failures never propagate; they degrade to
// nil coordinates.
type MessageProcessor interface {
	Process(ctx context.Context, msg InboundMessage) (*ProcessResult, error)
}

// MessageConsumer handles one inbound chat message end to end: dedup,
// pipeline, persistence. Implementations log and count failures themselves;
// the returned error exists for callers that want to inspect the outcome.
type MessageConsumer interface {
	Consume(ctx context.Context, msg InboundMessage) error
}
