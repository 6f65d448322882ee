package ports

import "context"

// PublishResult reports the outcome for one load in a publish or unpublish
// run.
type PublishResult struct {
	LoadID     string `json:"load_id"`
	ExchangeID int64  `json:"exchange_id,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// PublishSummary aggregates one publish or unpublish run.
type PublishSummary struct {
	Total   int             `json:"total"`
	Results []PublishResult `json:"results"`
}

// LoadPublisher pushes stored loads to the partner exchange and withdraws
// them again. One load failing never aborts a run; per-load outcomes are
// collected into the summary.
type LoadPublisher interface {
	PublishAll(ctx context.Context) (*PublishSummary, error)
	UnpublishAll(ctx context.Context) (*PublishSummary, error)
}
