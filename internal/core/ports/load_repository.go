package ports

import (
	"context"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

// LoadRepository defines persistence operations for extracted loads.
type LoadRepository interface {
	// InsertMany stores a batch of accepted loads from one message.
	InsertMany(ctx context.Context, loads []*domain.Load) error
	// List returns every stored load, newest first.
	List(ctx context.Context) ([]*domain.Load, error)
	// ListUnpublished returns loads without an exchange order, oldest first.
	ListUnpublished(ctx context.Context) ([]*domain.Load, error)
	// ListPublished returns loads that carry an exchange order id.
	ListPublished(ctx context.Context) ([]*domain.Load, error)
	// SetExchangeID records the exchange order created for a load.
	SetExchangeID(ctx context.Context, id string, exchangeID int64) error
	// ClearExchangeID removes the exchange order mark from a load.
	ClearExchangeID(ctx context.Context, id string) error
}
