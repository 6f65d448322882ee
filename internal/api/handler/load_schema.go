package handler

import (
	"time"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

type loadListResponse struct {
	Total int           `json:"total"`
	Loads []loadSummary `json:"loads"`
}

// loadSummary is the list-view projection of a stored load. The full
// document stays in storage; the admin surface only needs the route, the
// price and the publication state.
type loadSummary struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Price      *float64  `json:"price"`
	CurrencyID int       `json:"price_currency_id"`
	RateType   int       `json:"rate_type"`
	WhenDate   string    `json:"when_date"`
	TypeBodyID *int      `json:"type_body_id"`
	Cargo      string    `json:"cargo"`
	Phone      string    `json:"phone"`
	ExchangeID *int64    `json:"exchange_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toLoadListResponse(loads []*domain.Load) loadListResponse {
	out := loadListResponse{Total: len(loads), Loads: make([]loadSummary, 0, len(loads))}
	for _, l := range loads {
		s := loadSummary{
			ID:         l.ID,
			Price:      l.Price,
			CurrencyID: l.PriceCurrencyID,
			RateType:   l.RateType,
			WhenDate:   l.WhenDate,
			TypeBodyID: l.TypeBodyID,
			Cargo:      l.PriceNotes.Cargo,
			Phone:      l.PriceNotes.Phone,
			ExchangeID: l.ExchangeID,
			CreatedAt:  l.CreatedAt,
		}
		if p := l.Pickup(); p != nil {
			s.From = p.LocationName
		}
		if d := l.Delivery(); d != nil {
			s.To = d.LocationName
		}
		out.Loads = append(out.Loads, s)
	}
	return out
}
