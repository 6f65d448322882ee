// Package exchange pushes stored loads to the partner cargo exchange and
// withdraws them again. The exchange's cargo schema is almost the stored
// one; the differences live in outboundLoad.
package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// Config captures the settings for the exchange client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// outboundLoad is the exchange's cargo schema. Unlike the stored load,
// price_notes collapses to the contact phone, and a load without a price
// goes out as an inquiry rate.
type outboundLoad struct {
	WhenDate        string         `json:"when_date"`
	Price           *float64       `json:"price"`
	PriceCurrencyID int            `json:"price_currency_id"`
	RateType        int            `json:"rate_type"`
	TypeDay         int            `json:"type_day"`
	WhenType        int            `json:"when_type"`
	TypeBodyID      *int           `json:"type_body_id"`
	PriceNotes      string         `json:"price_notes"`
	Points          []domain.Point `json:"points"`
}

func toOutbound(l *domain.Load) outboundLoad {
	rateType := l.RateType
	if l.Price == nil {
		rateType = domain.RateInquiry
	}
	return outboundLoad{
		WhenDate:        l.WhenDate,
		Price:           l.Price,
		PriceCurrencyID: l.PriceCurrencyID,
		RateType:        rateType,
		TypeDay:         l.TypeDay,
		WhenType:        l.WhenType,
		TypeBodyID:      l.TypeBodyID,
		PriceNotes:      l.PriceNotes.Phone,
		Points:          l.Points,
	}
}

type createResponse struct {
	ID   int64 `json:"id"`
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// CreateCargo posts one load to the exchange and returns the created order
// id.
func (c *Client) CreateCargo(ctx context.Context, load *domain.Load) (int64, error) {
	payload, err := json.Marshal(toOutbound(load))
	if err != nil {
		return 0, fmt.Errorf("marshal load: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create-cargo", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("create cargo: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("exchange API status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed createResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	id := parsed.ID
	if id == 0 {
		id = parsed.Data.ID
	}
	if id == 0 {
		return 0, fmt.Errorf("exchange response carries no order id: %s", strings.TrimSpace(string(raw)))
	}
	return id, nil
}

// DeleteCargo withdraws a previously created order.
func (c *Client) DeleteCargo(ctx context.Context, exchangeID int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/delete-cargo/%d", c.baseURL, exchangeID), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete cargo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("exchange API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}
