package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

type stubLoadRepo struct {
	loads []*domain.Load
	err   error
}

func (s *stubLoadRepo) InsertMany(ctx context.Context, loads []*domain.Load) error { return nil }

func (s *stubLoadRepo) List(ctx context.Context) ([]*domain.Load, error) {
	return s.loads, s.err
}

func (s *stubLoadRepo) ListUnpublished(ctx context.Context) ([]*domain.Load, error) {
	return nil, nil
}
func (s *stubLoadRepo) ListPublished(ctx context.Context) ([]*domain.Load, error) { return nil, nil }
func (s *stubLoadRepo) SetExchangeID(ctx context.Context, id string, exchangeID int64) error {
	return nil
}
func (s *stubLoadRepo) ClearExchangeID(ctx context.Context, id string) error { return nil }

type stubPublisher struct {
	summary     *ports.PublishSummary
	err         error
	published   int
	unpublished int
}

func (s *stubPublisher) PublishAll(ctx context.Context) (*ports.PublishSummary, error) {
	s.published++
	return s.summary, s.err
}

func (s *stubPublisher) UnpublishAll(ctx context.Context) (*ports.PublishSummary, error) {
	s.unpublished++
	return s.summary, s.err
}

func storedLoad() *domain.Load {
	price := 300000.0
	return &domain.Load{
		ID:              "load-1",
		Price:           &price,
		PriceCurrencyID: domain.CurrencyRUB,
		RateType:        domain.RateFixed,
		WhenDate:        "2026-03-14",
		PriceNotes:      domain.PriceNotes{Cargo: "ПЛИТКА", Phone: "+79001234567"},
		Points: []domain.Point{
			{LocationName: "Yekaterinburg", Type: domain.PointPickup, Cargos: []domain.Cargo{{}}},
			{LocationName: "Urgench", Type: domain.PointDelivery, Cargos: []domain.Cargo{}},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestLoadHandler_List(t *testing.T) {
	e := echo.New()
	repo := &stubLoadRepo{loads: []*domain.Load{storedLoad()}}
	handler := NewLoadHandler(repo, &stubPublisher{})

	req := httptest.NewRequest(http.MethodGet, "/v1/loads", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) {
		t.Fatalf("expected total 1, got %v", resp["total"])
	}
	loads := resp["loads"].([]any)
	first := loads[0].(map[string]any)
	if first["from"] != "Yekaterinburg" || first["to"] != "Urgench" {
		t.Fatalf("unexpected route: %v -> %v", first["from"], first["to"])
	}
	if first["phone"] != "+79001234567" {
		t.Fatalf("unexpected phone: %v", first["phone"])
	}
}

func TestLoadHandler_List_RepoError(t *testing.T) {
	e := echo.New()
	repo := &stubLoadRepo{err: errors.New("mongo down")}
	handler := NewLoadHandler(repo, &stubPublisher{})

	req := httptest.NewRequest(http.MethodGet, "/v1/loads", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err == nil {
		t.Fatal("expected error to propagate to the error handler")
	}
}

func TestLoadHandler_Publish(t *testing.T) {
	e := echo.New()
	pub := &stubPublisher{summary: &ports.PublishSummary{
		Total:   1,
		Results: []ports.PublishResult{{LoadID: "load-1", ExchangeID: 797, Success: true}},
	}}
	handler := NewLoadHandler(&stubLoadRepo{}, pub)

	req := httptest.NewRequest(http.MethodPost, "/v1/loads/publish", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Publish(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if pub.published != 1 {
		t.Fatalf("expected one publish run, got %d", pub.published)
	}

	var resp ports.PublishSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 1 || !resp.Results[0].Success || resp.Results[0].ExchangeID != 797 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}

func TestLoadHandler_Unpublish(t *testing.T) {
	e := echo.New()
	pub := &stubPublisher{summary: &ports.PublishSummary{Total: 0, Results: []ports.PublishResult{}}}
	handler := NewLoadHandler(&stubLoadRepo{}, pub)

	req := httptest.NewRequest(http.MethodPost, "/v1/loads/unpublish", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Unpublish(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if pub.unpublished != 1 {
		t.Fatalf("expected one unpublish run, got %d", pub.unpublished)
	}
}
