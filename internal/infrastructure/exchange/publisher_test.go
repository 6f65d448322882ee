package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

type stubCargoAPI struct {
	nextID    int64
	createErr map[string]error
	created   []string
	deleted   []int64
	deleteErr error
}

func (s *stubCargoAPI) CreateCargo(ctx context.Context, load *domain.Load) (int64, error) {
	if err := s.createErr[load.ID]; err != nil {
		return 0, err
	}
	s.created = append(s.created, load.ID)
	s.nextID++
	return s.nextID, nil
}

func (s *stubCargoAPI) DeleteCargo(ctx context.Context, exchangeID int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, exchangeID)
	return nil
}

type stubPublishRepo struct {
	unpublished []*domain.Load
	published   []*domain.Load
	set         map[string]int64
	cleared     []string
	setErr      error
}

func (s *stubPublishRepo) InsertMany(ctx context.Context, loads []*domain.Load) error { return nil }
func (s *stubPublishRepo) List(ctx context.Context) ([]*domain.Load, error)           { return nil, nil }

func (s *stubPublishRepo) ListUnpublished(ctx context.Context) ([]*domain.Load, error) {
	return s.unpublished, nil
}

func (s *stubPublishRepo) ListPublished(ctx context.Context) ([]*domain.Load, error) {
	return s.published, nil
}

func (s *stubPublishRepo) SetExchangeID(ctx context.Context, id string, exchangeID int64) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.set == nil {
		s.set = make(map[string]int64)
	}
	s.set[id] = exchangeID
	return nil
}

func (s *stubPublishRepo) ClearExchangeID(ctx context.Context, id string) error {
	s.cleared = append(s.cleared, id)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestPublishAllRecordsExchangeIDs(t *testing.T) {
	repo := &stubPublishRepo{unpublished: []*domain.Load{{ID: "a"}, {ID: "b"}}}
	api := &stubCargoAPI{}
	pub := NewPublisher(api, repo, zerolog.Nop())

	summary, err := pub.PublishAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 2 {
		t.Errorf("expected total 2, got %d", summary.Total)
	}
	if len(api.created) != 2 {
		t.Fatalf("expected 2 creates, got %d", len(api.created))
	}
	if repo.set["a"] != 1 || repo.set["b"] != 2 {
		t.Errorf("exchange ids not recorded: %v", repo.set)
	}
	for _, r := range summary.Results {
		if !r.Success {
			t.Errorf("expected success for %s, got %+v", r.LoadID, r)
		}
	}
}

func TestPublishAllCollectsPerLoadFailures(t *testing.T) {
	repo := &stubPublishRepo{unpublished: []*domain.Load{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	api := &stubCargoAPI{createErr: map[string]error{"b": errors.New("422 invalid points")}}
	pub := NewPublisher(api, repo, zerolog.Nop())

	summary, err := pub.PublishAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.created) != 2 {
		t.Errorf("failing load must not stop the run, created %v", api.created)
	}

	var failed *ports.PublishResult
	for i := range summary.Results {
		if summary.Results[i].LoadID == "b" {
			failed = &summary.Results[i]
		}
	}
	if failed == nil || failed.Success || failed.Error == "" {
		t.Errorf("expected recorded failure for b, got %+v", summary.Results)
	}
}

func TestPublishAllSetFailureReported(t *testing.T) {
	repo := &stubPublishRepo{
		unpublished: []*domain.Load{{ID: "a"}},
		setErr:      errors.New("mongo down"),
	}
	api := &stubCargoAPI{}
	pub := NewPublisher(api, repo, zerolog.Nop())

	summary, err := pub.PublishAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Results) != 1 || summary.Results[0].Success {
		t.Fatalf("untracked order must be reported as failure: %+v", summary.Results)
	}
	if summary.Results[0].ExchangeID != 1 {
		t.Errorf("the remote order id should still be surfaced, got %+v", summary.Results[0])
	}
}

func TestUnpublishAllClearsMarks(t *testing.T) {
	repo := &stubPublishRepo{published: []*domain.Load{
		{ID: "a", ExchangeID: int64Ptr(10)},
		{ID: "b", ExchangeID: int64Ptr(11)},
	}}
	api := &stubCargoAPI{}
	pub := NewPublisher(api, repo, zerolog.Nop())

	summary, err := pub.UnpublishAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.deleted) != 2 || api.deleted[0] != 10 || api.deleted[1] != 11 {
		t.Errorf("unexpected deletes: %v", api.deleted)
	}
	if len(repo.cleared) != 2 {
		t.Errorf("expected both marks cleared, got %v", repo.cleared)
	}
	if summary.Total != 2 {
		t.Errorf("expected total 2, got %d", summary.Total)
	}
}

func TestUnpublishAllKeepsMarkOnDeleteFailure(t *testing.T) {
	repo := &stubPublishRepo{published: []*domain.Load{{ID: "a", ExchangeID: int64Ptr(10)}}}
	api := &stubCargoAPI{deleteErr: errors.New("exchange down")}
	pub := NewPublisher(api, repo, zerolog.Nop())

	summary, err := pub.UnpublishAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.cleared) != 0 {
		t.Error("mark must stay when the remote delete failed")
	}
	if summary.Results[0].Success {
		t.Errorf("expected failure result, got %+v", summary.Results[0])
	}
}
