package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

// routingCompleter answers extraction and location-normalization calls with
// separate scripts, keyed on the instruction block.
type routingCompleter struct {
	extractReply  string
	extractErr    error
	locationReply string
	locationErr   error
}

func (r *routingCompleter) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	if req.Instruction == locationInstruction {
		return r.locationReply, r.locationErr
	}
	return r.extractReply, r.extractErr
}

func newTestPipeline(completer ports.Completer, geo ports.Geocoder) *Pipeline {
	return NewPipeline(
		NewExtractor(completer, time.Second, nopLogger),
		fixedNormalizer(),
		NewValidator(),
		NewEnricher(completer, geo, time.Second, nopLogger),
		nopLogger,
	)
}

func inbound(text string) ports.InboundMessage {
	return ports.InboundMessage{ChatID: -100123, MessageID: 42, Text: text, Timestamp: time.Now()}
}

const twoLoadReply = `[
  {"price": null, "price_notes": {"cargo": "CARGO1", "phone": "", "notes": ""},
   "points": [
     {"location_name": "A", "type": 1,
      "cargos": [{"cargo_volume": null, "cargo_weight": null, "cargo_weight_type": 1, "type_cargo_id": 1}]},
     {"location_name": "B", "type": 2, "cargos": []}]},
  {"price": null, "price_notes": {"cargo": "CARGO2", "phone": "", "notes": ""},
   "points": [
     {"location_name": "C", "type": 1,
      "cargos": [{"cargo_volume": null, "cargo_weight": null, "cargo_weight_type": 1, "type_cargo_id": 1}]},
     {"location_name": "D", "type": 2, "cargos": []}]}
]`

func TestProcess_SegmentsMultiLoadMessage(t *testing.T) {
	completer := &routingCompleter{extractReply: twoLoadReply, locationErr: errors.New("offline")}
	p := newTestPipeline(completer, &stubGeocoder{})

	result, err := p.Process(context.Background(), inbound("A - B\nCARGO1\n\nC - D\nCARGO2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Loads) != 2 {
		t.Fatalf("expected 2 loads, got %d", len(result.Loads))
	}

	first, second := result.Loads[0], result.Loads[1]
	if first.Points[0].LocationName != "A" || first.Points[1].LocationName != "B" {
		t.Errorf("first route = %s -> %s, want A -> B", first.Points[0].LocationName, first.Points[1].LocationName)
	}
	if second.Points[0].LocationName != "C" || second.Points[1].LocationName != "D" {
		t.Errorf("second route = %s -> %s, want C -> D", second.Points[0].LocationName, second.Points[1].LocationName)
	}
	if first.PriceNotes.Cargo != "CARGO1" || second.PriceNotes.Cargo != "CARGO2" {
		t.Errorf("cargo notes = %q, %q", first.PriceNotes.Cargo, second.PriceNotes.Cargo)
	}
}

func TestProcess_FixedWorkingHours(t *testing.T) {
	// The source message mentions times; they must never survive.
	reply := `{"price_notes": {"cargo": "", "phone": "", "notes": "погрузка в 06:00"},
  "points": [
    {"location_name": "A", "type": 1, "time_start": "06:00:00", "time_end": "22:00:00",
     "cargos": [{"cargo_volume": null, "cargo_weight": null, "cargo_weight_type": 1, "type_cargo_id": 1}]},
    {"location_name": "B", "type": 2, "time_start": "05:00:00", "time_end": "21:00:00", "cargos": []}]}`
	completer := &routingCompleter{extractReply: reply, locationErr: errors.New("offline")}
	p := newTestPipeline(completer, &stubGeocoder{})

	result, err := p.Process(context.Background(), inbound("A - B, погрузка в 06:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, point := range result.Loads[0].Points {
		if point.TimeStart != domain.TimeStart || point.TimeEnd != domain.TimeEnd {
			t.Errorf("point times %q-%q, want fixed %q-%q", point.TimeStart, point.TimeEnd, domain.TimeStart, domain.TimeEnd)
		}
	}
}

func TestProcess_MalformedReplyYieldsNothing(t *testing.T) {
	completer := &routingCompleter{extractReply: "sorry, I cannot help"}
	p := newTestPipeline(completer, &stubGeocoder{})

	result, err := p.Process(context.Background(), inbound("whatever"))
	if !errors.Is(err, domain.ErrMalformedExtractionResponse) {
		t.Fatalf("expected ErrMalformedExtractionResponse, got %v", err)
	}
	if result != nil {
		t.Errorf("no partial output allowed, got %+v", result)
	}
}

func TestProcess_RejectionDoesNotAffectSiblings(t *testing.T) {
	// First candidate carries an out-of-range body code, second is fine.
	reply := `[
  {"type_body_id": 99, "price_notes": {"cargo": "", "phone": "", "notes": ""},
   "points": [
     {"location_name": "A", "type": 1, "cargos": [{"cargo_weight_type": 1, "type_cargo_id": 1}]},
     {"location_name": "B", "type": 2, "cargos": []}]},
  {"type_body_id": 7, "price_notes": {"cargo": "", "phone": "", "notes": ""},
   "points": [
     {"location_name": "C", "type": 1, "cargos": [{"cargo_weight_type": 1, "type_cargo_id": 1}]},
     {"location_name": "D", "type": 2, "cargos": []}]}
]`
	completer := &routingCompleter{extractReply: reply, locationErr: errors.New("offline")}
	p := newTestPipeline(completer, &stubGeocoder{})

	result, err := p.Process(context.Background(), inbound("two loads"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Loads) != 1 {
		t.Fatalf("expected 1 surviving load, got %d", len(result.Loads))
	}
	if result.Loads[0].Points[0].LocationName != "C" {
		t.Errorf("wrong survivor: %s", result.Loads[0].Points[0].LocationName)
	}
	if len(result.Rejections) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(result.Rejections))
	}
	if result.Rejections[0].Index != 0 || result.Rejections[0].Reason != domain.RejectUnknownBodyType {
		t.Errorf("rejection = %+v", result.Rejections[0])
	}
}

func TestProcess_AllRejectedSignalsNoValidRecords(t *testing.T) {
	reply := `{"price_notes": {"cargo": "", "phone": "", "notes": ""},
  "points": [
    {"location_name": "", "type": 1, "cargos": []},
    {"location_name": "", "type": 2, "cargos": []}]}`
	completer := &routingCompleter{extractReply: reply}
	p := newTestPipeline(completer, &stubGeocoder{})

	result, err := p.Process(context.Background(), inbound("noise"))
	if !errors.Is(err, domain.ErrNoValidRecords) {
		t.Fatalf("expected ErrNoValidRecords, got %v", err)
	}
	if result == nil || len(result.Rejections) != 1 {
		t.Fatalf("rejection reasons must be retained, got %+v", result)
	}
}

func TestProcess_EnrichmentDegradationKeepsLoadEligible(t *testing.T) {
	completer := &routingCompleter{extractReply: twoLoadReply, locationReply: "Nowhere"}
	p := newTestPipeline(completer, &stubGeocoder{match: nil})

	result, err := p.Process(context.Background(), inbound("A - B\n\nC - D"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, load := range result.Loads {
		for _, point := range load.Points {
			if point.Latitude != nil || point.Longitude != nil || point.LocationID != nil {
				t.Errorf("unresolved point must keep nil coordinates: %+v", point)
			}
		}
	}
}

func TestProcess_EnrichmentFillsCoordinates(t *testing.T) {
	completer := &routingCompleter{extractReply: twoLoadReply, locationReply: "Tashkent"}
	p := newTestPipeline(completer, &stubGeocoder{match: tashkentMatch})

	result, err := p.Process(context.Background(), inbound("A - B\n\nC - D"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	point := result.Loads[0].Points[0]
	if point.LocationID == nil || *point.LocationID != "RELATION2221016" {
		t.Errorf("location id = %v", point.LocationID)
	}
	if point.LocationName != "Tashkent, Uzbekistan" {
		t.Errorf("location name = %q, want geocoder display name", point.LocationName)
	}
}

func TestProcess_StampsSource(t *testing.T) {
	completer := &routingCompleter{extractReply: twoLoadReply, locationErr: errors.New("offline")}
	p := newTestPipeline(completer, &stubGeocoder{})

	msg := inbound("A - B\n\nC - D")
	result, err := p.Process(context.Background(), msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, load := range result.Loads {
		if load.SourceChatID != msg.ChatID || load.SourceMessageID != msg.MessageID {
			t.Errorf("source not stamped: %+v", load)
		}
		if load.CreatedAt.IsZero() {
			t.Error("CreatedAt must be set on admission")
		}
	}
}
