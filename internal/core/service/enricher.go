package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/core/domain"
	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

const (
	normalizeTemperature = 0.0
	normalizeMaxTokens   = 32
	defaultEnrichTimeout = 10 * time.Second
)

// Enricher resolves a free-text location name to coordinates and a stable
// place identifier using a two-stage strategy: an LLM pass strips decoration
// and produces a standard English exonym, then the geocoder searches for it.
//
// Every failure mode degrades: a failed normalization falls back to the raw
// name, and a failed or empty geocode leaves the point untouched. Enrichment
// never blocks admission.
type Enricher struct {
	completer ports.Completer
	geocoder  ports.Geocoder
	timeout   time.Duration
	log       zerolog.Logger
}

func NewEnricher(completer ports.Completer, geocoder ports.Geocoder, timeout time.Duration, log zerolog.Logger) *Enricher {
	if timeout <= 0 {
		timeout = defaultEnrichTimeout
	}
	return &Enricher{completer: completer, geocoder: geocoder, timeout: timeout, log: log}
}

// EnrichPoint fills the point's coordinates, location id, and canonical name
// from the best geocoding match. On any lookup failure the point is left
// as-is and processing continues.
func (e *Enricher) EnrichPoint(ctx context.Context, p *domain.Point) {
	name := strings.TrimSpace(p.LocationName)
	if name == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	query := e.normalizeName(ctx, name)

	match, err := e.geocoder.Search(ctx, query)
	if err != nil {
		e.log.Warn().Err(err).Str("location", name).Msg("geocode lookup failed")
		return
	}
	if match == nil {
		e.log.Debug().Str("location", name).Str("query", query).Msg("no geocode match")
		return
	}

	lat, lon := match.Lat, match.Lon
	id := locationID(match)
	p.Latitude = &lat
	p.Longitude = &lon
	p.LocationID = &id
	// The geocoder's display name, not the LLM's guess, becomes the stored
	// name so future lookups hit the same canonical form.
	if match.DisplayName != "" {
		p.LocationName = match.DisplayName
	}
}

// normalizeName runs the LLM normalization stage. The reply is expected to
// be a single line; a failed call or an empty reply falls back to the input.
func (e *Enricher) normalizeName(ctx context.Context, name string) string {
	reply, err := e.completer.Complete(ctx, ports.CompletionRequest{
		Instruction: locationInstruction,
		Input:       name,
		Temperature: normalizeTemperature,
		MaxTokens:   normalizeMaxTokens,
	})
	if err != nil {
		e.log.Warn().Err(err).Str("location", name).Msg("location normalization failed")
		return name
	}
	normalized := strings.TrimSpace(strings.SplitN(reply, "\n", 2)[0])
	if normalized == "" {
		return name
	}
	e.log.Debug().Str("from", name).Str("to", normalized).Msg("location normalized")
	return normalized
}

// locationID builds a compact stable key from the geocoder's entity kind and
// numeric id. The kind prefix keeps keys distinct across entity kinds whose
// numeric ids collide (OSM nodes vs ways vs relations).
func locationID(m *ports.GeoMatch) string {
	return strings.ToUpper(m.OSMType) + m.OSMID
}
