// Package geo implements the ports.Geocoder seam against the LocationIQ
// API: forward search for the single best match and the autocomplete
// endpoint for ranked suggestions.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

const (
	defaultTimeout   = 10 * time.Second
	acceptLanguage   = "ru,en"
	suggestLimit     = 7
	suggestCountries = "uz,kz,kg,ru"
)

// Config captures the settings for the LocationIQ client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// searchResult mirrors the LocationIQ response shape. Numeric fields arrive
// as strings.
type searchResult struct {
	PlaceID     string `json:"place_id"`
	OSMType     string `json:"osm_type"`
	OSMID       string `json:"osm_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type suggestResult struct {
	searchResult
	DisplayPlace string `json:"display_place"`
	Address      struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Search returns the single best match for query, with address details and
// a ru/en language bias. A nil match with nil error means zero results.
func (c *Client) Search(ctx context.Context, query string) (*ports.GeoMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("accept-language", acceptLanguage)

	var results []searchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return toMatch(results[0])
}

// Suggest returns up to suggestLimit deduplicated autocomplete matches,
// restricted to the countries this parser operates in.
func (c *Client) Suggest(ctx context.Context, query string) ([]ports.GeoSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(suggestLimit))
	params.Set("dedupe", "1")
	params.Set("countrycodes", suggestCountries)

	var results []suggestResult
	if err := c.get(ctx, "/autocomplete", params, &results); err != nil {
		return nil, err
	}

	suggestions := make([]ports.GeoSuggestion, 0, len(results))
	for _, r := range results {
		match, err := toMatch(r.searchResult)
		if err != nil {
			c.log.Debug().Err(err).Str("place_id", r.PlaceID).Msg("skipping unparseable suggestion")
			continue
		}
		city := r.Address.City
		if city == "" {
			city = r.Address.Town
		}
		if city == "" {
			city = r.Address.Village
		}
		suggestions = append(suggestions, ports.GeoSuggestion{
			GeoMatch:     *match,
			DisplayPlace: r.DisplayPlace,
			City:         city,
			Country:      r.Address.Country,
		})
	}
	return suggestions, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocode call: %w", err)
	}
	defer resp.Body.Close()

	// LocationIQ answers 404 for zero matches; treat it as empty, not as a
	// transport failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("geocode API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode geocode response: %w", err)
	}
	return nil
}

func toMatch(r searchResult) (*ports.GeoMatch, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}
	return &ports.GeoMatch{
		PlaceID:     r.PlaceID,
		OSMType:     r.OSMType,
		OSMID:       r.OSMID,
		Lat:         lat,
		Lon:         lon,
		DisplayName: r.DisplayName,
	}, nil
}
