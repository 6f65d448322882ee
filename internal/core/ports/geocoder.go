package ports

import "context"

// GeoMatch is the single best geocoding match for a place query.
type GeoMatch struct {
	PlaceID     string
	OSMType     string
	OSMID       string
	Lat         float64
	Lon         float64
	DisplayName string
}

// GeoSuggestion is one ranked autocomplete match. Address fields are only
// populated by the autocomplete endpoint.
type GeoSuggestion struct {
	GeoMatch
	DisplayPlace string
	City         string
	Country      string
}

// Geocoder resolves free-text place names against a geocoding service.
//
// Search is the primary lookup: exactly one best match with address details,
// language-biased. Suggest is the autocomplete variant used for ranked
// suggestions, restricted to the countries this parser operates in. Both
// return a nil/empty result with a nil error on zero matches; transport
// failures are returned as errors and the caller degrades.
type Geocoder interface {
	Search(ctx context.Context, query string) (*GeoMatch, error)
	Suggest(ctx context.Context, query string) ([]GeoSuggestion, error)
}
