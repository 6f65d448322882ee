package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

type LocationHandler struct {
	geocoder ports.Geocoder
}

func NewLocationHandler(geocoder ports.Geocoder) *LocationHandler {
	return &LocationHandler{geocoder: geocoder}
}

type suggestionResponse struct {
	PlaceID      string  `json:"place_id"`
	OSMType      string  `json:"osm_type"`
	OSMID        string  `json:"osm_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	DisplayName  string  `json:"display_name"`
	DisplayPlace string  `json:"display_place"`
	City         string  `json:"city,omitempty"`
	Country      string  `json:"country,omitempty"`
}

type suggestListResponse struct {
	Total       int                  `json:"total"`
	Suggestions []suggestionResponse `json:"suggestions"`
}

// Suggest returns ranked place suggestions for a free-text query.
//
// @Summary      Autocomplete place names
// @Tags         locations
// @Produce      json
// @Param        q  query     string  true  "partial place name"
// @Success      200  {object}  suggestListResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/locations/suggest [get]
func (h *LocationHandler) Suggest(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	suggestions, err := h.geocoder.Suggest(c.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := suggestListResponse{
		Total:       len(suggestions),
		Suggestions: make([]suggestionResponse, 0, len(suggestions)),
	}
	for _, s := range suggestions {
		resp.Suggestions = append(resp.Suggestions, suggestionResponse{
			PlaceID:      s.PlaceID,
			OSMType:      s.OSMType,
			OSMID:        s.OSMID,
			Lat:          s.Lat,
			Lon:          s.Lon,
			DisplayName:  s.DisplayName,
			DisplayPlace: s.DisplayPlace,
			City:         s.City,
			Country:      s.Country,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
