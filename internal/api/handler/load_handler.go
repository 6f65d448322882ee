package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shohjahon1code/telegram-parser/internal/core/ports"
)

type LoadHandler struct {
	repo      ports.LoadRepository
	publisher ports.LoadPublisher
}

func NewLoadHandler(repo ports.LoadRepository, publisher ports.LoadPublisher) *LoadHandler {
	return &LoadHandler{repo: repo, publisher: publisher}
}

// List returns every stored load, newest first.
//
// @Summary      List extracted loads
// @Tags         loads
// @Produce      json
// @Success      200  {object}  loadListResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/loads [get]
func (h *LoadHandler) List(c echo.Context) error {
	loads, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLoadListResponse(loads))
}

// Publish pushes all unpublished loads to the cargo exchange.
//
// @Summary      Publish loads to the exchange
// @Tags         loads
// @Produce      json
// @Success      200  {object}  ports.PublishSummary
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/loads/publish [post]
func (h *LoadHandler) Publish(c echo.Context) error {
	summary, err := h.publisher.PublishAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Unpublish withdraws all published loads from the cargo exchange.
//
// @Summary      Withdraw loads from the exchange
// @Tags         loads
// @Produce      json
// @Success      200  {object}  ports.PublishSummary
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/loads/unpublish [post]
func (h *LoadHandler) Unpublish(c echo.Context) error {
	summary, err := h.publisher.UnpublishAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
