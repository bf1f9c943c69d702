package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/adapters/http/middleware"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// QuoteHandler serves the quote feeds.
type QuoteHandler struct {
	feed QuoteFeed
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(feed QuoteFeed) *QuoteHandler {
	return &QuoteHandler{feed: feed}
}

// List handles GET /quotes?feed=app|widget. Fallback quotes are a 200
// with "fallback": true, never an error.
func (h *QuoteHandler) List(c *gin.Context) {
	var q dto.QuotesQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	feed := ports.FeedApp
	if q.Feed != "" {
		feed = ports.Feed(q.Feed)
	}

	result, err := h.feed.Fetch(c.Request.Context(), middleware.GetDeviceID(c), feed)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQuotesResponse(result))
}

// RegisterRoutes mounts the quote routes.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotes", h.List)
}
