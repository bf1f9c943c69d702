package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/adapters/http/middleware"
)

// WidgetHandler serves widget timelines.
type WidgetHandler struct {
	timelines WidgetTimelines
}

// NewWidgetHandler creates a widget handler.
func NewWidgetHandler(timelines WidgetTimelines) *WidgetHandler {
	return &WidgetHandler{timelines: timelines}
}

// Timeline handles GET /widget/timeline.
func (h *WidgetHandler) Timeline(c *gin.Context) {
	timeline, err := h.timelines.Timeline(c.Request.Context(), middleware.GetDeviceID(c))
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimelineResponse(timeline))
}

// RegisterRoutes mounts the widget routes.
func (h *WidgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/widget/timeline", h.Timeline)
}
