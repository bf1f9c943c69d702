package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/adapters/http/middleware"
	"github.com/motivationapp/motivation-service/internal/domain"
)

// ReminderHandler serves reminder preferences, scheduling and the device
// notification permission.
type ReminderHandler struct {
	reminders Reminders
}

// NewReminderHandler creates a reminder handler.
func NewReminderHandler(reminders Reminders) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// GetPreferences handles GET /reminders/preferences.
func (h *ReminderHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.reminders.Preferences(c.Request.Context(), middleware.GetDeviceID(c))
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferencesResponse(prefs))
}

// PutPreferences handles PUT /reminders/preferences. It saves without
// rescheduling.
func (h *ReminderHandler) PutPreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	prefs, err := req.ToDomain()
	if err == nil {
		err = h.reminders.SavePreferences(c.Request.Context(), middleware.GetDeviceID(c), prefs)
	}

	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferencesResponse(prefs))
}

// Schedule handles POST /reminders/schedule. Without a body it schedules
// the saved preferences.
func (h *ReminderHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if c.Request.ContentLength != 0 {
		if err := dto.BindAndValidate(c, &req); err != nil && !errors.Is(err, io.EOF) {
			dto.RespondWithBindError(c, err)
			return
		}
	}

	var prefs *domain.ReminderPreferences

	if req.Preferences != nil {
		p, err := req.Preferences.ToDomain()
		if err != nil {
			dto.RespondWithError(c, err)
			return
		}

		prefs = &p
	}

	result, err := h.reminders.Schedule(c.Request.Context(), middleware.GetDeviceID(c), prefs)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleResponse(result))
}

// Disable handles DELETE /reminders/schedule.
func (h *ReminderHandler) Disable(c *gin.Context) {
	status, err := h.reminders.Disable(c.Request.Context(), middleware.GetDeviceID(c))
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusResponse(status))
}

// Status handles GET /reminders/status.
func (h *ReminderHandler) Status(c *gin.Context) {
	status, err := h.reminders.Status(c.Request.Context(), middleware.GetDeviceID(c))
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusResponse(status))
}

// Pending handles GET /reminders/pending.
func (h *ReminderHandler) Pending(c *gin.Context) {
	pending, err := h.reminders.Pending(c.Request.Context(), middleware.GetDeviceID(c))
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPendingResponse(pending))
}

// PutPermission handles PUT /notifications/permission, where the device
// reports the answer to the OS permission prompt.
func (h *ReminderHandler) PutPermission(c *gin.Context) {
	var req dto.PermissionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	status := domain.PermissionStatus(req.Status)
	if err := h.reminders.RecordPermission(c.Request.Context(), middleware.GetDeviceID(c), status); err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes mounts the reminder and notification routes.
func (h *ReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reminders := rg.Group("/reminders")
	reminders.GET("/preferences", h.GetPreferences)
	reminders.PUT("/preferences", h.PutPreferences)
	reminders.POST("/schedule", h.Schedule)
	reminders.DELETE("/schedule", h.Disable)
	reminders.GET("/status", h.Status)
	reminders.GET("/pending", h.Pending)

	rg.PUT("/notifications/permission", h.PutPermission)
}
