package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
)

const (
	// DefaultDeviceHeader scopes a request to one device.
	DefaultDeviceHeader = "X-Device-ID"

	// ContextKeyDeviceID is the gin key of the device ID.
	ContextKeyDeviceID = "device_id"

	maxDeviceIDLength = 128
)

// DeviceConfig configures the device middleware.
type DeviceConfig struct {
	// Header defaults to DefaultDeviceHeader.
	Header string

	// RequireUUID rejects ids that do not parse as UUIDs.
	RequireUUID bool
}

// RequireDevice rejects requests without a device header with 400. Every
// preference, history and reminder is keyed by the device, so the API
// group is useless without one.
func RequireDevice(cfg DeviceConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultDeviceHeader
	}

	return func(c *gin.Context) {
		id := c.GetHeader(header)

		switch {
		case id == "":
			dto.AbortWithErrorCode(c, dto.ErrorCodeBadRequest, header+" header is required")
			return
		case len(id) > maxDeviceIDLength:
			dto.AbortWithErrorCode(c, dto.ErrorCodeBadRequest, header+" header is too long")
			return
		case cfg.RequireUUID && uuid.Validate(id) != nil:
			dto.AbortWithErrorCode(c, dto.ErrorCodeBadRequest, header+" header must be a UUID")
			return
		}

		c.Set(ContextKeyDeviceID, id)

		ctx := logging.WithDeviceID(ContextWithDeviceID(c.Request.Context(), id), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetDeviceID returns the device ID set by RequireDevice, or "".
func GetDeviceID(c *gin.Context) string {
	return c.GetString(ContextKeyDeviceID)
}
