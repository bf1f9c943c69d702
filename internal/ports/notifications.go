package ports

import (
	"context"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// NotificationCenter is a device's recurring-notification registry.
type NotificationCenter interface {
	// RequestPermission asks for notification permission and returns the answer.
	RequestPermission(ctx context.Context) (domain.PermissionStatus, error)

	// RemoveAllPending clears every registration of this app. It returns only
	// after the registry confirms the clear.
	RemoveAllPending(ctx context.Context) error

	// Add registers a notification, replacing any with the same identifier.
	Add(ctx context.Context, n domain.Notification) error

	// Pending lists current registrations ordered by firing time.
	Pending(ctx context.Context) ([]domain.Notification, error)
}

// PermissionRecorder is implemented by centers whose permission answer is
// reported by the device instead of prompted in-process.
type PermissionRecorder interface {
	SetPermission(ctx context.Context, status domain.PermissionStatus) error
}

// NotificationCenters resolves the registry of one device.
type NotificationCenters interface {
	ForDevice(deviceID string) NotificationCenter
}
