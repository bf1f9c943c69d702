package handlers

import (
	"context"

	"github.com/motivationapp/motivation-service/internal/app"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// The handlers depend on these views of the app services.

// QuoteFeed serves quotes per device and feed.
type QuoteFeed interface {
	Fetch(ctx context.Context, deviceID string, feed ports.Feed) (*app.FeedResult, error)
}

// Reminders manages preferences and the scheduling lifecycle.
type Reminders interface {
	Preferences(ctx context.Context, deviceID string) (domain.ReminderPreferences, error)
	SavePreferences(ctx context.Context, deviceID string, prefs domain.ReminderPreferences) error
	Schedule(ctx context.Context, deviceID string, prefs *domain.ReminderPreferences) (*app.ScheduleResult, error)
	Disable(ctx context.Context, deviceID string) (domain.ScheduleStatus, error)
	Status(ctx context.Context, deviceID string) (domain.ScheduleStatus, error)
	Pending(ctx context.Context, deviceID string) ([]domain.Notification, error)
	RecordPermission(ctx context.Context, deviceID string, status domain.PermissionStatus) error
}

// WidgetTimelines builds widget timelines.
type WidgetTimelines interface {
	Timeline(ctx context.Context, deviceID string) (domain.WidgetTimeline, error)
}

// Accounts signs devices in and out.
type Accounts interface {
	Login(ctx context.Context, deviceID string, creds domain.Credentials) (*domain.Session, error)
	Register(ctx context.Context, deviceID string, reg domain.Registration) (*domain.Session, error)
	RequestRecovery(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, reset domain.PasswordReset) (string, error)
	Logout(ctx context.Context, deviceID string) error
	Session(ctx context.Context, deviceID string) (*domain.Session, error)
}

var (
	_ QuoteFeed       = (*app.FeedService)(nil)
	_ Reminders       = (*app.ReminderService)(nil)
	_ WidgetTimelines = (*app.WidgetService)(nil)
	_ Accounts        = (*app.AuthService)(nil)
)
