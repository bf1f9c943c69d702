package ports

import (
	"context"
)

// Flag names evaluated by the services.
const (
	// FlagQuoteHistoryFilter toggles repeat suppression in the quote feed.
	FlagQuoteHistoryFilter = "quotes.history_filter"

	// FlagVerifyPending toggles the pending-count check after scheduling.
	FlagVerifyPending = "reminders.verify_pending"

	// FlagRegisterConcurrency overrides how many reminders register at once.
	FlagRegisterConcurrency = "reminders.register_concurrency"
)

// FeatureFlags evaluates boolean and integer flags. Evaluation never fails;
// unknown flags yield the default.
//
//	if flags.IsEnabled(ctx, ports.FlagQuoteHistoryFilter, true) {
//	    quotes = domain.FilterNewQuotes(quotes, history, now, window)
//	}
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

type flagDeviceKey struct{}

// WithFlagDevice scopes flag evaluation to a device for targeted overrides.
func WithFlagDevice(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, flagDeviceKey{}, deviceID)
}

// FlagDevice returns the device flags are evaluated for, or "".
func FlagDevice(ctx context.Context) string {
	if id, ok := ctx.Value(flagDeviceKey{}).(string); ok {
		return id
	}

	return ""
}
