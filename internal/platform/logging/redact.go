package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Bearer tokens handed out by the auth API and echoed in Authorization headers.
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)

	// JWT-shaped tokens logged without the Bearer prefix.
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
)

// DefaultRedactOptions covers the secrets this service handles: account
// passwords, reset tokens and session tokens. Extend per deployment:
//
//	opts := append(logging.DefaultRedactOptions(), masq.WithFieldName("DeviceSecret"))
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("password_confirmation"),
		masq.WithFieldName("PasswordConfirmation"),
		masq.WithFieldName("token"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("DSN"),

		masq.WithFieldPrefix("secret"),

		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr func that applies the default
// redaction plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
