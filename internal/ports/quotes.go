// Package ports defines the capabilities the motivation core depends on.
// Adapters implement them so services can be tested against in-memory fakes
// while production wires remote APIs, Redis or Postgres.
//
// Every method takes a context first, returns domain types, and reports
// failures with domain errors (ErrNotFound, ErrUnavailable, ErrDecoding, ...).
package ports

import (
	"context"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// QuoteSource fetches pages of quotes from the remote quote API.
type QuoteSource interface {
	// FetchPage returns the quotes on the 1-based page.
	// Returns domain.ErrUnavailable on network or server failure and
	// domain.ErrDecoding when the body does not match the expected shape.
	FetchPage(ctx context.Context, page int) ([]domain.Quote, error)
}

// AuthClient talks to the remote auth API.
type AuthClient interface {
	// Login exchanges credentials for a session.
	// Returns domain.ErrUnauthorized when the credentials are rejected.
	Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error)

	// Register creates an account and returns its first session.
	Register(ctx context.Context, reg domain.Registration) (*domain.Session, error)

	// RequestRecovery emails a reset token and returns the server's message.
	RequestRecovery(ctx context.Context, email string) (string, error)

	// ResetPassword completes recovery and returns the server's message.
	ResetPassword(ctx context.Context, reset domain.PasswordReset) (string, error)
}
