package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// AuthConfig configures an AuthService.
type AuthConfig struct {
	Client ports.AuthClient
	Stores ports.PreferenceStores
	Holder *AuthStateHolder
	Logger *slog.Logger
}

// AuthService signs devices in and out against the remote auth API and
// keeps each device's session.
type AuthService struct {
	client ports.AuthClient
	stores ports.PreferenceStores
	holder *AuthStateHolder
	logger *slog.Logger
}

// NewAuthService panics when Client or Stores is missing.
func NewAuthService(cfg AuthConfig) *AuthService {
	if cfg.Client == nil || cfg.Stores == nil {
		panic("app: AuthService requires an auth client and preference stores")
	}

	if cfg.Holder == nil {
		cfg.Holder = NewAuthStateHolder(nil)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &AuthService{
		client: cfg.Client,
		stores: cfg.Stores,
		holder: cfg.Holder,
		logger: cfg.Logger.With(slog.String("component", "app.AuthService")),
	}
}

// Holder exposes the state holder for subscribers.
func (s *AuthService) Holder() *AuthStateHolder {
	return s.holder
}

// Login signs the device in.
func (s *AuthService) Login(ctx context.Context, deviceID string, creds domain.Credentials) (*domain.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	session, err := s.client.Login(ctx, creds)
	if err != nil {
		logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "login rejected", slog.Any("error", err))
		return nil, err
	}

	return s.establish(ctx, deviceID, session)
}

// Register creates an account and signs the device in with it.
func (s *AuthService) Register(ctx context.Context, deviceID string, reg domain.Registration) (*domain.Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	session, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, deviceID, session)
}

// RequestRecovery asks the API to email a reset token.
func (s *AuthService) RequestRecovery(ctx context.Context, email string) (string, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return "", err
	}

	return s.client.RequestRecovery(ctx, email)
}

// ResetPassword completes recovery with the emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, reset domain.PasswordReset) (string, error) {
	if err := reset.Validate(); err != nil {
		return "", err
	}

	return s.client.ResetPassword(ctx, reset)
}

// Logout forgets the device's session.
func (s *AuthService) Logout(ctx context.Context, deviceID string) error {
	if err := s.stores.ForDevice(deviceID).ClearSession(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	s.holder.SignedOut(deviceID)
	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "signed out")

	return nil
}

// Session returns the device's session, or an UnauthorizedError when the
// device is signed out.
func (s *AuthService) Session(ctx context.Context, deviceID string) (*domain.Session, error) {
	session, err := s.stores.ForDevice(deviceID).LoadSession(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			s.holder.SignedOut(deviceID)
			return nil, domain.NewUnauthorizedError("Not signed in")
		}

		return nil, fmt.Errorf("loading session: %w", err)
	}

	s.holder.SignedIn(deviceID, session.User)

	return &session, nil
}

func (s *AuthService) establish(ctx context.Context, deviceID string, session *domain.Session) (*domain.Session, error) {
	if err := s.stores.ForDevice(deviceID).SaveSession(ctx, *session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	s.holder.SignedIn(deviceID, session.User)
	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "signed in", slog.Int("user_id", session.User.ID))

	return session, nil
}
