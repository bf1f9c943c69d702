package acl

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/motivationapp/motivation-service/internal/adapters/clients"
	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
)

// Auth API paths, relative to the API root.
const (
	pathLogin           = "/auth/login"
	pathRegister        = "/auth/register"
	pathRequestRecovery = "/auth/request-recovery"
	pathResetPassword   = "/auth/reset-password"
)

// AuthClientConfig contains configuration for the auth client.
type AuthClientConfig struct {
	Client *clients.Client

	// ServiceName labels errors. Defaults to "auth-api".
	ServiceName string

	// ClientTag is sent as "client" on login, e.g. "ios".
	ClientTag string

	Logger *slog.Logger
}

// AuthClient implements ports.AuthClient.
type AuthClient struct {
	BaseAdapter

	clientTag string
	logger    *slog.Logger
}

// NewAuthClient creates an auth client adapter.
// Panics if Client is nil.
func NewAuthClient(cfg AuthClientConfig) *AuthClient {
	if cfg.Client == nil {
		panic("AuthClient: Client is required")
	}

	name := cfg.ServiceName
	if name == "" {
		name = "auth-api"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		clientTag:   cfg.ClientTag,
		logger:      logger.With(slog.String("component", "acl.AuthClient")),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Client   string `json:"client"`
}

type registerRequest struct {
	Email                string `json:"email"`
	FullName             string `json:"full_name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type recoveryRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Email                string `json:"email"`
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type authResponse struct {
	Token *string      `json:"token"`
	User  externalUser `json:"user"`
}

type externalUser struct {
	ID              int     `json:"id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login implements ports.AuthClient. Any rejection, including a 2xx body
// without a token, is reported as domain.UnauthorizedError.
func (c *AuthClient) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	body, err := c.PostJSON(ctx, pathLogin, loginRequest{
		Email:    creds.Email,
		Password: creds.Password,
		Client:   c.clientTag,
	}, "login")
	if err != nil {
		if domain.IsValidation(err) {
			return nil, domain.NewUnauthorizedError("")
		}

		return nil, err
	}

	return c.decodeSession(ctx, body, "login")
}

// Register implements ports.AuthClient. A successful registration signs
// the user in with the returned token.
func (c *AuthClient) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	body, err := c.PostJSON(ctx, pathRegister, registerRequest{
		Email:                reg.Email,
		FullName:             reg.FullName,
		Password:             reg.Password,
		PasswordConfirmation: reg.PasswordConfirmation,
	}, "register")
	if err != nil {
		return nil, err
	}

	return c.decodeSession(ctx, body, "register")
}

// RequestRecovery implements ports.AuthClient.
func (c *AuthClient) RequestRecovery(ctx context.Context, email string) (string, error) {
	body, err := c.PostJSON(ctx, pathRequestRecovery, recoveryRequest{Email: email}, "request recovery")
	if err != nil {
		return "", err
	}

	return c.decodeMessage(body)
}

// ResetPassword implements ports.AuthClient.
func (c *AuthClient) ResetPassword(ctx context.Context, reset domain.PasswordReset) (string, error) {
	body, err := c.PostJSON(ctx, pathResetPassword, resetRequest{
		Email:                reset.Email,
		Token:                reset.Token,
		Password:             reset.Password,
		PasswordConfirmation: reset.PasswordConfirmation,
	}, "reset password")
	if err != nil {
		return "", err
	}

	return c.decodeMessage(body)
}

func (c *AuthClient) decodeSession(ctx context.Context, body io.ReadCloser, operation string) (*domain.Session, error) {
	resp, err := Decode[authResponse](c.ServiceName(), body)
	if err != nil {
		// The API answers bad credentials with bodies that are not sessions.
		logging.FromContext(ctx).DebugContext(ctx, "auth response not a session",
			slog.String("operation", operation),
			slog.Any("error", err))

		return nil, domain.NewUnauthorizedError("")
	}

	if resp.Token == nil || *resp.Token == "" {
		return nil, domain.NewUnauthorizedError("")
	}

	return &domain.Session{Token: *resp.Token, User: translateUser(&resp.User)}, nil
}

func (c *AuthClient) decodeMessage(body io.ReadCloser) (string, error) {
	resp, err := Decode[messageResponse](c.ServiceName(), body)
	if err != nil {
		return "", err
	}

	if resp.Message == "" {
		return "", domain.NewDecodingError(c.ServiceName(), errors.New("message is empty"))
	}

	return resp.Message, nil
}

func translateUser(ext *externalUser) domain.User {
	u := domain.User{ID: ext.ID, FullName: ext.FullName, Email: ext.Email}
	if ext.EmailVerifiedAt != nil {
		u.EmailVerifiedAt = *ext.EmailVerifiedAt
	}

	return u
}
