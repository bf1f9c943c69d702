package dto

import "github.com/motivationapp/motivation-service/internal/domain"

// Auth request bodies only check presence; the domain validators own the
// email and password rules so the app and the service agree on them.

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ToDomain converts the request.
func (r LoginRequest) ToDomain() domain.Credentials {
	return domain.Credentials{Email: r.Email, Password: r.Password}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email                string `json:"email"`
	FullName             string `json:"full_name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToDomain converts the request.
func (r RegisterRequest) ToDomain() domain.Registration {
	return domain.Registration{
		Email:                r.Email,
		FullName:             r.FullName,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// RecoverRequest is the body of POST /auth/recover.
type RecoverRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetRequest is the body of POST /auth/reset.
type ResetRequest struct {
	Email                string `json:"email"                 validate:"required"`
	Token                string `json:"token"                 validate:"required,notblank"`
	Password             string `json:"password"              validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// ToDomain converts the request.
func (r ResetRequest) ToDomain() domain.PasswordReset {
	return domain.PasswordReset{
		Email:                r.Email,
		Token:                r.Token,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// UserResponse is the signed-in account.
type UserResponse struct {
	ID              int    `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	EmailVerifiedAt string `json:"emailVerifiedAt,omitempty"`
}

// SessionResponse is the body of the sign-in endpoints.
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToSessionResponse converts a session.
func ToSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		Token: s.Token,
		User: UserResponse{
			ID:              s.User.ID,
			FullName:        s.User.FullName,
			Email:           s.User.Email,
			EmailVerifiedAt: s.User.EmailVerifiedAt,
		},
	}
}

// MessageResponse carries a user-facing confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
