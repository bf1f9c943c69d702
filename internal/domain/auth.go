package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// passwordSymbols are the special characters accepted in a password.
const passwordSymbols = "@$!%*?&"

const (
	minSignupPasswordLength = 8
	minResetPasswordLength  = 6
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User is the account returned by the auth API.
type User struct {
	ID              int    `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	EmailVerifiedAt string `json:"emailVerifiedAt,omitempty"`
}

// Session is a signed-in user with its bearer token.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credentials are submitted to sign in.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks the email shape and that a password was given.
func (c Credentials) Validate() error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}

	if c.Password == "" {
		return NewValidationError("password", "is required")
	}

	return nil
}

// Registration is submitted to create an account.
type Registration struct {
	Email                string
	FullName             string
	Password             string
	PasswordConfirmation string
}

// Validate requires every field, a valid email, a strong password and a
// matching confirmation.
func (r Registration) Validate() error {
	if r.Email == "" || r.FullName == "" || r.Password == "" || r.PasswordConfirmation == "" {
		return NewValidationError("", "All fields are required")
	}

	if r.Password != r.PasswordConfirmation {
		return NewValidationError("password_confirmation", "Passwords do not match")
	}

	if err := ValidateEmail(r.Email); err != nil {
		return err
	}

	return ValidatePassword(r.Password)
}

// PasswordReset completes a recovery with the emailed token.
type PasswordReset struct {
	Email                string
	Token                string
	Password             string
	PasswordConfirmation string
}

// Validate requires matching passwords of at least six characters.
func (r PasswordReset) Validate() error {
	if r.Token == "" {
		return NewValidationError("token", "is required")
	}

	if err := ValidateEmail(r.Email); err != nil {
		return err
	}

	if r.Password != r.PasswordConfirmation || len(r.Password) < minResetPasswordLength {
		return NewValidationError("password", "Passwords must match and be at least 6 characters")
	}

	return nil
}

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return NewValidationError("email", "Please enter a valid email address")
	}

	return nil
}

// ValidatePassword requires at least eight characters drawn from letters,
// digits and @$!%*?&, with at least one uppercase letter, one digit and one
// of the symbols.
func ValidatePassword(password string) error {
	var upper, digit, symbol bool

	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return invalidPassword()
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		case unicode.IsLower(r):
		default:
			return invalidPassword()
		}
	}

	if len(password) < minSignupPasswordLength || !upper || !digit || !symbol {
		return invalidPassword()
	}

	return nil
}

func invalidPassword() error {
	return NewValidationError("password",
		"must be at least 8 characters with an uppercase letter, a digit and one of "+passwordSymbols)
}

// AuthState is whether a device currently holds a session.
type AuthState string

const (
	AuthSignedOut AuthState = "signed_out"
	AuthSignedIn  AuthState = "signed_in"
)
