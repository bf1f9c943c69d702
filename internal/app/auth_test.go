package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/mocks"
)

func newAuthFixture(t *testing.T) (*AuthService, *mocks.MockAuthClient) {
	t.Helper()

	clk := newFakeClock()
	client := mocks.NewMockAuthClient(t)

	svc := NewAuthService(AuthConfig{
		Client: client,
		Stores: newStores(clk),
		Holder: NewAuthStateHolder(clk),
		Logger: discardLogger(),
	})

	return svc, client
}

func testSession() *domain.Session {
	return &domain.Session{Token: "token-abc", User: testUser}
}

func TestAuthService_LoginStoresSession(t *testing.T) {
	svc, client := newAuthFixture(t)
	ctx := context.Background()

	creds := domain.Credentials{Email: "nino@example.com", Password: "Secret1!"}
	client.EXPECT().Login(mock.Anything, creds).Return(testSession(), nil).Once()

	events, cancel := svc.Holder().Subscribe("device-1", 1)
	defer cancel()

	session, err := svc.Login(ctx, "device-1", creds)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", session.Token)

	ev := <-events
	assert.Equal(t, domain.AuthSignedIn, ev.State)

	stored, err := svc.Session(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, testUser, stored.User)

	_, err = svc.Session(ctx, "device-2")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestAuthService_LoginValidatesLocally(t *testing.T) {
	svc, _ := newAuthFixture(t)

	tests := []domain.Credentials{
		{Email: "not-an-email", Password: "Secret1!"},
		{Email: "nino@example.com"},
	}

	for _, creds := range tests {
		_, err := svc.Login(context.Background(), "device-1", creds)
		assert.True(t, domain.IsValidation(err), "creds %+v", creds.Email)
	}
}

func TestAuthService_LoginRejected(t *testing.T) {
	svc, client := newAuthFixture(t)
	ctx := context.Background()

	creds := domain.Credentials{Email: "nino@example.com", Password: "wrong"}
	client.EXPECT().Login(mock.Anything, creds).
		Return(nil, domain.NewUnauthorizedError("Invalid credentials")).Once()

	_, err := svc.Login(ctx, "device-1", creds)
	require.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, domain.AuthSignedOut, svc.Holder().State("device-1"))
}

func TestAuthService_Register(t *testing.T) {
	svc, client := newAuthFixture(t)

	reg := domain.Registration{
		Email:                "nino@example.com",
		FullName:             "Nino Reyes",
		Password:             "Secret1!",
		PasswordConfirmation: "Secret1!",
	}
	client.EXPECT().Register(mock.Anything, reg).Return(testSession(), nil).Once()

	_, err := svc.Register(context.Background(), "device-1", reg)
	require.NoError(t, err)
	assert.Equal(t, domain.AuthSignedIn, svc.Holder().State("device-1"))
}

func TestAuthService_RegisterRejectsMismatch(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), "device-1", domain.Registration{
		Email:                "nino@example.com",
		FullName:             "Nino Reyes",
		Password:             "Secret1!",
		PasswordConfirmation: "Secret2!",
	})

	require.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "Passwords do not match")
}

func TestAuthService_Recovery(t *testing.T) {
	svc, client := newAuthFixture(t)
	ctx := context.Background()

	client.EXPECT().RequestRecovery(mock.Anything, "nino@example.com").Return("Reset email sent", nil).Once()

	msg, err := svc.RequestRecovery(ctx, "nino@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Reset email sent", msg)

	_, err = svc.RequestRecovery(ctx, "nino")
	assert.True(t, domain.IsValidation(err))

	reset := domain.PasswordReset{
		Email:                "nino@example.com",
		Token:                "123456",
		Password:             "newpass",
		PasswordConfirmation: "newpass",
	}
	client.EXPECT().ResetPassword(mock.Anything, reset).Return("Password updated", nil).Once()

	msg, err = svc.ResetPassword(ctx, reset)
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg)

	reset.PasswordConfirmation = "other"
	_, err = svc.ResetPassword(ctx, reset)
	assert.True(t, domain.IsValidation(err))
}

func TestAuthService_Logout(t *testing.T) {
	svc, client := newAuthFixture(t)
	ctx := context.Background()

	creds := domain.Credentials{Email: "nino@example.com", Password: "Secret1!"}
	client.EXPECT().Login(mock.Anything, creds).Return(testSession(), nil).Once()

	_, err := svc.Login(ctx, "device-1", creds)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "device-1"))
	require.NoError(t, svc.Logout(ctx, "device-1"))

	assert.Equal(t, domain.AuthSignedOut, svc.Holder().State("device-1"))

	_, err = svc.Session(ctx, "device-1")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestNewAuthService_RequiresClient(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthConfig{Stores: newStores(newFakeClock())}) })
}
