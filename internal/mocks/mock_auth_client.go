package mocks

import (
	"context"

	"github.com/motivationapp/motivation-service/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockAuthClient is a mock type for the AuthClient type
type MockAuthClient struct {
	mock.Mock
}

type MockAuthClient_Expecter struct {
	mock *mock.Mock
}

func (_m *MockAuthClient) EXPECT() *MockAuthClient_Expecter {
	return &MockAuthClient_Expecter{mock: &_m.Mock}
}

// Login provides a mock function with given fields: ctx, creds
func (_m *MockAuthClient) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	ret := _m.Called(ctx, creds)

	if len(ret) == 0 {
		panic("no return value specified for Login")
	}

	var r0 *domain.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.Credentials) (*domain.Session, error)); ok {
		return rf(ctx, creds)
	}

	if rf, ok := ret.Get(0).(func(context.Context, domain.Credentials) *domain.Session); ok {
		r0 = rf(ctx, creds)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Session)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.Credentials) error); ok {
		r1 = rf(ctx, creds)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockAuthClient_Login_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Login'
type MockAuthClient_Login_Call struct {
	*mock.Call
}

// Login is a helper method to define mock.On call
//   - ctx context.Context
//   - creds domain.Credentials
func (_e *MockAuthClient_Expecter) Login(ctx interface{}, creds interface{}) *MockAuthClient_Login_Call {
	return &MockAuthClient_Login_Call{Call: _e.mock.On("Login", ctx, creds)}
}

func (_c *MockAuthClient_Login_Call) Run(run func(ctx context.Context, creds domain.Credentials)) *MockAuthClient_Login_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.Credentials))
	})
	return _c
}

func (_c *MockAuthClient_Login_Call) Return(_a0 *domain.Session, _a1 error) *MockAuthClient_Login_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockAuthClient_Login_Call) RunAndReturn(run func(context.Context, domain.Credentials) (*domain.Session, error)) *MockAuthClient_Login_Call {
	_c.Call.Return(run)
	return _c
}

// Register provides a mock function with given fields: ctx, reg
func (_m *MockAuthClient) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	ret := _m.Called(ctx, reg)

	if len(ret) == 0 {
		panic("no return value specified for Register")
	}

	var r0 *domain.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.Registration) (*domain.Session, error)); ok {
		return rf(ctx, reg)
	}

	if rf, ok := ret.Get(0).(func(context.Context, domain.Registration) *domain.Session); ok {
		r0 = rf(ctx, reg)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Session)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.Registration) error); ok {
		r1 = rf(ctx, reg)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockAuthClient_Register_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Register'
type MockAuthClient_Register_Call struct {
	*mock.Call
}

// Register is a helper method to define mock.On call
//   - ctx context.Context
//   - reg domain.Registration
func (_e *MockAuthClient_Expecter) Register(ctx interface{}, reg interface{}) *MockAuthClient_Register_Call {
	return &MockAuthClient_Register_Call{Call: _e.mock.On("Register", ctx, reg)}
}

func (_c *MockAuthClient_Register_Call) Run(run func(ctx context.Context, reg domain.Registration)) *MockAuthClient_Register_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.Registration))
	})
	return _c
}

func (_c *MockAuthClient_Register_Call) Return(_a0 *domain.Session, _a1 error) *MockAuthClient_Register_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockAuthClient_Register_Call) RunAndReturn(run func(context.Context, domain.Registration) (*domain.Session, error)) *MockAuthClient_Register_Call {
	_c.Call.Return(run)
	return _c
}

// RequestRecovery provides a mock function with given fields: ctx, email
func (_m *MockAuthClient) RequestRecovery(ctx context.Context, email string) (string, error) {
	ret := _m.Called(ctx, email)

	if len(ret) == 0 {
		panic("no return value specified for RequestRecovery")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, email)
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, email)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, email)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockAuthClient_RequestRecovery_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RequestRecovery'
type MockAuthClient_RequestRecovery_Call struct {
	*mock.Call
}

// RequestRecovery is a helper method to define mock.On call
//   - ctx context.Context
//   - email string
func (_e *MockAuthClient_Expecter) RequestRecovery(ctx interface{}, email interface{}) *MockAuthClient_RequestRecovery_Call {
	return &MockAuthClient_RequestRecovery_Call{Call: _e.mock.On("RequestRecovery", ctx, email)}
}

func (_c *MockAuthClient_RequestRecovery_Call) Run(run func(ctx context.Context, email string)) *MockAuthClient_RequestRecovery_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockAuthClient_RequestRecovery_Call) Return(_a0 string, _a1 error) *MockAuthClient_RequestRecovery_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockAuthClient_RequestRecovery_Call) RunAndReturn(run func(context.Context, string) (string, error)) *MockAuthClient_RequestRecovery_Call {
	_c.Call.Return(run)
	return _c
}

// ResetPassword provides a mock function with given fields: ctx, reset
func (_m *MockAuthClient) ResetPassword(ctx context.Context, reset domain.PasswordReset) (string, error) {
	ret := _m.Called(ctx, reset)

	if len(ret) == 0 {
		panic("no return value specified for ResetPassword")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.PasswordReset) (string, error)); ok {
		return rf(ctx, reset)
	}

	if rf, ok := ret.Get(0).(func(context.Context, domain.PasswordReset) string); ok {
		r0 = rf(ctx, reset)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.PasswordReset) error); ok {
		r1 = rf(ctx, reset)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockAuthClient_ResetPassword_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ResetPassword'
type MockAuthClient_ResetPassword_Call struct {
	*mock.Call
}

// ResetPassword is a helper method to define mock.On call
//   - ctx context.Context
//   - reset domain.PasswordReset
func (_e *MockAuthClient_Expecter) ResetPassword(ctx interface{}, reset interface{}) *MockAuthClient_ResetPassword_Call {
	return &MockAuthClient_ResetPassword_Call{Call: _e.mock.On("ResetPassword", ctx, reset)}
}

func (_c *MockAuthClient_ResetPassword_Call) Run(run func(ctx context.Context, reset domain.PasswordReset)) *MockAuthClient_ResetPassword_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.PasswordReset))
	})
	return _c
}

func (_c *MockAuthClient_ResetPassword_Call) Return(_a0 string, _a1 error) *MockAuthClient_ResetPassword_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockAuthClient_ResetPassword_Call) RunAndReturn(run func(context.Context, domain.PasswordReset) (string, error)) *MockAuthClient_ResetPassword_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockAuthClient creates a new instance of MockAuthClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAuthClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthClient {
	mock := &MockAuthClient{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
