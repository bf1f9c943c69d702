package mocks

import (
	"context"

	"github.com/motivationapp/motivation-service/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockNotificationCenter is a mock type for the NotificationCenter type
type MockNotificationCenter struct {
	mock.Mock
}

type MockNotificationCenter_Expecter struct {
	mock *mock.Mock
}

func (_m *MockNotificationCenter) EXPECT() *MockNotificationCenter_Expecter {
	return &MockNotificationCenter_Expecter{mock: &_m.Mock}
}

// RequestPermission provides a mock function with given fields: ctx
func (_m *MockNotificationCenter) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for RequestPermission")
	}

	var r0 domain.PermissionStatus
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (domain.PermissionStatus, error)); ok {
		return rf(ctx)
	}

	if rf, ok := ret.Get(0).(func(context.Context) domain.PermissionStatus); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(domain.PermissionStatus)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockNotificationCenter_RequestPermission_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RequestPermission'
type MockNotificationCenter_RequestPermission_Call struct {
	*mock.Call
}

// RequestPermission is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockNotificationCenter_Expecter) RequestPermission(ctx interface{}) *MockNotificationCenter_RequestPermission_Call {
	return &MockNotificationCenter_RequestPermission_Call{Call: _e.mock.On("RequestPermission", ctx)}
}

func (_c *MockNotificationCenter_RequestPermission_Call) Run(run func(ctx context.Context)) *MockNotificationCenter_RequestPermission_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockNotificationCenter_RequestPermission_Call) Return(_a0 domain.PermissionStatus, _a1 error) *MockNotificationCenter_RequestPermission_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockNotificationCenter_RequestPermission_Call) RunAndReturn(run func(context.Context) (domain.PermissionStatus, error)) *MockNotificationCenter_RequestPermission_Call {
	_c.Call.Return(run)
	return _c
}

// RemoveAllPending provides a mock function with given fields: ctx
func (_m *MockNotificationCenter) RemoveAllPending(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for RemoveAllPending")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotificationCenter_RemoveAllPending_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RemoveAllPending'
type MockNotificationCenter_RemoveAllPending_Call struct {
	*mock.Call
}

// RemoveAllPending is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockNotificationCenter_Expecter) RemoveAllPending(ctx interface{}) *MockNotificationCenter_RemoveAllPending_Call {
	return &MockNotificationCenter_RemoveAllPending_Call{Call: _e.mock.On("RemoveAllPending", ctx)}
}

func (_c *MockNotificationCenter_RemoveAllPending_Call) Run(run func(ctx context.Context)) *MockNotificationCenter_RemoveAllPending_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockNotificationCenter_RemoveAllPending_Call) Return(_a0 error) *MockNotificationCenter_RemoveAllPending_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotificationCenter_RemoveAllPending_Call) RunAndReturn(run func(context.Context) error) *MockNotificationCenter_RemoveAllPending_Call {
	_c.Call.Return(run)
	return _c
}

// Add provides a mock function with given fields: ctx, n
func (_m *MockNotificationCenter) Add(ctx context.Context, n domain.Notification) error {
	ret := _m.Called(ctx, n)

	if len(ret) == 0 {
		panic("no return value specified for Add")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.Notification) error); ok {
		r0 = rf(ctx, n)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockNotificationCenter_Add_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Add'
type MockNotificationCenter_Add_Call struct {
	*mock.Call
}

// Add is a helper method to define mock.On call
//   - ctx context.Context
//   - n domain.Notification
func (_e *MockNotificationCenter_Expecter) Add(ctx interface{}, n interface{}) *MockNotificationCenter_Add_Call {
	return &MockNotificationCenter_Add_Call{Call: _e.mock.On("Add", ctx, n)}
}

func (_c *MockNotificationCenter_Add_Call) Run(run func(ctx context.Context, n domain.Notification)) *MockNotificationCenter_Add_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.Notification))
	})
	return _c
}

func (_c *MockNotificationCenter_Add_Call) Return(_a0 error) *MockNotificationCenter_Add_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockNotificationCenter_Add_Call) RunAndReturn(run func(context.Context, domain.Notification) error) *MockNotificationCenter_Add_Call {
	_c.Call.Return(run)
	return _c
}

// Pending provides a mock function with given fields: ctx
func (_m *MockNotificationCenter) Pending(ctx context.Context) ([]domain.Notification, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Pending")
	}

	var r0 []domain.Notification
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]domain.Notification, error)); ok {
		return rf(ctx)
	}

	if rf, ok := ret.Get(0).(func(context.Context) []domain.Notification); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]domain.Notification)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockNotificationCenter_Pending_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Pending'
type MockNotificationCenter_Pending_Call struct {
	*mock.Call
}

// Pending is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockNotificationCenter_Expecter) Pending(ctx interface{}) *MockNotificationCenter_Pending_Call {
	return &MockNotificationCenter_Pending_Call{Call: _e.mock.On("Pending", ctx)}
}

func (_c *MockNotificationCenter_Pending_Call) Run(run func(ctx context.Context)) *MockNotificationCenter_Pending_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockNotificationCenter_Pending_Call) Return(_a0 []domain.Notification, _a1 error) *MockNotificationCenter_Pending_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockNotificationCenter_Pending_Call) RunAndReturn(run func(context.Context) ([]domain.Notification, error)) *MockNotificationCenter_Pending_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockNotificationCenter creates a new instance of MockNotificationCenter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockNotificationCenter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationCenter {
	mock := &MockNotificationCenter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
