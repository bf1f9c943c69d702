package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockFeatureFlags is a mock type for the FeatureFlags type
type MockFeatureFlags struct {
	mock.Mock
}

type MockFeatureFlags_Expecter struct {
	mock *mock.Mock
}

func (_m *MockFeatureFlags) EXPECT() *MockFeatureFlags_Expecter {
	return &MockFeatureFlags_Expecter{mock: &_m.Mock}
}

// IsEnabled provides a mock function with given fields: ctx, flag, defaultValue
func (_m *MockFeatureFlags) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	ret := _m.Called(ctx, flag, defaultValue)

	if len(ret) == 0 {
		panic("no return value specified for IsEnabled")
	}

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, string, bool) bool); ok {
		r0 = rf(ctx, flag, defaultValue)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// MockFeatureFlags_IsEnabled_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'IsEnabled'
type MockFeatureFlags_IsEnabled_Call struct {
	*mock.Call
}

// IsEnabled is a helper method to define mock.On call
//   - ctx context.Context
//   - flag string
//   - defaultValue bool
func (_e *MockFeatureFlags_Expecter) IsEnabled(ctx interface{}, flag interface{}, defaultValue interface{}) *MockFeatureFlags_IsEnabled_Call {
	return &MockFeatureFlags_IsEnabled_Call{Call: _e.mock.On("IsEnabled", ctx, flag, defaultValue)}
}

func (_c *MockFeatureFlags_IsEnabled_Call) Run(run func(ctx context.Context, flag string, defaultValue bool)) *MockFeatureFlags_IsEnabled_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(bool))
	})
	return _c
}

func (_c *MockFeatureFlags_IsEnabled_Call) Return(_a0 bool) *MockFeatureFlags_IsEnabled_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockFeatureFlags_IsEnabled_Call) RunAndReturn(run func(context.Context, string, bool) bool) *MockFeatureFlags_IsEnabled_Call {
	_c.Call.Return(run)
	return _c
}

// GetInt provides a mock function with given fields: ctx, flag, defaultValue
func (_m *MockFeatureFlags) GetInt(ctx context.Context, flag string, defaultValue int) int {
	ret := _m.Called(ctx, flag, defaultValue)

	if len(ret) == 0 {
		panic("no return value specified for GetInt")
	}

	var r0 int
	if rf, ok := ret.Get(0).(func(context.Context, string, int) int); ok {
		r0 = rf(ctx, flag, defaultValue)
	} else {
		r0 = ret.Get(0).(int)
	}

	return r0
}

// MockFeatureFlags_GetInt_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetInt'
type MockFeatureFlags_GetInt_Call struct {
	*mock.Call
}

// GetInt is a helper method to define mock.On call
//   - ctx context.Context
//   - flag string
//   - defaultValue int
func (_e *MockFeatureFlags_Expecter) GetInt(ctx interface{}, flag interface{}, defaultValue interface{}) *MockFeatureFlags_GetInt_Call {
	return &MockFeatureFlags_GetInt_Call{Call: _e.mock.On("GetInt", ctx, flag, defaultValue)}
}

func (_c *MockFeatureFlags_GetInt_Call) Run(run func(ctx context.Context, flag string, defaultValue int)) *MockFeatureFlags_GetInt_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(int))
	})
	return _c
}

func (_c *MockFeatureFlags_GetInt_Call) Return(_a0 int) *MockFeatureFlags_GetInt_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockFeatureFlags_GetInt_Call) RunAndReturn(run func(context.Context, string, int) int) *MockFeatureFlags_GetInt_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockFeatureFlags creates a new instance of MockFeatureFlags. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockFeatureFlags(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFeatureFlags {
	mock := &MockFeatureFlags{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
