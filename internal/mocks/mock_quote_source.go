package mocks

import (
	"context"

	"github.com/motivationapp/motivation-service/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockQuoteSource is a mock type for the QuoteSource type
type MockQuoteSource struct {
	mock.Mock
}

type MockQuoteSource_Expecter struct {
	mock *mock.Mock
}

func (_m *MockQuoteSource) EXPECT() *MockQuoteSource_Expecter {
	return &MockQuoteSource_Expecter{mock: &_m.Mock}
}

// FetchPage provides a mock function with given fields: ctx, page
func (_m *MockQuoteSource) FetchPage(ctx context.Context, page int) ([]domain.Quote, error) {
	ret := _m.Called(ctx, page)

	if len(ret) == 0 {
		panic("no return value specified for FetchPage")
	}

	var r0 []domain.Quote
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]domain.Quote, error)); ok {
		return rf(ctx, page)
	}

	if rf, ok := ret.Get(0).(func(context.Context, int) []domain.Quote); ok {
		r0 = rf(ctx, page)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]domain.Quote)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, page)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockQuoteSource_FetchPage_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchPage'
type MockQuoteSource_FetchPage_Call struct {
	*mock.Call
}

// FetchPage is a helper method to define mock.On call
//   - ctx context.Context
//   - page int
func (_e *MockQuoteSource_Expecter) FetchPage(ctx interface{}, page interface{}) *MockQuoteSource_FetchPage_Call {
	return &MockQuoteSource_FetchPage_Call{Call: _e.mock.On("FetchPage", ctx, page)}
}

func (_c *MockQuoteSource_FetchPage_Call) Run(run func(ctx context.Context, page int)) *MockQuoteSource_FetchPage_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(int))
	})
	return _c
}

func (_c *MockQuoteSource_FetchPage_Call) Return(_a0 []domain.Quote, _a1 error) *MockQuoteSource_FetchPage_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockQuoteSource_FetchPage_Call) RunAndReturn(run func(context.Context, int) ([]domain.Quote, error)) *MockQuoteSource_FetchPage_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockQuoteSource creates a new instance of MockQuoteSource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockQuoteSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteSource {
	mock := &MockQuoteSource{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
