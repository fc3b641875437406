package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// PublisherMock stands in for the domain event publisher.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ExpectEvent expects one successful publication under routingKey.
func (m *PublisherMock) ExpectEvent(routingKey string) *mock.Call {
	return m.On("Publish", mock.Anything, routingKey, mock.Anything).Return(nil).Once()
}
