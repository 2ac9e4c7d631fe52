package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"roommate-service/internal/observability"
	"roommate-service/internal/rabbitmq"
	"roommate-service/internal/telemetry"
)

// PublisherMock stands in for the AMQP publisher, the audit emitter's sink
// and the global domain event publisher.
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

var _ rabbitmq.Publisher = (*PublisherMock)(nil)
var _ telemetry.Publisher = (*PublisherMock)(nil)
var _ observability.Publisher = (*PublisherMock)(nil)
