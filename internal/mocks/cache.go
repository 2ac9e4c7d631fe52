package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"roommate-service/internal/cache"
)

type PendingLikesCacheMock struct {
	mock.Mock
}

// Load returns the configured count on a hit. Return(nil, nil) simulates a miss and runs load.
func (m *PendingLikesCacheMock) Load(ctx context.Context, userID string, load func(context.Context) (int, error)) (int, error) {
	args := m.Called(ctx, userID)
	if cached, ok := args.Get(0).(int); ok {
		return cached, args.Error(1)
	}
	return load(ctx)
}

func (m *PendingLikesCacheMock) Invalidate(ctx context.Context, userIDs ...string) error {
	args := m.Called(ctx, userIDs)
	return args.Error(0)
}

var _ cache.PendingLikesCache = (*PendingLikesCacheMock)(nil)
