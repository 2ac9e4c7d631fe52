package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-service/internal/mocks"
	"roommate-service/internal/models"
	"roommate-service/internal/repositories"
)

var premiumNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newPremiumService(profiles *mocks.ProfileRepositoryMock, swipes *mocks.SwipeRepositoryMock, c *mocks.PendingLikesCacheMock) *PremiumService {
	svc := NewPremiumService(profiles, swipes, c)
	svc.now = func() time.Time { return premiumNow }
	return svc
}

func TestCanViewPremiumFeature(t *testing.T) {
	past := premiumNow.Add(-time.Hour)
	future := premiumNow.Add(time.Hour)

	cases := []struct {
		name    string
		feature string
		profile models.Profile
		err     error
		want    bool
	}{
		{"premium without expiry", FeatureWhoLikedYou, models.Profile{IsPremium: true}, nil, true},
		{"premium not yet expired", FeatureMessageWithoutMatch, models.Profile{IsPremium: true, PremiumExpiresAt: &future}, nil, true},
		{"premium expired", FeatureWhoLikedYou, models.Profile{IsPremium: true, PremiumExpiresAt: &past}, nil, false},
		{"free user", FeatureWhoLikedYou, models.Profile{}, nil, false},
		{"unknown user", FeatureWhoLikedYou, models.Profile{}, repositories.ErrProfileNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profiles := new(mocks.ProfileRepositoryMock)
			profiles.On("GetProfile", context.Background(), "u1").Return(tc.profile, tc.err).Once()
			svc := newPremiumService(profiles, nil, nil)

			got, err := svc.CanViewPremiumFeature(context.Background(), "u1", tc.feature)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			profiles.AssertExpectations(t)
		})
	}
}

func TestCanViewUnknownFeatureSkipsLookup(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	svc := newPremiumService(profiles, nil, nil)

	got, err := svc.CanViewPremiumFeature(context.Background(), "u1", "teleport")
	require.NoError(t, err)
	assert.False(t, got)
	profiles.AssertNotCalled(t, "GetProfile")
}

func TestPendingLikesCountCacheHit(t *testing.T) {
	swipes := new(mocks.SwipeRepositoryMock)
	c := new(mocks.PendingLikesCacheMock)
	c.On("Load", context.Background(), "u1").Return(4, nil).Once()
	svc := newPremiumService(nil, swipes, c)

	count, err := svc.PendingLikesCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	swipes.AssertNotCalled(t, "CountPendingLikes")
}

func TestPendingLikesCountCacheMiss(t *testing.T) {
	ctx := context.Background()
	swipes := new(mocks.SwipeRepositoryMock)
	c := new(mocks.PendingLikesCacheMock)
	c.On("Load", ctx, "u1").Return(nil, nil).Once()
	swipes.On("CountPendingLikes", ctx, "u1").Return(2, nil).Once()
	svc := newPremiumService(nil, swipes, c)

	count, err := svc.PendingLikesCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	c.AssertExpectations(t)
	swipes.AssertExpectations(t)
}

func TestPendingLikesGated(t *testing.T) {
	ctx := context.Background()
	profiles := new(mocks.ProfileRepositoryMock)
	swipes := new(mocks.SwipeRepositoryMock)
	profiles.On("GetProfile", ctx, "free").Return(models.Profile{ID: "free"}, nil).Once()
	profiles.On("GetProfile", ctx, "paid").Return(models.Profile{ID: "paid", IsPremium: true}, nil).Once()
	swipes.On("ListPendingLikes", ctx, "paid").Return([]models.PendingLike{{UserID: "x", Action: models.ActionLike}}, nil).Once()
	svc := newPremiumService(profiles, swipes, nil)

	_, err := svc.PendingLikes(ctx, "free")
	assert.ErrorIs(t, err, ErrPremiumRequired)

	likes, err := svc.PendingLikes(ctx, "paid")
	require.NoError(t, err)
	assert.Len(t, likes, 1)
	swipes.AssertExpectations(t)
}

func TestExpireSubscriptions(t *testing.T) {
	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("ExpirePremium", context.Background(), premiumNow).Return(int64(3), nil).Once()
	svc := newPremiumService(profiles, nil, nil)

	n, err := svc.ExpireSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestGrantPremium(t *testing.T) {
	ctx := context.Background()
	profiles := new(mocks.ProfileRepositoryMock)
	until := premiumNow.Add(30 * 24 * time.Hour)
	profiles.On("SetPremium", ctx, "u1", &until).Return(nil).Once()
	svc := newPremiumService(profiles, nil, nil)

	require.NoError(t, svc.GrantPremium(ctx, "u1", &until))

	past := premiumNow.Add(-time.Minute)
	assert.ErrorIs(t, svc.GrantPremium(ctx, "u1", &past), ErrInvalidExpiry)
	profiles.AssertExpectations(t)
}
