package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"roommate-service/internal/models"
	"roommate-service/internal/repositories"
)

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) UpsertProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	args := m.Called(ctx, p)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	args := m.Called(ctx, userID)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) ListProfiles(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	args := m.Called(ctx, userIDs)
	var list []models.Profile
	if val := args.Get(0); val != nil {
		list = val.([]models.Profile)
	}
	return list, args.Error(1)
}

func (m *ProfileRepositoryMock) ListCandidates(ctx context.Context, userID string, limit int) ([]models.Profile, error) {
	args := m.Called(ctx, userID, limit)
	var list []models.Profile
	if val := args.Get(0); val != nil {
		list = val.([]models.Profile)
	}
	return list, args.Error(1)
}

func (m *ProfileRepositoryMock) SetPremium(ctx context.Context, userID string, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, expiresAt)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) ExpirePremium(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type SwipeRepositoryMock struct {
	mock.Mock
}

func (m *SwipeRepositoryMock) RecordSwipe(ctx context.Context, userID, targetID string, action models.SwipeAction) (models.Swipe, error) {
	args := m.Called(ctx, userID, targetID, action)
	var swipe models.Swipe
	if val := args.Get(0); val != nil {
		swipe = val.(models.Swipe)
	}
	return swipe, args.Error(1)
}

func (m *SwipeRepositoryMock) FindSwipe(ctx context.Context, userID, targetID string) (models.Swipe, error) {
	args := m.Called(ctx, userID, targetID)
	var swipe models.Swipe
	if val := args.Get(0); val != nil {
		swipe = val.(models.Swipe)
	}
	return swipe, args.Error(1)
}

func (m *SwipeRepositoryMock) ListPendingLikes(ctx context.Context, userID string) ([]models.PendingLike, error) {
	args := m.Called(ctx, userID)
	var likes []models.PendingLike
	if val := args.Get(0); val != nil {
		likes = val.([]models.PendingLike)
	}
	return likes, args.Error(1)
}

func (m *SwipeRepositoryMock) CountPendingLikes(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MatchRepositoryMock struct {
	mock.Mock
}

func (m *MatchRepositoryMock) SaveMutualMatch(ctx context.Context, userID, otherID string, userAction, otherAction models.SwipeAction) (models.Match, bool, error) {
	args := m.Called(ctx, userID, otherID, userAction, otherAction)
	var match models.Match
	if val := args.Get(0); val != nil {
		match = val.(models.Match)
	}
	return match, args.Bool(1), args.Error(2)
}

func (m *MatchRepositoryMock) CreateOrGetPending(ctx context.Context, userID, otherID string) (models.Match, error) {
	args := m.Called(ctx, userID, otherID)
	var match models.Match
	if val := args.Get(0); val != nil {
		match = val.(models.Match)
	}
	return match, args.Error(1)
}

func (m *MatchRepositoryMock) GetMatch(ctx context.Context, matchID string) (models.Match, error) {
	args := m.Called(ctx, matchID)
	var match models.Match
	if val := args.Get(0); val != nil {
		match = val.(models.Match)
	}
	return match, args.Error(1)
}

func (m *MatchRepositoryMock) FindByUsers(ctx context.Context, userID, otherID string) (models.Match, error) {
	args := m.Called(ctx, userID, otherID)
	var match models.Match
	if val := args.Get(0); val != nil {
		match = val.(models.Match)
	}
	return match, args.Error(1)
}

func (m *MatchRepositoryMock) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	args := m.Called(ctx, userID)
	var list []models.Match
	if val := args.Get(0); val != nil {
		list = val.([]models.Match)
	}
	return list, args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetByMatch(ctx context.Context, matchID string) (models.Conversation, error) {
	args := m.Called(ctx, matchID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetConversation(ctx context.Context, conversationID string) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ConversationRepositoryMock) CreateForMatch(ctx context.Context, match models.Match, profiles models.ParticipantProfiles, senderID, content string) (models.Conversation, models.Message, error) {
	args := m.Called(ctx, match, profiles, senderID, content)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	var msg models.Message
	if val := args.Get(1); val != nil {
		msg = val.(models.Message)
	}
	return conv, msg, args.Error(2)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) AppendMessage(ctx context.Context, conversationID, senderID, content string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, before, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type SavedPlaceRepositoryMock struct {
	mock.Mock
}

func (m *SavedPlaceRepositoryMock) SavePlace(ctx context.Context, userID, placeID, note string) (models.SavedPlace, error) {
	args := m.Called(ctx, userID, placeID, note)
	var place models.SavedPlace
	if val := args.Get(0); val != nil {
		place = val.(models.SavedPlace)
	}
	return place, args.Error(1)
}

func (m *SavedPlaceRepositoryMock) UnsavePlace(ctx context.Context, userID, placeID string) error {
	args := m.Called(ctx, userID, placeID)
	return args.Error(0)
}

func (m *SavedPlaceRepositoryMock) ListSavedPlaces(ctx context.Context, userID string) ([]models.SavedPlace, error) {
	args := m.Called(ctx, userID)
	var places []models.SavedPlace
	if val := args.Get(0); val != nil {
		places = val.([]models.SavedPlace)
	}
	return places, args.Error(1)
}

var _ repositories.ProfileRepository = (*ProfileRepositoryMock)(nil)
var _ repositories.SwipeRepository = (*SwipeRepositoryMock)(nil)
var _ repositories.MatchRepository = (*MatchRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.SavedPlaceRepository = (*SavedPlaceRepositoryMock)(nil)
