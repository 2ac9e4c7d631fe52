package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roommate-service/internal/mocks"
	"roommate-service/internal/models"
	"roommate-service/internal/observability"
	"roommate-service/internal/repositories"
)

type messagingFixture struct {
	profiles      *mocks.ProfileRepositoryMock
	swipes        *mocks.SwipeRepositoryMock
	matches       *mocks.MatchRepositoryMock
	conversations *mocks.ConversationRepositoryMock
	messages      *mocks.MessageRepositoryMock
	notifier      *mocks.NotifierMock
	publisher     *mocks.PublisherMock
	svc           *MessagingService
}

func newMessagingFixture(t *testing.T) *messagingFixture {
	f := &messagingFixture{
		profiles:      new(mocks.ProfileRepositoryMock),
		swipes:        new(mocks.SwipeRepositoryMock),
		matches:       new(mocks.MatchRepositoryMock),
		conversations: new(mocks.ConversationRepositoryMock),
		messages:      new(mocks.MessageRepositoryMock),
		notifier:      new(mocks.NotifierMock),
		publisher:     new(mocks.PublisherMock),
	}
	premium := NewPremiumService(f.profiles, f.swipes, nil)
	premium.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	f.svc = NewMessagingService(f.profiles, f.matches, f.conversations, f.messages, premium, f.notifier)
	observability.SetPublisher(f.publisher)
	t.Cleanup(func() {
		observability.SetPublisher(nil)
		f.profiles.AssertExpectations(t)
		f.matches.AssertExpectations(t)
		f.conversations.AssertExpectations(t)
		f.messages.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})
	return f
}

func (f *messagingFixture) expectDelivery(conversationID string, msg models.Message, recipient string) {
	f.publisher.On("Publish", mock.Anything, "messages.sent", mock.Anything).Return(nil).Once()
	f.notifier.On("BroadcastConversationMessage", conversationID, msg).Once()
	f.notifier.On("NotifyMessage", recipient, msg).Once()
}

func TestSendToMatchCreatesConversationLazily(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	match := models.Match{ID: "m1", User1ID: "alice", User2ID: "bob", Status: models.MatchMatched}
	profiles := []models.Profile{{ID: "alice", Name: "Alice"}}
	expected := models.ParticipantProfiles{{ID: "alice", Name: "Alice"}, {ID: "bob"}}
	conv := models.Conversation{ID: "c1", MatchID: "m1", Participants: []string{"alice", "bob"}}
	msg := models.Message{ID: "msg1", ConversationID: "c1", SenderID: "alice", Content: "hi"}

	f.matches.On("GetMatch", ctx, "m1").Return(match, nil).Once()
	f.conversations.On("GetByMatch", ctx, "m1").Return(models.Conversation{}, repositories.ErrConversationNotFound).Once()
	f.profiles.On("ListProfiles", ctx, []string{"alice", "bob"}).Return(profiles, nil).Once()
	f.conversations.On("CreateForMatch", ctx, match, expected, "alice", "hi").Return(conv, msg, nil).Once()
	f.expectDelivery("c1", msg, "bob")

	result, err := f.svc.SendToMatch(ctx, "m1", "alice", "  hi ")
	require.NoError(t, err)
	assert.Equal(t, "c1", result.Conversation.ID)
	assert.Equal(t, "msg1", result.Message.ID)
}

func TestSendToMatchReusesConversation(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	conv := models.Conversation{ID: "c1", MatchID: "m1", Participants: []string{"alice", "bob"}}
	msg := models.Message{ID: "msg2", ConversationID: "c1", SenderID: "bob", Content: "hey", CreatedAt: time.Now()}

	f.matches.On("GetMatch", ctx, "m1").Return(models.Match{ID: "m1", User1ID: "alice", User2ID: "bob"}, nil).Once()
	f.conversations.On("GetByMatch", ctx, "m1").Return(conv, nil).Once()
	f.messages.On("AppendMessage", ctx, "c1", "bob", "hey").Return(msg, nil).Once()
	f.expectDelivery("c1", msg, "alice")

	result, err := f.svc.SendToMatch(ctx, "m1", "bob", "hey")
	require.NoError(t, err)
	require.NotNil(t, result.Conversation.LastMessage)
	assert.Equal(t, "hey", *result.Conversation.LastMessage)
}

func TestSendToMatchRejectsOutsiderAndEmpty(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendToMatch(ctx, "m1", "alice", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	f.matches.On("GetMatch", ctx, "m1").Return(models.Match{ID: "m1", User1ID: "alice", User2ID: "bob"}, nil).Once()
	_, err = f.svc.SendToMatch(ctx, "m1", "carol", "hi")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendDirectRequiresPremium(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	f.profiles.On("GetProfile", ctx, "alice").Return(models.Profile{ID: "alice"}, nil).Once()

	_, err := f.svc.SendDirect(ctx, "alice", "bob", "hi")
	assert.ErrorIs(t, err, ErrPremiumRequired)
}

func TestSendDirectCreatesPendingMatch(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	pending := models.Match{ID: "m9", User1ID: "alice", User2ID: "bob", Status: models.MatchPending}
	conv := models.Conversation{ID: "c9", MatchID: "m9", Participants: []string{"alice", "bob"}}
	msg := models.Message{ID: "msg9", ConversationID: "c9", SenderID: "alice", Content: "hi"}

	f.profiles.On("GetProfile", ctx, "alice").Return(models.Profile{ID: "alice", IsPremium: true}, nil).Once()
	f.profiles.On("GetProfile", ctx, "bob").Return(models.Profile{ID: "bob", Name: "Bob"}, nil).Once()
	f.matches.On("CreateOrGetPending", ctx, "alice", "bob").Return(pending, nil).Once()
	f.conversations.On("GetByMatch", ctx, "m9").Return(models.Conversation{}, repositories.ErrConversationNotFound).Once()
	f.profiles.On("ListProfiles", ctx, []string{"alice", "bob"}).Return([]models.Profile{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}}, nil).Once()
	f.conversations.On("CreateForMatch", ctx, pending, mock.Anything, "alice", "hi").Return(conv, msg, nil).Once()
	f.expectDelivery("c9", msg, "bob")

	result, err := f.svc.SendDirect(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	assert.Equal(t, "c9", result.Conversation.ID)
}

func TestListMessagesClampsLimit(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	f.conversations.On("IsParticipant", ctx, "c1", "alice").Return(true, nil).Twice()
	f.messages.On("ListMessages", ctx, "c1", (*time.Time)(nil), defaultMessagePageSize).Return([]models.Message{}, nil).Once()
	f.messages.On("ListMessages", ctx, "c1", (*time.Time)(nil), maxMessagePageSize).Return([]models.Message{}, nil).Once()

	_, err := f.svc.ListMessages(ctx, "c1", "alice", nil, 0)
	require.NoError(t, err)
	_, err = f.svc.ListMessages(ctx, "c1", "alice", nil, 10000)
	require.NoError(t, err)
}

func TestListMessagesRejectsOutsider(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	f.conversations.On("IsParticipant", ctx, "c1", "carol").Return(false, nil).Once()

	_, err := f.svc.ListMessages(ctx, "c1", "carol", nil, 10)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendToConversation(t *testing.T) {
	f := newMessagingFixture(t)
	ctx := context.Background()
	conv := models.Conversation{ID: "c1", Participants: []string{"alice", "bob"}}
	msg := models.Message{ID: "msg3", ConversationID: "c1", SenderID: "alice", Content: "yo"}

	f.conversations.On("GetConversation", ctx, "c1").Return(conv, nil).Once()
	f.messages.On("AppendMessage", ctx, "c1", "alice", "yo").Return(msg, nil).Once()
	f.expectDelivery("c1", msg, "bob")

	result, err := f.svc.SendToConversation(ctx, "c1", "alice", "yo")
	require.NoError(t, err)
	assert.Equal(t, "msg3", result.Message.ID)
}
