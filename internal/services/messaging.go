package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"roommate-service/internal/models"
	"roommate-service/internal/observability"
	"roommate-service/internal/repositories"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// SendResult pairs a stored message with its conversation.
type SendResult struct {
	Conversation models.Conversation `json:"conversation"`
	Message      models.Message      `json:"message"`
}

// MessagingService owns conversations and their messages.
type MessagingService struct {
	profiles      repositories.ProfileRepository
	matches       repositories.MatchRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	premium       *PremiumService
	notifier      Notifier
}

// NewMessagingService constructs a MessagingService.
func NewMessagingService(profiles repositories.ProfileRepository, matches repositories.MatchRepository, conversations repositories.ConversationRepository, messages repositories.MessageRepository, premium *PremiumService, notifier Notifier) *MessagingService {
	return &MessagingService{
		profiles:      profiles,
		matches:       matches,
		conversations: conversations,
		messages:      messages,
		premium:       premium,
		notifier:      notifierOrNoop(notifier),
	}
}

// SendToMatch posts a message to the match's conversation, creating the conversation on first use.
func (s *MessagingService) SendToMatch(ctx context.Context, matchID, senderID, content string) (SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return SendResult{}, ErrEmptyMessage
	}

	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return SendResult{}, err
	}
	return s.sendToMatch(ctx, match, senderID, content)
}

// SendDirect messages a user without a mutual match. Requires the message_without_match feature.
func (s *MessagingService) SendDirect(ctx context.Context, senderID, recipientID, content string) (SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return SendResult{}, ErrEmptyMessage
	}
	if senderID == recipientID {
		return SendResult{}, repositories.ErrSelfMatch
	}

	allowed, err := s.premium.CanViewPremiumFeature(ctx, senderID, FeatureMessageWithoutMatch)
	if err != nil {
		return SendResult{}, err
	}
	if !allowed {
		observability.IncPremiumDenied(FeatureMessageWithoutMatch)
		return SendResult{}, ErrPremiumRequired
	}
	if _, err := s.profiles.GetProfile(ctx, recipientID); err != nil {
		return SendResult{}, err
	}

	match, err := s.matches.CreateOrGetPending(ctx, senderID, recipientID)
	if err != nil {
		return SendResult{}, fmt.Errorf("ensure match: %w", err)
	}
	return s.sendToMatch(ctx, match, senderID, content)
}

func (s *MessagingService) sendToMatch(ctx context.Context, match models.Match, senderID, content string) (SendResult, error) {
	if !match.HasParticipant(senderID) {
		return SendResult{}, ErrNotParticipant
	}

	conv, err := s.conversations.GetByMatch(ctx, match.ID)
	if err == nil {
		msg, err := s.messages.AppendMessage(ctx, conv.ID, senderID, content)
		if err != nil {
			return SendResult{}, err
		}
		conv.LastMessage = &msg.Content
		conv.LastMessageAt = &msg.CreatedAt
		return s.delivered(ctx, conv, msg), nil
	}
	if !errors.Is(err, repositories.ErrConversationNotFound) {
		return SendResult{}, err
	}

	participants := []string{match.User1ID, match.User2ID}
	profiles, err := s.profiles.ListProfiles(ctx, participants)
	if err != nil {
		return SendResult{}, fmt.Errorf("load participant profiles: %w", err)
	}

	conv, msg, err := s.conversations.CreateForMatch(ctx, match, models.ReconcileParticipants(participants, profiles), senderID, content)
	if err != nil {
		return SendResult{}, err
	}
	logrus.WithFields(logrus.Fields{"conversation_id": conv.ID, "match_id": match.ID}).Info("conversation created")
	return s.delivered(ctx, conv, msg), nil
}

func (s *MessagingService) delivered(ctx context.Context, conv models.Conversation, msg models.Message) SendResult {
	observability.IncMessage("conversation")
	publishDomainEvent(ctx, "messages.sent", "message.sent", msg)
	s.notifier.BroadcastConversationMessage(conv.ID, msg)
	for _, participant := range conv.Participants {
		if participant != msg.SenderID {
			s.notifier.NotifyMessage(participant, msg)
		}
	}
	return SendResult{Conversation: conv, Message: msg}
}

// SendToConversation posts into an existing conversation.
func (s *MessagingService) SendToConversation(ctx context.Context, conversationID, senderID, content string) (SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return SendResult{}, ErrEmptyMessage
	}

	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return SendResult{}, err
	}
	if !conv.HasParticipant(senderID) {
		return SendResult{}, ErrNotParticipant
	}

	msg, err := s.messages.AppendMessage(ctx, conv.ID, senderID, content)
	if err != nil {
		return SendResult{}, err
	}
	conv.LastMessage = &msg.Content
	conv.LastMessageAt = &msg.CreatedAt
	return s.delivered(ctx, conv, msg), nil
}

// ListMessages pages through a conversation newest-first. A non-positive limit uses the default page size.
func (s *MessagingService) ListMessages(ctx context.Context, conversationID, userID string, before *time.Time, limit int) ([]models.Message, error) {
	member, err := s.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotParticipant
	}

	switch {
	case limit <= 0:
		limit = defaultMessagePageSize
	case limit > maxMessagePageSize:
		limit = maxMessagePageSize
	}
	return s.messages.ListMessages(ctx, conversationID, before, limit)
}

// ListConversations returns userID's conversations by latest activity.
func (s *MessagingService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.conversations.ListForUser(ctx, userID)
}
