package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"roommate-service/internal/models"
	"roommate-service/internal/observability"
)

var (
	ErrNotParticipant  = errors.New("not a participant")
	ErrEmptyMessage    = errors.New("message content is empty")
	ErrPremiumRequired = errors.New("premium subscription required")
	ErrInvalidExpiry   = errors.New("premium expiry must be in the future")
)

// Notifier pushes realtime events to connected clients.
type Notifier interface {
	BroadcastConversationMessage(conversationID string, msg models.Message)
	NotifyMatch(userID string, match models.Match)
	NotifyMessage(userID string, msg models.Message)
}

type noopNotifier struct{}

func (noopNotifier) BroadcastConversationMessage(string, models.Message) {}
func (noopNotifier) NotifyMatch(string, models.Match) {}
func (noopNotifier) NotifyMessage(string, models.Message) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func publishDomainEvent(ctx context.Context, routingKey, name string, payload any) {
	err := observability.PublishEvent(ctx, routingKey, observability.EventEnvelope{
		EventType: "domain_event",
		EventName: name,
		Payload:   payload,
	})
	if err != nil {
		logrus.WithError(err).WithField("event", name).Warn("event publish failed")
	}
}
