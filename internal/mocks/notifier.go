package mocks

import (
	"github.com/stretchr/testify/mock"

	"roommate-service/internal/models"
)

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) BroadcastConversationMessage(conversationID string, msg models.Message) {
	m.Called(conversationID, msg)
}

func (m *NotifierMock) NotifyMatch(userID string, match models.Match) {
	m.Called(userID, match)
}

func (m *NotifierMock) NotifyMessage(userID string, msg models.Message) {
	m.Called(userID, msg)
}
