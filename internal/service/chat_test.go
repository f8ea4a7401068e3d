package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

func newTestChatService(repo *MockChatRepository, bus *MockBusClient, indexer *MockIndexer) ChatService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewChatService(repo, bus, indexer, testUpdateQueue, log)
}

func TestPostMessagePersistsPublishesAndIndexes(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockBus := new(MockBusClient)
	mockIndexer := new(MockIndexer)

	message := &model.ChatMessage{
		EventID: "evt-1",
		Channel: "operations",
		Sender:  "dispatch@example.com",
		Body:    "Bridge closure on Route 9",
	}
	created := &model.ChatMessage{
		Base:    model.Base{UUID: "msg-1"},
		EventID: "evt-1",
		Channel: "operations",
		Sender:  "dispatch@example.com",
		Body:    "Bridge closure on Route 9",
		Source:  model.WebMessageSource,
	}

	mockRepo.On("Create", mock.Anything, message).Return(created, nil)
	mockBus.On("PublishMessage", mock.Anything, created, testUpdateQueue).Return(nil)
	mockIndexer.On("IndexMessage", mock.Anything, created).Return(nil)

	svc := newTestChatService(mockRepo, mockBus, mockIndexer)

	result, err := svc.PostMessage(context.Background(), message)
	require.NoError(t, err)
	require.Equal(t, "msg-1", result.UUID)
	require.Equal(t, model.WebMessageSource, message.Source)

	mockRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
	mockIndexer.AssertExpectations(t)
}

func TestPostMessageIndexFailureIsNonFatal(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockBus := new(MockBusClient)
	mockIndexer := new(MockIndexer)

	message := &model.ChatMessage{EventID: "evt-1", Body: "hello"}
	created := &model.ChatMessage{Base: model.Base{UUID: "msg-1"}, EventID: "evt-1", Body: "hello"}

	mockRepo.On("Create", mock.Anything, message).Return(created, nil)
	mockBus.On("PublishMessage", mock.Anything, created, testUpdateQueue).Return(nil)
	mockIndexer.On("IndexMessage", mock.Anything, created).
		Return(errors.New("elasticsearch unavailable"))

	svc := newTestChatService(mockRepo, mockBus, mockIndexer)

	result, err := svc.PostMessage(context.Background(), message)
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestIngestBridgeMessageIsIdempotent(t *testing.T) {
	mockRepo := new(MockChatRepository)

	existing := &model.ChatMessage{
		Base:    model.Base{UUID: "msg-1"},
		EventID: "evt-1",
		Source:  model.GroupMeMessageSource,
	}
	mockRepo.On("GetByExternalID", mock.Anything, "gm-123").Return(existing, nil)

	svc := newTestChatService(mockRepo, new(MockBusClient), new(MockIndexer))

	result, err := svc.IngestBridgeMessage(context.Background(), &BridgeMessage{
		ExternalID: "gm-123",
		EventID:    "evt-1",
		Body:       "already seen",
		Source:     "groupme",
	})
	require.NoError(t, err)
	require.Equal(t, "msg-1", result.UUID)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngestBridgeMessageCreatesNewMessage(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockBus := new(MockBusClient)
	mockIndexer := new(MockIndexer)

	created := &model.ChatMessage{
		Base:    model.Base{UUID: "msg-2"},
		EventID: "evt-1",
		Source:  model.TeamsMessageSource,
	}

	mockRepo.On("GetByExternalID", mock.Anything, "teams-456").Return(nil, repository.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).Return(created, nil)
	mockBus.On("PublishMessage", mock.Anything, created, testUpdateQueue).Return(nil)
	mockIndexer.On("IndexMessage", mock.Anything, created).Return(nil)

	svc := newTestChatService(mockRepo, mockBus, mockIndexer)

	result, err := svc.IngestBridgeMessage(context.Background(), &BridgeMessage{
		ExternalID: "teams-456",
		EventID:    "evt-1",
		Channel:    "operations",
		Sender:     "Jordan",
		Body:       "Checking in",
		Source:     "teams",
	})
	require.NoError(t, err)
	require.Equal(t, "msg-2", result.UUID)
	mockRepo.AssertExpectations(t)
}

func TestIngestBridgeMessageRequiresExternalID(t *testing.T) {
	svc := newTestChatService(new(MockChatRepository), new(MockBusClient), new(MockIndexer))

	_, err := svc.IngestBridgeMessage(context.Background(), &BridgeMessage{EventID: "evt-1"})
	require.Error(t, err)
}

func TestIngestBridgeMessageRacingDuplicateFallsBackToLookup(t *testing.T) {
	mockRepo := new(MockChatRepository)

	existing := &model.ChatMessage{Base: model.Base{UUID: "msg-1"}, EventID: "evt-1"}

	mockRepo.On("GetByExternalID", mock.Anything, "gm-123").Return(nil, repository.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).
		Return(nil, repository.ErrDuplicateKey)
	mockRepo.On("GetByExternalID", mock.Anything, "gm-123").Return(existing, nil).Once()

	svc := newTestChatService(mockRepo, new(MockBusClient), new(MockIndexer))

	result, err := svc.IngestBridgeMessage(context.Background(), &BridgeMessage{
		ExternalID: "gm-123",
		EventID:    "evt-1",
		Source:     "groupme",
	})
	require.NoError(t, err)
	require.Equal(t, "msg-1", result.UUID)
}
