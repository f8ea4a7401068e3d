package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/messagebus"
	"github.com/dynamisinc/cobra-poc-sub007/internal/metrics"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/search"
)

// BridgeMessage is the inbound payload consumed from the bridge queue.
// External platforms (GroupMe, Teams) push these through the bridge.
type BridgeMessage struct {
	ExternalID string `json:"external_id"`
	EventID    string `json:"event_id"`
	Channel    string `json:"channel"`
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	Source     string `json:"source"`
}

// ChatService defines the interface for chat message operations
type ChatService interface {
	PostMessage(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error)
	IngestBridgeMessage(ctx context.Context, bridged *BridgeMessage) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, eventID, channel string, limit int) ([]*model.ChatMessage, error)
	SearchMessages(ctx context.Context, eventID, query string, limit int) ([]map[string]interface{}, error)
}

// chatService implements ChatService
type chatService struct {
	repo        repository.ChatRepository
	bus         messagebus.Client
	indexer     search.Indexer
	updateQueue string
	log         *logrus.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	repo repository.ChatRepository,
	bus messagebus.Client,
	indexer search.Indexer,
	updateQueue string,
	log *logrus.Logger,
) ChatService {
	return &chatService{
		repo:        repo,
		bus:         bus,
		indexer:     indexer,
		updateQueue: updateQueue,
		log:         log,
	}
}

// PostMessage persists a message posted from the web client, publishes a
// notification, and indexes it for search. Publish and index failures
// are non-fatal once the row is persisted.
func (s *chatService) PostMessage(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error) {
	startTime := time.Now()

	if message.Source == "" {
		message.Source = model.WebMessageSource
	}

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, err
	}

	collector := metrics.GetMetricsCollector()
	collector.IncrementCounter(metrics.CounterMessagesProcessed, 1)

	s.publish(ctx, created)
	s.index(ctx, created)

	s.log.WithFields(logrus.Fields{
		"message_id": created.UUID,
		"event_id":   created.EventID,
		"latency":    time.Since(startTime),
	}).Debug("Posted chat message")

	return created, nil
}

// IngestBridgeMessage persists a message bridged in from an external
// platform. Redeliveries from the bridge queue are deduplicated on the
// external message id.
func (s *chatService) IngestBridgeMessage(ctx context.Context, bridged *BridgeMessage) (*model.ChatMessage, error) {
	if bridged.ExternalID == "" {
		return nil, errors.New("bridge message has no external id")
	}

	existing, err := s.repo.GetByExternalID(ctx, bridged.ExternalID)
	if err == nil {
		s.log.WithField("external_id", bridged.ExternalID).
			Debug("Skipping already ingested bridge message")
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	externalID := bridged.ExternalID
	message := &model.ChatMessage{
		EventID:    bridged.EventID,
		Channel:    bridged.Channel,
		Sender:     bridged.Sender,
		Body:       bridged.Body,
		Source:     model.MessageSource(bridged.Source),
		ExternalID: &externalID,
	}

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		// A concurrent worker may have ingested the same delivery
		if errors.Is(err, repository.ErrDuplicateKey) {
			return s.repo.GetByExternalID(ctx, bridged.ExternalID)
		}
		return nil, err
	}

	metrics.GetMetricsCollector().IncrementCounter(metrics.CounterMessagesProcessed, 1)

	s.publish(ctx, created)
	s.index(ctx, created)

	return created, nil
}

// ListMessages lists recent messages for an event channel, newest first
func (s *chatService) ListMessages(ctx context.Context, eventID, channel string, limit int) ([]*model.ChatMessage, error) {
	return s.repo.FindByEvent(ctx, eventID, channel, limit)
}

// SearchMessages runs a full-text search over indexed messages
func (s *chatService) SearchMessages(ctx context.Context, eventID, query string, limit int) ([]map[string]interface{}, error) {
	if s.indexer == nil {
		return nil, errors.New("search is not enabled")
	}

	docs, err := s.indexer.SearchMessages(ctx, eventID, query, limit)
	if err != nil {
		metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeSearch)
		return nil, err
	}

	return docs, nil
}

func (s *chatService) publish(ctx context.Context, message *model.ChatMessage) {
	if s.bus == nil {
		return
	}

	err := messagebus.RetryWithBackoff(ctx, func() error {
		return s.bus.PublishMessage(ctx, message, s.updateQueue)
	}, 3)
	if err != nil {
		s.log.WithError(err).WithField("message_id", message.UUID).
			Warn("Failed to publish chat message notification")
		metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeMessageBus)
	}
}

func (s *chatService) index(ctx context.Context, message *model.ChatMessage) {
	if s.indexer == nil {
		return
	}

	if err := s.indexer.IndexMessage(ctx, message); err != nil {
		s.log.WithError(err).WithField("message_id", message.UUID).
			Warn("Failed to index chat message")
		metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeSearch)
	}
}
