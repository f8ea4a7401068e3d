package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// ChatRepository defines the interface for chat message repository
type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.ChatMessage, error)
	FindByEvent(ctx context.Context, eventID, channel string, limit int) ([]*model.ChatMessage, error)
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create creates a new chat message. A unique index on external_id maps
// duplicate bridged deliveries to ErrDuplicateKey.
func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return message, nil
}

// GetByExternalID gets a bridged message by its external platform id
func (r *chatRepository) GetByExternalID(ctx context.Context, externalID string) (*model.ChatMessage, error) {
	var message model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&message).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindByEvent finds recent messages for an event channel, newest first
func (r *chatRepository) FindByEvent(ctx context.Context, eventID, channel string, limit int) ([]*model.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit)

	if channel != "" {
		query = query.Where("channel = ?", channel)
	}

	var messages []*model.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
