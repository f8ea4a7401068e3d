package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dynamisinc/cobra-poc-sub007/internal/checklist"
	"github.com/dynamisinc/cobra-poc-sub007/internal/messagebus"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

// Mock repositories for testing

type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) Create(ctx context.Context, instance *model.ChecklistInstance) (*model.ChecklistInstance, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistInstance), args.Error(1)
}

func (m *MockChecklistRepository) GetByID(ctx context.Context, id string) (*model.ChecklistInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistInstance), args.Error(1)
}

func (m *MockChecklistRepository) FindActiveByEvent(ctx context.Context, eventID string) ([]*model.ChecklistInstance, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChecklistInstance), args.Error(1)
}

func (m *MockChecklistRepository) FindAllActive(ctx context.Context) ([]*model.ChecklistInstance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChecklistInstance), args.Error(1)
}

func (m *MockChecklistRepository) UpdateCounters(ctx context.Context, instance *model.ChecklistInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockChecklistRepository) Archive(ctx context.Context, instance *model.ChecklistInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockChecklistRepository) GetItem(ctx context.Context, instanceID, itemID string) (*model.ChecklistItem, error) {
	args := m.Called(ctx, instanceID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) CreateItem(ctx context.Context, item *model.ChecklistItem) (*model.ChecklistItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistItem), args.Error(1)
}

func (m *MockChecklistRepository) UpdateItem(ctx context.Context, item *model.ChecklistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockChecklistRepository) DeleteItem(ctx context.Context, instanceID, itemID string) error {
	args := m.Called(ctx, instanceID, itemID)
	return args.Error(0)
}

// Transaction runs the callback against the mock itself so expectations
// set on the mock cover the in-transaction calls too.
func (m *MockChecklistRepository) Transaction(ctx context.Context, fn func(txRepo repository.ChecklistRepository) error) error {
	return fn(m)
}

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) Create(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OperationalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) Update(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OperationalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, id string) (*model.OperationalPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OperationalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) GetCurrentByEvent(ctx context.Context, eventID string) (*model.OperationalPeriod, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OperationalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindByEvent(ctx context.Context, eventID string) ([]*model.OperationalPeriod, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OperationalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) PromoteCurrent(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OperationalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) DeleteAndDetach(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	args := m.Called(ctx, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	args := m.Called(ctx, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistTemplate), args.Error(1)
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChecklistTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindActive(ctx context.Context) ([]*model.ChecklistTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChecklistTemplate), args.Error(1)
}

func (m *MockTemplateRepository) CreateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TemplateItem), args.Error(1)
}

func (m *MockTemplateRepository) UpdateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TemplateItem), args.Error(1)
}

func (m *MockTemplateRepository) DeleteItem(ctx context.Context, templateID, itemID string) error {
	args := m.Called(ctx, templateID, itemID)
	return args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Create(ctx context.Context, message *model.ChatMessage) (*model.ChatMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) GetByExternalID(ctx context.Context, externalID string) (*model.ChatMessage, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) FindByEvent(ctx context.Context, eventID, channel string, limit int) ([]*model.ChatMessage, error) {
	args := m.Called(ctx, eventID, channel, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChatMessage), args.Error(1)
}

// MockBusClient mocks the message bus client

type MockBusClient struct {
	mock.Mock
}

func (m *MockBusClient) PublishMessage(ctx context.Context, message interface{}, queueName string) error {
	args := m.Called(ctx, message, queueName)
	return args.Error(0)
}

func (m *MockBusClient) ReceiveMessages(ctx context.Context, queueName string, count int) ([]messagebus.Message, error) {
	args := m.Called(ctx, queueName, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messagebus.Message), args.Error(1)
}

func (m *MockBusClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockIndexer mocks the search indexer

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexMessage(ctx context.Context, msg *model.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockIndexer) SearchMessages(ctx context.Context, eventID, text string, limit int) ([]map[string]interface{}, error) {
	args := m.Called(ctx, eventID, text, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

// noopCache is a CacheClient that never hits and never fails, keeping
// cache behavior out of service tests.
type noopCache struct{}

func (noopCache) GetEventSections(ctx context.Context, eventID string) ([]checklist.Section, error) {
	return nil, nil
}

func (noopCache) SetEventSections(ctx context.Context, eventID string, sections []checklist.Section) error {
	return nil
}

func (noopCache) InvalidateEventSections(ctx context.Context, eventID string) error { return nil }

func (noopCache) GetCurrentPeriod(ctx context.Context, eventID string) (*model.OperationalPeriod, error) {
	return nil, nil
}

func (noopCache) SetCurrentPeriod(ctx context.Context, eventID string, period *model.OperationalPeriod) error {
	return nil
}

func (noopCache) InvalidateCurrentPeriod(ctx context.Context, eventID string) error { return nil }

func (noopCache) FlushAll(ctx context.Context) error { return nil }

func (noopCache) Close() error { return nil }
