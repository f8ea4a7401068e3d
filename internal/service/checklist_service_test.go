package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dynamisinc/cobra-poc-sub007/internal/checklist"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

const testUpdateQueue = "checklist-updates"

func newTestChecklistService(repo *MockChecklistRepository, periods *MockPeriodRepository, templates *MockTemplateRepository, bus *MockBusClient) ChecklistService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewChecklistService(repo, periods, templates, noopCache{}, bus, testUpdateQueue, log)
}

func TestCreateFromTemplateCopiesItemsAndStampsCounters(t *testing.T) {
	mockRepo := new(MockChecklistRepository)
	mockPeriods := new(MockPeriodRepository)
	mockTemplates := new(MockTemplateRepository)
	mockBus := new(MockBusClient)

	template := &model.ChecklistTemplate{
		Base:   model.Base{UUID: "tpl-1"},
		Name:   "Shift Change",
		Active: true,
		Items: []model.TemplateItem{
			{Label: "Brief incoming staff", ItemType: model.CheckboxItemType, IsRequired: true, DisplayOrder: 1},
			{
				Label:    "Radio check",
				ItemType: model.StatusItemType,
				StatusOptions: model.StatusOptions{
					{Label: "Not Started", Order: 1},
					{Label: "Complete", IsCompletion: true, Order: 2},
				},
				DisplayOrder: 2,
			},
		},
	}

	var captured *model.ChecklistInstance
	mockTemplates.On("GetByID", mock.Anything, "tpl-1").Return(template, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ChecklistInstance")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*model.ChecklistInstance) }).
		Return(&model.ChecklistInstance{Base: model.Base{UUID: "cl-1"}}, nil)
	mockBus.On("PublishMessage", mock.Anything, mock.Anything, testUpdateQueue).Return(nil)

	svc := newTestChecklistService(mockRepo, mockPeriods, mockTemplates, mockBus)

	created, err := svc.CreateFromTemplate(context.Background(), "evt-1", "tpl-1", nil, "", "chief@example.com")
	require.NoError(t, err)
	require.NotNil(t, created)

	require.NotNil(t, captured)
	require.Equal(t, "Shift Change", captured.Name)
	require.Equal(t, "chief@example.com", captured.CreatedBy)
	require.Len(t, captured.Items, 2)

	// Items are copies, not references to the template rows
	require.Empty(t, captured.Items[0].ChecklistInstanceID)
	require.Equal(t, "Brief incoming staff", captured.Items[0].Label)
	require.Len(t, captured.Items[1].StatusOptions, 2)

	// Counters stamped against the fresh items
	require.Equal(t, 2, captured.TotalItems)
	require.Equal(t, 0, captured.CompletedItems)
	require.Equal(t, 0.0, captured.ProgressPercentage)
	require.Equal(t, 1, captured.RequiredItems)

	mockRepo.AssertExpectations(t)
	mockTemplates.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestCreateFromTemplateRejectsInactiveTemplate(t *testing.T) {
	mockRepo := new(MockChecklistRepository)
	mockTemplates := new(MockTemplateRepository)

	mockTemplates.On("GetByID", mock.Anything, "tpl-1").
		Return(&model.ChecklistTemplate{Base: model.Base{UUID: "tpl-1"}, Active: false}, nil)

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), mockTemplates, new(MockBusClient))

	_, err := svc.CreateFromTemplate(context.Background(), "evt-1", "tpl-1", nil, "", "someone")
	require.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestToggleItemRecomputesCountersInTransaction(t *testing.T) {
	mockRepo := new(MockChecklistRepository)
	mockBus := new(MockBusClient)

	item := model.ChecklistItem{
		Base:                model.Base{UUID: "item-1"},
		ChecklistInstanceID: "cl-1",
		ItemType:            model.CheckboxItemType,
		IsRequired:          true,
	}
	other := model.ChecklistItem{
		Base:                model.Base{UUID: "item-2"},
		ChecklistInstanceID: "cl-1",
		ItemType:            model.CheckboxItemType,
	}

	before := &model.ChecklistInstance{
		Base:    model.Base{UUID: "cl-1"},
		EventID: "evt-1",
		Items:   []model.ChecklistItem{item, other},
	}

	completed := true
	toggled := item
	toggled.IsCompleted = &completed
	after := &model.ChecklistInstance{
		Base:    model.Base{UUID: "cl-1"},
		EventID: "evt-1",
		Items:   []model.ChecklistItem{toggled, other},
	}

	mockRepo.On("GetByID", mock.Anything, "cl-1").Return(before, nil).Once()
	mockRepo.On("GetItem", mock.Anything, "cl-1", "item-1").Return(&item, nil)
	mockRepo.On("UpdateItem", mock.Anything, mock.AnythingOfType("*model.ChecklistItem")).Return(nil)
	mockRepo.On("GetByID", mock.Anything, "cl-1").Return(after, nil).Once()
	mockRepo.On("UpdateCounters", mock.Anything, after).Return(nil)
	mockBus.On("PublishMessage", mock.Anything, mock.Anything, testUpdateQueue).Return(nil)

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), new(MockTemplateRepository), mockBus)

	updated, err := svc.ToggleItem(context.Background(), "cl-1", "item-1", true, "ops@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, updated.TotalItems)
	require.Equal(t, 1, updated.CompletedItems)
	require.Equal(t, 50.0, updated.ProgressPercentage)
	require.Equal(t, 1, updated.RequiredItems)
	require.Equal(t, 1, updated.RequiredItemsCompleted)

	mockRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestToggleItemRejectsArchivedChecklist(t *testing.T) {
	mockRepo := new(MockChecklistRepository)

	archived := &model.ChecklistInstance{
		Base:       model.Base{UUID: "cl-1"},
		IsArchived: true,
	}
	mockRepo.On("GetByID", mock.Anything, "cl-1").Return(archived, nil)

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), new(MockTemplateRepository), new(MockBusClient))

	_, err := svc.ToggleItem(context.Background(), "cl-1", "item-1", true, "someone")
	require.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateCounters", mock.Anything, mock.Anything)
}

func TestSetItemStatusRejectsUnknownStatus(t *testing.T) {
	mockRepo := new(MockChecklistRepository)

	item := model.ChecklistItem{
		Base:                model.Base{UUID: "item-1"},
		ChecklistInstanceID: "cl-1",
		ItemType:            model.StatusItemType,
		StatusOptions: model.StatusOptions{
			{Label: "Not Started", Order: 1},
			{Label: "Complete", IsCompletion: true, Order: 2},
		},
	}
	instance := &model.ChecklistInstance{
		Base:  model.Base{UUID: "cl-1"},
		Items: []model.ChecklistItem{item},
	}

	mockRepo.On("GetByID", mock.Anything, "cl-1").Return(instance, nil)
	mockRepo.On("GetItem", mock.Anything, "cl-1", "item-1").Return(&item, nil)

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), new(MockTemplateRepository), new(MockBusClient))

	_, err := svc.SetItemStatus(context.Background(), "cl-1", "item-1", "Bogus")
	require.ErrorIs(t, err, checklist.ErrStatusNotInOptions)
	mockRepo.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateCounters", mock.Anything, mock.Anything)
}

func TestGetEventSectionsGroupsByPeriod(t *testing.T) {
	mockRepo := new(MockChecklistRepository)
	mockPeriods := new(MockPeriodRepository)

	currentID := "period-current"
	previousID := "period-old"
	checklists := []*model.ChecklistInstance{
		{Base: model.Base{UUID: "cl-1"}, EventID: "evt-1", OperationalPeriodID: &currentID},
		{Base: model.Base{UUID: "cl-2"}, EventID: "evt-1"},
		{Base: model.Base{UUID: "cl-3"}, EventID: "evt-1", OperationalPeriodID: &previousID},
	}

	mockRepo.On("FindActiveByEvent", mock.Anything, "evt-1").Return(checklists, nil)
	mockPeriods.On("GetCurrentByEvent", mock.Anything, "evt-1").
		Return(&model.OperationalPeriod{Base: model.Base{UUID: currentID}}, nil)

	svc := newTestChecklistService(mockRepo, mockPeriods, new(MockTemplateRepository), new(MockBusClient))

	sections, err := svc.GetEventSections(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, sections, 3)
	require.Equal(t, checklist.CurrentSection, sections[0].Type)
	require.Equal(t, checklist.IncidentSection, sections[1].Type)
	require.Equal(t, checklist.PreviousSection, sections[2].Type)
}

func TestGetEventSectionsWithoutCurrentPeriod(t *testing.T) {
	mockRepo := new(MockChecklistRepository)
	mockPeriods := new(MockPeriodRepository)

	oldID := "period-old"
	checklists := []*model.ChecklistInstance{
		{Base: model.Base{UUID: "cl-1"}, EventID: "evt-1", OperationalPeriodID: &oldID},
	}

	mockRepo.On("FindActiveByEvent", mock.Anything, "evt-1").Return(checklists, nil)
	mockPeriods.On("GetCurrentByEvent", mock.Anything, "evt-1").Return(nil, repository.ErrNotFound)

	svc := newTestChecklistService(mockRepo, mockPeriods, new(MockTemplateRepository), new(MockBusClient))

	sections, err := svc.GetEventSections(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, checklist.PreviousSection, sections[0].Type)
}

func TestArchiveIsIdempotent(t *testing.T) {
	mockRepo := new(MockChecklistRepository)

	archived := &model.ChecklistInstance{
		Base:       model.Base{UUID: "cl-1"},
		IsArchived: true,
	}
	mockRepo.On("GetByID", mock.Anything, "cl-1").Return(archived, nil)

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), new(MockTemplateRepository), new(MockBusClient))

	instance, err := svc.Archive(context.Background(), "cl-1", "chief@example.com")
	require.NoError(t, err)
	require.True(t, instance.IsArchived)
	mockRepo.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
}

func TestArchiveStampsActorAndTime(t *testing.T) {
	mockRepo := new(MockChecklistRepository)
	mockBus := new(MockBusClient)

	instance := &model.ChecklistInstance{
		Base:    model.Base{UUID: "cl-1"},
		EventID: "evt-1",
	}
	mockRepo.On("GetByID", mock.Anything, "cl-1").Return(instance, nil)
	mockRepo.On("Archive", mock.Anything, instance).Return(nil)
	mockBus.On("PublishMessage", mock.Anything, mock.Anything, testUpdateQueue).Return(nil)

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), new(MockTemplateRepository), mockBus)

	archived, err := svc.Archive(context.Background(), "cl-1", "chief@example.com")
	require.NoError(t, err)
	require.True(t, archived.IsArchived)
	require.NotNil(t, archived.ArchivedBy)
	require.Equal(t, "chief@example.com", *archived.ArchivedBy)
	require.NotNil(t, archived.ArchivedAt)

	mockRepo.AssertExpectations(t)
}

func TestReconcileProgressRepairsDriftedCounters(t *testing.T) {
	mockRepo := new(MockChecklistRepository)

	completed := true
	drifted := &model.ChecklistInstance{
		Base:    model.Base{UUID: "cl-drifted"},
		EventID: "evt-1",
		Items: []model.ChecklistItem{
			{Base: model.Base{UUID: "i1"}, ItemType: model.CheckboxItemType, IsCompleted: &completed},
			{Base: model.Base{UUID: "i2"}, ItemType: model.CheckboxItemType},
		},
		// Stored counters disagree with the items above
		TotalItems:         2,
		CompletedItems:     0,
		ProgressPercentage: 0,
	}
	consistent := &model.ChecklistInstance{
		Base:    model.Base{UUID: "cl-ok"},
		EventID: "evt-1",
		Items: []model.ChecklistItem{
			{Base: model.Base{UUID: "i3"}, ItemType: model.CheckboxItemType},
		},
		TotalItems: 1,
	}

	mockRepo.On("FindAllActive", mock.Anything).
		Return([]*model.ChecklistInstance{drifted, consistent}, nil)
	mockRepo.On("UpdateCounters", mock.Anything, drifted).Return(nil).Once()

	svc := newTestChecklistService(mockRepo, new(MockPeriodRepository), new(MockTemplateRepository), new(MockBusClient))

	repaired, err := svc.ReconcileProgress(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repaired)
	require.Equal(t, 1, drifted.CompletedItems)
	require.Equal(t, 50.0, drifted.ProgressPercentage)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "UpdateCounters", 1)
}
