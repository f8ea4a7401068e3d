package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

func instance(uuid string, periodID *string, progress float64, createdAt time.Time) *model.ChecklistInstance {
	c := &model.ChecklistInstance{
		OperationalPeriodID: periodID,
		ProgressPercentage:  progress,
	}
	c.UUID = uuid
	c.CreatedAt = createdAt
	return c
}

func sectionUUIDs(s Section) []string {
	ids := make([]string, len(s.Checklists))
	for i, c := range s.Checklists {
		ids[i] = c.UUID
	}
	return ids
}

func TestBuildSectionsEmpty(t *testing.T) {
	sections := BuildSections(nil, nil)
	assert.Empty(t, sections)
}

func TestBuildSectionsCurrentIncidentPrevious(t *testing.T) {
	now := time.Now()
	p1 := "period-1"
	p2 := "period-2"

	checklists := []*model.ChecklistInstance{
		instance("A", &p1, 10, now),
		instance("B", nil, 20, now),
		instance("C", &p2, 30, now.Add(-time.Hour)),
		instance("D", &p2, 40, now.Add(-2*time.Hour)),
	}

	sections := BuildSections(checklists, &p1)
	require.Len(t, sections, 3)

	assert.Equal(t, CurrentSection, sections[0].Type)
	assert.Equal(t, 0, sections[0].SortOrder)
	assert.Equal(t, []string{"A"}, sectionUUIDs(sections[0]))
	require.NotNil(t, sections[0].OperationalPeriodID)
	assert.Equal(t, p1, *sections[0].OperationalPeriodID)

	assert.Equal(t, IncidentSection, sections[1].Type)
	assert.Equal(t, 1, sections[1].SortOrder)
	assert.Equal(t, []string{"B"}, sectionUUIDs(sections[1]))
	assert.Nil(t, sections[1].OperationalPeriodID)

	assert.Equal(t, PreviousSection, sections[2].Type)
	assert.Equal(t, 2, sections[2].SortOrder)
	assert.Equal(t, []string{"C", "D"}, sectionUUIDs(sections[2]))
	require.NotNil(t, sections[2].OperationalPeriodID)
	assert.Equal(t, p2, *sections[2].OperationalPeriodID)
}

func TestBuildSectionsPreviousOrderedByLatestCreation(t *testing.T) {
	p2 := "period-2"
	p3 := "period-3"

	// P2's latest checklist is newer than P3's, so P2 comes first even
	// though P3's entries appear first in the input.
	checklists := []*model.ChecklistInstance{
		instance("old-p3", &p3, 0, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		instance("old-p2", &p2, 0, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		instance("new-p2", &p2, 0, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
	}

	sections := BuildSections(checklists, nil)
	require.Len(t, sections, 2)

	assert.Equal(t, p2, *sections[0].OperationalPeriodID)
	assert.Equal(t, 2, sections[0].SortOrder)
	assert.Equal(t, p3, *sections[1].OperationalPeriodID)
	assert.Equal(t, 3, sections[1].SortOrder)
}

func TestBuildSectionsPreviousTieIsStable(t *testing.T) {
	pA := "period-a"
	pB := "period-b"
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	checklists := []*model.ChecklistInstance{
		instance("a1", &pA, 0, created),
		instance("b1", &pB, 0, created),
	}

	// Identical latest-creation timestamps: order must be deterministic
	// across repeated calls with the same input ordering.
	first := BuildSections(checklists, nil)
	require.Len(t, first, 2)
	for i := 0; i < 10; i++ {
		again := BuildSections(checklists, nil)
		require.Len(t, again, 2)
		assert.Equal(t, *first[0].OperationalPeriodID, *again[0].OperationalPeriodID)
		assert.Equal(t, *first[1].OperationalPeriodID, *again[1].OperationalPeriodID)
	}
}

func TestBuildSectionsNoCurrentReference(t *testing.T) {
	p1 := "period-1"
	missing := "period-gone"

	checklists := []*model.ChecklistInstance{
		instance("A", &p1, 0, time.Now()),
	}

	// Current id supplied but nothing references it: no empty current
	// section is emitted.
	sections := BuildSections(checklists, &missing)
	require.Len(t, sections, 1)
	assert.Equal(t, PreviousSection, sections[0].Type)
	assert.Equal(t, 2, sections[0].SortOrder)
}

func TestBuildSectionsOnlyPrevious(t *testing.T) {
	p1 := "period-1"
	p2 := "period-2"
	now := time.Now()

	checklists := []*model.ChecklistInstance{
		instance("A", &p1, 0, now.Add(-time.Hour)),
		instance("B", &p2, 0, now),
	}

	sections := BuildSections(checklists, nil)
	require.Len(t, sections, 2)

	assert.Equal(t, PreviousSection, sections[0].Type)
	assert.Equal(t, p2, *sections[0].OperationalPeriodID)
	assert.Equal(t, 2, sections[0].SortOrder)
	assert.Equal(t, PreviousSection, sections[1].Type)
	assert.Equal(t, p1, *sections[1].OperationalPeriodID)
	assert.Equal(t, 3, sections[1].SortOrder)
}

func TestBuildSectionsAverageProgress(t *testing.T) {
	p1 := "period-1"
	now := time.Now()

	checklists := []*model.ChecklistInstance{
		instance("A", &p1, 33.33, now),
		instance("B", &p1, 66.67, now),
		instance("C", nil, 10.4, now),
	}

	sections := BuildSections(checklists, &p1)
	require.Len(t, sections, 2)

	// (33.33 + 66.67) / 2 = 50
	assert.Equal(t, 50, sections[0].AverageProgress)
	// 10.4 rounds to 10
	assert.Equal(t, 10, sections[1].AverageProgress)
}

func TestBuildSectionsPeriodNameFromPreload(t *testing.T) {
	p1 := "period-1"
	c := instance("A", &p1, 0, time.Now())
	c.OperationalPeriod = &model.OperationalPeriod{Name: "Day Shift"}

	sections := BuildSections([]*model.ChecklistInstance{c}, &p1)
	require.Len(t, sections, 1)
	assert.Equal(t, "Day Shift", sections[0].OperationalPeriodName)
}
