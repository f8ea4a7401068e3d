package checklist

import (
	"math"
	"sort"
	"time"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// SectionType identifies the temporal bucket of a display section
type SectionType string

const (
	// CurrentSection holds checklists attached to the event's current period
	CurrentSection SectionType = "current"
	// IncidentSection holds event-wide checklists with no period link
	IncidentSection SectionType = "incident"
	// PreviousSection holds checklists attached to a past period
	PreviousSection SectionType = "previous"
)

// Section is one ordered display group of checklists
type Section struct {
	Type                  SectionType                `json:"type"`
	OperationalPeriodID   *string                    `json:"operational_period_id,omitempty"`
	OperationalPeriodName string                     `json:"operational_period_name,omitempty"`
	Checklists            []*model.ChecklistInstance `json:"checklists"`
	SortOrder             int                        `json:"sort_order"`
	AverageProgress       int                        `json:"average_progress"`
}

// BuildSections buckets an event's checklists into current, incident-level
// and previous-period sections, in that display order.
//
// The current section is emitted only when a current period id is supplied
// and at least one checklist references it. The incident section holds
// checklists with no period link and is emitted only when non-empty.
// Remaining checklists are grouped per period; those sections are ordered by
// each period's most recent checklist creation time, newest first, with
// sort orders assigned from 2 upward. Ties keep the first-appearance order
// of the period in the input, so the result is deterministic for a stable
// input ordering.
func BuildSections(checklists []*model.ChecklistInstance, currentPeriodID *string) []Section {
	sections := make([]Section, 0, 4)

	var current, incident []*model.ChecklistInstance
	previousByPeriod := make(map[string][]*model.ChecklistInstance)
	previousOrder := make([]string, 0)

	for _, c := range checklists {
		switch {
		case c.OperationalPeriodID == nil:
			incident = append(incident, c)
		case currentPeriodID != nil && *c.OperationalPeriodID == *currentPeriodID:
			current = append(current, c)
		default:
			id := *c.OperationalPeriodID
			if _, seen := previousByPeriod[id]; !seen {
				previousOrder = append(previousOrder, id)
			}
			previousByPeriod[id] = append(previousByPeriod[id], c)
		}
	}

	if len(current) > 0 {
		sections = append(sections, Section{
			Type:                  CurrentSection,
			OperationalPeriodID:   currentPeriodID,
			OperationalPeriodName: periodName(current),
			Checklists:            current,
			SortOrder:             0,
			AverageProgress:       averageProgress(current),
		})
	}

	if len(incident) > 0 {
		sections = append(sections, Section{
			Type:            IncidentSection,
			Checklists:      incident,
			SortOrder:       1,
			AverageProgress: averageProgress(incident),
		})
	}

	// Previous periods ordered by their latest checklist creation time,
	// most recently active first.
	sort.SliceStable(previousOrder, func(i, j int) bool {
		return latestCreation(previousByPeriod[previousOrder[i]]).
			After(latestCreation(previousByPeriod[previousOrder[j]]))
	})

	sortOrder := 2
	for _, id := range previousOrder {
		group := previousByPeriod[id]
		periodID := id
		sections = append(sections, Section{
			Type:                  PreviousSection,
			OperationalPeriodID:   &periodID,
			OperationalPeriodName: periodName(group),
			Checklists:            group,
			SortOrder:             sortOrder,
			AverageProgress:       averageProgress(group),
		})
		sortOrder++
	}

	return sections
}

// averageProgress returns the mean progress percentage across a group,
// rounded to the nearest integer. Empty groups yield 0.
func averageProgress(checklists []*model.ChecklistInstance) int {
	if len(checklists) == 0 {
		return 0
	}
	var sum float64
	for _, c := range checklists {
		sum += c.ProgressPercentage
	}
	return int(math.Round(sum / float64(len(checklists))))
}

// latestCreation returns the newest checklist creation time in a group
func latestCreation(checklists []*model.ChecklistInstance) time.Time {
	var latest time.Time
	for _, c := range checklists {
		if c.CreatedAt.After(latest) {
			latest = c.CreatedAt
		}
	}
	return latest
}

// periodName returns the preloaded period name for a group when available
func periodName(checklists []*model.ChecklistInstance) string {
	for _, c := range checklists {
		if c.OperationalPeriod != nil {
			return c.OperationalPeriod.Name
		}
	}
	return ""
}
