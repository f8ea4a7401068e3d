package checklist

import (
	"errors"
	"fmt"
	"math"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// Common progress errors
var (
	// ErrStatusNotInOptions indicates a status item whose current status is
	// not one of its own allowed options. This is a data-integrity fault and
	// must surface to the caller rather than silently count as incomplete.
	ErrStatusNotInOptions = errors.New("current status not found among item status options")
	// ErrUnsupportedItemType indicates an item with an unknown variant
	ErrUnsupportedItemType = errors.New("unsupported checklist item type")
)

// Progress holds the aggregate counters for a checklist instance
type Progress struct {
	TotalItems             int     `json:"total_items"`
	CompletedItems         int     `json:"completed_items"`
	ProgressPercentage     float64 `json:"progress_percentage"`
	RequiredItems          int     `json:"required_items"`
	RequiredItemsCompleted int     `json:"required_items_completed"`
}

// ComputeProgress aggregates item completion state into instance counters.
// Pure function: no side effects, callers persist the result themselves.
// An instance with zero items yields a zero progress, not an error.
func ComputeProgress(items []model.ChecklistItem) (Progress, error) {
	p := Progress{TotalItems: len(items)}

	for i := range items {
		item := &items[i]
		complete, err := ItemComplete(item)
		if err != nil {
			return Progress{}, fmt.Errorf("item %s: %w", item.UUID, err)
		}

		if complete {
			p.CompletedItems++
		}
		if item.IsRequired {
			p.RequiredItems++
			if complete {
				p.RequiredItemsCompleted++
			}
		}
	}

	if p.TotalItems > 0 {
		pct := float64(p.CompletedItems) / float64(p.TotalItems) * 100
		p.ProgressPercentage = math.Round(pct*100) / 100
	}

	return p, nil
}

// ItemComplete reports whether a single item counts as completed.
// A checkbox item is complete only when explicitly marked true; nil means
// untouched. A status item is complete only when its current status matches
// one of its own options flagged as a completion status.
func ItemComplete(item *model.ChecklistItem) (bool, error) {
	switch item.ItemType {
	case model.CheckboxItemType:
		return item.IsCompleted != nil && *item.IsCompleted, nil

	case model.StatusItemType:
		if item.CurrentStatus == nil {
			return false, nil
		}
		for _, option := range item.StatusOptions {
			if option.Label == *item.CurrentStatus {
				return option.IsCompletion, nil
			}
		}
		return false, ErrStatusNotInOptions

	default:
		return false, ErrUnsupportedItemType
	}
}

// Stamp writes the computed counters onto the owning instance.
func Stamp(instance *model.ChecklistInstance, p Progress) {
	instance.TotalItems = p.TotalItems
	instance.CompletedItems = p.CompletedItems
	instance.ProgressPercentage = p.ProgressPercentage
	instance.RequiredItems = p.RequiredItems
	instance.RequiredItemsCompleted = p.RequiredItemsCompleted
}
