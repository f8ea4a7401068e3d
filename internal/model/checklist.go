package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ItemType defines the variant of a checklist item
type ItemType string

const (
	// CheckboxItemType represents a simple complete/incomplete item
	CheckboxItemType ItemType = "checkbox"
	// StatusItemType represents an item tracked through a set of status options
	StatusItemType ItemType = "status"
)

// StatusOption is one allowed status value for a status item
type StatusOption struct {
	Label        string `json:"label"`
	IsCompletion bool   `json:"is_completion"`
	Order        int    `json:"order"`
}

// StatusOptions is the ordered set of allowed statuses for a status item.
// Stored as jsonb and deserialized once at load so the rest of the code
// never handles a raw blob.
type StatusOptions []StatusOption

// Value implements driver.Valuer for jsonb storage
func (o StatusOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner for jsonb storage
func (o *StatusOptions) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported type %T for status options", value)
	}
}

// ChecklistTemplate represents a reusable checklist definition
type ChecklistTemplate struct {
	Base
	Name        string         `json:"name" gorm:"column:name"`
	Description string         `json:"description" gorm:"column:description;type:text"`
	Active      bool           `json:"active" gorm:"column:active;default:true"`
	Items       []TemplateItem `json:"items" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// TemplateItem represents an item definition within a template
type TemplateItem struct {
	Base
	TemplateID    string             `json:"template_id" gorm:"column:template_id;type:uuid;index"`
	Template      *ChecklistTemplate `json:"-" gorm:"foreignKey:TemplateID"`
	Label         string             `json:"label" gorm:"column:label"`
	Notes         string             `json:"notes" gorm:"column:notes;type:text"`
	ItemType      ItemType           `json:"item_type" gorm:"column:item_type"`
	IsRequired    bool               `json:"is_required" gorm:"column:is_required"`
	StatusOptions StatusOptions      `json:"status_options,omitempty" gorm:"column:status_options;type:jsonb"`
	DisplayOrder  int                `json:"display_order" gorm:"column:display_order"`
}

// ChecklistInstance represents a live checklist created from a template.
// The counter fields are a cache of the progress computed over Items and
// are restamped inside the same transaction as every item mutation.
type ChecklistInstance struct {
	Base
	EventID             string             `json:"event_id" gorm:"column:event_id;type:uuid;index"`
	Event               *Event             `json:"-" gorm:"foreignKey:EventID"`
	OperationalPeriodID *string            `json:"operational_period_id" gorm:"column:operational_period_id;type:uuid;index"`
	OperationalPeriod   *OperationalPeriod `json:"operational_period,omitempty" gorm:"foreignKey:OperationalPeriodID"`
	TemplateID          *string            `json:"template_id" gorm:"column:template_id;type:uuid"`
	Name                string             `json:"name" gorm:"column:name"`

	Items []ChecklistItem `json:"items,omitempty" gorm:"foreignKey:ChecklistInstanceID;constraint:OnDelete:CASCADE"`

	TotalItems             int     `json:"total_items" gorm:"column:total_items"`
	CompletedItems         int     `json:"completed_items" gorm:"column:completed_items"`
	ProgressPercentage     float64 `json:"progress_percentage" gorm:"column:progress_percentage"`
	RequiredItems          int     `json:"required_items" gorm:"column:required_items"`
	RequiredItemsCompleted int     `json:"required_items_completed" gorm:"column:required_items_completed"`

	IsArchived bool       `json:"is_archived" gorm:"column:is_archived;index"`
	ArchivedBy *string    `json:"archived_by,omitempty" gorm:"column:archived_by"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" gorm:"column:archived_at"`
	CreatedBy  string     `json:"created_by" gorm:"column:created_by"`
}

// ChecklistItem represents a single item on a checklist instance
type ChecklistItem struct {
	Base
	ChecklistInstanceID string             `json:"checklist_instance_id" gorm:"column:checklist_instance_id;type:uuid;index"`
	ChecklistInstance   *ChecklistInstance `json:"-" gorm:"foreignKey:ChecklistInstanceID"`
	Label               string             `json:"label" gorm:"column:label"`
	Notes               string             `json:"notes" gorm:"column:notes;type:text"`
	ItemType            ItemType           `json:"item_type" gorm:"column:item_type"`
	IsRequired          bool               `json:"is_required" gorm:"column:is_required"`

	// Checkbox variant. Nil means untouched, false means explicitly
	// marked incomplete.
	IsCompleted *bool      `json:"is_completed" gorm:"column:is_completed"`
	CompletedBy *string    `json:"completed_by,omitempty" gorm:"column:completed_by"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`

	// Status variant
	CurrentStatus *string       `json:"current_status" gorm:"column:current_status"`
	StatusOptions StatusOptions `json:"status_options,omitempty" gorm:"column:status_options;type:jsonb"`

	DisplayOrder int `json:"display_order" gorm:"column:display_order"`
}

// ItemFromTemplate copies a template item into a fresh instance item.
// Copies are by value: later template edits never reach existing instances.
func ItemFromTemplate(t TemplateItem) ChecklistItem {
	options := make(StatusOptions, len(t.StatusOptions))
	copy(options, t.StatusOptions)
	if len(options) == 0 {
		options = nil
	}
	return ChecklistItem{
		Label:         t.Label,
		Notes:         t.Notes,
		ItemType:      t.ItemType,
		IsRequired:    t.IsRequired,
		StatusOptions: options,
		DisplayOrder:  t.DisplayOrder,
	}
}
