package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model fields shared by all models
type Base struct {
	UUID      string    `json:"uuid" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was provided by the caller.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.New().String()
	}
	return nil
}

// Event represents an incident or exercise being managed
type Event struct {
	Base
	Name        string `json:"name" gorm:"column:name"`
	Description string `json:"description" gorm:"column:description;type:text"`
	Active      bool   `json:"active" gorm:"column:active;default:true"`

	Periods    []OperationalPeriod `json:"periods,omitempty" gorm:"foreignKey:EventID"`
	Positions  []Position          `json:"positions,omitempty" gorm:"foreignKey:EventID"`
	Checklists []ChecklistInstance `json:"-" gorm:"foreignKey:EventID"`
}

// Position represents an ICS position staffed within an event
type Position struct {
	Base
	EventID  string `json:"event_id" gorm:"column:event_id;type:uuid;index"`
	Event    *Event `json:"-" gorm:"foreignKey:EventID"`
	Name     string `json:"name" gorm:"column:name"`
	Assignee string `json:"assignee" gorm:"column:assignee"`
}

// OperationalPeriod represents a bounded time window (a shift) within an event.
// At most one period per event is current at a time; the period service
// enforces that when promoting a new period.
type OperationalPeriod struct {
	Base
	EventID   string     `json:"event_id" gorm:"column:event_id;type:uuid;index"`
	Event     *Event     `json:"-" gorm:"foreignKey:EventID"`
	Name      string     `json:"name" gorm:"column:name"`
	StartTime time.Time  `json:"start_time" gorm:"column:start_time"`
	EndTime   *time.Time `json:"end_time" gorm:"column:end_time"`
	IsCurrent bool       `json:"is_current" gorm:"column:is_current;index"`
}

// MessageSource identifies where a chat message originated
type MessageSource string

const (
	// WebMessageSource represents a message posted from the web client
	WebMessageSource MessageSource = "web"
	// GroupMeMessageSource represents a message bridged in from GroupMe
	GroupMeMessageSource MessageSource = "groupme"
	// TeamsMessageSource represents a message bridged in from Microsoft Teams
	TeamsMessageSource MessageSource = "teams"
)

// ChatMessage represents a persisted chat message within an event channel.
// Bridged messages carry the external platform's message id so re-delivery
// from the bridge queue stays idempotent.
type ChatMessage struct {
	Base
	EventID    string        `json:"event_id" gorm:"column:event_id;type:uuid;index"`
	Event      *Event        `json:"-" gorm:"foreignKey:EventID"`
	Channel    string        `json:"channel" gorm:"column:channel;index"`
	Sender     string        `json:"sender" gorm:"column:sender"`
	Body       string        `json:"body" gorm:"column:body;type:text"`
	Source     MessageSource `json:"source" gorm:"column:source"`
	ExternalID *string       `json:"external_id,omitempty" gorm:"column:external_id;uniqueIndex"`
}

// SystemSetting represents an administrative configuration entry
type SystemSetting struct {
	Base
	Key       string `json:"key" gorm:"column:key;uniqueIndex"`
	Value     string `json:"value" gorm:"column:value;type:text"`
	UpdatedBy string `json:"updated_by" gorm:"column:updated_by"`
}
