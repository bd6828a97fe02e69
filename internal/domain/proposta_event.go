package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Proposal event types (audit trail).
const (
	EventCreated       = "CREATED"
	EventUpdated       = "UPDATED"
	EventStatusChanged = "STATUS_CHANGED"
	EventDeleted       = "DELETED"
)

// PropostaEvent records one mutation of a proposal. Events are written in
// the same transaction as the change they describe.
type PropostaEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	PropostaID uuid.UUID      `gorm:"column:proposta_id;type:uuid;not null;index" json:"proposta_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (PropostaEvent) TableName() string {
	return "proposta_events"
}

// BeforeCreate sets event_id if not already set.
func (e *PropostaEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
