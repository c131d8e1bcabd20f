package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Visit statuses
const (
	VisitStatusScheduled = "scheduled"
	VisitStatusCompleted = "completed"
	VisitStatusCancelled = "cancelled"
)

// Visit is a scheduled call-out to a client's property. A single visit can
// cover several zones, so zone ids are kept as a list on the visit itself.
type Visit struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID                   `gorm:"type:uuid;index;not null" json:"user_id"`
	ClientID      uuid.UUID                   `gorm:"type:uuid;index;not null" json:"client_id"`
	ZoneIDs       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"zone_ids"`
	ScheduledDate time.Time                   `gorm:"index;not null" json:"scheduled_date"`
	Priority      string                      `gorm:"size:10;default:medium" json:"priority"`
	Status        string                      `gorm:"size:20;default:scheduled" json:"status"`
	Notes         *string                     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

func ValidVisitStatus(s string) bool {
	switch s {
	case VisitStatusScheduled, VisitStatusCompleted, VisitStatusCancelled:
		return true
	}
	return false
}
