package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client statuses
const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
	ClientStatusPending  = "pending"
)

// Client is a customer record, owned by a single account.
type Client struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name    string    `gorm:"size:150;not null" json:"name"`
	Email   string    `gorm:"size:150" json:"email"`
	Phone   string    `gorm:"size:30" json:"phone,omitempty"`
	Address string    `gorm:"size:255;not null" json:"address"`
	Status  string    `gorm:"size:20;default:active" json:"status"`
	Notes   *string   `gorm:"type:text" json:"notes,omitempty"`

	// Geocoded address, used for visit route planning. Optional.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Zones  []Zone  `gorm:"foreignKey:ClientID" json:"zones,omitempty"`
	Visits []Visit `gorm:"foreignKey:ClientID" json:"visits,omitempty"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func ValidClientStatus(s string) bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive, ClientStatusPending:
		return true
	}
	return false
}
