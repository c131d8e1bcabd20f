package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Photo documents work on a property. It can be pinned to a client, a zone,
// a catalog plant, none or all of them.
type Photo struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                   `gorm:"type:uuid;index;not null" json:"user_id"`
	ClientID        *uuid.UUID                  `gorm:"type:uuid;index" json:"client_id,omitempty"`
	ZoneID          *uuid.UUID                  `gorm:"type:uuid;index" json:"zone_id,omitempty"`
	PlantMaterialID *int64                      `gorm:"index" json:"plant_material_id,omitempty"`
	FilePath        string                      `gorm:"size:255;not null" json:"file_path"`
	Title           string                      `gorm:"size:200;not null" json:"title"`
	Description     *string                     `gorm:"type:text" json:"description,omitempty"`
	Tags            datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	TakenAt         *time.Time                  `json:"taken_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Zone   *Zone   `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
