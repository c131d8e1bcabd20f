package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlantMaterial is a catalog entry with horticultural reference data. The
// catalog is shared across all accounts and is read-only to this service
// apart from seeding.
type PlantMaterial struct {
	ID              int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CommonName      *string `gorm:"size:150;index" json:"common_name,omitempty"`
	ScientificName  *string `gorm:"size:150;index" json:"scientific_name,omitempty"`
	PopularityRank  *int    `json:"popularity_rank,omitempty"`
	Category        *string `gorm:"size:100" json:"category,omitempty"`
	Soil            *string `gorm:"type:text" json:"soil,omitempty"`
	Position        *string `gorm:"type:text" json:"position,omitempty"`
	Watering        *string `gorm:"type:text" json:"watering,omitempty"`
	Fertiliser      *string `gorm:"type:text" json:"fertiliser,omitempty"`
	Pruning         *string `gorm:"type:text" json:"pruning,omitempty"`
	FloweringPeriod *string `gorm:"size:150" json:"flowering_period,omitempty"`
	PlantingTime    *string `gorm:"size:150" json:"planting_time,omitempty"`
	Propagation     *string `gorm:"type:text" json:"propagation,omitempty"`
	PestsDiseases   *string `gorm:"type:text" json:"pests_diseases,omitempty"`
	Notes           *string `gorm:"type:text" json:"notes,omitempty"`
}

// ZonePlantMaterial links a catalog plant to a garden zone ("this plant is
// grown in this zone"). Rows are always replaced wholesale when a zone's
// plant list is edited, never diffed.
type ZonePlantMaterial struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneID          uuid.UUID `gorm:"type:uuid;index;not null" json:"zone_id"`
	PlantMaterialID int64     `gorm:"index;not null" json:"plant_material_id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Quantity        *int      `json:"quantity,omitempty"`
	Notes           *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	PlantMaterial PlantMaterial `gorm:"foreignKey:PlantMaterialID" json:"plant_material,omitempty"`
}

func (zpm *ZonePlantMaterial) BeforeCreate(tx *gorm.DB) (err error) {
	if zpm.ID == uuid.Nil {
		zpm.ID = uuid.New()
	}
	return
}
