package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fixed vocabularies for the zone form. These mirror what the frontend
// presents, so values arriving here outside these sets are client bugs.
var (
	SoilTypes = []string{"Clay", "Loam", "Sand", "Silt", "Chalk", "Peat", "Other"}

	AreaSizeUnits = []string{"m²", "ft²", "acre"}

	// Ordered from most to least light.
	SunExposures = []string{
		"Full sun (6+ h)",
		"Partial sun (3–6 h)",
		"Partial shade (3–6 h filtered)",
		"Dappled shade",
		"Full shade (<3 h)",
	}

	SunModifiers = []string{
		"Morning sun",
		"Afternoon sun",
		"East-facing",
		"South-facing",
		"West-facing",
		"North-facing",
		"Wind-exposed",
		"Sheltered",
	}
)

// Zone is a discrete garden area belonging to a client.
type Zone struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	Name     string    `gorm:"size:150;not null" json:"name"`

	SoilTypeEnum  string  `gorm:"size:20" json:"soil_type_enum"`
	SoilTypeOther *string `gorm:"size:150" json:"soil_type_other,omitempty"`

	AreaSizeValue float64 `json:"area_size_value"`
	AreaSizeUnit  string  `gorm:"size:10" json:"area_size_unit"`

	SunPrimary       string                      `gorm:"size:50" json:"sun_primary"`
	SunModifiers     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"sun_modifiers"`
	SunHoursEstimate *float64                    `json:"sun_hours_estimate,omitempty"`
	SunNotes         *string                     `gorm:"type:text" json:"sun_notes,omitempty"`

	LastWateredAt *time.Time `json:"last_watered_at,omitempty"`
	Notes         *string    `gorm:"type:text" json:"notes,omitempty"`

	// Denormalized count of zone_plant_materials rows. Only ever written in
	// the same transaction as the join-row replacement.
	PlantCount int `gorm:"default:0" json:"plant_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Client *Client             `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Plants []ZonePlantMaterial `gorm:"foreignKey:ZoneID" json:"plants,omitempty"`
}

func (z *Zone) BeforeCreate(tx *gorm.DB) (err error) {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return
}

// ZoneInput is the form payload for creating or editing a zone.
type ZoneInput struct {
	Name             string   `json:"name"`
	ClientID         string   `json:"client_id"`
	SoilTypeEnum     string   `json:"soil_type_enum"`
	SoilTypeOther    string   `json:"soil_type_other"`
	AreaSizeValue    float64  `json:"area_size_value"`
	AreaSizeUnit     string   `json:"area_size_unit"`
	SunPrimary       string   `json:"sun_primary"`
	SunModifiers     []string `json:"sun_modifiers"`
	SunHoursEstimate *float64 `json:"sun_hours_estimate"`
	SunNotes         string   `json:"sun_notes"`
	Notes            string   `json:"notes"`

	// Optional plant selection, by catalog id or by name. Names are resolved
	// against the catalog at create time; unresolved names are reported back.
	PlantIDs   []int64  `json:"plant_ids"`
	PlantNames []string `json:"plant_names"`
}

// FieldErrors maps a form field to its validation message. Failures are
// reported per field, never as one aggregate error.
type FieldErrors map[string]string

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Validate checks the zone form contract and returns one message per
// offending field. An empty map means the input is valid.
func (in *ZoneInput) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Zone name is required"
	}
	if strings.TrimSpace(in.ClientID) == "" {
		errs["client_id"] = "Client is required"
	} else if _, err := uuid.Parse(in.ClientID); err != nil {
		errs["client_id"] = "Client reference is not valid"
	}

	if in.SoilTypeEnum == "" {
		errs["soil_type_enum"] = "Soil type is required"
	} else if !contains(SoilTypes, in.SoilTypeEnum) {
		errs["soil_type_enum"] = "Soil type must be one of: " + strings.Join(SoilTypes, ", ")
	}
	if in.SoilTypeEnum == "Other" && strings.TrimSpace(in.SoilTypeOther) == "" {
		errs["soil_type_other"] = `Please specify the soil type when "Other" is selected`
	}

	if in.AreaSizeValue <= 0 {
		errs["area_size_value"] = "Area size must be greater than 0"
	}
	if in.AreaSizeUnit == "" {
		errs["area_size_unit"] = "Area unit is required"
	} else if !contains(AreaSizeUnits, in.AreaSizeUnit) {
		errs["area_size_unit"] = "Area unit must be one of: " + strings.Join(AreaSizeUnits, ", ")
	}

	if in.SunPrimary == "" {
		errs["sun_primary"] = "Primary sun exposure is required"
	} else if !contains(SunExposures, in.SunPrimary) {
		errs["sun_primary"] = "Primary sun exposure is not a recognised value"
	}
	for _, m := range in.SunModifiers {
		if !contains(SunModifiers, m) {
			errs["sun_modifiers"] = "Unknown sun modifier: " + m
			break
		}
	}
	if in.SunHoursEstimate != nil && (*in.SunHoursEstimate < 0 || *in.SunHoursEstimate > 24) {
		errs["sun_hours_estimate"] = "Sun hours estimate must be between 0 and 24"
	}

	return errs
}
