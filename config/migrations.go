package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"sproutly.dev/garden/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250712_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Client{}, &models.Zone{},
					&models.PlantMaterial{}, &models.ZonePlantMaterial{})
			},
		},
		{
			ID: "20250719_create_schedule_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Task{}, &models.Visit{}, &models.Photo{})
			},
		},
		{
			ID: "20250803_add_client_geocode",
			Migrate: func(tx *gorm.DB) error {
				// Columns exist on fresh installs via AutoMigrate above; this
				// covers databases created before route planning shipped.
				if err := tx.Exec("ALTER TABLE clients ADD COLUMN IF NOT EXISTS latitude numeric").Error; err != nil {
					return err
				}
				return tx.Exec("ALTER TABLE clients ADD COLUMN IF NOT EXISTS longitude numeric").Error
			},
		},
		{
			ID: "20250810_index_zone_plant_materials",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_zpm_zone_id ON zone_plant_materials (zone_id)").Error
			},
		},
	})
	return m.Migrate()
}
