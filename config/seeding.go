package config

import (
	"log"

	"gorm.io/gorm"
	"sproutly.dev/garden/models"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

// SeedPlantCatalog loads the shared plant-material reference catalog.
// Entries are keyed by common name and skipped when already present, so
// reruns are safe.
func SeedPlantCatalog(db *gorm.DB) error {
	catalog := []models.PlantMaterial{
		{CommonName: strptr("Basil"), ScientificName: strptr("Ocimum basilicum"), PopularityRank: intptr(1),
			Category: strptr("Herb"), Soil: strptr("Rich, moist, well-drained"),
			Watering: strptr("Keep soil evenly moist"), Position: strptr("Full sun"),
			PlantingTime: strptr("After last frost")},
		{CommonName: strptr("Rosemary"), ScientificName: strptr("Salvia rosmarinus"), PopularityRank: intptr(2),
			Category: strptr("Herb"), Soil: strptr("Sandy, well-drained"),
			Watering: strptr("Drought tolerant once established"), Position: strptr("Full sun"),
			Pruning:  strptr("Light trim after flowering")},
		{CommonName: strptr("Lavender"), ScientificName: strptr("Lavandula angustifolia"), PopularityRank: intptr(3),
			Category: strptr("Shrub"), Soil: strptr("Poor, alkaline, free-draining"),
			Watering: strptr("Sparingly; dislikes wet roots"), Position: strptr("Full sun"),
			FloweringPeriod: strptr("June to August")},
		{CommonName: strptr("Tomato"), ScientificName: strptr("Solanum lycopersicum"), PopularityRank: intptr(4),
			Category: strptr("Vegetable"), Soil: strptr("Fertile, well-drained"),
			Watering: strptr("Regular and deep"), Fertiliser: strptr("High potash once fruiting"),
			PestsDiseases: strptr("Blight, whitefly")},
		{CommonName: strptr("Hydrangea"), ScientificName: strptr("Hydrangea macrophylla"), PopularityRank: intptr(5),
			Category: strptr("Shrub"), Soil: strptr("Moist, humus-rich; pH affects bloom colour"),
			Watering: strptr("Frequent in dry spells"), Position: strptr("Partial shade"),
			Pruning:  strptr("Late winter, above strong buds")},
		{CommonName: strptr("Rose"), ScientificName: strptr("Rosa"), PopularityRank: intptr(6),
			Category: strptr("Shrub"), Soil: strptr("Heavy, fertile, moisture-retentive"),
			Fertiliser: strptr("Spring and midsummer"), Pruning: strptr("Hard prune late winter"),
			PestsDiseases: strptr("Black spot, aphids")},
		{CommonName: strptr("Hosta"), ScientificName: strptr("Hosta sieboldiana"), PopularityRank: intptr(7),
			Category: strptr("Perennial"), Soil: strptr("Moist, rich"),
			Position: strptr("Shade to partial shade"), PestsDiseases: strptr("Slugs, snails")},
		{CommonName: strptr("Japanese Maple"), ScientificName: strptr("Acer palmatum"), PopularityRank: intptr(8),
			Category: strptr("Tree"), Soil: strptr("Slightly acidic, well-drained"),
			Position: strptr("Dappled shade, sheltered from wind"),
			Pruning:  strptr("Minimal; remove dead wood in summer")},
		{CommonName: strptr("Fern"), ScientificName: strptr("Dryopteris filix-mas"), PopularityRank: intptr(9),
			Category: strptr("Perennial"), Soil: strptr("Humus-rich, moist"),
			Position: strptr("Full shade")},
		{CommonName: strptr("Boxwood"), ScientificName: strptr("Buxus sempervirens"), PopularityRank: intptr(10),
			Category: strptr("Shrub"), Soil: strptr("Any well-drained"),
			Pruning:  strptr("Clip twice a year for hedging"), PestsDiseases: strptr("Box blight, box tree moth")},
	}

	for _, plant := range catalog {
		var existing models.PlantMaterial
		err := db.Where("common_name = ?", *plant.CommonName).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&plant).Error; err != nil {
			log.Printf("Error seeding plant %s: %v", *plant.CommonName, err)
			continue
		}
	}
	log.Println("Plant catalog seeding complete")
	return nil
}
