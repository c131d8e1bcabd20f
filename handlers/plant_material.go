package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"sproutly.dev/garden/models"
)

// PlantMaterialHandler serves the shared read-only plant catalog
type PlantMaterialHandler struct {
	db *gorm.DB
}

func NewPlantMaterialHandler(db *gorm.DB) *PlantMaterialHandler {
	return &PlantMaterialHandler{db: db}
}

// GetCatalog lists catalog entries ordered by popularity. Supports a
// substring search over common and scientific names.
func (h *PlantMaterialHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	var plants []models.PlantMaterial
	q := h.db.Order("popularity_rank ASC NULLS LAST")
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(common_name) LIKE ? OR LOWER(scientific_name) LIKE ?", like, like)
	}
	if err := q.Find(&plants).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

// GetPlant returns a single catalog entry with its horticultural notes.
func (h *PlantMaterialHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var plant models.PlantMaterial
	if err := h.db.First(&plant, "id = ?", id).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, plant)
}
