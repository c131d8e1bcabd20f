package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// ZoneHandler handles garden zones and their plant associations
type ZoneHandler struct {
	db *gorm.DB
}

func NewZoneHandler(db *gorm.DB) *ZoneHandler {
	return &ZoneHandler{db: db}
}

// replacePlants makes the zone's join rows match exactly the given plant
// ids and syncs the denormalized plant count, all inside tx. The delete is
// unconditional: the whole selection is replaced on every edit, never
// diffed incrementally.
func replacePlants(tx *gorm.DB, zoneID, userID uuid.UUID, plantIDs []int64) error {
	if err := tx.Where("zone_id = ?", zoneID).Delete(&models.ZonePlantMaterial{}).Error; err != nil {
		return err
	}
	if len(plantIDs) > 0 {
		rows := make([]models.ZonePlantMaterial, 0, len(plantIDs))
		for _, pid := range plantIDs {
			rows = append(rows, models.ZonePlantMaterial{
				ZoneID:          zoneID,
				PlantMaterialID: pid,
				UserID:          userID,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	return tx.Model(&models.Zone{}).Where("id = ?", zoneID).
		Update("plant_count", len(plantIDs)).Error
}

// SetZonePlants replaces a zone's plant list with the posted selection.
// Delete, insert and count update run as one transaction so a failed
// insert can't leave the zone stripped of its plants.
func (h *ZoneHandler) SetZonePlants(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var zone models.Zone
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&zone).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var req struct {
		PlantIDs []int64 `json:"plant_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		return replacePlants(tx, zone.ID, userID, req.PlantIDs)
	})
	if err != nil {
		http.Error(w, "operation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondWithZone(w, zone.ID, userID, http.StatusOK, nil)
}

// resolvePlantNames maps user-facing plant names to catalog ids by exact
// match on common or scientific name. Names that don't resolve are
// returned separately instead of being dropped on the floor.
func (h *ZoneHandler) resolvePlantNames(names []string) (ids []int64, unresolved []string, err error) {
	for _, name := range names {
		var plant models.PlantMaterial
		res := h.db.Where("common_name = ? OR scientific_name = ?", name, name).First(&plant)
		if res.Error != nil {
			if res.Error == gorm.ErrRecordNotFound {
				log.Printf("[ZONES] plant name %q did not resolve to a catalog entry, skipping", name)
				unresolved = append(unresolved, name)
				continue
			}
			return nil, nil, res.Error
		}
		ids = append(ids, plant.ID)
	}
	return ids, unresolved, nil
}

// CreateZone validates the zone form, creates the zone and associates any
// selected plants. Plant names that don't resolve are reported back in
// unresolved_plants; the zone itself is still created.
func (h *ZoneHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var in models.ZoneInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if errs := in.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	userID := middleware.GetUserID(r)

	clientID, _ := uuid.Parse(in.ClientID)
	var client models.Client
	if err := h.db.Where("id = ? AND user_id = ?", clientID, userID).First(&client).Error; err != nil {
		writeFieldErrors(w, map[string]string{"client_id": "Client does not exist"})
		return
	}

	plantIDs := in.PlantIDs
	var unresolved []string
	if len(in.PlantNames) > 0 {
		resolved, skipped, err := h.resolvePlantNames(in.PlantNames)
		if err != nil {
			http.Error(w, "operation failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		plantIDs = append(plantIDs, resolved...)
		unresolved = skipped
	}

	zone := models.Zone{
		UserID:        userID,
		ClientID:      clientID,
		Name:          in.Name,
		SoilTypeEnum:  in.SoilTypeEnum,
		AreaSizeValue: in.AreaSizeValue,
		AreaSizeUnit:  in.AreaSizeUnit,
		SunPrimary:    in.SunPrimary,
		SunModifiers:  datatypes.NewJSONSlice(in.SunModifiers),
	}
	if in.SoilTypeOther != "" {
		zone.SoilTypeOther = &in.SoilTypeOther
	}
	zone.SunHoursEstimate = in.SunHoursEstimate
	if in.SunNotes != "" {
		zone.SunNotes = &in.SunNotes
	}
	if in.Notes != "" {
		zone.Notes = &in.Notes
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&zone).Error; err != nil {
			return err
		}
		return replacePlants(tx, zone.ID, userID, plantIDs)
	})
	if err != nil {
		http.Error(w, "operation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The list is always present, empty when everything resolved, so the
	// create response has a single shape.
	if unresolved == nil {
		unresolved = []string{}
	}
	h.respondWithZone(w, zone.ID, userID, http.StatusCreated, unresolved)
}

func (h *ZoneHandler) GetAllZones(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var zones []models.Zone
	q := h.db.Where("user_id = ?", userID).
		Preload("Client").
		Preload("Plants.PlantMaterial").
		Order("created_at DESC")
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if err := q.Find(&zones).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, zones)
}

func (h *ZoneHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var zone models.Zone
	if err := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).
		Preload("Client").
		Preload("Plants.PlantMaterial").
		First(&zone).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

// UpdateZone overwrites the zone's form fields and, when the payload
// carries a plant selection, replaces the associations in the same
// transaction.
func (h *ZoneHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var zone models.Zone
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&zone).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	var patch models.ZoneInput
	if err := json.Unmarshal(body, &patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Start from the stored zone so partial patches validate as a whole
	in := models.ZoneInput{
		Name:          zone.Name,
		ClientID:      zone.ClientID.String(),
		SoilTypeEnum:  zone.SoilTypeEnum,
		AreaSizeValue: zone.AreaSizeValue,
		AreaSizeUnit:  zone.AreaSizeUnit,
		SunPrimary:    zone.SunPrimary,
		SunModifiers:  zone.SunModifiers,
	}
	if zone.SoilTypeOther != nil {
		in.SoilTypeOther = *zone.SoilTypeOther
	}
	in.SunHoursEstimate = zone.SunHoursEstimate
	if zone.SunNotes != nil {
		in.SunNotes = *zone.SunNotes
	}
	if zone.Notes != nil {
		in.Notes = *zone.Notes
	}

	for key := range raw {
		switch key {
		case "name":
			in.Name = patch.Name
		case "client_id":
			in.ClientID = patch.ClientID
		case "soil_type_enum":
			in.SoilTypeEnum = patch.SoilTypeEnum
		case "soil_type_other":
			in.SoilTypeOther = patch.SoilTypeOther
		case "area_size_value":
			in.AreaSizeValue = patch.AreaSizeValue
		case "area_size_unit":
			in.AreaSizeUnit = patch.AreaSizeUnit
		case "sun_primary":
			in.SunPrimary = patch.SunPrimary
		case "sun_modifiers":
			in.SunModifiers = patch.SunModifiers
		case "sun_hours_estimate":
			in.SunHoursEstimate = patch.SunHoursEstimate
		case "sun_notes":
			in.SunNotes = patch.SunNotes
		case "notes":
			in.Notes = patch.Notes
		}
	}

	if errs := in.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	clientID, _ := uuid.Parse(in.ClientID)
	if clientID != zone.ClientID {
		var client models.Client
		if err := h.db.Where("id = ? AND user_id = ?", clientID, userID).First(&client).Error; err != nil {
			writeFieldErrors(w, map[string]string{"client_id": "Client does not exist"})
			return
		}
	}

	zone.Name = in.Name
	zone.ClientID = clientID
	zone.SoilTypeEnum = in.SoilTypeEnum
	zone.SoilTypeOther = nil
	if in.SoilTypeOther != "" {
		zone.SoilTypeOther = &in.SoilTypeOther
	}
	zone.AreaSizeValue = in.AreaSizeValue
	zone.AreaSizeUnit = in.AreaSizeUnit
	zone.SunPrimary = in.SunPrimary
	zone.SunModifiers = datatypes.NewJSONSlice(in.SunModifiers)
	zone.SunHoursEstimate = in.SunHoursEstimate
	zone.SunNotes = nil
	if in.SunNotes != "" {
		zone.SunNotes = &in.SunNotes
	}
	zone.Notes = nil
	if in.Notes != "" {
		zone.Notes = &in.Notes
	}

	_, replaceSelection := raw["plant_ids"]
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&zone).Error; err != nil {
			return err
		}
		if replaceSelection {
			return replacePlants(tx, zone.ID, userID, patch.PlantIDs)
		}
		return nil
	})
	if err != nil {
		http.Error(w, "operation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondWithZone(w, zone.ID, userID, http.StatusOK, nil)
}

// MarkWatered stamps the zone's last-watered time.
func (h *ZoneHandler) MarkWatered(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	res := h.db.Model(&models.Zone{}).
		Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).
		Update("last_watered_at", now)
	if res.Error != nil {
		http.Error(w, res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"last_watered_at": now})
}

func (h *ZoneHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)
	err := h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Zone{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("zone_id = ?", id).Delete(&models.ZonePlantMaterial{}).Error
	})
	if err == gorm.ErrRecordNotFound {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// respondWithZone reloads the zone with its plant expansion and writes the
// response, attaching the unresolved-name list when present.
func (h *ZoneHandler) respondWithZone(w http.ResponseWriter, zoneID, userID uuid.UUID, status int, unresolved []string) {
	var zone models.Zone
	if err := h.db.Where("id = ? AND user_id = ?", zoneID, userID).
		Preload("Plants.PlantMaterial").
		First(&zone).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if unresolved == nil {
		writeJSON(w, status, zone)
		return
	}
	writeJSON(w, status, map[string]interface{}{
		"zone":              zone,
		"unresolved_plants": unresolved,
	})
}
