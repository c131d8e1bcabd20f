package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"sproutly.dev/garden/models"
)

func seedClient(t *testing.T, db *gorm.DB, userID uuid.UUID) models.Client {
	t.Helper()
	c := models.Client{UserID: userID, Name: "Jane Doe", Address: "12 Elm St", Status: models.ClientStatusActive}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func seedZone(t *testing.T, db *gorm.DB, userID, clientID uuid.UUID) models.Zone {
	t.Helper()
	z := models.Zone{
		UserID: userID, ClientID: clientID, Name: "Front Border",
		SoilTypeEnum: "Loam", AreaSizeValue: 12, AreaSizeUnit: "m²",
		SunPrimary: "Full sun (6+ h)",
	}
	if err := db.Create(&z).Error; err != nil {
		t.Fatalf("seed zone: %v", err)
	}
	return z
}

func joinRowCount(t *testing.T, db *gorm.DB, zoneID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.ZonePlantMaterial{}).Where("zone_id = ?", zoneID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func plantCount(t *testing.T, db *gorm.DB, zoneID uuid.UUID) int {
	t.Helper()
	var z models.Zone
	if err := db.First(&z, "id = ?", zoneID).Error; err != nil {
		t.Fatal(err)
	}
	return z.PlantCount
}

func setPlants(t *testing.T, h *ZoneHandler, userID, zoneID uuid.UUID, ids []int64) *httptest.ResponseRecorder {
	t.Helper()
	r := authedRequest(t, "PUT", "/api/v1/zones/"+zoneID.String()+"/plants",
		map[string]interface{}{"plant_ids": ids}, userID)
	r = mux.SetURLVars(r, map[string]string{"id": zoneID.String()})
	rec := httptest.NewRecorder()
	h.SetZonePlants(rec, r)
	return rec
}

func TestSetZonePlantsReplaceIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	zone := seedZone(t, db, owner, client.ID)

	ids := []int64{
		seedPlant(t, db, "Basil", "Ocimum basilicum", 1),
		seedPlant(t, db, "Rosemary", "Salvia rosmarinus", 2),
		seedPlant(t, db, "Lavender", "Lavandula angustifolia", 3),
	}

	for i := 0; i < 2; i++ {
		if rec := setPlants(t, h, owner, zone.ID, ids); rec.Code != http.StatusOK {
			t.Fatalf("call %d: got %d (body %s)", i+1, rec.Code, rec.Body.String())
		}
	}

	// Same selection twice leaves exactly one row per plant
	if n := joinRowCount(t, db, zone.ID); n != 3 {
		t.Errorf("join rows = %d, want 3", n)
	}
	if n := plantCount(t, db, zone.ID); n != 3 {
		t.Errorf("plant_count = %d, want 3", n)
	}
}

func TestSetZonePlantsEmptySelectionClears(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	zone := seedZone(t, db, owner, client.ID)

	ids := []int64{
		seedPlant(t, db, "Hosta", "Hosta sieboldiana", 1),
		seedPlant(t, db, "Fern", "Dryopteris filix-mas", 2),
	}
	if rec := setPlants(t, h, owner, zone.ID, ids); rec.Code != http.StatusOK {
		t.Fatalf("seed selection: got %d", rec.Code)
	}

	if rec := setPlants(t, h, owner, zone.ID, []int64{}); rec.Code != http.StatusOK {
		t.Fatalf("clear selection: got %d", rec.Code)
	}
	if n := joinRowCount(t, db, zone.ID); n != 0 {
		t.Errorf("join rows = %d, want 0", n)
	}
	if n := plantCount(t, db, zone.ID); n != 0 {
		t.Errorf("plant_count = %d, want 0", n)
	}
}

func TestSetZonePlantsIsOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	stranger := newTestUser(t, db)
	client := seedClient(t, db, owner)
	zone := seedZone(t, db, owner, client.ID)
	pid := seedPlant(t, db, "Rose", "Rosa", 1)

	if rec := setPlants(t, h, stranger, zone.ID, []int64{pid}); rec.Code != http.StatusNotFound {
		t.Fatalf("cross-owner edit: got %d, want 404", rec.Code)
	}
	if n := joinRowCount(t, db, zone.ID); n != 0 {
		t.Errorf("cross-owner edit inserted %d rows", n)
	}
}

func TestSetZonePlantsFailedReplaceKeepsExistingSelection(t *testing.T) {
	db := newTestDB(t)
	// Enforce the catalog reference so the insert step can be made to fail
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatal(err)
	}
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	zone := seedZone(t, db, owner, client.ID)
	pid := seedPlant(t, db, "Basil", "Ocimum basilicum", 1)

	if rec := setPlants(t, h, owner, zone.ID, []int64{pid}); rec.Code != http.StatusOK {
		t.Fatalf("initial selection: got %d (body %s)", rec.Code, rec.Body.String())
	}

	// An unknown catalog id fails the insert after the delete has run
	if rec := setPlants(t, h, owner, zone.ID, []int64{999999}); rec.Code != http.StatusInternalServerError {
		t.Fatalf("bad selection: got %d, want 500", rec.Code)
	}

	// The failed replace must roll back, not strand the zone with no plants
	if n := joinRowCount(t, db, zone.ID); n != 1 {
		t.Errorf("join rows after failed replace = %d, want 1", n)
	}
	if n := plantCount(t, db, zone.ID); n != 1 {
		t.Errorf("plant_count after failed replace = %d, want 1", n)
	}
}

func TestCreateZoneResolvesPlantNamesAndReportsUnresolved(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	seedPlant(t, db, "Basil", "Ocimum basilicum", 1)

	in := models.ZoneInput{
		Name:          "Herb Patch",
		ClientID:      client.ID.String(),
		SoilTypeEnum:  "Loam",
		AreaSizeValue: 4,
		AreaSizeUnit:  "m²",
		SunPrimary:    "Full sun (6+ h)",
		PlantNames:    []string{"Nonexistent Plant", "Basil"},
	}
	rec := httptest.NewRecorder()
	h.CreateZone(rec, authedRequest(t, "POST", "/api/v1/zones", in, owner))
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Zone             models.Zone `json:"zone"`
		UnresolvedPlants []string    `json:"unresolved_plants"`
	}
	decodeBody(t, rec, &resp)

	// The zone is created with the one resolvable plant linked
	if n := joinRowCount(t, db, resp.Zone.ID); n != 1 {
		t.Errorf("join rows = %d, want 1", n)
	}
	if resp.Zone.PlantCount != 1 {
		t.Errorf("plant_count = %d, want 1", resp.Zone.PlantCount)
	}
	if len(resp.UnresolvedPlants) != 1 || resp.UnresolvedPlants[0] != "Nonexistent Plant" {
		t.Errorf("unresolved_plants = %v, want [Nonexistent Plant]", resp.UnresolvedPlants)
	}
}

func TestCreateZonePlantNameMatchIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	seedPlant(t, db, "Basil", "Ocimum basilicum", 1)

	in := models.ZoneInput{
		Name:          "Herb Patch",
		ClientID:      client.ID.String(),
		SoilTypeEnum:  "Loam",
		AreaSizeValue: 4,
		AreaSizeUnit:  "m²",
		SunPrimary:    "Full sun (6+ h)",
		PlantNames:    []string{"basil"},
	}
	rec := httptest.NewRecorder()
	h.CreateZone(rec, authedRequest(t, "POST", "/api/v1/zones", in, owner))
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201", rec.Code)
	}
	var resp struct {
		UnresolvedPlants []string `json:"unresolved_plants"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.UnresolvedPlants) != 1 {
		t.Errorf("lowercase name resolved, want it skipped: %v", resp.UnresolvedPlants)
	}
}

func TestCreateZoneResponseShapeIsStable(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	seedPlant(t, db, "Basil", "Ocimum basilicum", 1)

	in := models.ZoneInput{
		Name:          "Herb Patch",
		ClientID:      client.ID.String(),
		SoilTypeEnum:  "Loam",
		AreaSizeValue: 4,
		AreaSizeUnit:  "m²",
		SunPrimary:    "Full sun (6+ h)",
		PlantNames:    []string{"Basil"},
	}
	rec := httptest.NewRecorder()
	h.CreateZone(rec, authedRequest(t, "POST", "/api/v1/zones", in, owner))
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	// Even a fully resolved selection keeps the wrapped shape
	var resp map[string]json.RawMessage
	decodeBody(t, rec, &resp)
	if _, ok := resp["zone"]; !ok {
		t.Fatalf("response carries no zone key: %s", rec.Body.String())
	}
	unresolved, ok := resp["unresolved_plants"]
	if !ok {
		t.Fatalf("response carries no unresolved_plants key: %s", rec.Body.String())
	}
	var names []string
	if err := json.Unmarshal(unresolved, &names); err != nil || len(names) != 0 {
		t.Errorf("unresolved_plants = %s, want []", unresolved)
	}
}

func TestCreateZoneRejectsInvalidForm(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)

	in := models.ZoneInput{
		Name:          "Rockery",
		ClientID:      client.ID.String(),
		SoilTypeEnum:  "Other", // missing soil_type_other
		AreaSizeValue: 3,
		AreaSizeUnit:  "m²",
		SunPrimary:    "Full sun (6+ h)",
	}
	rec := httptest.NewRecorder()
	h.CreateZone(rec, authedRequest(t, "POST", "/api/v1/zones", in, owner))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, rec, &resp)
	if _, ok := resp.Errors["soil_type_other"]; !ok {
		t.Errorf("error not scoped to soil_type_other: %v", resp.Errors)
	}
	var n int64
	db.Model(&models.Zone{}).Count(&n)
	if n != 0 {
		t.Errorf("invalid form still created %d zones", n)
	}
}

func TestCreateZoneRejectsForeignClient(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	stranger := newTestUser(t, db)
	foreign := seedClient(t, db, stranger)

	in := models.ZoneInput{
		Name:          "Back Lawn",
		ClientID:      foreign.ID.String(),
		SoilTypeEnum:  "Clay",
		AreaSizeValue: 20,
		AreaSizeUnit:  "m²",
		SunPrimary:    "Dappled shade",
	}
	rec := httptest.NewRecorder()
	h.CreateZone(rec, authedRequest(t, "POST", "/api/v1/zones", in, owner))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestUpdateZoneReplacesSelectionOnlyWhenSent(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	zone := seedZone(t, db, owner, client.ID)
	pid := seedPlant(t, db, "Boxwood", "Buxus sempervirens", 1)

	if rec := setPlants(t, h, owner, zone.ID, []int64{pid}); rec.Code != http.StatusOK {
		t.Fatalf("initial selection: got %d", rec.Code)
	}

	update := func(patch map[string]interface{}) *httptest.ResponseRecorder {
		r := authedRequest(t, "PUT", "/api/v1/zones/"+zone.ID.String(), patch, owner)
		r = mux.SetURLVars(r, map[string]string{"id": zone.ID.String()})
		rec := httptest.NewRecorder()
		h.UpdateZone(rec, r)
		return rec
	}

	// Renaming alone leaves the plant list untouched
	if rec := update(map[string]interface{}{"name": "Front Border (revised)"}); rec.Code != http.StatusOK {
		t.Fatalf("rename: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if n := joinRowCount(t, db, zone.ID); n != 1 {
		t.Errorf("rename changed join rows: %d", n)
	}

	// Sending plant_ids replaces the selection
	if rec := update(map[string]interface{}{"plant_ids": []int64{}}); rec.Code != http.StatusOK {
		t.Fatalf("clear via update: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if n := joinRowCount(t, db, zone.ID); n != 0 {
		t.Errorf("join rows = %d, want 0", n)
	}
	if n := plantCount(t, db, zone.ID); n != 0 {
		t.Errorf("plant_count = %d, want 0", n)
	}
}

func TestUpdateZoneRejectsMistypedField(t *testing.T) {
	db := newTestDB(t)
	h := NewZoneHandler(db)
	owner := newTestUser(t, db)
	client := seedClient(t, db, owner)
	zone := seedZone(t, db, owner, client.ID)

	// A wrong-typed field must fail the whole patch, not zero it out
	r := authedRequest(t, "PUT", "/api/v1/zones/"+zone.ID.String(),
		map[string]interface{}{"name": 123}, owner)
	r = mux.SetURLVars(r, map[string]string{"id": zone.ID.String()})
	rec := httptest.NewRecorder()
	h.UpdateZone(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}

	var check models.Zone
	if err := db.First(&check, "id = ?", zone.ID).Error; err != nil {
		t.Fatal(err)
	}
	if check.Name != zone.Name {
		t.Errorf("rejected patch modified the zone: name = %q", check.Name)
	}
}
