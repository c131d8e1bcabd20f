package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// A pooled second connection would see its own empty :memory: database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Zone{},
		&models.PlantMaterial{}, &models.ZonePlantMaterial{},
		&models.Task{}, &models.Visit{}, &models.Photo{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	u := models.User{Name: "Test Gardener", Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u.ID
}

// authedRequest builds a request carrying claims for the given owner.
func authedRequest(t *testing.T, method, target string, body interface{}, userID uuid.UUID) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return middleware.WithTestClaims(r, &middleware.Claims{
		UserID: userID.String(),
		Name:   "Test Gardener",
		Email:  "test@example.com",
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func seedPlant(t *testing.T, db *gorm.DB, common, scientific string, rank int) int64 {
	t.Helper()
	p := models.PlantMaterial{CommonName: &common, ScientificName: &scientific, PopularityRank: &rank}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed plant %s: %v", common, err)
	}
	return p.ID
}
