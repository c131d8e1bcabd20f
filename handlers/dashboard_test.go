package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sproutly.dev/garden/models"
)

func TestGetDashboardCounts(t *testing.T) {
	db := newTestDB(t)
	h := NewDashboardHandler(db)
	owner := newTestUser(t, db)
	other := newTestUser(t, db)

	mine := seedClient(t, db, owner)
	theirs := seedClient(t, db, other)
	seedZone(t, db, owner, mine.ID)
	seedZone(t, db, other, theirs.ID)

	task := models.Task{
		UserID: owner, ClientID: mine.ID, Title: "Mulch beds",
		DueDate: time.Now().AddDate(0, 0, 1),
		Priority: models.TaskPriorityMedium, Status: models.TaskStatusPending,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.GetDashboard(rec, authedRequest(t, "GET", "/api/v1/dashboard", nil, owner))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Clients map[string]int64 `json:"clients"`
		Zones   int64            `json:"zones"`
		Tasks   map[string]int64 `json:"tasks"`
	}
	decodeBody(t, rec, &resp)
	if resp.Clients["total"] != 1 {
		t.Errorf("client total = %d, want 1 (other owner's rows leaked in?)", resp.Clients["total"])
	}
	if resp.Zones != 1 {
		t.Errorf("zones = %d, want 1", resp.Zones)
	}
	if resp.Tasks["pending"] != 1 {
		t.Errorf("pending tasks = %d, want 1", resp.Tasks["pending"])
	}
}

func TestGetDashboardSurfacesStoreErrors(t *testing.T) {
	db := newTestDB(t)
	h := NewDashboardHandler(db)
	owner := newTestUser(t, db)

	// A missing table must come back as a 500, not render as zero counts
	if err := db.Exec("DROP TABLE tasks").Error; err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, authedRequest(t, "GET", "/api/v1/dashboard", nil, owner))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500 (body %s)", rec.Code, rec.Body.String())
	}
}
