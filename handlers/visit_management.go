package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
	"sproutly.dev/garden/utils"
)

// VisitHandler handles scheduled visits
type VisitHandler struct {
	db *gorm.DB
}

func NewVisitHandler(db *gorm.DB) *VisitHandler {
	return &VisitHandler{db: db}
}

// CreateVisitRequest represents the request to schedule a visit
type CreateVisitRequest struct {
	ClientID      uuid.UUID `json:"client_id"`
	ZoneIDs       []string  `json:"zone_ids"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Priority      string    `json:"priority"`
	Notes         *string   `json:"notes"`
}

func (h *VisitHandler) CreateVisit(w http.ResponseWriter, r *http.Request) {
	var req CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ScheduledDate.IsZero() {
		http.Error(w, "scheduled_date is required", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var client models.Client
	if err := h.db.Where("id = ? AND user_id = ?", req.ClientID, userID).First(&client).Error; err != nil {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	// Every listed zone must belong to the visit's client
	for _, zid := range req.ZoneIDs {
		var zone models.Zone
		if err := h.db.Where("id = ? AND client_id = ?", zid, req.ClientID).First(&zone).Error; err != nil {
			http.Error(w, "invalid zone: "+zid, http.StatusBadRequest)
			return
		}
	}

	visit := models.Visit{
		UserID:        userID,
		ClientID:      req.ClientID,
		ZoneIDs:       datatypes.NewJSONSlice(req.ZoneIDs),
		ScheduledDate: req.ScheduledDate,
		Priority:      req.Priority,
		Status:        models.VisitStatusScheduled,
		Notes:         req.Notes,
	}
	if visit.Priority == "" {
		visit.Priority = models.TaskPriorityMedium
	}
	if err := h.db.Create(&visit).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, visit)
}

func (h *VisitHandler) GetAllVisits(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var visits []models.Visit
	q := h.db.Where("user_id = ?", userID).
		Preload("Client").
		Order("scheduled_date ASC")

	qp := r.URL.Query()
	if status := qp.Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if clientID := qp.Get("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if from := qp.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("scheduled_date >= ?", t)
		}
	}
	if to := qp.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			q = q.Where("scheduled_date < ?", t.AddDate(0, 0, 1))
		}
	}
	if err := q.Find(&visits).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, visits)
}

func (h *VisitHandler) GetVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var visit models.Visit
	if err := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).
		Preload("Client").First(&visit).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (h *VisitHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var visit models.Visit
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&visit).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var req struct {
		ZoneIDs       *[]string  `json:"zone_ids"`
		ScheduledDate *time.Time `json:"scheduled_date"`
		Priority      *string    `json:"priority"`
		Status        *string    `json:"status"`
		Notes         *string    `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ZoneIDs != nil {
		for _, zid := range *req.ZoneIDs {
			var zone models.Zone
			if err := h.db.Where("id = ? AND client_id = ?", zid, visit.ClientID).First(&zone).Error; err != nil {
				http.Error(w, "invalid zone: "+zid, http.StatusBadRequest)
				return
			}
		}
		visit.ZoneIDs = datatypes.NewJSONSlice(*req.ZoneIDs)
	}
	if req.ScheduledDate != nil {
		visit.ScheduledDate = *req.ScheduledDate
	}
	if req.Priority != nil {
		visit.Priority = *req.Priority
	}
	if req.Status != nil {
		if !models.ValidVisitStatus(*req.Status) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		visit.Status = *req.Status
	}
	if req.Notes != nil {
		visit.Notes = req.Notes
	}

	if err := h.db.Save(&visit).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}

func (h *VisitHandler) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	res := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).Delete(&models.Visit{})
	if res.Error != nil {
		http.Error(w, res.Error.Error(), http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RoutePlan orders one day's visits by travel distance from a start
// point, nearest first. Visits whose client has no geocoded address are
// appended after the routed ones.
func (h *VisitHandler) RoutePlan(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	day, err := time.Parse("2006-01-02", qp.Get("date"))
	if err != nil {
		http.Error(w, "date is required as YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	startLat, errLat := strconv.ParseFloat(qp.Get("lat"), 64)
	startLon, errLon := strconv.ParseFloat(qp.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		http.Error(w, "lat and lon are required", http.StatusBadRequest)
		return
	}

	userID := middleware.GetUserID(r)
	var visits []models.Visit
	if err := h.db.Where("user_id = ? AND status = ?", userID, models.VisitStatusScheduled).
		Where("scheduled_date >= ? AND scheduled_date < ?", day, day.AddDate(0, 0, 1)).
		Preload("Client").
		Find(&visits).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	byID := make(map[string]models.Visit, len(visits))
	stops := make([]utils.Stop, 0, len(visits))
	for _, v := range visits {
		byID[v.ID.String()] = v
		stop := utils.Stop{ID: v.ID.String()}
		if v.Client != nil && v.Client.Latitude != nil && v.Client.Longitude != nil {
			stop.Lat = *v.Client.Latitude
			stop.Lon = *v.Client.Longitude
			stop.HasCoords = true
		}
		stops = append(stops, stop)
	}

	type routedVisit struct {
		models.Visit
		DistanceMeters *float64 `json:"distance_meters"`
	}
	ordered := utils.OrderByNearest(startLat, startLon, stops)
	out := make([]routedVisit, 0, len(ordered))
	curLat, curLon := startLat, startLon
	for _, s := range ordered {
		rv := routedVisit{Visit: byID[s.ID]}
		if s.HasCoords {
			d := utils.DistanceMeters(curLat, curLon, s.Lat, s.Lon)
			rv.DistanceMeters = &d
			curLat, curLon = s.Lat, s.Lon
		}
		out = append(out, rv)
	}
	writeJSON(w, http.StatusOK, out)
}
