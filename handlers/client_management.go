package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// DuplicateClientError is returned by the pre-insert duplicate checks. The
// message names the rule that fired so the UI can show the exact reason.
type DuplicateClientError struct {
	Reason string
}

func (e *DuplicateClientError) Error() string { return e.Reason }

// ClientHandler handles the client directory
type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ClientInput is the create/update payload. All fields are trimmed at the
// boundaries before matching or storing; internal whitespace is kept as-is.
type ClientInput struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Status    string   `json:"status"`
	Notes     *string  `json:"notes"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (in *ClientInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
}

// checkDuplicates runs the two pre-insert dedup rules for an owner. When
// excludeID is non-nil that record is ignored, so updates don't collide
// with themselves.
func (h *ClientHandler) checkDuplicates(userID uuid.UUID, in *ClientInput, excludeID *uuid.UUID) error {
	// Rule 1: same name AND address, case-insensitive
	if in.Name != "" && in.Address != "" {
		q := h.db.Model(&models.Client{}).
			Where("user_id = ?", userID).
			Where("LOWER(name) = ? AND LOWER(address) = ?", strings.ToLower(in.Name), strings.ToLower(in.Address))
		if excludeID != nil {
			q = q.Where("id <> ?", *excludeID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &DuplicateClientError{Reason: "A client with the same name and address already exists."}
		}
	}

	// Rule 2: same email OR phone, case-insensitive, only for supplied fields
	if in.Email != "" || in.Phone != "" {
		q := h.db.Model(&models.Client{}).Where("user_id = ?", userID)
		switch {
		case in.Email != "" && in.Phone != "":
			q = q.Where("LOWER(email) = ? OR LOWER(phone) = ?", strings.ToLower(in.Email), strings.ToLower(in.Phone))
		case in.Email != "":
			q = q.Where("LOWER(email) = ?", strings.ToLower(in.Email))
		default:
			q = q.Where("LOWER(phone) = ?", strings.ToLower(in.Phone))
		}
		if excludeID != nil {
			q = q.Where("id <> ?", *excludeID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &DuplicateClientError{Reason: "A client with the same email or phone already exists."}
		}
	}

	return nil
}

func (h *ClientHandler) validate(in *ClientInput) map[string]string {
	errs := map[string]string{}
	if in.Name == "" {
		errs["name"] = "Name is required"
	}
	if in.Address == "" {
		errs["address"] = "Address is required"
	}
	if in.Status != "" && !models.ValidClientStatus(in.Status) {
		errs["status"] = "Status must be active, inactive or pending"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CreateClient inserts a new client after both duplicate checks pass.
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in ClientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	in.trim()
	if errs := h.validate(&in); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	userID := middleware.GetUserID(r)
	if err := h.checkDuplicates(userID, &in, nil); err != nil {
		var dup *DuplicateClientError
		if errors.As(err, &dup) {
			http.Error(w, dup.Reason, http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	status := in.Status
	if status == "" {
		status = models.ClientStatusActive
	}
	client := models.Client{
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Status:    status,
		Notes:     in.Notes,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if err := h.db.Create(&client).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

// GetAllClients lists the owner's clients, newest first, with their zones
// and most recent visit date attached.
func (h *ClientHandler) GetAllClients(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var clients []models.Client
	q := h.db.Where("user_id = ?", userID).
		Preload("Zones").
		Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}
	if err := q.Find(&clients).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type clientWithVisit struct {
		models.Client
		LastVisit *string `json:"last_visit"`
	}
	out := make([]clientWithVisit, 0, len(clients))
	for _, c := range clients {
		row := clientWithVisit{Client: c}
		var v models.Visit
		if err := h.db.Where("client_id = ?", c.ID).Order("scheduled_date DESC").First(&v).Error; err == nil {
			s := v.ScheduledDate.Format("2006-01-02T15:04:05Z07:00")
			row.LastVisit = &s
		}
		out = append(out, row)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var client models.Client
	if err := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).
		Preload("Zones").First(&client).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// UpdateClient applies a partial patch. The duplicate checks are re-run
// against the merged record, excluding the record's own id.
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var client models.Client
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&client).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Merge patch over the stored record, then validate the result
	merged := ClientInput{
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Address:   client.Address,
		Status:    client.Status,
		Notes:     client.Notes,
		Latitude:  client.Latitude,
		Longitude: client.Longitude,
	}
	applyString := func(key string, dst *string) {
		if raw, ok := patch[key]; ok {
			json.Unmarshal(raw, dst)
		}
	}
	applyString("name", &merged.Name)
	applyString("email", &merged.Email)
	applyString("phone", &merged.Phone)
	applyString("address", &merged.Address)
	applyString("status", &merged.Status)
	if raw, ok := patch["notes"]; ok {
		json.Unmarshal(raw, &merged.Notes)
	}
	if raw, ok := patch["latitude"]; ok {
		json.Unmarshal(raw, &merged.Latitude)
	}
	if raw, ok := patch["longitude"]; ok {
		json.Unmarshal(raw, &merged.Longitude)
	}
	merged.trim()

	if errs := h.validate(&merged); errs != nil {
		writeFieldErrors(w, errs)
		return
	}
	if err := h.checkDuplicates(userID, &merged, &client.ID); err != nil {
		var dup *DuplicateClientError
		if errors.As(err, &dup) {
			http.Error(w, dup.Reason, http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	client.Name = merged.Name
	client.Email = merged.Email
	client.Phone = merged.Phone
	client.Address = merged.Address
	client.Status = merged.Status
	client.Notes = merged.Notes
	client.Latitude = merged.Latitude
	client.Longitude = merged.Longitude
	if err := h.db.Save(&client).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// DeleteClient removes the record permanently. Dependent rows cascade at
// the store.
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	res := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).Delete(&models.Client{})
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
