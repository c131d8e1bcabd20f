package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// PhotoHandler handles photo documentation
type PhotoHandler struct {
	db *gorm.DB
}

func NewPhotoHandler(db *gorm.DB) *PhotoHandler {
	return &PhotoHandler{db: db}
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// UploadPhoto stores the file on local disk and returns its served URL.
// The photo record itself is created separately via CreatePhoto.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	dir := uploadDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		http.Error(w, "failed to create upload directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Parse the multipart form (max 50MB)
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Timestamp prefix avoids collisions between same-named uploads
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-%s", timestamp, filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		http.Error(w, "failed to create file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":      "/uploads/" + filename,
		"filename": filename,
	})
}

// CreatePhotoRequest represents the photo record payload
type CreatePhotoRequest struct {
	FilePath        string     `json:"file_path"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	ClientID        *uuid.UUID `json:"client_id"`
	ZoneID          *uuid.UUID `json:"zone_id"`
	PlantMaterialID *int64     `json:"plant_material_id"`
	Tags            []string   `json:"tags"`
	TakenAt         *time.Time `json:"taken_at"`
}

func (h *PhotoHandler) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	var req CreatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.FilePath == "" || req.Title == "" {
		http.Error(w, "file_path and title are required", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	if req.ClientID != nil {
		var client models.Client
		if err := h.db.Where("id = ? AND user_id = ?", *req.ClientID, userID).First(&client).Error; err != nil {
			http.Error(w, "invalid client", http.StatusBadRequest)
			return
		}
	}
	if req.ZoneID != nil {
		var zone models.Zone
		if err := h.db.Where("id = ? AND user_id = ?", *req.ZoneID, userID).First(&zone).Error; err != nil {
			http.Error(w, "invalid zone", http.StatusBadRequest)
			return
		}
	}

	photo := models.Photo{
		UserID:          userID,
		ClientID:        req.ClientID,
		ZoneID:          req.ZoneID,
		PlantMaterialID: req.PlantMaterialID,
		FilePath:        req.FilePath,
		Title:           req.Title,
		Description:     req.Description,
		Tags:            datatypes.NewJSONSlice(req.Tags),
		TakenAt:         req.TakenAt,
	}
	if err := h.db.Create(&photo).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (h *PhotoHandler) GetAllPhotos(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var photos []models.Photo
	q := h.db.Where("user_id = ?", userID).
		Preload("Client").
		Preload("Zone").
		Order("created_at DESC")

	qp := r.URL.Query()
	if clientID := qp.Get("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if zoneID := qp.Get("zone_id"); zoneID != "" {
		q = q.Where("zone_id = ?", zoneID)
	}
	if err := q.Find(&photos).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var photo models.Photo
	if err := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).
		Preload("Client").Preload("Zone").First(&photo).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var photo models.Photo
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&photo).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Tags        *[]string  `json:"tags"`
		TakenAt     *time.Time `json:"taken_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title != nil {
		photo.Title = *req.Title
	}
	if req.Description != nil {
		photo.Description = req.Description
	}
	if req.Tags != nil {
		photo.Tags = datatypes.NewJSONSlice(*req.Tags)
	}
	if req.TakenAt != nil {
		photo.TakenAt = req.TakenAt
	}

	if err := h.db.Save(&photo).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	res := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).Delete(&models.Photo{})
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
