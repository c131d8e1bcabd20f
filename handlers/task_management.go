package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// TaskHandler handles garden task management
type TaskHandler struct {
	db *gorm.DB
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db}
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title                string     `json:"title"`
	Description          *string    `json:"description"`
	ClientID             uuid.UUID  `json:"client_id"`
	ZoneID               *uuid.UUID `json:"zone_id"`
	DueDate              time.Time  `json:"due_date"`
	Priority             string     `json:"priority"`
	Recurring            bool       `json:"recurring"`
	EstimatedTimeMinutes *int       `json:"estimated_time_minutes"`
}

// UpdateTaskRequest represents the request to update a task
type UpdateTaskRequest struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	ZoneID               *uuid.UUID `json:"zone_id"`
	DueDate              *time.Time `json:"due_date"`
	Priority             *string    `json:"priority"`
	Status               *string    `json:"status"`
	Recurring            *bool      `json:"recurring"`
	EstimatedTimeMinutes *int       `json:"estimated_time_minutes"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.DueDate.IsZero() {
		http.Error(w, "due_date is required", http.StatusBadRequest)
		return
	}
	if req.Priority != "" && !models.ValidTaskPriority(req.Priority) {
		http.Error(w, "priority must be low, medium or high", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	// Task must hang off one of the owner's clients
	var client models.Client
	if err := h.db.Where("id = ? AND user_id = ?", req.ClientID, userID).First(&client).Error; err != nil {
		http.Error(w, "invalid client", http.StatusBadRequest)
		return
	}
	if req.ZoneID != nil {
		var zone models.Zone
		if err := h.db.Where("id = ? AND client_id = ?", *req.ZoneID, req.ClientID).First(&zone).Error; err != nil {
			http.Error(w, "invalid zone", http.StatusBadRequest)
			return
		}
	}

	task := models.Task{
		UserID:               userID,
		ClientID:             req.ClientID,
		ZoneID:               req.ZoneID,
		Title:                req.Title,
		Description:          req.Description,
		DueDate:              req.DueDate,
		Priority:             req.Priority,
		Status:               models.TaskStatusPending,
		Recurring:            req.Recurring,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if err := h.db.Create(&task).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var tasks []models.Task
	q := h.db.Where("user_id = ?", userID).
		Preload("Client").
		Preload("Zone").
		Order("due_date ASC")

	qp := r.URL.Query()
	if status := qp.Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if priority := qp.Get("priority"); priority != "" {
		q = q.Where("priority = ?", priority)
	}
	if clientID := qp.Get("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if qp.Get("overdue") == "true" {
		q = q.Where("due_date < ? AND status NOT IN ?", time.Now(),
			[]string{models.TaskStatusCompleted, models.TaskStatusCancelled})
	}
	if err := q.Find(&tasks).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var task models.Task
	if err := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).
		Preload("Client").Preload("Zone").First(&task).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var task models.Task
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.ZoneID != nil {
		task.ZoneID = req.ZoneID
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		if !models.ValidTaskPriority(*req.Priority) {
			http.Error(w, "priority must be low, medium or high", http.StatusBadRequest)
			return
		}
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		task.Status = *req.Status
		if task.Status == models.TaskStatusCompleted && task.CompletedAt == nil {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}
		if task.Status != models.TaskStatusCompleted {
			task.CompletedAt = nil
		}
	}
	if req.Recurring != nil {
		task.Recurring = *req.Recurring
	}
	if req.EstimatedTimeMinutes != nil {
		task.EstimatedTimeMinutes = req.EstimatedTimeMinutes
	}

	if err := h.db.Save(&task).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// CompleteTask marks the task done and stamps completed_at.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	userID := middleware.GetUserID(r)

	var task models.Task
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	now := time.Now().UTC()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now
	if err := h.db.Save(&task).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	res := h.db.Where("id = ? AND user_id = ?", id, middleware.GetUserID(r)).Delete(&models.Task{})
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
