package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// DashboardHandler serves the owner's overview numbers
type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// KPIMetric is a current-vs-previous comparison for one number.
type KPIMetric struct {
	CurrentValue  int64   `json:"current_value"`
	PreviousValue int64   `json:"previous_value"`
	Change        int64   `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Trend         string  `json:"trend"` // up, down, stable
}

func makeKPI(current, previous int64) KPIMetric {
	m := KPIMetric{CurrentValue: current, PreviousValue: previous, Change: current - previous}
	switch {
	case m.Change > 0:
		m.Trend = "up"
	case m.Change < 0:
		m.Trend = "down"
	default:
		m.Trend = "stable"
	}
	if previous != 0 {
		m.ChangePercent = float64(m.Change) / float64(previous) * 100
	}
	return m
}

// GetDashboard returns owner-scoped counts and a completed-tasks
// week-over-week trend.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	now := time.Now().UTC()

	var firstErr error
	count := func(model interface{}, conds ...interface{}) int64 {
		var n int64
		q := h.db.Model(model).Where("user_id = ?", userID)
		if len(conds) > 0 {
			q = q.Where(conds[0], conds[1:]...)
		}
		if err := q.Count(&n).Error; err != nil && firstErr == nil {
			firstErr = err
		}
		return n
	}

	weekStart := now.AddDate(0, 0, -7)
	prevWeekStart := now.AddDate(0, 0, -14)
	completedThisWeek := count(&models.Task{},
		"status = ? AND completed_at >= ?", models.TaskStatusCompleted, weekStart)
	completedPrevWeek := count(&models.Task{},
		"status = ? AND completed_at >= ? AND completed_at < ?",
		models.TaskStatusCompleted, prevWeekStart, weekStart)

	payload := map[string]interface{}{
		"clients": map[string]int64{
			"total":    count(&models.Client{}),
			"active":   count(&models.Client{}, "status = ?", models.ClientStatusActive),
			"inactive": count(&models.Client{}, "status = ?", models.ClientStatusInactive),
			"pending":  count(&models.Client{}, "status = ?", models.ClientStatusPending),
		},
		"zones": count(&models.Zone{}),
		"tasks": map[string]int64{
			"pending": count(&models.Task{}, "status = ?", models.TaskStatusPending),
			"overdue": count(&models.Task{}, "due_date < ? AND status NOT IN ?", now,
				[]string{models.TaskStatusCompleted, models.TaskStatusCancelled}),
		},
		"upcoming_visits": count(&models.Visit{},
			"status = ? AND scheduled_date >= ?", models.VisitStatusScheduled, now),
		"photos":                count(&models.Photo{}),
		"tasks_completed_trend": makeKPI(completedThisWeek, completedPrevWeek),
	}
	if firstErr != nil {
		http.Error(w, firstErr.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
