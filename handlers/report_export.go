package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"sproutly.dev/garden/middleware"
	"sproutly.dev/garden/models"
)

// ExportHandler produces spreadsheet downloads of the owner's data
type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

func writeWorkbook(w http.ResponseWriter, f *excelize.File, name string) {
	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportClients downloads the owner's client directory as .xlsx.
func (h *ExportHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var clients []models.Client
	if err := h.db.Where("user_id = ?", userID).Order("name ASC").Find(&clients).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	sheet := "Clients"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Name", "Email", "Phone", "Address", "Status", "Notes", "Created"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
	}
	for row, c := range clients {
		notes := ""
		if c.Notes != nil {
			notes = *c.Notes
		}
		values := []interface{}{c.Name, c.Email, c.Phone, c.Address, c.Status, notes,
			c.CreatedAt.Format("2006-01-02")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	writeWorkbook(w, f, "clients")
}

// ExportTasks downloads the owner's task list as .xlsx.
func (h *ExportHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	var tasks []models.Task
	if err := h.db.Where("user_id = ?", userID).
		Preload("Client").Preload("Zone").
		Order("due_date ASC").Find(&tasks).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	sheet := "Tasks"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Title", "Client", "Zone", "Due", "Priority", "Status", "Recurring", "Completed"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
	}
	for row, t := range tasks {
		clientName := ""
		if t.Client != nil {
			clientName = t.Client.Name
		}
		zoneName := ""
		if t.Zone != nil {
			zoneName = t.Zone.Name
		}
		completed := ""
		if t.CompletedAt != nil {
			completed = t.CompletedAt.Format("2006-01-02")
		}
		values := []interface{}{t.Title, clientName, zoneName,
			t.DueDate.Format("2006-01-02"), t.Priority, t.Status, t.Recurring, completed}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	writeWorkbook(w, f, "tasks")
}
