package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.StatsFromApp(*stats))
}

func (s *Server) handleListTasks(c *gin.Context) {
	filter := app.ListFilter{
		Status:   domain.StoredStatus(c.Query("status")),
		Priority: domain.Priority(c.Query("priority")),
		Search:   c.Query("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		badRequest(c, "unknown status "+string(filter.Status))
		return
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		badRequest(c, "unknown priority "+string(filter.Priority))
		return
	}
	tasks, err := s.store.ListTasks(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	records := make([]contract.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, contract.TaskFromDomain(t))
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.TaskFromDomain(*task))
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req contract.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := s.store.CreateTask(c.Request.Context(), req.ToInput())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.TaskFromDomain(*task))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contract.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	task, err := s.store.UpdateTaskWith(c.Request.Context(), id, req.Apply)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.TaskFromDomain(*task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageResponse{Message: "Task deleted"})
}

func (s *Server) handleBulkDelete(c *gin.Context) {
	var req contract.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(req.TaskIDs) == 0 {
		badRequest(c, "No task IDs provided")
		return
	}
	n, err := s.store.BulkDeleteTasks(c.Request.Context(), req.TaskIDs)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageResponse{
		Message: fmt.Sprintf("Deleted %d tasks", n),
		Deleted: n,
	})
}

func (s *Server) handleDeleteAll(c *gin.Context) {
	res, err := s.store.DeleteAll(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.DeleteAllResponse{
		Message:                fmt.Sprintf("Deleted %d tasks and cleared %d processed emails", res.DeletedTasks, res.ClearedProcessedEmails),
		DeletedTasks:           res.DeletedTasks,
		ClearedProcessedEmails: res.ClearedProcessedEmails,
	})
}

func (s *Server) handleApplyTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contract.ApplyTemplateRequest
	// An empty body selects the default template.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	task, err := s.store.ApplyTemplate(c.Request.Context(), id, req.TemplateID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.TaskFromDomain(*task))
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contract.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	st, err := s.store.CreateSubtask(c.Request.Context(), id, req.Title)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.SubtaskFromDomain(*st))
}

func (s *Server) handleReorderSubtasks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contract.ReorderSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	list, err := s.store.ReorderSubtasks(c.Request.Context(), id, req.Order)
	if err != nil {
		s.writeError(c, err)
		return
	}
	records := make([]contract.SubtaskRecord, 0, len(list))
	for _, st := range list {
		records = append(records, contract.SubtaskFromDomain(st))
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contract.UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	patch := app.SubtaskPatch{Title: req.Title}
	if req.Status != nil {
		status := domain.SubtaskStatus(*req.Status)
		patch.Status = &status
	}
	st, err := s.store.UpdateSubtask(c.Request.Context(), id, patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.SubtaskFromDomain(*st))
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteSubtask(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageResponse{Message: "Subtask deleted"})
}

func (s *Server) handleListTemplates(c *gin.Context) {
	templates, err := s.store.ListTemplates(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	records := make([]contract.TemplateRecord, 0, len(templates))
	for _, t := range templates {
		records = append(records, contract.TemplateFromDomain(t))
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var req contract.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	tmpl, err := s.store.CreateTemplate(c.Request.Context(), req.Name, req.Steps)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.TemplateFromDomain(*tmpl))
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteTemplate(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageResponse{Message: "Template deleted"})
}

func (s *Server) handleListScanLog(c *gin.Context) {
	limit := repository.DefaultScanLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	entries, err := s.store.ListScanLog(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	records := make([]contract.ScanLogRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, contract.ScanLogFromDomain(e))
	}
	c.JSON(http.StatusOK, records)
}

// handleRecordScan lets the inbox scanner report the outcome for a message.
func (s *Server) handleRecordScan(c *gin.Context) {
	var rec contract.ScanLogRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if rec.Result == "" {
		badRequest(c, "result is required")
		return
	}
	entry := rec.ToDomain()
	entry.ID = 0
	if err := s.store.RecordScan(c.Request.Context(), &entry); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.ScanLogFromDomain(entry))
}

func (s *Server) handleClearScanLog(c *gin.Context) {
	if err := s.store.ClearScanLog(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.MessageResponse{Message: "Email scan logs cleared"})
}
