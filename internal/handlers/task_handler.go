package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lapublica/internal/models"
	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	Service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

// assigneeField accepts either a member id or the "current-user" sentinel,
// which the handler resolves from the token.
type assigneeField struct {
	ID      int
	Current bool
	Set     bool
}

func (a *assigneeField) UnmarshalJSON(data []byte) error {
	a.Set = true
	if bytes.Equal(data, []byte(`"current-user"`)) {
		a.Current = true
		return nil
	}
	return json.Unmarshal(data, &a.ID)
}

type taskRequest struct {
	AssignedTo  assigneeField       `json:"assigned_to"`
	LeadID      *int                `json:"lead_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        models.TaskType     `json:"type"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	StartDate   *time.Time          `json:"start_date"`
	DueDate     *time.Time          `json:"due_date"`
	ReminderAt  *time.Time          `json:"reminder_at"`
}

func (r *taskRequest) toTask(userID int) *models.Task {
	assignee := r.AssignedTo.ID
	if r.AssignedTo.Current || !r.AssignedTo.Set {
		assignee = userID
	}
	return &models.Task{
		AssignedTo:  assignee,
		LeadID:      r.LeadID,
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Priority:    r.Priority,
		Status:      r.Status,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		ReminderAt:  r.ReminderAt,
	}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	task := req.toTask(userID)
	task.CreatorID = userID

	created, err := h.Service.Create(c.Request.Context(), task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	task, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) GetAll(c *gin.Context) {
	var f models.TaskFilter
	if s := c.Query("status"); s != "" {
		st := models.TaskStatus(s)
		f.Status = &st
	}
	if s := c.Query("type"); s != "" {
		tt := models.TaskType(s)
		f.Type = &tt
	}
	if s := c.Query("assigned_to"); s != "" {
		if s == "current-user" {
			userID, _ := getUserAndRole(c)
			f.AssignedTo = &userID
		} else if n, err := strconv.Atoi(s); err == nil {
			f.AssignedTo = &n
		}
	}
	if s := c.Query("lead_id"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.LeadID = &n
		}
	}

	tasks, err := h.Service.GetAll(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	updated, err := h.Service.Update(c.Request.Context(), id, req.toTask(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changeStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.Service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type tagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

func (h *TaskHandler) AddTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.Service.AddTag(c.Request.Context(), id, req.Tag)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) RemoveTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	tag := c.Param("tag")
	updated, err := h.Service.RemoveTag(c.Request.Context(), id, tag)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
