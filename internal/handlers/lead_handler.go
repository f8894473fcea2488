package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lapublica/internal/authz"
	"lapublica/internal/models"
	"lapublica/internal/pipeline"
	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	Service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, roleID := getUserAndRole(c)
	// gestors own what they create; the assignee field from the body is kept
	// only for elevated roles
	if !authz.IsStaff(roleID) || lead.AssignedTo == 0 {
		lead.AssignedTo = userID
	}

	if err := h.Service.Create(c.Request.Context(), &lead); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	lead, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body models.Lead
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id

	updated, err := h.Service.Update(c.Request.Context(), &body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LeadHandler) List(c *gin.Context) {
	var f models.LeadFilter
	if s := c.Query("stage"); s != "" {
		stage := pipeline.Stage(s)
		f.Stage = &stage
	}
	if s := c.Query("priority"); s != "" {
		p := models.LeadPriority(s)
		f.Priority = &p
	}
	if s := c.Query("assigned_to"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.AssignedTo = &n
		}
	}
	if s := c.Query("search"); s != "" {
		f.Search = &s
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	leads, err := h.Service.List(c.Request.Context(), f, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// ByGestor lists the leads assigned to one gestor.
func (h *LeadHandler) ByGestor(c *gin.Context) {
	gestorID, err := strconv.Atoi(c.Param("gestor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gestor id"})
		return
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	leads, err := h.Service.ListByGestor(c.Request.Context(), gestorID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// Board returns leads grouped per stage, in pipeline order.
func (h *LeadHandler) Board(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	board, err := h.Service.PipelineBoard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phases": pipeline.Phases, "board": board})
}

type moveStageRequest struct {
	Stage pipeline.Stage `json:"stage" binding:"required"`
}

func (h *LeadHandler) MoveStage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req moveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	updated, err := h.Service.MoveToStage(c.Request.Context(), id, req.Stage, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LeadHandler) Transitions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	trs, err := h.Service.Transitions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trs)
}

func (h *LeadHandler) Checklist(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	status, err := h.Service.ChecklistStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type completeCheckRequest struct {
	FormData json.RawMessage `json:"form_data"`
}

func (h *LeadHandler) CompleteCheck(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	checkID := c.Param("check_id")

	var req completeCheckRequest
	// an empty body is fine for checks without a form
	_ = c.ShouldBindJSON(&req)

	userID, _ := getUserAndRole(c)
	status, err := h.Service.CompleteCheck(c.Request.Context(), id, checkID, req.FormData, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
