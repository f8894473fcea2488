package handlers

import (
	"net/http"
	"strconv"

	"lapublica/internal/models"
	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	Service *services.ModerationService
}

func NewModerationHandler(service *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{Service: service}
}

func (h *ModerationHandler) Queue(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	posts, err := h.Service.Queue(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

type fileReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *ModerationHandler) FileReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req fileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	rep, err := h.Service.FileReport(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rep)
}

func (h *ModerationHandler) PendingReports(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	reports, err := h.Service.PendingReports(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

type resolveReportRequest struct {
	Resolution models.ReportStatus `json:"resolution" binding:"required"` // DISMISSED | ACTIONED
}

func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req resolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	rep, err := h.Service.ResolveReport(c.Request.Context(), id, req.Resolution, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
