package handlers

import (
	"net/http"
	"strconv"

	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	Service *services.ConnectionService
}

func NewConnectionHandler(service *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{Service: service}
}

type connectionRequest struct {
	ReceiverID int `json:"receiver_id" binding:"required"`
}

func (h *ConnectionHandler) Request(c *gin.Context) {
	var req connectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	conn, err := h.Service.Request(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conn)
}

type connectionResponse struct {
	Action string `json:"action" binding:"required"` // accept | reject
}

func (h *ConnectionHandler) Respond(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req connectionResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var accept bool
	switch req.Action {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be accept or reject"})
		return
	}

	userID, _ := getUserAndRole(c)
	conn, err := h.Service.Respond(c.Request.Context(), id, userID, accept)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) Remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	if err := h.Service.Remove(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConnectionHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	conns, err := h.Service.ListForMember(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conns)
}
