package handlers

import (
	"net/http"
	"strconv"

	"lapublica/internal/models"
	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	Service    *services.FeedService
	Moderation *services.ModerationService
}

func NewFeedHandler(service *services.FeedService, moderation *services.ModerationService) *FeedHandler {
	return &FeedHandler{Service: service, Moderation: moderation}
}

func (h *FeedHandler) Create(c *gin.Context) {
	var post models.FeedPost
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	post.AuthorID = userID

	created, err := h.Service.Create(c.Request.Context(), &post)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FeedHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	post, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := getUserAndRole(c)
	if err := h.Service.ApplyResultsVisibility(c.Request.Context(), post, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *FeedHandler) List(c *gin.Context) {
	var f models.PostFilter
	if s := c.Query("status"); s != "" {
		st := models.PostStatus(s)
		f.Status = &st
	}
	if s := c.Query("type"); s != "" {
		tt := models.PostType(s)
		f.Type = &tt
	}
	if s := c.Query("author_id"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.AuthorID = &n
		}
	}

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	posts, err := h.Service.List(c.Request.Context(), f, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *FeedHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body models.FeedPost
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id

	userID, _ := getUserAndRole(c)
	updated, err := h.Service.Update(c.Request.Context(), &body, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FeedHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
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

func (h *FeedHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	post, err := h.Service.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// postCommandRequest is the single PATCH body. The action discriminates which
// command fields apply.
type postCommandRequest struct {
	Action string `json:"action" binding:"required"` // moderate | pin | feature

	ModerationStatus models.ModerationStatus `json:"moderation_status"`
	ModerationNote   string                  `json:"moderation_note"`
	Pinned           *bool                   `json:"pinned"`
	Featured         *bool                   `json:"featured"`
}

func (h *FeedHandler) Command(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req postCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cmd services.PostCommand
	switch req.Action {
	case "moderate":
		cmd.Moderate = &services.ModerateCommand{Status: req.ModerationStatus, Note: req.ModerationNote}
	case "pin":
		if req.Pinned == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pinned is required"})
			return
		}
		cmd.Pin = &services.PinCommand{Pinned: *req.Pinned}
	case "feature":
		if req.Featured == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "featured is required"})
			return
		}
		cmd.Feature = &services.FeatureCommand{Featured: *req.Featured}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be moderate, pin or feature"})
		return
	}

	userID, _ := getUserAndRole(c)
	updated, err := h.Moderation.ApplyCommand(c.Request.Context(), id, cmd, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type voteRequest struct {
	OptionIDs []int `json:"option_ids" binding:"required"`
}

func (h *FeedHandler) Vote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	poll, err := h.Service.Vote(c.Request.Context(), id, userID, req.OptionIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}
