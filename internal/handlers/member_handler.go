package handlers

import (
	"net/http"
	"strconv"

	"lapublica/internal/authz"
	"lapublica/internal/models"
	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	Service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{Service: service}
}

// Directory serves the privacy-filtered member listing.
func (h *MemberHandler) Directory(c *gin.Context) {
	var f models.MemberFilter
	if s := c.Query("search"); s != "" {
		f.Search = &s
	}
	if s := c.Query("department"); s != "" {
		f.Department = &s
	}
	if s := c.Query("location"); s != "" {
		f.Location = &s
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	out, err := h.Service.Directory(c.Request.Context(), f, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Assignees feeds the task/lead assignee pickers.
func (h *MemberHandler) Assignees(c *gin.Context) {
	out, err := h.Service.Assignees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Me returns the caller's full profile, private fields included.
func (h *MemberHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	m, err := h.Service.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type profileUpdateRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`

	ShowJobTitle    *bool `json:"show_job_title"`
	ShowDepartment  *bool `json:"show_department"`
	ShowBio         *bool `json:"show_bio"`
	ShowConnections *bool `json:"show_connections"`

	EmailNotify *bool `json:"email_notify"`
}

// UpdateProfile edits the caller's own profile. Privacy toggles are pointers
// so an absent field keeps its stored value.
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.Service.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	current.FirstName = req.FirstName
	current.LastName = req.LastName
	current.JobTitle = req.JobTitle
	current.Department = req.Department
	current.Location = req.Location
	current.Bio = req.Bio
	if req.ShowJobTitle != nil {
		current.ShowJobTitle = *req.ShowJobTitle
	}
	if req.ShowDepartment != nil {
		current.ShowDepartment = *req.ShowDepartment
	}
	if req.ShowBio != nil {
		current.ShowBio = *req.ShowBio
	}
	if req.ShowConnections != nil {
		current.ShowConnections = *req.ShowConnections
	}
	if req.EmailNotify != nil {
		current.EmailNotify = *req.EmailNotify
	}

	updated, err := h.Service.UpdateProfile(c.Request.Context(), current)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetByID returns the public projection, or the full record for staff.
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)

	m, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if id == userID || authz.IsStaff(roleID) {
		c.JSON(http.StatusOK, m)
		return
	}

	connCount := 0
	if m.ShowConnections {
		if n, err := h.Service.Connections.CountAccepted(c.Request.Context(), m.ID); err == nil {
			connCount = n
		}
	}
	c.JSON(http.StatusOK, m.PublicView(connCount))
}
