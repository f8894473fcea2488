package handlers

import (
	"net/http"

	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	Service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{Service: service}
}

// Upload takes a multipart form with "file" and "type" (image/video/document)
// and returns the public URL of the stored file.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	kind := c.PostForm("type")
	if kind == "" {
		kind = "image"
	}

	url, err := h.Service.Save(file, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
