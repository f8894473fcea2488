package handlers

import (
	"net/http"

	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

func (h *ReportHandler) PipelineSummary(c *gin.Context) {
	rows, err := h.Service.PipelineSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stages": rows})
}

// ExportPipelineSummary renders the summary to PDF and streams the file.
func (h *ReportHandler) ExportPipelineSummary(c *gin.Context) {
	path, err := h.Service.ExportPipelineSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "pipeline.pdf")
}
