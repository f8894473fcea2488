package services

import (
	"context"
	"time"

	"lapublica/internal/pdf"
	"lapublica/internal/repositories"
)

type ReportService struct {
	Leads repositories.LeadRepository
	PDF   pdf.Generator
}

func NewReportService(leads repositories.LeadRepository, gen pdf.Generator) *ReportService {
	return &ReportService{Leads: leads, PDF: gen}
}

// PipelineSummary returns lead counts and estimated revenue per stage.
func (s *ReportService) PipelineSummary(ctx context.Context) ([]repositories.StageCount, error) {
	return s.Leads.CountByStage(ctx)
}

// ExportPipelineSummary renders the summary as a PDF and returns the file path.
func (s *ReportService) ExportPipelineSummary(ctx context.Context) (string, error) {
	rows, err := s.Leads.CountByStage(ctx)
	if err != nil {
		return "", err
	}
	return s.PDF.GeneratePipelineSummary(pdf.SummaryData{
		Rows:        rows,
		GeneratedAt: time.Now(),
	})
}
