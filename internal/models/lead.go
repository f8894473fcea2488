package models

import (
	"time"

	"lapublica/internal/pipeline"

	"github.com/lib/pq"
)

type LeadPriority string

const (
	LeadPriorityLow    LeadPriority = "LOW"
	LeadPriorityMedium LeadPriority = "MEDIUM"
	LeadPriorityHigh   LeadPriority = "HIGH"
	LeadPriorityUrgent LeadPriority = "URGENT"
)

// Lead is a prospective client tracked through the pipeline. Stage is mutated
// only through the stage-transition service.
type Lead struct {
	ID               int            `json:"id"`
	CompanyName      string         `json:"company_name"`
	Sector           string         `json:"sector"`
	Priority         LeadPriority   `json:"priority"`
	Stage            pipeline.Stage `json:"stage"`
	AssignedTo       int            `json:"assigned_to"`
	EstimatedRevenue float64        `json:"estimated_revenue"`
	Score            int            `json:"score"`
	Tags             pq.StringArray `json:"tags"`
	Notes            string         `json:"notes"`
	Description      string         `json:"description"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// LeadFilter defines the available parameters for filtering leads.
type LeadFilter struct {
	Stage      *pipeline.Stage
	Priority   *LeadPriority
	AssignedTo *int
	Search     *string
}

// StageTransition is an audit row written for every stage change.
type StageTransition struct {
	ID        int            `json:"id"`
	LeadID    int            `json:"lead_id"`
	FromStage pipeline.Stage `json:"from_stage"`
	ToStage   pipeline.Stage `json:"to_stage"`
	MovedBy   int            `json:"moved_by"`
	CreatedAt time.Time      `json:"created_at"`
}
