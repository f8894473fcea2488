package models

import (
	"encoding/json"
	"time"

	"lapublica/internal/pipeline"
)

// CheckCompletion is a persisted completion of one checklist item for a lead.
type CheckCompletion struct {
	ID          int             `json:"id"`
	LeadID      int             `json:"lead_id"`
	Phase       pipeline.PhaseID `json:"phase"`
	CheckID     string          `json:"check_id"`
	FormData    json.RawMessage `json:"form_data,omitempty"`
	CompletedBy int             `json:"completed_by"`
	CompletedAt time.Time       `json:"completed_at"`
}

// CheckStatus merges the static definition with its per-lead completion state.
type CheckStatus struct {
	pipeline.CheckDef
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	FormData    json.RawMessage `json:"form_data,omitempty"`
}

// PhaseChecklistStatus is the gate evaluation for a lead's current phase.
// CanAdvance is true iff every required check is completed.
type PhaseChecklistStatus struct {
	Phase                   pipeline.PhaseID `json:"phase"`
	Checks                  []CheckStatus    `json:"checks"`
	CompletedChecks         int              `json:"completed_checks"`
	TotalChecks             int              `json:"total_checks"`
	RequiredChecks          int              `json:"required_checks"`
	CompletedRequiredChecks int              `json:"completed_required_checks"`
	CanAdvance              bool             `json:"can_advance"`
}
