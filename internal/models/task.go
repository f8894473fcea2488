package models

import (
	"time"

	"github.com/lib/pq"
)

// TaskStatus defines the possible statuses for a sales task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskWaiting    TaskStatus = "WAITING"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

type TaskType string

const (
	TaskFollowUp   TaskType = "FOLLOW_UP"
	TaskMeeting    TaskType = "MEETING"
	TaskCall       TaskType = "CALL"
	TaskEmail      TaskType = "EMAIL"
	TaskDemo       TaskType = "DEMO"
	TaskProposal   TaskType = "PROPOSAL"
	TaskContract   TaskType = "CONTRACT"
	TaskOnboarding TaskType = "ONBOARDING"
	TaskSupport    TaskType = "SUPPORT"
	TaskInternal   TaskType = "INTERNAL"
	TaskOther      TaskType = "OTHER"
)

// Task is a sales activity, optionally linked to a lead.
type Task struct {
	ID          int64          `json:"id"`
	CreatorID   int            `json:"creator_id"`
	AssignedTo  int            `json:"assigned_to"`
	LeadID      *int           `json:"lead_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        TaskType       `json:"type"`
	Priority    TaskPriority   `json:"priority"`
	Status      TaskStatus     `json:"status"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	ReminderAt  *time.Time     `json:"reminder_at,omitempty"`
	Tags        pq.StringArray `json:"tags"`

	// derived scoring, recomputed on every write
	UrgencyScore int `json:"urgency_score"`
	ImpactScore  int `json:"impact_score"`
	EffortScore  int `json:"effort_score"`
	AutoScore    int `json:"auto_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	AssignedTo *int
	CreatorID  *int
	LeadID     *int
	Status     *TaskStatus
	Type       *TaskType
}
