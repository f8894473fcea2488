package services

import (
	"context"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"
	"lapublica/internal/repositories"
)

// taskTransitions is the allowed status graph. COMPLETED is reopenable back
// to PENDING (the UI toggle); CANCELLED is terminal.
var taskTransitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.TaskPending:    {models.TaskInProgress: true, models.TaskCancelled: true},
	models.TaskInProgress: {models.TaskWaiting: true, models.TaskBlocked: true, models.TaskCompleted: true, models.TaskCancelled: true},
	models.TaskWaiting:    {models.TaskInProgress: true, models.TaskCancelled: true},
	models.TaskBlocked:    {models.TaskInProgress: true, models.TaskCancelled: true},
	models.TaskCompleted:  {models.TaskPending: true},
	models.TaskCancelled:  {},
}

func canTransitionTask(from, to models.TaskStatus) bool {
	if from == to {
		return true
	}
	nexts, ok := taskTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

var validTaskTypes = map[models.TaskType]bool{
	models.TaskFollowUp: true, models.TaskMeeting: true, models.TaskCall: true,
	models.TaskEmail: true, models.TaskDemo: true, models.TaskProposal: true,
	models.TaskContract: true, models.TaskOnboarding: true, models.TaskSupport: true,
	models.TaskInternal: true, models.TaskOther: true,
}

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)
	AddTag(ctx context.Context, id int64, tag string) (*models.Task, error)
	RemoveTag(ctx context.Context, id int64, tag string) (*models.Task, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	leads    repositories.LeadRepository
	notifier *NotificationService
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository, leads repositories.LeadRepository, notifier *NotificationService) TaskService {
	return &taskService{repo: repo, leads: leads, notifier: notifier}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Title == "" {
		return nil, apperrors.Validationf("title is required")
	}
	if task.AssignedTo == 0 {
		return nil, apperrors.Validationf("assigned_to is required")
	}
	if task.Type == "" {
		task.Type = models.TaskOther
	}
	if !validTaskTypes[task.Type] {
		return nil, apperrors.Validationf("unknown task type %q", task.Type)
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	task.Status = models.TaskPending

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.rescore(ctx, task, now)

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.TaskAssigned(ctx, task)
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.NotFoundf("task %d", id)
	}
	return task, nil
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updateData.Title == "" {
		return nil, apperrors.Validationf("title is required")
	}
	if updateData.Status != existing.Status && !canTransitionTask(existing.Status, updateData.Status) {
		return nil, apperrors.Conflictf("illegal status transition %s -> %s", existing.Status, updateData.Status)
	}

	existing.AssignedTo = updateData.AssignedTo
	existing.LeadID = updateData.LeadID
	existing.Title = updateData.Title
	existing.Description = updateData.Description
	existing.Type = updateData.Type
	existing.Priority = updateData.Priority
	existing.Status = updateData.Status
	existing.StartDate = updateData.StartDate
	existing.DueDate = updateData.DueDate
	existing.ReminderAt = updateData.ReminderAt

	now := time.Now()
	existing.UpdatedAt = now
	s.rescore(ctx, existing, now)

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}
	if !canTransitionTask(current.Status, to) {
		return nil, apperrors.Conflictf("illegal status transition %s -> %s", current.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.TaskStatusChanged(ctx, updated)
	}
	return updated, nil
}

// AddTag commits a single tag mutation, mirroring the per-edit auto-save of
// the task panel.
func (s *taskService) AddTag(ctx context.Context, id int64, tag string) (*models.Task, error) {
	if tag == "" {
		return nil, apperrors.Validationf("tag is required")
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, t := range current.Tags {
		if t == tag {
			return current, nil
		}
	}
	tags := append([]string(current.Tags), tag)
	if err := s.repo.UpdateTags(ctx, id, tags); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) RemoveTag(ctx context.Context, id int64, tag string) (*models.Task, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(current.Tags))
	for _, t := range current.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	if len(tags) == len(current.Tags) {
		return current, nil
	}
	if err := s.repo.UpdateTags(ctx, id, tags); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ===== scoring =====

var priorityWeight = map[models.TaskPriority]int{
	models.TaskPriorityLow:    1,
	models.TaskPriorityMedium: 2,
	models.TaskPriorityHigh:   3,
	models.TaskPriorityUrgent: 4,
}

var typeEffort = map[models.TaskType]int{
	models.TaskEmail: 1, models.TaskCall: 1, models.TaskFollowUp: 1,
	models.TaskMeeting: 2, models.TaskInternal: 2, models.TaskSupport: 2,
	models.TaskDemo: 3, models.TaskProposal: 3, models.TaskOnboarding: 3,
	models.TaskContract: 4, models.TaskOther: 2,
}

// rescore recomputes the derived scores. Deterministic: same inputs at the
// same instant give the same scores.
func (s *taskService) rescore(ctx context.Context, task *models.Task, now time.Time) {
	urgency := priorityWeight[task.Priority]
	if task.DueDate != nil {
		switch until := task.DueDate.Sub(now); {
		case until < 0:
			urgency += 4 // overdue
		case until < 24*time.Hour:
			urgency += 3
		case until < 72*time.Hour:
			urgency += 2
		case until < 7*24*time.Hour:
			urgency += 1
		}
	}

	impact := priorityWeight[task.Priority]
	if task.LeadID != nil && s.leads != nil {
		if lead, err := s.leads.GetByID(ctx, *task.LeadID); err == nil && lead != nil {
			switch {
			case lead.EstimatedRevenue >= 50000:
				impact += 3
			case lead.EstimatedRevenue >= 10000:
				impact += 2
			case lead.EstimatedRevenue > 0:
				impact += 1
			}
		}
	}

	effort := typeEffort[task.Type]

	task.UrgencyScore = urgency
	task.ImpactScore = impact
	task.EffortScore = effort
	task.AutoScore = urgency*2 + impact*2 - effort
}
