package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"
	"lapublica/internal/pipeline"
	"lapublica/internal/repositories"
)

type LeadService struct {
	Repo      repositories.LeadRepository
	Checklist repositories.ChecklistRepository
	Notifier  *NotificationService

	// serializes stage transitions per lead
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewLeadService(repo repositories.LeadRepository, checklist repositories.ChecklistRepository, notifier *NotificationService) *LeadService {
	return &LeadService{
		Repo:      repo,
		Checklist: checklist,
		Notifier:  notifier,
		locks:     make(map[int]*sync.Mutex),
	}
}

func (s *LeadService) leadLock(id int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *LeadService) Create(ctx context.Context, lead *models.Lead) error {
	if lead.CompanyName == "" {
		return apperrors.Validationf("company_name is required")
	}
	if lead.Stage == "" {
		lead.Stage = pipeline.StageNew
	}
	if !pipeline.Known(lead.Stage) {
		return apperrors.Validationf("unknown stage %q", lead.Stage)
	}
	if lead.Priority == "" {
		lead.Priority = models.LeadPriorityMedium
	}
	now := time.Now()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now
	return s.Repo.Create(ctx, lead)
}

// Update edits lead fields; the stage is untouched here, MoveToStage owns it.
func (s *LeadService) Update(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	current, err := s.Repo.GetByID(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.NotFoundf("lead %d", lead.ID)
	}
	lead.Stage = current.Stage
	lead.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, lead.ID)
}

func (s *LeadService) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperrors.NotFoundf("lead %d", id)
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, f models.LeadFilter, limit, offset int) ([]models.Lead, error) {
	return s.Repo.Filter(ctx, f, limit, offset)
}

func (s *LeadService) ListByGestor(ctx context.Context, gestorID, limit, offset int) ([]models.Lead, error) {
	return s.Repo.ListByAssignee(ctx, gestorID, limit, offset)
}

// PipelineBoard groups leads by stage in pipeline order.
func (s *LeadService) PipelineBoard(ctx context.Context, limit int) (map[pipeline.Stage][]models.Lead, error) {
	board := make(map[pipeline.Stage][]models.Lead)
	for _, st := range pipeline.AllStages() {
		stage := st
		leads, err := s.Repo.Filter(ctx, models.LeadFilter{Stage: &stage}, limit, 0)
		if err != nil {
			return nil, err
		}
		board[stage] = leads
	}
	return board, nil
}

func (s *LeadService) Transitions(ctx context.Context, leadID int) ([]models.StageTransition, error) {
	if _, err := s.GetByID(ctx, leadID); err != nil {
		return nil, err
	}
	return s.Repo.ListTransitions(ctx, leadID)
}

// MoveToStage validates and persists a stage transition.
//
// Rules:
//   - the target must be a known stage; terminal stages accept no moves;
//   - moving to the current stage is an idempotent no-op;
//   - crossing forward into the next phase requires the checklist gate;
//   - per-lead locking keeps two concurrent moves from interleaving.
func (s *LeadService) MoveToStage(ctx context.Context, leadID int, target pipeline.Stage, movedBy int) (*models.Lead, error) {
	if !pipeline.Known(target) {
		return nil, apperrors.Validationf("unknown stage %q", target)
	}

	lock := s.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := s.Repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperrors.NotFoundf("lead %d", leadID)
	}

	if lead.Stage == target {
		// idempotent: the second identical request changes nothing
		return lead, nil
	}
	if pipeline.IsTerminal(lead.Stage) {
		return nil, apperrors.Conflictf("lead %d is in terminal stage %s", leadID, lead.Stage)
	}

	fromPhase, ok := pipeline.PhaseOf(lead.Stage)
	if !ok {
		return nil, apperrors.Conflictf("lead %d carries unknown stage %q", leadID, lead.Stage)
	}
	toPhase, _ := pipeline.PhaseOf(target)

	if toPhase > fromPhase {
		if toPhase != fromPhase+1 {
			return nil, apperrors.Conflictf("cannot skip from phase %d to %d", fromPhase, toPhase)
		}
		status, err := s.checklistStatus(ctx, lead)
		if err != nil {
			return nil, err
		}
		if !status.CanAdvance {
			return nil, apperrors.Conflictf("phase %d checklist incomplete: %d/%d required checks",
				fromPhase, status.CompletedRequiredChecks, status.RequiredChecks)
		}
	}

	if err := s.Repo.UpdateStage(ctx, leadID, target); err != nil {
		return nil, err
	}
	// history is best-effort: the stage write already landed
	if err := s.Repo.AddTransition(ctx, &models.StageTransition{
		LeadID:    leadID,
		FromStage: lead.Stage,
		ToStage:   target,
		MovedBy:   movedBy,
		CreatedAt: time.Now(),
	}); err != nil {
		log.Printf("[lead][move][err] record transition lead=%d %s->%s: %v", leadID, lead.Stage, target, err)
	}

	updated, err := s.Repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil && toPhase != fromPhase {
		s.Notifier.LeadPhaseChanged(ctx, updated, fromPhase, toPhase)
	}
	return updated, nil
}

// ChecklistStatus evaluates the gate for the lead's current phase.
func (s *LeadService) ChecklistStatus(ctx context.Context, leadID int) (*models.PhaseChecklistStatus, error) {
	lead, err := s.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return s.checklistStatus(ctx, lead)
}

func (s *LeadService) checklistStatus(ctx context.Context, lead *models.Lead) (*models.PhaseChecklistStatus, error) {
	phase, ok := pipeline.PhaseOf(lead.Stage)
	if !ok {
		return nil, apperrors.Conflictf("lead %d carries unknown stage %q", lead.ID, lead.Stage)
	}

	defs := pipeline.ChecksOfPhase(phase)
	completions, err := s.Checklist.ListByLeadPhase(ctx, lead.ID, phase)
	if err != nil {
		return nil, err
	}
	done := make(map[string]models.CheckCompletion, len(completions))
	for _, c := range completions {
		done[c.CheckID] = c
	}

	status := &models.PhaseChecklistStatus{
		Phase:       phase,
		TotalChecks: len(defs),
	}
	for _, d := range defs {
		cs := models.CheckStatus{CheckDef: d}
		if c, ok := done[d.ID]; ok {
			cs.Completed = true
			at := c.CompletedAt
			cs.CompletedAt = &at
			cs.FormData = c.FormData
			status.CompletedChecks++
		}
		if d.Required {
			status.RequiredChecks++
			if cs.Completed {
				status.CompletedRequiredChecks++
			}
		}
		status.Checks = append(status.Checks, cs)
	}
	status.CanAdvance = status.CompletedRequiredChecks == status.RequiredChecks
	return status, nil
}

// CompleteCheck records one checklist completion for the lead's current phase.
// Completing the same check twice is a no-op.
func (s *LeadService) CompleteCheck(ctx context.Context, leadID int, checkID string, form json.RawMessage, memberID int) (*models.PhaseChecklistStatus, error) {
	lead, err := s.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	phase, ok := pipeline.PhaseOf(lead.Stage)
	if !ok {
		return nil, apperrors.Conflictf("lead %d carries unknown stage %q", leadID, lead.Stage)
	}
	def, ok := pipeline.CheckByID(phase, checkID)
	if !ok {
		return nil, apperrors.Validationf("check %q does not belong to phase %d", checkID, phase)
	}
	if !def.HasForm {
		form = nil
	}

	err = s.Checklist.Complete(ctx, &models.CheckCompletion{
		LeadID:      leadID,
		Phase:       phase,
		CheckID:     checkID,
		FormData:    form,
		CompletedBy: memberID,
		CompletedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return s.checklistStatus(ctx, lead)
}
