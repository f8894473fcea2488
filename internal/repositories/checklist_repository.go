package repositories

import (
	"context"
	"database/sql"

	"lapublica/internal/models"
	"lapublica/internal/pipeline"
)

type ChecklistRepository interface {
	// Complete upserts one completion; repeating the same (lead, check) pair
	// keeps the first completion untouched.
	Complete(ctx context.Context, c *models.CheckCompletion) error
	ListByLeadPhase(ctx context.Context, leadID int, phase pipeline.PhaseID) ([]models.CheckCompletion, error)
}

type checklistRepository struct {
	db *sql.DB
}

func NewChecklistRepository(db *sql.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

func (r *checklistRepository) Complete(ctx context.Context, c *models.CheckCompletion) error {
	const query = `
		INSERT INTO lead_check_completions (lead_id, phase, check_id, form_data, completed_by, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (lead_id, check_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		c.LeadID, c.Phase, c.CheckID, []byte(c.FormData), c.CompletedBy, c.CompletedAt)
	return err
}

func (r *checklistRepository) ListByLeadPhase(ctx context.Context, leadID int, phase pipeline.PhaseID) ([]models.CheckCompletion, error) {
	const query = `
		SELECT id, lead_id, phase, check_id, form_data, completed_by, completed_at
		FROM lead_check_completions
		WHERE lead_id=$1 AND phase=$2`
	rows, err := r.db.QueryContext(ctx, query, leadID, phase)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CheckCompletion
	for rows.Next() {
		var c models.CheckCompletion
		var form []byte
		if err := rows.Scan(&c.ID, &c.LeadID, &c.Phase, &c.CheckID, &form, &c.CompletedBy, &c.CompletedAt); err != nil {
			return nil, err
		}
		c.FormData = form
		out = append(out, c)
	}
	return out, rows.Err()
}
