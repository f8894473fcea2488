package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"lapublica/internal/models"
	"lapublica/internal/pipeline"

	"github.com/lib/pq"
)

// StageCount is one row of the pipeline summary.
type StageCount struct {
	Stage   pipeline.Stage `json:"stage"`
	Count   int            `json:"count"`
	Revenue float64        `json:"revenue"`
}

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	Update(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id int) (*models.Lead, error)
	UpdateStage(ctx context.Context, id int, stage pipeline.Stage) error
	Filter(ctx context.Context, f models.LeadFilter, limit, offset int) ([]models.Lead, error)
	ListByAssignee(ctx context.Context, memberID, limit, offset int) ([]models.Lead, error)
	CountByStage(ctx context.Context) ([]StageCount, error)
	AddTransition(ctx context.Context, tr *models.StageTransition) error
	ListTransitions(ctx context.Context, leadID int) ([]models.StageTransition, error)
}

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) LeadRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &leadRepository{db: db}
}

const leadColumns = `id, company_name, sector, priority, stage, assigned_to,
	estimated_revenue, score, tags, notes, description, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(&l.ID, &l.CompanyName, &l.Sector, &l.Priority, &l.Stage,
		&l.AssignedTo, &l.EstimatedRevenue, &l.Score, &l.Tags, &l.Notes,
		&l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	const query = `
		INSERT INTO leads (company_name, sector, priority, stage, assigned_to,
			estimated_revenue, score, tags, notes, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		lead.CompanyName, lead.Sector, lead.Priority, lead.Stage, lead.AssignedTo,
		lead.EstimatedRevenue, lead.Score, pq.Array([]string(lead.Tags)),
		lead.Notes, lead.Description, lead.CreatedAt, lead.UpdatedAt,
	).Scan(&lead.ID)
}

func (r *leadRepository) Update(ctx context.Context, lead *models.Lead) error {
	const query = `
		UPDATE leads
		SET company_name=$1, sector=$2, priority=$3, assigned_to=$4,
			estimated_revenue=$5, score=$6, tags=$7, notes=$8, description=$9,
			updated_at=$10
		WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query,
		lead.CompanyName, lead.Sector, lead.Priority, lead.AssignedTo,
		lead.EstimatedRevenue, lead.Score, pq.Array([]string(lead.Tags)),
		lead.Notes, lead.Description, lead.UpdatedAt, lead.ID)
	return err
}

func (r *leadRepository) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

func (r *leadRepository) UpdateStage(ctx context.Context, id int, stage pipeline.Stage) error {
	const query = `UPDATE leads SET stage=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, stage, id)
	return err
}

func (r *leadRepository) Filter(ctx context.Context, f models.LeadFilter, limit, offset int) ([]models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	conditions := []string{}
	args := []interface{}{}
	i := 1

	if f.Stage != nil {
		conditions = append(conditions, fmt.Sprintf("stage = $%d", i))
		args = append(args, *f.Stage)
		i++
	}
	if f.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", i))
		args = append(args, *f.Priority)
		i++
	}
	if f.AssignedTo != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", i))
		args = append(args, *f.AssignedTo)
		i++
	}
	if f.Search != nil && *f.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(company_name ILIKE $%d OR sector ILIKE $%d)", i, i))
		args = append(args, "%"+*f.Search+"%")
		i++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *leadRepository) ListByAssignee(ctx context.Context, memberID, limit, offset int) ([]models.Lead, error) {
	return r.Filter(ctx, models.LeadFilter{AssignedTo: &memberID}, limit, offset)
}

func (r *leadRepository) CountByStage(ctx context.Context) ([]StageCount, error) {
	const query = `
		SELECT stage, COUNT(*), COALESCE(SUM(estimated_revenue), 0)
		FROM leads
		GROUP BY stage`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StageCount
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count, &sc.Revenue); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *leadRepository) AddTransition(ctx context.Context, tr *models.StageTransition) error {
	const query = `
		INSERT INTO lead_stage_transitions (lead_id, from_stage, to_stage, moved_by, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		tr.LeadID, tr.FromStage, tr.ToStage, tr.MovedBy, tr.CreatedAt,
	).Scan(&tr.ID)
}

func (r *leadRepository) ListTransitions(ctx context.Context, leadID int) ([]models.StageTransition, error) {
	const query = `
		SELECT id, lead_id, from_stage, to_stage, moved_by, created_at
		FROM lead_stage_transitions
		WHERE lead_id=$1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StageTransition
	for rows.Next() {
		var tr models.StageTransition
		if err := rows.Scan(&tr.ID, &tr.LeadID, &tr.FromStage, &tr.ToStage, &tr.MovedBy, &tr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
