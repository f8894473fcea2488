package repositories

import (
	"context"
	"database/sql"
	"time"

	"lapublica/internal/models"
)

type ReportRepository interface {
	Create(ctx context.Context, rep *models.Report) error
	GetByID(ctx context.Context, id int) (*models.Report, error)
	ListByStatus(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
	ListByPost(ctx context.Context, postID int) ([]models.Report, error)
	Resolve(ctx context.Context, id int, status models.ReportStatus, resolvedBy int, resolvedAt time.Time) error
}

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `id, post_id, reporter_id, reason, status, resolved_by, resolved_at, created_at`

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	rep := &models.Report{}
	err := row.Scan(&rep.ID, &rep.PostID, &rep.ReporterID, &rep.Reason,
		&rep.Status, &rep.ResolvedBy, &rep.ResolvedAt, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *reportRepository) Create(ctx context.Context, rep *models.Report) error {
	const query = `
		INSERT INTO post_reports (post_id, reporter_id, reason, status, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		rep.PostID, rep.ReporterID, rep.Reason, rep.Status, rep.CreatedAt,
	).Scan(&rep.ID)
}

func (r *reportRepository) GetByID(ctx context.Context, id int) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM post_reports WHERE id=$1`
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rep, err
}

func (r *reportRepository) ListByStatus(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM post_reports
		WHERE status=$1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *reportRepository) ListByPost(ctx context.Context, postID int) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM post_reports WHERE post_id=$1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *reportRepository) Resolve(ctx context.Context, id int, status models.ReportStatus, resolvedBy int, resolvedAt time.Time) error {
	const query = `UPDATE post_reports SET status=$1, resolved_by=$2, resolved_at=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, status, resolvedBy, resolvedAt, id)
	return err
}
