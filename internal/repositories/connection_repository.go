package repositories

import (
	"context"
	"database/sql"

	"lapublica/internal/models"
)

type ConnectionRepository interface {
	Create(ctx context.Context, c *models.Connection) error
	GetByID(ctx context.Context, id int) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id int, status models.ConnectionStatus) error
	Delete(ctx context.Context, id int) error
	// FindBetween returns the latest connection row involving both members in
	// either direction, nil when none exists.
	FindBetween(ctx context.Context, a, b int) (*models.Connection, error)
	ListForMember(ctx context.Context, memberID int) ([]models.Connection, error)
	CountAccepted(ctx context.Context, memberID int) (int, error)
}

type connectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connColumns = `id, sender_id, receiver_id, status, expires_at, created_at, updated_at`

func scanConnection(row interface{ Scan(...any) error }) (*models.Connection, error) {
	c := &models.Connection{}
	err := row.Scan(&c.ID, &c.SenderID, &c.ReceiverID, &c.Status, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *connectionRepository) Create(ctx context.Context, c *models.Connection) error {
	const query = `
		INSERT INTO connections (sender_id, receiver_id, status, expires_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		c.SenderID, c.ReceiverID, c.Status, c.ExpiresAt, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *connectionRepository) GetByID(ctx context.Context, id int) (*models.Connection, error) {
	query := `SELECT ` + connColumns + ` FROM connections WHERE id=$1`
	c, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id int, status models.ConnectionStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE connections SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}

func (r *connectionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id=$1`, id)
	return err
}

func (r *connectionRepository) FindBetween(ctx context.Context, a, b int) (*models.Connection, error) {
	query := `SELECT ` + connColumns + ` FROM connections
		WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
		ORDER BY created_at DESC
		LIMIT 1`
	c, err := scanConnection(r.db.QueryRowContext(ctx, query, a, b))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *connectionRepository) ListForMember(ctx context.Context, memberID int) ([]models.Connection, error) {
	query := `SELECT ` + connColumns + ` FROM connections
		WHERE sender_id=$1 OR receiver_id=$1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *connectionRepository) CountAccepted(ctx context.Context, memberID int) (int, error) {
	const query = `SELECT COUNT(*) FROM connections
		WHERE status='ACCEPTED' AND (sender_id=$1 OR receiver_id=$1)`
	var count int
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&count)
	return count, err
}
