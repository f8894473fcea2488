package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lapublica/internal/models"
)

type MemberRepository interface {
	Create(ctx context.Context, m *models.Member) error
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	Update(ctx context.Context, m *models.Member) error
	UpdateRefresh(ctx context.Context, id int, token string, expiresAt time.Time) error
	GetByRefresh(ctx context.Context, token string) (*models.Member, error)
	List(ctx context.Context, f models.MemberFilter, limit, offset int) ([]models.Member, error)
	Count(ctx context.Context, f models.MemberFilter) (int, error)
}

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, email, password_hash, role_id, first_name, last_name,
	job_title, department, location, bio, show_job_title, show_department,
	show_bio, show_connections, telegram_chat_id, email_notify,
	refresh_token, refresh_expires_at, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.RoleID, &m.FirstName,
		&m.LastName, &m.JobTitle, &m.Department, &m.Location, &m.Bio,
		&m.ShowJobTitle, &m.ShowDepartment, &m.ShowBio, &m.ShowConnections,
		&m.TelegramChatID, &m.EmailNotify,
		&m.RefreshToken, &m.RefreshExpiresAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memberRepository) Create(ctx context.Context, m *models.Member) error {
	const query = `
		INSERT INTO members (email, password_hash, role_id, first_name, last_name,
			job_title, department, location, bio, show_job_title, show_department,
			show_bio, show_connections, telegram_chat_id, email_notify, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		m.Email, m.PasswordHash, m.RoleID, m.FirstName, m.LastName,
		m.JobTitle, m.Department, m.Location, m.Bio,
		m.ShowJobTitle, m.ShowDepartment, m.ShowBio, m.ShowConnections,
		m.TelegramChatID, m.EmailNotify, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *memberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id=$1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE LOWER(email)=LOWER($1)`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *memberRepository) Update(ctx context.Context, m *models.Member) error {
	const query = `
		UPDATE members
		SET first_name=$1, last_name=$2, job_title=$3, department=$4, location=$5,
			bio=$6, show_job_title=$7, show_department=$8, show_bio=$9,
			show_connections=$10, telegram_chat_id=$11, email_notify=$12, updated_at=$13
		WHERE id=$14`
	_, err := r.db.ExecContext(ctx, query,
		m.FirstName, m.LastName, m.JobTitle, m.Department, m.Location, m.Bio,
		m.ShowJobTitle, m.ShowDepartment, m.ShowBio, m.ShowConnections,
		m.TelegramChatID, m.EmailNotify, m.UpdatedAt, m.ID)
	return err
}

func (r *memberRepository) UpdateRefresh(ctx context.Context, id int, token string, expiresAt time.Time) error {
	const query = `UPDATE members SET refresh_token=$1, refresh_expires_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	return err
}

func (r *memberRepository) GetByRefresh(ctx context.Context, token string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE refresh_token=$1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func memberConditions(f models.MemberFilter, args *[]interface{}) []string {
	conditions := []string{}
	i := len(*args) + 1

	if f.Search != nil && *f.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", i, i, i))
		*args = append(*args, "%"+*f.Search+"%")
		i++
	}
	if f.Department != nil && *f.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", i))
		*args = append(*args, *f.Department)
		i++
	}
	if f.Location != nil && *f.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location = $%d", i))
		*args = append(*args, *f.Location)
		i++
	}
	return conditions
}

func (r *memberRepository) List(ctx context.Context, f models.MemberFilter, limit, offset int) ([]models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	args := []interface{}{}
	if conditions := memberConditions(f, &args); len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *memberRepository) Count(ctx context.Context, f models.MemberFilter) (int, error) {
	query := `SELECT COUNT(*) FROM members`
	args := []interface{}{}
	if conditions := memberConditions(f, &args); len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
