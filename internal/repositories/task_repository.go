package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lapublica/internal/models"

	"github.com/lib/pq"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	UpdateTags(ctx context.Context, id int64, tags []string) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, creator_id, assigned_to, lead_id, title, description,
	type, priority, status, start_date, due_date, reminder_at, tags,
	urgency_score, impact_score, effort_score, auto_score, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.CreatorID, &t.AssignedTo, &t.LeadID, &t.Title,
		&t.Description, &t.Type, &t.Priority, &t.Status, &t.StartDate,
		&t.DueDate, &t.ReminderAt, &t.Tags, &t.UrgencyScore, &t.ImpactScore,
		&t.EffortScore, &t.AutoScore, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	const query = `
		INSERT INTO tasks (creator_id, assigned_to, lead_id, title, description,
			type, priority, status, start_date, due_date, reminder_at, tags,
			urgency_score, impact_score, effort_score, auto_score, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		task.CreatorID, task.AssignedTo, task.LeadID, task.Title, task.Description,
		task.Type, task.Priority, task.Status, task.StartDate, task.DueDate,
		task.ReminderAt, pq.Array([]string(task.Tags)),
		task.UrgencyScore, task.ImpactScore, task.EffortScore, task.AutoScore,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return task, err
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.AssignedTo != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", argID))
		args = append(args, *filter.AssignedTo)
		argID++
	}
	if filter.CreatorID != nil {
		conditions = append(conditions, fmt.Sprintf("creator_id = $%d", argID))
		args = append(args, *filter.CreatorID)
		argID++
	}
	if filter.LeadID != nil {
		conditions = append(conditions, fmt.Sprintf("lead_id = $%d", argID))
		args = append(args, *filter.LeadID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY auto_score DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const query = `
		UPDATE tasks SET
			assigned_to=$1, lead_id=$2, title=$3, description=$4, type=$5,
			priority=$6, status=$7, start_date=$8, due_date=$9, reminder_at=$10,
			tags=$11, urgency_score=$12, impact_score=$13, effort_score=$14,
			auto_score=$15, updated_at=$16
		WHERE id=$17`
	_, err := r.db.ExecContext(ctx, query,
		task.AssignedTo, task.LeadID, task.Title, task.Description, task.Type,
		task.Priority, task.Status, task.StartDate, task.DueDate, task.ReminderAt,
		pq.Array([]string(task.Tags)), task.UrgencyScore, task.ImpactScore,
		task.EffortScore, task.AutoScore, task.UpdatedAt, task.ID)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *taskRepository) UpdateTags(ctx context.Context, id int64, tags []string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET tags=$1, updated_at=NOW() WHERE id=$2`, pq.Array(tags), id)
	return err
}
