package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lapublica/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, p *models.FeedPost) error
	GetByID(ctx context.Context, id int) (*models.FeedPost, error)
	Update(ctx context.Context, p *models.FeedPost) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, f models.PostFilter, limit, offset int) ([]models.FeedPost, error)
	UpdateModeration(ctx context.Context, id int, status models.ModerationStatus, note string) error
	SetPinned(ctx context.Context, id int, pinned bool) error
	SetFeatured(ctx context.Context, id int, featured bool) error
	SetStatus(ctx context.Context, id int, status models.PostStatus) error
	IncrementReportCount(ctx context.Context, id int) error

	CreatePoll(ctx context.Context, poll *models.Poll) error
	GetPollByPostID(ctx context.Context, postID int) (*models.Poll, error)
	AddVote(ctx context.Context, optionID, memberID int) error
	HasVoted(ctx context.Context, pollID, memberID int) (bool, error)

	AddAttachment(ctx context.Context, a *models.Attachment) error
	ListAttachments(ctx context.Context, postID int) ([]models.Attachment, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, author_id, content, type, status, visibility,
	moderation_status, moderation_note, pinned, featured, scheduled_at,
	published_at, like_count, comment_count, share_count, report_count,
	created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.FeedPost, error) {
	p := &models.FeedPost{}
	err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &p.Type, &p.Status,
		&p.Visibility, &p.ModerationStatus, &p.ModerationNote, &p.Pinned,
		&p.Featured, &p.ScheduledAt, &p.PublishedAt, &p.LikeCount,
		&p.CommentCount, &p.ShareCount, &p.ReportCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepository) Create(ctx context.Context, p *models.FeedPost) error {
	const query = `
		INSERT INTO feed_posts (author_id, content, type, status, visibility,
			moderation_status, moderation_note, pinned, featured, scheduled_at,
			published_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		p.AuthorID, p.Content, p.Type, p.Status, p.Visibility,
		p.ModerationStatus, p.ModerationNote, p.Pinned, p.Featured,
		p.ScheduledAt, p.PublishedAt, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *postRepository) GetByID(ctx context.Context, id int) (*models.FeedPost, error) {
	query := `SELECT ` + postColumns + ` FROM feed_posts WHERE id=$1`
	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *postRepository) Update(ctx context.Context, p *models.FeedPost) error {
	const query = `
		UPDATE feed_posts
		SET content=$1, type=$2, status=$3, visibility=$4, scheduled_at=$5,
			published_at=$6, updated_at=$7
		WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		p.Content, p.Type, p.Status, p.Visibility, p.ScheduledAt,
		p.PublishedAt, p.UpdatedAt, p.ID)
	return err
}

func (r *postRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM feed_posts WHERE id=$1`, id)
	return err
}

func (r *postRepository) List(ctx context.Context, f models.PostFilter, limit, offset int) ([]models.FeedPost, error) {
	query := `SELECT ` + postColumns + ` FROM feed_posts`
	conditions := []string{}
	args := []interface{}{}
	i := 1

	if f.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", i))
		args = append(args, *f.AuthorID)
		i++
	}
	if f.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", i))
		args = append(args, *f.Status)
		i++
	}
	if f.ModerationStatus != nil {
		conditions = append(conditions, fmt.Sprintf("moderation_status = $%d", i))
		args = append(args, *f.ModerationStatus)
		i++
	}
	if f.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", i))
		args = append(args, *f.Type)
		i++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY pinned DESC, created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FeedPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postRepository) UpdateModeration(ctx context.Context, id int, status models.ModerationStatus, note string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feed_posts SET moderation_status=$1, moderation_note=$2, updated_at=NOW() WHERE id=$3`,
		status, note, id)
	return err
}

func (r *postRepository) SetPinned(ctx context.Context, id int, pinned bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feed_posts SET pinned=$1, updated_at=NOW() WHERE id=$2`, pinned, id)
	return err
}

func (r *postRepository) SetFeatured(ctx context.Context, id int, featured bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feed_posts SET featured=$1, updated_at=NOW() WHERE id=$2`, featured, id)
	return err
}

func (r *postRepository) SetStatus(ctx context.Context, id int, status models.PostStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feed_posts SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}

func (r *postRepository) IncrementReportCount(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feed_posts SET report_count=report_count+1, updated_at=NOW() WHERE id=$1`, id)
	return err
}

// ===== polls =====

func (r *postRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	const query = `
		INSERT INTO polls (post_id, question, multiple_choice, hide_results)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		poll.PostID, poll.Question, poll.MultipleChoice, poll.HideResults,
	).Scan(&poll.ID); err != nil {
		return err
	}
	for i := range poll.Options {
		opt := &poll.Options[i]
		opt.PollID = poll.ID
		if err := r.db.QueryRowContext(ctx,
			`INSERT INTO poll_options (poll_id, text) VALUES ($1,$2) RETURNING id`,
			opt.PollID, opt.Text,
		).Scan(&opt.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postRepository) GetPollByPostID(ctx context.Context, postID int) (*models.Poll, error) {
	poll := &models.Poll{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, question, multiple_choice, hide_results FROM polls WHERE post_id=$1`,
		postID,
	).Scan(&poll.ID, &poll.PostID, &poll.Question, &poll.MultipleChoice, &poll.HideResults)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.poll_id, o.text, COUNT(v.id)
		FROM poll_options o
		LEFT JOIN poll_votes v ON v.option_id = o.id
		WHERE o.poll_id=$1
		GROUP BY o.id, o.poll_id, o.text
		ORDER BY o.id`, poll.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.VoteCnt); err != nil {
			return nil, err
		}
		poll.Options = append(poll.Options, opt)
	}
	return poll, rows.Err()
}

func (r *postRepository) AddVote(ctx context.Context, optionID, memberID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO poll_votes (option_id, member_id, created_at) VALUES ($1,$2,NOW())`,
		optionID, memberID)
	return err
}

func (r *postRepository) HasVoted(ctx context.Context, pollID, memberID int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM poll_votes v
			JOIN poll_options o ON o.id = v.option_id
			WHERE o.poll_id=$1 AND v.member_id=$2
		)`
	var voted bool
	err := r.db.QueryRowContext(ctx, query, pollID, memberID).Scan(&voted)
	return voted, err
}

// ===== attachments =====

func (r *postRepository) AddAttachment(ctx context.Context, a *models.Attachment) error {
	const query = `INSERT INTO post_attachments (post_id, url, kind) VALUES ($1,$2,$3) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.PostID, a.URL, a.Kind).Scan(&a.ID)
}

func (r *postRepository) ListAttachments(ctx context.Context, postID int) ([]models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, url, kind FROM post_attachments WHERE post_id=$1 ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.PostID, &a.URL, &a.Kind); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
