package models

import "time"

type PostType string

const (
	PostText  PostType = "TEXT"
	PostImage PostType = "IMAGE"
	PostVideo PostType = "VIDEO"
	PostLink  PostType = "LINK"
	PostPoll  PostType = "POLL"
	PostEvent PostType = "EVENT"
)

type PostStatus string

const (
	PostDraft     PostStatus = "DRAFT"
	PostScheduled PostStatus = "SCHEDULED"
	PostPublished PostStatus = "PUBLISHED"
	PostArchived  PostStatus = "ARCHIVED"
)

type PostVisibility string

const (
	VisibilityPublic  PostVisibility = "PUBLIC"
	VisibilityGroups  PostVisibility = "GROUPS"
	VisibilityPrivate PostVisibility = "PRIVATE"
)

// ModerationStatus is the review state of a feed post. PENDING and FLAGGED
// are actionable; APPROVED/REJECTED settle the review.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "PENDING"
	ModerationApproved ModerationStatus = "APPROVED"
	ModerationRejected ModerationStatus = "REJECTED"
	ModerationFlagged  ModerationStatus = "FLAGGED"
)

// FeedPost is an entry of the social feed.
type FeedPost struct {
	ID               int              `json:"id"`
	AuthorID         int              `json:"author_id"`
	Content          string           `json:"content"`
	Type             PostType         `json:"type"`
	Status           PostStatus       `json:"status"`
	Visibility       PostVisibility   `json:"visibility"`
	ModerationStatus ModerationStatus `json:"moderation_status"`
	ModerationNote   string           `json:"moderation_note,omitempty"`
	Pinned           bool             `json:"pinned"`
	Featured         bool             `json:"featured"`
	ScheduledAt      *time.Time       `json:"scheduled_at,omitempty"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`

	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
	ShareCount   int `json:"share_count"`
	ReportCount  int `json:"report_count"`

	Attachments []Attachment `json:"attachments,omitempty"`
	Poll        *Poll        `json:"poll,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Attachment struct {
	ID     int    `json:"id"`
	PostID int    `json:"post_id"`
	URL    string `json:"url"`
	Kind   string `json:"kind"`
}

// Poll is the optional sub-entity of a POLL post.
type Poll struct {
	ID             int          `json:"id"`
	PostID         int          `json:"post_id"`
	Question       string       `json:"question"`
	MultipleChoice bool         `json:"multiple_choice"`
	// HideResults withholds per-option counts until the viewer has voted.
	HideResults bool         `json:"hide_results"`
	Options     []PollOption `json:"options"`
}

type PollOption struct {
	ID      int    `json:"id"`
	PollID  int    `json:"poll_id"`
	Text    string `json:"text"`
	VoteCnt int    `json:"vote_count"`
}

// ReportStatus is the lifecycle of a member-filed report. It is independent
// of the reported post's moderation status.
type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportDismissed ReportStatus = "DISMISSED"
	ReportActioned  ReportStatus = "ACTIONED"
)

type Report struct {
	ID         int          `json:"id"`
	PostID     int          `json:"post_id"`
	ReporterID int          `json:"reporter_id"`
	Reason     string       `json:"reason"`
	Status     ReportStatus `json:"status"`
	ResolvedBy *int         `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// PostFilter defines the feed listing parameters.
type PostFilter struct {
	AuthorID         *int
	Status           *PostStatus
	ModerationStatus *ModerationStatus
	Type             *PostType
}
