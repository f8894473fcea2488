package services

import (
	"context"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"
	"lapublica/internal/repositories"
)

// PostCommand is the discriminated command applied through the single PATCH
// endpoint. Exactly one variant must be set; each variant validates on its own.
type PostCommand struct {
	Moderate *ModerateCommand
	Pin      *PinCommand
	Feature  *FeatureCommand
}

type ModerateCommand struct {
	Status models.ModerationStatus
	Note   string
}

type PinCommand struct {
	Pinned bool
}

type FeatureCommand struct {
	Featured bool
}

type ModerationService struct {
	Posts    repositories.PostRepository
	Reports  repositories.ReportRepository
	Notifier *NotificationService
}

func NewModerationService(posts repositories.PostRepository, reports repositories.ReportRepository, notifier *NotificationService) *ModerationService {
	return &ModerationService{Posts: posts, Reports: reports, Notifier: notifier}
}

// Queue lists posts awaiting review: pending first, then flagged.
func (s *ModerationService) Queue(ctx context.Context, limit, offset int) ([]models.FeedPost, error) {
	pending := models.ModerationPending
	out, err := s.Posts.List(ctx, models.PostFilter{ModerationStatus: &pending}, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(out) < limit {
		flagged := models.ModerationFlagged
		more, err := s.Posts.List(ctx, models.PostFilter{ModerationStatus: &flagged}, limit-len(out), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, more...)
	}
	return out, nil
}

// ApplyCommand dispatches one command variant onto a post.
func (s *ModerationService) ApplyCommand(ctx context.Context, postID int, cmd PostCommand, actorID int) (*models.FeedPost, error) {
	set := 0
	if cmd.Moderate != nil {
		set++
	}
	if cmd.Pin != nil {
		set++
	}
	if cmd.Feature != nil {
		set++
	}
	if set != 1 {
		return nil, apperrors.Validationf("exactly one command must be set, got %d", set)
	}

	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFoundf("post %d", postID)
	}

	switch {
	case cmd.Moderate != nil:
		return s.moderate(ctx, post, cmd.Moderate.Status, cmd.Moderate.Note)
	case cmd.Pin != nil:
		if err := s.Posts.SetPinned(ctx, postID, cmd.Pin.Pinned); err != nil {
			return nil, err
		}
	case cmd.Feature != nil:
		if post.ModerationStatus != models.ModerationApproved {
			return nil, apperrors.Conflictf("only approved posts can be featured")
		}
		if err := s.Posts.SetFeatured(ctx, postID, cmd.Feature.Featured); err != nil {
			return nil, err
		}
	}
	return s.Posts.GetByID(ctx, postID)
}

// moderationTargets maps a current review state onto the admissible decisions.
var moderationTargets = map[models.ModerationStatus]map[models.ModerationStatus]bool{
	models.ModerationPending:  {models.ModerationApproved: true, models.ModerationRejected: true, models.ModerationFlagged: true},
	models.ModerationFlagged:  {models.ModerationApproved: true, models.ModerationRejected: true},
	models.ModerationApproved: {models.ModerationFlagged: true, models.ModerationRejected: true},
	models.ModerationRejected: {},
}

func (s *ModerationService) moderate(ctx context.Context, post *models.FeedPost, to models.ModerationStatus, note string) (*models.FeedPost, error) {
	if post.ModerationStatus == to {
		return post, nil
	}
	targets, ok := moderationTargets[post.ModerationStatus]
	if !ok || !targets[to] {
		return nil, apperrors.Conflictf("cannot moderate post %d from %s to %s", post.ID, post.ModerationStatus, to)
	}
	if err := s.Posts.UpdateModeration(ctx, post.ID, to, note); err != nil {
		return nil, err
	}
	updated, err := s.Posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if to == models.ModerationRejected && s.Notifier != nil {
		s.Notifier.PostRejected(ctx, updated)
	}
	return updated, nil
}

// FileReport creates a member report against a post. Filing never changes the
// post's moderation status; the two lifecycles are coupled only through
// ResolveReport.
func (s *ModerationService) FileReport(ctx context.Context, postID, reporterID int, reason string) (*models.Report, error) {
	if reason == "" {
		return nil, apperrors.Validationf("reason is required")
	}
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFoundf("post %d", postID)
	}

	rep := &models.Report{
		PostID:     postID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     models.ReportPending,
		CreatedAt:  time.Now(),
	}
	if err := s.Reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	if err := s.Posts.IncrementReportCount(ctx, postID); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ModerationService) PendingReports(ctx context.Context, limit, offset int) ([]models.Report, error) {
	return s.Reports.ListByStatus(ctx, models.ReportPending, limit, offset)
}

// ResolveReport settles a pending report. DISMISSED leaves the post alone;
// ACTIONED pushes the post to REJECTED.
func (s *ModerationService) ResolveReport(ctx context.Context, reportID int, status models.ReportStatus, resolvedBy int) (*models.Report, error) {
	if status != models.ReportDismissed && status != models.ReportActioned {
		return nil, apperrors.Validationf("resolution must be DISMISSED or ACTIONED")
	}
	rep, err := s.Reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, apperrors.NotFoundf("report %d", reportID)
	}
	if rep.Status != models.ReportPending {
		return nil, apperrors.Conflictf("report %d already resolved", reportID)
	}

	if err := s.Reports.Resolve(ctx, reportID, status, resolvedBy, time.Now()); err != nil {
		return nil, err
	}

	if status == models.ReportActioned {
		post, err := s.Posts.GetByID(ctx, rep.PostID)
		if err != nil {
			return nil, err
		}
		if post != nil && post.ModerationStatus != models.ModerationRejected {
			if _, err := s.moderate(ctx, post, models.ModerationRejected, "report actioned"); err != nil {
				return nil, err
			}
		}
	}
	return s.Reports.GetByID(ctx, reportID)
}
