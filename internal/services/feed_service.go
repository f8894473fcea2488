package services

import (
	"context"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"
	"lapublica/internal/repositories"
)

type FeedService struct {
	Posts repositories.PostRepository
}

func NewFeedService(posts repositories.PostRepository) *FeedService {
	return &FeedService{Posts: posts}
}

var validPostTypes = map[models.PostType]bool{
	models.PostText: true, models.PostImage: true, models.PostVideo: true,
	models.PostLink: true, models.PostPoll: true, models.PostEvent: true,
}

var validVisibilities = map[models.PostVisibility]bool{
	models.VisibilityPublic: true, models.VisibilityGroups: true, models.VisibilityPrivate: true,
}

// Create stores a new post as draft, published or scheduled. POLL posts must
// carry a poll with at least two options.
func (s *FeedService) Create(ctx context.Context, post *models.FeedPost) (*models.FeedPost, error) {
	if post.Content == "" && post.Type != models.PostPoll {
		return nil, apperrors.Validationf("content is required")
	}
	if post.Type == "" {
		post.Type = models.PostText
	}
	if !validPostTypes[post.Type] {
		return nil, apperrors.Validationf("unknown post type %q", post.Type)
	}
	if post.Visibility == "" {
		post.Visibility = models.VisibilityPublic
	}
	if !validVisibilities[post.Visibility] {
		return nil, apperrors.Validationf("unknown visibility %q", post.Visibility)
	}

	now := time.Now()
	switch post.Status {
	case "", models.PostDraft:
		post.Status = models.PostDraft
	case models.PostPublished:
		post.PublishedAt = &now
	case models.PostScheduled:
		if post.ScheduledAt == nil || post.ScheduledAt.Before(now) {
			return nil, apperrors.Validationf("scheduled_at must be in the future")
		}
	default:
		return nil, apperrors.Validationf("status %q is not valid on creation", post.Status)
	}

	if post.Type == models.PostPoll {
		if post.Poll == nil || post.Poll.Question == "" || len(post.Poll.Options) < 2 {
			return nil, apperrors.Validationf("poll posts need a question and at least two options")
		}
	} else if post.Poll != nil {
		return nil, apperrors.Validationf("only poll posts may carry a poll")
	}

	post.ModerationStatus = models.ModerationPending
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := s.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if post.Poll != nil {
		post.Poll.PostID = post.ID
		if err := s.Posts.CreatePoll(ctx, post.Poll); err != nil {
			return nil, err
		}
	}
	for i := range post.Attachments {
		post.Attachments[i].PostID = post.ID
		if err := s.Posts.AddAttachment(ctx, &post.Attachments[i]); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, post.ID)
}

// GetByID hydrates the post with its poll and attachments.
func (s *FeedService) GetByID(ctx context.Context, id int) (*models.FeedPost, error) {
	post, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.NotFoundf("post %d", id)
	}
	if post.Type == models.PostPoll {
		post.Poll, err = s.Posts.GetPollByPostID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	post.Attachments, err = s.Posts.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ApplyResultsVisibility zeroes the per-option counts of a hidden-results poll
// until the viewer has voted.
func (s *FeedService) ApplyResultsVisibility(ctx context.Context, post *models.FeedPost, viewerID int) error {
	if post == nil || post.Poll == nil || !post.Poll.HideResults {
		return nil
	}
	voted, err := s.Posts.HasVoted(ctx, post.Poll.ID, viewerID)
	if err != nil {
		return err
	}
	if !voted {
		for i := range post.Poll.Options {
			post.Poll.Options[i].VoteCnt = 0
		}
	}
	return nil
}

func (s *FeedService) List(ctx context.Context, f models.PostFilter, limit, offset int) ([]models.FeedPost, error) {
	return s.Posts.List(ctx, f, limit, offset)
}

// Update edits content fields of a draft or published post; moderation and
// pin/feature flags belong to the moderation service.
func (s *FeedService) Update(ctx context.Context, post *models.FeedPost, editorID int) (*models.FeedPost, error) {
	current, err := s.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != editorID {
		return nil, apperrors.Conflictf("only the author can edit post %d", post.ID)
	}
	if current.Status == models.PostArchived {
		return nil, apperrors.Conflictf("post %d is archived", post.ID)
	}
	current.Content = post.Content
	current.Visibility = post.Visibility
	current.ScheduledAt = post.ScheduledAt
	current.UpdatedAt = time.Now()
	if err := s.Posts.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, post.ID)
}

func (s *FeedService) Delete(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Posts.Delete(ctx, id)
}

func (s *FeedService) Archive(ctx context.Context, id int) (*models.FeedPost, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Posts.SetStatus(ctx, id, models.PostArchived); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Vote records a poll vote. Single-choice polls take exactly one option;
// multiple-choice polls accept several, still one ballot per member.
func (s *FeedService) Vote(ctx context.Context, postID, memberID int, optionIDs []int) (*models.Poll, error) {
	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Type != models.PostPoll || post.Poll == nil {
		return nil, apperrors.Validationf("post %d has no poll", postID)
	}
	if len(optionIDs) == 0 {
		return nil, apperrors.Validationf("no options selected")
	}
	if !post.Poll.MultipleChoice && len(optionIDs) > 1 {
		return nil, apperrors.Validationf("poll accepts a single choice")
	}

	valid := make(map[int]bool, len(post.Poll.Options))
	for _, opt := range post.Poll.Options {
		valid[opt.ID] = true
	}
	for _, id := range optionIDs {
		if !valid[id] {
			return nil, apperrors.Validationf("option %d does not belong to the poll", id)
		}
	}

	voted, err := s.Posts.HasVoted(ctx, post.Poll.ID, memberID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, apperrors.Conflictf("member %d already voted", memberID)
	}

	for _, id := range optionIDs {
		if err := s.Posts.AddVote(ctx, id, memberID); err != nil {
			return nil, err
		}
	}
	return s.Posts.GetPollByPostID(ctx, postID)
}
