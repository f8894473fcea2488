package services

import (
	"context"
	"testing"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModerationFixture(t *testing.T) (*ModerationService, *fakePostRepo) {
	t.Helper()
	posts := newFakePostRepo()
	return NewModerationService(posts, newFakeReportRepo(), nil), posts
}

func seedPost(t *testing.T, posts *fakePostRepo, moderation models.ModerationStatus) *models.FeedPost {
	t.Helper()
	p := &models.FeedPost{
		AuthorID:         5,
		Content:          "hola",
		Type:             models.PostText,
		Status:           models.PostPublished,
		Visibility:       models.VisibilityPublic,
		ModerationStatus: moderation,
	}
	require.NoError(t, posts.Create(context.Background(), p))
	return p
}

func TestApplyCommandExactlyOne(t *testing.T) {
	svc, posts := newModerationFixture(t)
	post := seedPost(t, posts, models.ModerationPending)
	ctx := context.Background()

	_, err := svc.ApplyCommand(ctx, post.ID, PostCommand{}, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.ApplyCommand(ctx, post.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationApproved},
		Pin:      &PinCommand{Pinned: true},
	}, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.ApplyCommand(ctx, 999, PostCommand{Pin: &PinCommand{Pinned: true}}, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestModerationTransitions(t *testing.T) {
	svc, posts := newModerationFixture(t)
	ctx := context.Background()

	post := seedPost(t, posts, models.ModerationPending)
	updated, err := svc.ApplyCommand(ctx, post.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationApproved},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, updated.ModerationStatus)

	// approved can be flagged again
	updated, err = svc.ApplyCommand(ctx, post.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationFlagged, Note: "revisar"},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationFlagged, updated.ModerationStatus)
	assert.Equal(t, "revisar", updated.ModerationNote)

	// flagged cannot go back to pending
	_, err = svc.ApplyCommand(ctx, post.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationPending},
	}, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// rejected is final
	rejected := seedPost(t, posts, models.ModerationRejected)
	_, err = svc.ApplyCommand(ctx, rejected.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationApproved},
	}, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestModerationIdempotent(t *testing.T) {
	svc, posts := newModerationFixture(t)
	post := seedPost(t, posts, models.ModerationApproved)

	updated, err := svc.ApplyCommand(context.Background(), post.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationApproved},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, updated.ModerationStatus)
}

func TestFeatureRequiresApproval(t *testing.T) {
	svc, posts := newModerationFixture(t)
	ctx := context.Background()

	pending := seedPost(t, posts, models.ModerationPending)
	_, err := svc.ApplyCommand(ctx, pending.ID, PostCommand{Feature: &FeatureCommand{Featured: true}}, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	approved := seedPost(t, posts, models.ModerationApproved)
	updated, err := svc.ApplyCommand(ctx, approved.ID, PostCommand{Feature: &FeatureCommand{Featured: true}}, 1)
	require.NoError(t, err)
	assert.True(t, updated.Featured)

	// pinning has no such precondition
	updated, err = svc.ApplyCommand(ctx, pending.ID, PostCommand{Pin: &PinCommand{Pinned: true}}, 1)
	require.NoError(t, err)
	assert.True(t, updated.Pinned)
}

func TestQueueDrainsOnDecision(t *testing.T) {
	svc, posts := newModerationFixture(t)
	ctx := context.Background()

	post := seedPost(t, posts, models.ModerationPending)
	queue, err := svc.Queue(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	_, err = svc.ApplyCommand(ctx, post.ID, PostCommand{
		Moderate: &ModerateCommand{Status: models.ModerationRejected, Note: "spam"},
	}, 1)
	require.NoError(t, err)

	queue, err = svc.Queue(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestFileReportLeavesModerationAlone(t *testing.T) {
	svc, posts := newModerationFixture(t)
	post := seedPost(t, posts, models.ModerationApproved)
	ctx := context.Background()

	rep, err := svc.FileReport(ctx, post.ID, 9, "contingut ofensiu")
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, rep.Status)

	after, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, after.ModerationStatus)
	assert.Equal(t, 1, after.ReportCount)

	_, err = svc.FileReport(ctx, post.ID, 9, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveReportDismissed(t *testing.T) {
	svc, posts := newModerationFixture(t)
	post := seedPost(t, posts, models.ModerationApproved)
	ctx := context.Background()

	rep, err := svc.FileReport(ctx, post.ID, 9, "contingut ofensiu")
	require.NoError(t, err)

	resolved, err := svc.ResolveReport(ctx, rep.ID, models.ReportDismissed, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ReportDismissed, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, 2, *resolved.ResolvedBy)

	after, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, after.ModerationStatus)

	// a settled report cannot be resolved twice
	_, err = svc.ResolveReport(ctx, rep.ID, models.ReportActioned, 2)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestResolveReportActionedRejectsPost(t *testing.T) {
	svc, posts := newModerationFixture(t)
	post := seedPost(t, posts, models.ModerationApproved)
	ctx := context.Background()

	rep, err := svc.FileReport(ctx, post.ID, 9, "contingut ofensiu")
	require.NoError(t, err)

	resolved, err := svc.ResolveReport(ctx, rep.ID, models.ReportActioned, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ReportActioned, resolved.Status)

	after, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationRejected, after.ModerationStatus)
}

func TestResolveReportValidation(t *testing.T) {
	svc, posts := newModerationFixture(t)
	post := seedPost(t, posts, models.ModerationApproved)
	ctx := context.Background()

	rep, err := svc.FileReport(ctx, post.ID, 9, "x")
	require.NoError(t, err)

	_, err = svc.ResolveReport(ctx, rep.ID, models.ReportPending, 2)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.ResolveReport(ctx, 999, models.ReportDismissed, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
