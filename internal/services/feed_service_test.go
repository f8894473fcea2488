package services

import (
	"context"
	"testing"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostValidation(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, &models.FeedPost{AuthorID: 1, Content: "hola"})
	require.NoError(t, err)
	assert.Equal(t, models.PostText, post.Type)
	assert.Equal(t, models.PostDraft, post.Status)
	assert.Equal(t, models.VisibilityPublic, post.Visibility)
	assert.Equal(t, models.ModerationPending, post.ModerationStatus)

	_, err = svc.Create(ctx, &models.FeedPost{AuthorID: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.FeedPost{AuthorID: 1, Content: "x", Type: "HOLOGRAM"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.FeedPost{AuthorID: 1, Content: "x", Status: models.PostArchived})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateScheduledPost(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Content: "x", Status: models.PostScheduled, ScheduledAt: &past,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	future := time.Now().Add(time.Hour)
	post, err := svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Content: "x", Status: models.PostScheduled, ScheduledAt: &future,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostScheduled, post.Status)
}

func TestCreatePollPost(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	// a poll needs a question and two options
	_, err := svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Type: models.PostPoll,
		Poll: &models.Poll{Question: "On fem la trobada?", Options: []models.PollOption{{Text: "Girona"}}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// non-poll posts may not carry one
	_, err = svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Content: "x", Type: models.PostText,
		Poll: &models.Poll{Question: "?", Options: []models.PollOption{{Text: "a"}, {Text: "b"}}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	post, err := svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Type: models.PostPoll,
		Poll: &models.Poll{
			Question: "On fem la trobada?",
			Options:  []models.PollOption{{Text: "Girona"}, {Text: "Lleida"}},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, post.Poll)
	assert.Len(t, post.Poll.Options, 2)
}

func TestVote(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Type: models.PostPoll,
		Poll: &models.Poll{
			Question: "On fem la trobada?",
			Options:  []models.PollOption{{Text: "Girona"}, {Text: "Lleida"}},
		},
	})
	require.NoError(t, err)
	opts := post.Poll.Options

	// single-choice poll refuses two selections
	_, err = svc.Vote(ctx, post.ID, 9, []int{opts[0].ID, opts[1].ID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Vote(ctx, post.ID, 9, []int{9999})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	poll, err := svc.Vote(ctx, post.ID, 9, []int{opts[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, poll.Options[0].VoteCnt)

	// one ballot per member
	_, err = svc.Vote(ctx, post.ID, 9, []int{opts[1].ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	poll, err = svc.Vote(ctx, post.ID, 10, []int{opts[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, poll.Options[0].VoteCnt)
}

func TestHiddenPollResults(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, &models.FeedPost{
		AuthorID: 1, Type: models.PostPoll,
		Poll: &models.Poll{
			Question:    "On fem la trobada?",
			HideResults: true,
			Options:     []models.PollOption{{Text: "Girona"}, {Text: "Lleida"}},
		},
	})
	require.NoError(t, err)

	_, err = svc.Vote(ctx, post.ID, 9, []int{post.Poll.Options[0].ID})
	require.NoError(t, err)

	// a member who has not voted sees no counts
	fresh, err := svc.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ApplyResultsVisibility(ctx, fresh, 10))
	assert.Equal(t, 0, fresh.Poll.Options[0].VoteCnt)

	// the voter sees them
	fresh, err = svc.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ApplyResultsVisibility(ctx, fresh, 9))
	assert.Equal(t, 1, fresh.Poll.Options[0].VoteCnt)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, &models.FeedPost{AuthorID: 1, Content: "hola"})
	require.NoError(t, err)

	edit := *post
	edit.Content = "hola de nou"
	_, err = svc.Update(ctx, &edit, 2)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	updated, err := svc.Update(ctx, &edit, 1)
	require.NoError(t, err)
	assert.Equal(t, "hola de nou", updated.Content)
}

func TestArchiveBlocksEdits(t *testing.T) {
	svc := NewFeedService(newFakePostRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, &models.FeedPost{AuthorID: 1, Content: "hola"})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostArchived, archived.Status)

	edit := *post
	edit.Content = "massa tard"
	_, err = svc.Update(ctx, &edit, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
