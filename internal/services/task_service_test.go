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

func newTaskFixture(t *testing.T) (TaskService, *fakeLeadRepo) {
	t.Helper()
	leads := newFakeLeadRepo()
	return NewTaskService(newFakeTaskRepo(), leads, nil), leads
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{Title: "Trucar al client", AssignedTo: 3})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, models.TaskOther, task.Type)
	assert.NotZero(t, task.ID)

	_, err = svc.Create(ctx, &models.Task{AssignedTo: 3})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.Task{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, &models.Task{Title: "x", AssignedTo: 3, Type: "JUGGLING"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateTaskIgnoresClientStatus(t *testing.T) {
	svc, _ := newTaskFixture(t)

	task, err := svc.Create(context.Background(), &models.Task{
		Title:      "x",
		AssignedTo: 3,
		Status:     models.TaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
}

func TestTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.TaskStatus
		ok       bool
	}{
		{models.TaskPending, models.TaskInProgress, true},
		{models.TaskPending, models.TaskCompleted, false},
		{models.TaskInProgress, models.TaskWaiting, true},
		{models.TaskInProgress, models.TaskBlocked, true},
		{models.TaskInProgress, models.TaskCompleted, true},
		{models.TaskWaiting, models.TaskInProgress, true},
		{models.TaskWaiting, models.TaskCompleted, false},
		{models.TaskBlocked, models.TaskInProgress, true},
		{models.TaskCompleted, models.TaskPending, true}, // reopen
		{models.TaskCompleted, models.TaskInProgress, false},
		{models.TaskCancelled, models.TaskPending, false},
		{models.TaskCancelled, models.TaskCancelled, true}, // same status always passes
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, canTransitionTask(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{Title: "x", AssignedTo: 3})
	require.NoError(t, err)

	task, err = svc.UpdateStatus(ctx, task.ID, models.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, task.Status)

	_, err = svc.UpdateStatus(ctx, task.ID, models.TaskPending)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// same-status request is a no-op
	task, err = svc.UpdateStatus(ctx, task.ID, models.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, task.Status)

	_, err = svc.UpdateStatus(ctx, 999, models.TaskInProgress)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReopenCompletedTask(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{Title: "x", AssignedTo: 3})
	require.NoError(t, err)

	for _, to := range []models.TaskStatus{models.TaskInProgress, models.TaskCompleted, models.TaskPending} {
		task, err = svc.UpdateStatus(ctx, task.ID, to)
		require.NoError(t, err)
	}
	assert.Equal(t, models.TaskPending, task.Status)
}

func TestTaskTags(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{Title: "x", AssignedTo: 3})
	require.NoError(t, err)

	task, err = svc.AddTag(ctx, task.ID, "urgent")
	require.NoError(t, err)
	task, err = svc.AddTag(ctx, task.ID, "client-vip")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"urgent", "client-vip"}, []string(task.Tags))

	// duplicates are ignored
	task, err = svc.AddTag(ctx, task.ID, "urgent")
	require.NoError(t, err)
	assert.Len(t, task.Tags, 2)

	task, err = svc.RemoveTag(ctx, task.ID, "urgent")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"client-vip"}, []string(task.Tags))

	// removing a missing tag changes nothing
	task, err = svc.RemoveTag(ctx, task.ID, "ghost")
	require.NoError(t, err)
	assert.Len(t, task.Tags, 1)

	_, err = svc.AddTag(ctx, task.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTaskScoring(t *testing.T) {
	svc, leads := newTaskFixture(t)
	ctx := context.Background()

	lead := &models.Lead{CompanyName: "Gran Compte", EstimatedRevenue: 60000}
	require.NoError(t, leads.Create(ctx, lead))

	due := time.Now().Add(12 * time.Hour)
	task, err := svc.Create(ctx, &models.Task{
		Title:      "Enviar proposta",
		AssignedTo: 3,
		LeadID:     &lead.ID,
		Type:       models.TaskProposal,
		Priority:   models.TaskPriorityHigh,
		DueDate:    &due,
	})
	require.NoError(t, err)

	// urgency: high(3) + due within 24h(3); impact: high(3) + revenue>=50k(3); effort: proposal(3)
	assert.Equal(t, 6, task.UrgencyScore)
	assert.Equal(t, 6, task.ImpactScore)
	assert.Equal(t, 3, task.EffortScore)
	assert.Equal(t, 6*2+6*2-3, task.AutoScore)
}

func TestTaskScoringWithoutLead(t *testing.T) {
	svc, _ := newTaskFixture(t)

	task, err := svc.Create(context.Background(), &models.Task{
		Title:      "Nota interna",
		AssignedTo: 3,
		Type:       models.TaskInternal,
		Priority:   models.TaskPriorityLow,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, task.UrgencyScore)
	assert.Equal(t, 1, task.ImpactScore)
	assert.Equal(t, 2, task.EffortScore)
	assert.Equal(t, 1*2+1*2-2, task.AutoScore)
}

func TestUpdateTaskTransitionGuard(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{Title: "x", AssignedTo: 3})
	require.NoError(t, err)

	edit := *task
	edit.Status = models.TaskCompleted
	_, err = svc.Update(ctx, task.ID, &edit)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	edit.Status = models.TaskInProgress
	edit.Title = "x actualitzada"
	updated, err := svc.Update(ctx, task.ID, &edit)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, updated.Status)
	assert.Equal(t, "x actualitzada", updated.Title)
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, &models.Task{Title: "x", AssignedTo: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))
	_, err = svc.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, task.ID), apperrors.ErrNotFound)
}
