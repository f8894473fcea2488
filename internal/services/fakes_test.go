package services

import (
	"context"
	"fmt"
	"time"

	"lapublica/internal/models"
	"lapublica/internal/pipeline"
	"lapublica/internal/repositories"

	"github.com/lib/pq"
)

// ===== leads =====

type fakeLeadRepo struct {
	leads         map[int]*models.Lead
	transitions   []models.StageTransition
	transitionErr error
	nextID        int
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[int]*models.Lead{}, nextID: 1}
}

func (r *fakeLeadRepo) Create(_ context.Context, lead *models.Lead) error {
	lead.ID = r.nextID
	r.nextID++
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) Update(_ context.Context, lead *models.Lead) error {
	existing, ok := r.leads[lead.ID]
	if !ok {
		return fmt.Errorf("lead %d missing", lead.ID)
	}
	cp := *lead
	cp.Stage = existing.Stage
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) GetByID(_ context.Context, id int) (*models.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLeadRepo) UpdateStage(_ context.Context, id int, stage pipeline.Stage) error {
	l, ok := r.leads[id]
	if !ok {
		return fmt.Errorf("lead %d missing", id)
	}
	l.Stage = stage
	l.UpdatedAt = time.Now()
	return nil
}

func (r *fakeLeadRepo) Filter(_ context.Context, f models.LeadFilter, limit, offset int) ([]models.Lead, error) {
	var out []models.Lead
	for _, l := range r.leads {
		if f.Stage != nil && l.Stage != *f.Stage {
			continue
		}
		if f.AssignedTo != nil && l.AssignedTo != *f.AssignedTo {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeLeadRepo) ListByAssignee(ctx context.Context, memberID, limit, offset int) ([]models.Lead, error) {
	return r.Filter(ctx, models.LeadFilter{AssignedTo: &memberID}, limit, offset)
}

func (r *fakeLeadRepo) CountByStage(_ context.Context) ([]repositories.StageCount, error) {
	byStage := map[pipeline.Stage]*repositories.StageCount{}
	for _, l := range r.leads {
		sc, ok := byStage[l.Stage]
		if !ok {
			sc = &repositories.StageCount{Stage: l.Stage}
			byStage[l.Stage] = sc
		}
		sc.Count++
		sc.Revenue += l.EstimatedRevenue
	}
	var out []repositories.StageCount
	for _, sc := range byStage {
		out = append(out, *sc)
	}
	return out, nil
}

func (r *fakeLeadRepo) AddTransition(_ context.Context, tr *models.StageTransition) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	tr.ID = len(r.transitions) + 1
	r.transitions = append(r.transitions, *tr)
	return nil
}

func (r *fakeLeadRepo) ListTransitions(_ context.Context, leadID int) ([]models.StageTransition, error) {
	var out []models.StageTransition
	for _, tr := range r.transitions {
		if tr.LeadID == leadID {
			out = append(out, tr)
		}
	}
	return out, nil
}

// ===== checklist =====

type fakeChecklistRepo struct {
	completions map[string]models.CheckCompletion
}

func newFakeChecklistRepo() *fakeChecklistRepo {
	return &fakeChecklistRepo{completions: map[string]models.CheckCompletion{}}
}

func checkKey(leadID int, checkID string) string {
	return fmt.Sprintf("%d/%s", leadID, checkID)
}

func (r *fakeChecklistRepo) Complete(_ context.Context, c *models.CheckCompletion) error {
	key := checkKey(c.LeadID, c.CheckID)
	if _, ok := r.completions[key]; ok {
		return nil // ON CONFLICT DO NOTHING
	}
	c.ID = len(r.completions) + 1
	r.completions[key] = *c
	return nil
}

func (r *fakeChecklistRepo) ListByLeadPhase(_ context.Context, leadID int, phase pipeline.PhaseID) ([]models.CheckCompletion, error) {
	var out []models.CheckCompletion
	for _, c := range r.completions {
		if c.LeadID == leadID && c.Phase == phase {
			out = append(out, c)
		}
	}
	return out, nil
}

// ===== tasks =====

type fakeTaskRepo struct {
	tasks  map[int64]*models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return fmt.Errorf("task %d missing", task.ID)
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, to models.TaskStatus) error {
	t, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task %d missing", id)
	}
	t.Status = to
	t.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTaskRepo) UpdateTags(_ context.Context, id int64, tags []string) error {
	t, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task %d missing", id)
	}
	t.Tags = pq.StringArray(tags)
	t.UpdatedAt = time.Now()
	return nil
}

// ===== posts =====

type fakePostRepo struct {
	posts       map[int]*models.FeedPost
	polls       map[int]*models.Poll // keyed by post id
	votes       map[string]bool      // "pollID/memberID"
	optionVotes map[int]int
	attachments map[int][]models.Attachment
	nextID      int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:       map[int]*models.FeedPost{},
		polls:       map[int]*models.Poll{},
		votes:       map[string]bool{},
		optionVotes: map[int]int{},
		attachments: map[int][]models.Attachment{},
		nextID:      1,
	}
}

func (r *fakePostRepo) Create(_ context.Context, p *models.FeedPost) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	cp.Poll = nil
	cp.Attachments = nil
	r.posts[p.ID] = &cp
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int) (*models.FeedPost, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Update(_ context.Context, p *models.FeedPost) error {
	existing, ok := r.posts[p.ID]
	if !ok {
		return fmt.Errorf("post %d missing", p.ID)
	}
	existing.Content = p.Content
	existing.Visibility = p.Visibility
	existing.ScheduledAt = p.ScheduledAt
	existing.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) List(_ context.Context, f models.PostFilter, limit, offset int) ([]models.FeedPost, error) {
	var out []models.FeedPost
	for _, p := range r.posts {
		if f.ModerationStatus != nil && p.ModerationStatus != *f.ModerationStatus {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePostRepo) UpdateModeration(_ context.Context, id int, status models.ModerationStatus, note string) error {
	p, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post %d missing", id)
	}
	p.ModerationStatus = status
	p.ModerationNote = note
	return nil
}

func (r *fakePostRepo) SetPinned(_ context.Context, id int, pinned bool) error {
	r.posts[id].Pinned = pinned
	return nil
}

func (r *fakePostRepo) SetFeatured(_ context.Context, id int, featured bool) error {
	r.posts[id].Featured = featured
	return nil
}

func (r *fakePostRepo) SetStatus(_ context.Context, id int, status models.PostStatus) error {
	r.posts[id].Status = status
	return nil
}

func (r *fakePostRepo) IncrementReportCount(_ context.Context, id int) error {
	r.posts[id].ReportCount++
	return nil
}

func (r *fakePostRepo) CreatePoll(_ context.Context, poll *models.Poll) error {
	poll.ID = poll.PostID
	for i := range poll.Options {
		poll.Options[i].ID = poll.PostID*100 + i + 1
		poll.Options[i].PollID = poll.ID
	}
	cp := *poll
	cp.Options = append([]models.PollOption(nil), poll.Options...)
	r.polls[poll.PostID] = &cp
	return nil
}

func (r *fakePostRepo) GetPollByPostID(_ context.Context, postID int) (*models.Poll, error) {
	poll, ok := r.polls[postID]
	if !ok {
		return nil, nil
	}
	cp := *poll
	cp.Options = append([]models.PollOption(nil), poll.Options...)
	for i := range cp.Options {
		cp.Options[i].VoteCnt = r.optionVotes[cp.Options[i].ID]
	}
	return &cp, nil
}

func (r *fakePostRepo) AddVote(_ context.Context, optionID, memberID int) error {
	r.optionVotes[optionID]++
	for _, poll := range r.polls {
		for _, opt := range poll.Options {
			if opt.ID == optionID {
				r.votes[fmt.Sprintf("%d/%d", poll.ID, memberID)] = true
			}
		}
	}
	return nil
}

func (r *fakePostRepo) HasVoted(_ context.Context, pollID, memberID int) (bool, error) {
	return r.votes[fmt.Sprintf("%d/%d", pollID, memberID)], nil
}

func (r *fakePostRepo) AddAttachment(_ context.Context, a *models.Attachment) error {
	a.ID = len(r.attachments[a.PostID]) + 1
	r.attachments[a.PostID] = append(r.attachments[a.PostID], *a)
	return nil
}

func (r *fakePostRepo) ListAttachments(_ context.Context, postID int) ([]models.Attachment, error) {
	return append([]models.Attachment(nil), r.attachments[postID]...), nil
}

// ===== reports =====

type fakeReportRepo struct {
	reports map[int]*models.Report
	nextID  int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[int]*models.Report{}, nextID: 1}
}

func (r *fakeReportRepo) Create(_ context.Context, rep *models.Report) error {
	rep.ID = r.nextID
	r.nextID++
	cp := *rep
	r.reports[rep.ID] = &cp
	return nil
}

func (r *fakeReportRepo) GetByID(_ context.Context, id int) (*models.Report, error) {
	rep, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeReportRepo) ListByStatus(_ context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	var out []models.Report
	for _, rep := range r.reports {
		if rep.Status == status {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *fakeReportRepo) ListByPost(_ context.Context, postID int) ([]models.Report, error) {
	var out []models.Report
	for _, rep := range r.reports {
		if rep.PostID == postID {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *fakeReportRepo) Resolve(_ context.Context, id int, status models.ReportStatus, resolvedBy int, resolvedAt time.Time) error {
	rep, ok := r.reports[id]
	if !ok {
		return fmt.Errorf("report %d missing", id)
	}
	rep.Status = status
	rep.ResolvedBy = &resolvedBy
	rep.ResolvedAt = &resolvedAt
	return nil
}

// ===== connections =====

type fakeConnRepo struct {
	conns  map[int]*models.Connection
	nextID int
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{conns: map[int]*models.Connection{}, nextID: 1}
}

func (r *fakeConnRepo) Create(_ context.Context, c *models.Connection) error {
	c.ID = r.nextID
	r.nextID++
	cp := *c
	r.conns[c.ID] = &cp
	return nil
}

func (r *fakeConnRepo) GetByID(_ context.Context, id int) (*models.Connection, error) {
	c, ok := r.conns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConnRepo) UpdateStatus(_ context.Context, id int, status models.ConnectionStatus) error {
	c, ok := r.conns[id]
	if !ok {
		return fmt.Errorf("connection %d missing", id)
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

func (r *fakeConnRepo) Delete(_ context.Context, id int) error {
	delete(r.conns, id)
	return nil
}

func (r *fakeConnRepo) FindBetween(_ context.Context, a, b int) (*models.Connection, error) {
	var latest *models.Connection
	for _, c := range r.conns {
		if (c.SenderID == a && c.ReceiverID == b) || (c.SenderID == b && c.ReceiverID == a) {
			if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
				cp := *c
				latest = &cp
			}
		}
	}
	return latest, nil
}

func (r *fakeConnRepo) ListForMember(_ context.Context, memberID int) ([]models.Connection, error) {
	var out []models.Connection
	for _, c := range r.conns {
		if c.SenderID == memberID || c.ReceiverID == memberID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConnRepo) CountAccepted(_ context.Context, memberID int) (int, error) {
	n := 0
	for _, c := range r.conns {
		if c.Status == models.ConnectionAccepted && (c.SenderID == memberID || c.ReceiverID == memberID) {
			n++
		}
	}
	return n, nil
}

// ===== members =====

type fakeMemberRepo struct {
	members map[int]*models.Member
	nextID  int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[int]*models.Member{}, nextID: 1}
}

func (r *fakeMemberRepo) Create(_ context.Context, m *models.Member) error {
	m.ID = r.nextID
	r.nextID++
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id int) (*models.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*models.Member, error) {
	for _, m := range r.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) Update(_ context.Context, m *models.Member) error {
	if _, ok := r.members[m.ID]; !ok {
		return fmt.Errorf("member %d missing", m.ID)
	}
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) UpdateRefresh(_ context.Context, id int, token string, expiresAt time.Time) error {
	m, ok := r.members[id]
	if !ok {
		return fmt.Errorf("member %d missing", id)
	}
	m.RefreshToken = &token
	m.RefreshExpiresAt = &expiresAt
	return nil
}

func (r *fakeMemberRepo) GetByRefresh(_ context.Context, token string) (*models.Member, error) {
	for _, m := range r.members {
		if m.RefreshToken != nil && *m.RefreshToken == token {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) List(_ context.Context, f models.MemberFilter, limit, offset int) ([]models.Member, error) {
	var out []models.Member
	for _, m := range r.members {
		if f.Department != nil && *f.Department != "" && m.Department != *f.Department {
			continue
		}
		if f.Location != nil && *f.Location != "" && m.Location != *f.Location {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMemberRepo) Count(ctx context.Context, f models.MemberFilter) (int, error) {
	out, _ := r.List(ctx, f, 0, 0)
	return len(out), nil
}
