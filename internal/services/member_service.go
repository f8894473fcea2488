package services

import (
	"context"
	"strings"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/authz"
	"lapublica/internal/models"
	"lapublica/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

type MemberService struct {
	Repo        repositories.MemberRepository
	Connections repositories.ConnectionRepository
}

func NewMemberService(repo repositories.MemberRepository, connections repositories.ConnectionRepository) *MemberService {
	return &MemberService{Repo: repo, Connections: connections}
}

// Register creates a member with a bcrypt-hashed password.
func (s *MemberService) Register(ctx context.Context, m *models.Member, password string) error {
	m.Email = strings.TrimSpace(strings.ToLower(m.Email))
	if m.Email == "" || !strings.Contains(m.Email, "@") {
		return apperrors.Validationf("a valid email is required")
	}
	if len(password) < 8 {
		return apperrors.Validationf("password must be at least 8 characters")
	}

	existing, err := s.Repo.GetByEmail(ctx, m.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.Conflictf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.Repo.Create(ctx, m)
}

func (s *MemberService) GetByID(ctx context.Context, id int) (*models.Member, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperrors.NotFoundf("member %d", id)
	}
	return m, nil
}

func (s *MemberService) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	return s.Repo.GetByEmail(ctx, email)
}

func (s *MemberService) GetByRefresh(ctx context.Context, token string) (*models.Member, error) {
	return s.Repo.GetByRefresh(ctx, token)
}

func (s *MemberService) UpdateRefresh(ctx context.Context, id int, token string, expiresAt time.Time) error {
	return s.Repo.UpdateRefresh(ctx, id, token, expiresAt)
}

func (s *MemberService) UpdateProfile(ctx context.Context, m *models.Member) (*models.Member, error) {
	if _, err := s.GetByID(ctx, m.ID); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, m.ID)
}

// Assignees lists the members tasks and leads can be assigned to: staff roles
// only, trimmed to id + name.
func (s *MemberService) Assignees(ctx context.Context) ([]models.AssigneeOption, error) {
	members, err := s.Repo.List(ctx, models.MemberFilter{}, 500, 0)
	if err != nil {
		return nil, err
	}
	out := make([]models.AssigneeOption, 0, len(members))
	for i := range members {
		m := &members[i]
		if !authz.IsStaff(m.RoleID) {
			continue
		}
		out = append(out, models.AssigneeOption{
			ID:        m.ID,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			JobTitle:  m.JobTitle,
		})
	}
	return out, nil
}

// DirectoryPage is a page of privacy-filtered member cards.
type DirectoryPage struct {
	Members []models.MemberPublicView `json:"members"`
	Total   int                       `json:"total"`
	Page    int                       `json:"page"`
	Limit   int                       `json:"limit"`
}

// Directory lists members through the privacy projection: each card exposes
// only the fields its owner chose to share.
func (s *MemberService) Directory(ctx context.Context, f models.MemberFilter, page, limit int) (*DirectoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := s.Repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	members, err := s.Repo.List(ctx, f, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := &DirectoryPage{Total: total, Page: page, Limit: limit}
	for i := range members {
		m := &members[i]
		connCount := 0
		if m.ShowConnections && s.Connections != nil {
			if n, err := s.Connections.CountAccepted(ctx, m.ID); err == nil {
				connCount = n
			}
		}
		out.Members = append(out.Members, m.PublicView(connCount))
	}
	return out, nil
}
