package models

import "time"

// Member is a platform user: auth identity plus the social profile.
type Member struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never serialized
	RoleID       int    `json:"role_id"`

	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`

	// privacy toggles, each gating one field of the public projection
	ShowJobTitle    bool `json:"show_job_title"`
	ShowDepartment  bool `json:"show_department"`
	ShowBio         bool `json:"show_bio"`
	ShowConnections bool `json:"show_connections"`

	// notification channels
	TelegramChatID int64 `json:"-"`
	EmailNotify    bool  `json:"email_notify"`

	// refresh-token storage
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberPublicView is the privacy-filtered projection served by the directory.
type MemberPublicView struct {
	ID          int     `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Location    string  `json:"location"`
	JobTitle    *string `json:"job_title,omitempty"`
	Department  *string `json:"department,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Connections *int    `json:"connections,omitempty"`
}

// PublicView applies the privacy toggles. connCount is only exposed when the
// member allows it.
func (m *Member) PublicView(connCount int) MemberPublicView {
	v := MemberPublicView{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Location:  m.Location,
	}
	if m.ShowJobTitle {
		v.JobTitle = &m.JobTitle
	}
	if m.ShowDepartment {
		v.Department = &m.Department
	}
	if m.ShowBio {
		v.Bio = &m.Bio
	}
	if m.ShowConnections {
		v.Connections = &connCount
	}
	return v
}

// AssigneeOption is the trimmed member row offered by assignee pickers.
type AssigneeOption struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JobTitle  string `json:"job_title,omitempty"`
}

// MemberFilter defines the directory search parameters.
type MemberFilter struct {
	Search     *string
	Department *string
	Location   *string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
