package services

import (
	"context"
	"time"

	"lapublica/internal/apperrors"
	"lapublica/internal/models"
	"lapublica/internal/repositories"
)

// connectionTTL is how long a pending request stays actionable.
const connectionTTL = 30 * 24 * time.Hour

type ConnectionService struct {
	Repo     repositories.ConnectionRepository
	Members  repositories.MemberRepository
	Notifier *NotificationService
}

func NewConnectionService(repo repositories.ConnectionRepository, members repositories.MemberRepository, notifier *NotificationService) *ConnectionService {
	return &ConnectionService{Repo: repo, Members: members, Notifier: notifier}
}

// Request opens a handshake from sender to receiver. A live pending request
// or an accepted link between the pair is a conflict; expired, rejected or
// cancelled history does not block a new request.
func (s *ConnectionService) Request(ctx context.Context, senderID, receiverID int) (*models.Connection, error) {
	if senderID == receiverID {
		return nil, apperrors.Validationf("cannot connect with yourself")
	}
	receiver, err := s.Members.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, apperrors.NotFoundf("member %d", receiverID)
	}

	now := time.Now()
	existing, err := s.Repo.FindBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.EffectiveStatus(now) {
		case models.ConnectionPending:
			return nil, apperrors.Conflictf("a pending request already exists")
		case models.ConnectionAccepted:
			return nil, apperrors.Conflictf("members are already connected")
		}
	}

	conn := &models.Connection{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.ConnectionPending,
		ExpiresAt:  now.Add(connectionTTL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, conn); err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.Notifier.ConnectionRequested(ctx, conn)
	}
	return conn, nil
}

// Respond lets the receiver accept or reject a pending request.
func (s *ConnectionService) Respond(ctx context.Context, connID, viewerID int, accept bool) (*models.Connection, error) {
	conn, err := s.Repo.GetByID(ctx, connID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, apperrors.NotFoundf("connection %d", connID)
	}
	if !conn.Incoming(viewerID) {
		return nil, apperrors.Conflictf("only the receiver can respond")
	}

	now := time.Now()
	switch conn.EffectiveStatus(now) {
	case models.ConnectionPending:
		// actionable
	case models.ConnectionExpired:
		// fold the expiry into storage before refusing
		_ = s.Repo.UpdateStatus(ctx, connID, models.ConnectionExpired)
		return nil, apperrors.Conflictf("request expired")
	default:
		return nil, apperrors.Conflictf("request is not pending")
	}

	status := models.ConnectionRejected
	if accept {
		status = models.ConnectionAccepted
	}
	if err := s.Repo.UpdateStatus(ctx, connID, status); err != nil {
		return nil, err
	}
	updated, err := s.Repo.GetByID(ctx, connID)
	if err != nil {
		return nil, err
	}
	if accept && s.Notifier != nil {
		s.Notifier.ConnectionAccepted(ctx, updated)
	}
	return updated, nil
}

// Remove cancels a pending request (sender only) or severs an accepted link
// (either side).
func (s *ConnectionService) Remove(ctx context.Context, connID, viewerID int) error {
	conn, err := s.Repo.GetByID(ctx, connID)
	if err != nil {
		return err
	}
	if conn == nil {
		return apperrors.NotFoundf("connection %d", connID)
	}

	switch conn.EffectiveStatus(time.Now()) {
	case models.ConnectionPending:
		if conn.SenderID != viewerID {
			return apperrors.Conflictf("only the sender can cancel a pending request")
		}
		return s.Repo.UpdateStatus(ctx, connID, models.ConnectionCancelled)
	case models.ConnectionAccepted:
		if conn.SenderID != viewerID && conn.ReceiverID != viewerID {
			return apperrors.Conflictf("not a member of this connection")
		}
		return s.Repo.Delete(ctx, connID)
	default:
		return s.Repo.Delete(ctx, connID)
	}
}

func (s *ConnectionService) ListForMember(ctx context.Context, memberID int) ([]models.Connection, error) {
	conns, err := s.Repo.ListForMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range conns {
		conns[i].Status = conns[i].EffectiveStatus(now)
	}
	return conns, nil
}

func (s *ConnectionService) CountAccepted(ctx context.Context, memberID int) (int, error) {
	return s.Repo.CountAccepted(ctx, memberID)
}
