package services

import (
	"context"
	"fmt"
	"html"
	"log"

	"lapublica/internal/models"
	"lapublica/internal/pipeline"
	"lapublica/internal/repositories"
)

// NotificationService fans out best-effort notifications over email and
// telegram. Failures are logged, never returned: a dropped notification must
// not fail the request that triggered it.
type NotificationService struct {
	Email   EmailService
	TG      *TelegramService
	Members repositories.MemberRepository
}

func NewNotificationService(email EmailService, tg *TelegramService, members repositories.MemberRepository) *NotificationService {
	return &NotificationService{Email: email, TG: tg, Members: members}
}

func (n *NotificationService) member(ctx context.Context, id int) *models.Member {
	if n.Members == nil {
		return nil
	}
	m, err := n.Members.GetByID(ctx, id)
	if err != nil {
		log.Printf("[notify][err] load member %d: %v", id, err)
		return nil
	}
	return m
}

func (n *NotificationService) telegram(m *models.Member, text string) {
	if n.TG == nil || m == nil || m.TelegramChatID == 0 {
		return
	}
	_ = n.TG.SendMessage(m.TelegramChatID, text)
}

func (n *NotificationService) LeadPhaseChanged(ctx context.Context, lead *models.Lead, from, to pipeline.PhaseID) {
	if lead == nil {
		return
	}
	m := n.member(ctx, lead.AssignedTo)
	info, _ := pipeline.Info(lead.Stage)
	n.telegram(m, fmt.Sprintf("📈 <b>%s</b> ha passat a la fase %d (%s)",
		html.EscapeString(lead.CompanyName), to, html.EscapeString(info.Label)))
}

func (n *NotificationService) TaskAssigned(ctx context.Context, task *models.Task) {
	if task == nil {
		return
	}
	m := n.member(ctx, task.AssignedTo)
	n.telegram(m, "📌 Nova tasca\n• <b>"+html.EscapeString(task.Title)+"</b>\n• Prioritat: <code>"+string(task.Priority)+"</code>")
}

func (n *NotificationService) TaskStatusChanged(ctx context.Context, task *models.Task) {
	if task == nil {
		return
	}
	m := n.member(ctx, task.AssignedTo)
	n.telegram(m, "🔁 <b>"+html.EscapeString(task.Title)+"</b> → <code>"+string(task.Status)+"</code>")
}

func (n *NotificationService) ConnectionRequested(ctx context.Context, conn *models.Connection) {
	sender := n.member(ctx, conn.SenderID)
	receiver := n.member(ctx, conn.ReceiverID)
	if n.Email == nil || sender == nil || receiver == nil || !receiver.EmailNotify {
		return
	}
	if err := n.Email.SendConnectionRequestEmail(receiver.Email, sender.FirstName+" "+sender.LastName); err != nil {
		log.Printf("[notify][err] connection request email: %v", err)
	}
}

func (n *NotificationService) ConnectionAccepted(ctx context.Context, conn *models.Connection) {
	sender := n.member(ctx, conn.SenderID)
	receiver := n.member(ctx, conn.ReceiverID)
	if n.Email == nil || sender == nil || receiver == nil || !sender.EmailNotify {
		return
	}
	if err := n.Email.SendConnectionAcceptedEmail(sender.Email, receiver.FirstName+" "+receiver.LastName); err != nil {
		log.Printf("[notify][err] connection accepted email: %v", err)
	}
}

func (n *NotificationService) PostRejected(ctx context.Context, post *models.FeedPost) {
	if post == nil {
		return
	}
	author := n.member(ctx, post.AuthorID)
	if n.Email == nil || author == nil || !author.EmailNotify {
		return
	}
	if err := n.Email.SendPostRejectedEmail(author.Email, post.ModerationNote); err != nil {
		log.Printf("[notify][err] post rejected email: %v", err)
	}
}
