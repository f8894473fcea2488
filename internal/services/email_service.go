package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendConnectionRequestEmail(email, senderName string) error
	SendConnectionAcceptedEmail(email, receiverName string) error
	SendPostRejectedEmail(email, note string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendConnectionRequestEmail(email, senderName string) error {
	body := fmt.Sprintf(`
		<h3>Nova sol·licitud de connexió</h3>
		<p><strong>%s</strong> vol connectar amb tu a La Pública.</p>
		<p>La sol·licitud caduca al cap de 30 dies.</p>
	`, senderName)
	if err := s.send(email, "Nova sol·licitud de connexió", body); err != nil {
		return fmt.Errorf("failed to send connection request email: %w", err)
	}
	return nil
}

func (s *emailService) SendConnectionAcceptedEmail(email, receiverName string) error {
	body := fmt.Sprintf(`
		<h3>Connexió acceptada</h3>
		<p><strong>%s</strong> ha acceptat la teva sol·licitud de connexió.</p>
	`, receiverName)
	if err := s.send(email, "Connexió acceptada", body); err != nil {
		return fmt.Errorf("failed to send connection accepted email: %w", err)
	}
	return nil
}

func (s *emailService) SendPostRejectedEmail(email, note string) error {
	body := fmt.Sprintf(`
		<h3>Publicació rebutjada</h3>
		<p>La teva publicació ha estat rebutjada per moderació.</p>
		<p>Motiu: %s</p>
	`, note)
	if err := s.send(email, "Publicació rebutjada", body); err != nil {
		return fmt.Errorf("failed to send post rejected email: %w", err)
	}
	return nil
}
