package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendConfirmation(toEmail, action, details string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

// SendConfirmation emails the patient that an administrative action
// (appointment booking, rescheduling, cancellation, complaint intake) was
// completed.
func (s *emailService) SendConfirmation(toEmail, action, details string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Confirmation: %s", action))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Confirmation</h2>
			<p>This is a confirmation that your <b>%s</b> has been successfully completed.</p>
			<p>Details: %s</p>
			<p>Date: %s</p>
			<p>If you have any questions, please contact our customer service.</p>
			<p>Best regards,<br>Your Healthcare Provider</p>
		</div>
	`, action, details, time.Now().Format("2006-01-02 15:04:05"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", toEmail, err)
	}
	return nil
}
