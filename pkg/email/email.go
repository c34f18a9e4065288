package email

import (
	"fmt"
	"net/smtp"
)

// Sender sends plain-text mail over SMTP with PLAIN auth.
type Sender struct {
	Server   string
	Port     int
	Username string
	Password string
	FromName string
}

func (s Sender) Send(to, subject, body string) error {
	if s.Server == "" || s.Port == 0 || s.Username == "" || s.Password == "" {
		return fmt.Errorf("missing email configuration: SMTPServer, SMTPPort, Username, or Password is empty")
	}

	message := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.FromName, s.Username, to, subject, body)

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Server)
	addr := fmt.Sprintf("%s:%d", s.Server, s.Port)

	if err := smtp.SendMail(addr, auth, s.Username, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
