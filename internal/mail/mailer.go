// Package mail sends the two transactional messages the back office needs:
// OTP codes and password-reset links.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends over plain SMTP with AUTH PLAIN.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTP(host, port, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body))
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// ConsoleMailer logs instead of sending. Used when SMTP is not configured.
type ConsoleMailer struct{}

func NewConsole() *ConsoleMailer { return &ConsoleMailer{} }

func (c *ConsoleMailer) Send(to, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q :: %s\n", to, subject, body)
	return nil
}
