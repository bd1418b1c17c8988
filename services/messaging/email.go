package messaging

import (
	"context"
	"fmt"
	"net/smtp"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = "587"
)

// EmailChannel sends customer notifications over SMTP using a Gmail app
// password.
type EmailChannel struct {
	user     string
	password string
}

func NewEmailChannel(user, appPassword string) *EmailChannel {
	return &EmailChannel{user: user, password: appPassword}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(_ context.Context, msg Message) (string, error) {
	if msg.ToEmail == "" {
		return "", fmt.Errorf("no email address on message")
	}

	headers := fmt.Sprintf("From: Divya Jyotisha <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n",
		c.user, msg.ToEmail, msg.Subject)

	auth := smtp.PlainAuth("", c.user, c.password, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, c.user, []string{msg.ToEmail}, []byte(headers+msg.Body)); err != nil {
		return "", fmt.Errorf("email send failed: %w", err)
	}
	return "delivered to " + msg.ToEmail, nil
}
