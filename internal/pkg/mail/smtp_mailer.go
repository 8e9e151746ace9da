package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/velolab/velolab/internal/pkg/env"
)

// SendMail delivers an HTML mail via the SMTP server from the environment.
// Auth is skipped when no credentials are configured (local mailcatchers).
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	addr := fmt.Sprintf("%s:%s", host, env.GetEnv("SMTP_PORT", "1025"))

	sender := env.GetEnv("SMTP_SENDER", "")
	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", env.GetEnv("PUBLIC_DOMAIN", "localhost"))
	}

	var auth smtp.Auth
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	msg := buildMessage(sender, to, subject, body)

	if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
		log.Printf("SMTP send to %s failed: %v", to, err)
		return err
	}
	log.Printf("Mail sent to %s via %s", to, addr)
	return nil
}

func buildMessage(sender, to, subject, body string) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n"
	return []byte(headers + body)
}
