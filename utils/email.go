package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"
)

type smtpSettings struct {
	host string
	port string
	user string
	pass string
	from string
}

func loadSMTPSettings() (smtpSettings, error) {
	s := smtpSettings{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
	if s.host == "" || s.port == "" || s.user == "" || s.pass == "" || s.from == "" {
		return s, errors.New("smtp config missing")
	}
	return s, nil
}

func envFlag(key string) bool {
	v := os.Getenv(key)
	return strings.EqualFold(v, "true") || v == "1"
}

// SendVerificationMail sends the signup verification link. SMTP settings come
// from the environment so the mailer stays optional in local setups.
func SendVerificationMail(to, link string) error {
	s, err := loadSMTPSettings()
	if err != nil {
		return err
	}

	msg := email.NewEmail()
	msg.From = s.from
	msg.To = []string{to}
	msg.Subject = "Verify your email"
	msg.HTML = []byte(fmt.Sprintf(
		"<h2>Welcome</h2>"+
			"<p>Please follow the link below to verify your email address:</p>"+
			"<p><a href=%q>Verify email</a></p>"+
			"<p>The link expires in 10 minutes.</p>",
		link,
	))

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	switch {
	case envFlag("SMTP_TLS") || s.port == "465":
		return msg.SendWithTLS(addr, auth, &tls.Config{ServerName: s.host})
	case envFlag("SMTP_STARTTLS"):
		return msg.SendWithStartTLS(addr, auth, &tls.Config{ServerName: s.host})
	default:
		return msg.Send(addr, auth)
	}
}
