// Package email sends mail through an SMTP submission relay with STARTTLS.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Mailer wraps the SMTP transport and the registered message templates.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	auth smtp.Auth
}

// NewMailer creates a mailer for the configured relay. smtp.SendMail
// negotiates STARTTLS with the server before authenticating.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		auth:     smtp.PlainAuth("", username, password, host),
	}
}

func (m *Mailer) addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// Send renders a registered template with the given data and mails it to a
// single recipient. The template's subject line is part of its definition.
func (m *Mailer) Send(to string, data map[string]interface{}, templateName string) error {
	tmpl, ok := templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", templateName)
	}

	t, err := template.New(templateName).Parse(tmpl.Body)
	if err != nil {
		return fmt.Errorf("parse email template %q: %w", templateName, err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("render email template %q: %w", templateName, err)
	}

	subjT, err := template.New(templateName + "-subject").Parse(tmpl.Subject)
	if err != nil {
		return fmt.Errorf("parse email subject %q: %w", templateName, err)
	}
	var subject bytes.Buffer
	if err := subjT.Execute(&subject, data); err != nil {
		return fmt.Errorf("render email subject %q: %w", templateName, err)
	}

	if tmpl.HTML {
		return m.SendHTML([]string{to}, subject.String(), body.String())
	}
	return m.SendPlain([]string{to}, subject.String(), body.String())
}

// SendPlain sends a plain-text email.
func (m *Mailer) SendPlain(to []string, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		strings.Join(to, ", "),
		m.From,
		subject,
		body,
	))

	return smtp.SendMail(m.addr(), m.auth, m.From, to, msg)
}

// SendHTML sends an HTML email with a plain-text fallback part.
func (m *Mailer) SendHTML(to []string, subject, htmlBody string) error {
	boundary := "boundary-citydash"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Please view this email in an HTML-capable email client.\r\n")
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return smtp.SendMail(m.addr(), m.auth, m.From, to, msg.Bytes())
}
