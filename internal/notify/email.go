package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/models"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier mails each lead to the site owner over SMTP
type EmailNotifier struct {
	cfg      config.SMTPConfig
	to       string
	sendMail sendMailFunc
}

// NewEmailNotifier returns nil unless SMTP and a recipient are configured
func NewEmailNotifier(cfg config.SMTPConfig, to string) *EmailNotifier {
	n := &EmailNotifier{cfg: cfg, to: to, sendMail: smtp.SendMail}
	if !n.IsConfigured() {
		return nil
	}
	return n
}

// IsConfigured reports whether host, sender and recipient are all set
func (e *EmailNotifier) IsConfigured() bool {
	return e.cfg.Host != "" && e.cfg.From != "" && e.to != ""
}

// Channel returns "email"
func (e *EmailNotifier) Channel() string { return "email" }

// Notify sends the lead. net/smtp has no context support, so ctx is only
// checked before dialing.
func (e *EmailNotifier) Notify(ctx context.Context, lead models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	port := e.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(port))

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	if err := e.sendMail(addr, auth, e.cfg.From, []string{e.to}, buildLeadMessage(e.cfg.From, e.to, lead)); err != nil {
		return fmt.Errorf("send lead email: %w", err)
	}
	return nil
}

// headerSafe strips line breaks so visitor input cannot add mail headers
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func buildLeadMessage(from, to string, lead models.Lead) []byte {
	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\r\n", lead.Name)
	fmt.Fprintf(&body, "Email: %s\r\n", lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&body, "Phone: %s\r\n", lead.Phone)
	}
	if lead.Source != "" {
		fmt.Fprintf(&body, "Source: %s\r\n", lead.Source)
	}
	fmt.Fprintf(&body, "Received: %s\r\n", lead.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	if lead.Message != "" {
		fmt.Fprintf(&body, "\r\n%s\r\n", lead.Message)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", headerSafe(lead.Email))
	fmt.Fprintf(&msg, "Subject: New lead from %s\r\n", headerSafe(lead.Name))
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	msg.WriteString(body.String())
	return []byte(msg.String())
}
