// Package notify sends the booking notification email to the office.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"tourdesk/models"
)

type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier delivers plain text mail through an SMTP relay.
type SMTPNotifier struct {
	host     string
	port     string
	user     string
	password string
	from     string
	to       []string
	send     sendFunc
}

func NewSMTP(host, port, user, password, from string, to ...string) *SMTPNotifier {
	if from == "" {
		from = user
	}
	return &SMTPNotifier{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		to:       to,
		send:     smtp.SendMail,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.password, n.host)
	}

	msg := buildMessage(n.from, n.to, subject, body)
	done := make(chan error, 1)
	go func() {
		done <- n.send(n.host+":"+n.port, auth, n.from, n.to, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail via %s: %w", n.host, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// headerValue folds CR and LF into spaces so a value cannot start a new
// header line.
func headerValue(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerValue(from) + "\r\n")
	b.WriteString("To: " + headerValue(strings.Join(to, ", ")) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerValue(subject)) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogNotifier writes notifications to the log. Used when SMTP is not set up.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, subject, body string) error {
	slog.InfoContext(ctx, "notification", "subject", subject, "body", body)
	return nil
}

// BookingMessage renders the office notification for a new booking.
func BookingMessage(b models.Booking, excursionTitle string) (subject, body string) {
	subject = "New booking: " + b.FullName

	var sb strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}
	line("Name", b.FullName)
	line("Phone", b.Phone)
	line("Email", b.Email)
	line("Excursion", excursionTitle)
	line("Date", b.Date)
	line("Time", b.Time)
	line("Payment", b.PaymentType)
	for _, t := range b.Tickets {
		fmt.Fprintf(&sb, "Tickets: %s x %d\n", t.Type, t.Count)
	}
	line("Promo code", b.PromoCode)
	line("Comment", b.Comment)
	line("Booking ID", b.ID)
	return subject, sb.String()
}
