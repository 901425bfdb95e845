// Package notify sends the transactional emails of the booking service over
// SMTP.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("mail").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/*.html"))

// Sender delivers one rendered message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Config struct {
	Host        string
	Port        int
	User        string
	Pass        string
	From        string
	FrontendURL string
}

// Mailer renders the HTML templates and hands messages to a Sender. A
// Mailer without an SMTP host logs instead of sending.
type Mailer struct {
	sender      Sender
	from        string
	frontendURL string
	log         zerolog.Logger
}

func NewMailer(cfg Config, log zerolog.Logger) *Mailer {
	m := &Mailer{
		from:        cfg.From,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		log:         log.With().Str("component", "mailer").Logger(),
	}
	if cfg.Host != "" {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	}
	if m.from == "" {
		m.from = cfg.User
	}
	return m
}

// WithSender replaces the SMTP transport.
func (m *Mailer) WithSender(s Sender) *Mailer {
	m.sender = s
	return m
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	return m.send(ctx, to, "Welcome to Movie Tickets, "+name+"!",
		fmt.Sprintf("Hello %s,\n\nThanks for registering. You can now log in and book your first ticket.\n", name),
		"welcome.html", map[string]string{"Name": name, "LoginURL": m.frontendURL + "/login"})
}

func (m *Mailer) SendBookingConfirmation(ctx context.Context, r model.BookingReceipt) error {
	text := fmt.Sprintf("Your booking has been confirmed!\n\nMovie: %s\nShowtime: %s\nSeats: %s\nTotal: $%s\n\nEnjoy your movie!\n",
		r.MovieTitle, r.ShowTime, strings.Join(r.Seats, ", "), r.TotalPrice)
	return m.send(ctx, r.UserEmail, "Booking Confirmation - "+r.MovieTitle, text, "booking_confirmation.html", r)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	text := "You requested a password reset. Open the link below to choose a new password:\n\n" + resetURL +
		"\n\nIf you didn't request this, ignore this email.\n"
	return m.send(ctx, to, "Password Reset Request", text, "password_reset.html", map[string]string{"ResetURL": resetURL})
}

func (m *Mailer) send(ctx context.Context, to, subject, text, tmpl string, data any) error {
	if to == "" {
		return fmt.Errorf("send %q: empty recipient", subject)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var html bytes.Buffer
	if err := templates.ExecuteTemplate(&html, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}
	if m.sender == nil {
		m.log.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, email skipped")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Movie Booking System")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html.String())
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	m.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
