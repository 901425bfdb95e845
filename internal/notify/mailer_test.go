package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

type captureSender struct {
	err  error
	sent []*gomail.Message
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestBookingConfirmationEmail(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(Config{From: "tickets@example.test", FrontendURL: "http://localhost:3000/"}, zerolog.Nop()).WithSender(sender)

	err := m.SendBookingConfirmation(context.Background(), model.BookingReceipt{
		BookingID: "b-1", UserName: "Alice", UserEmail: "alice@example.test",
		MovieTitle: "Inception", ShowTime: "14:30 on 2026-03-02", Seats: []string{"A3", "A4"}, TotalPrice: "24.00",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	assert.Equal(t, []string{"alice@example.test"}, sender.sent[0].GetHeader("To"))
	body := render(t, sender.sent[0])
	assert.Contains(t, body, "Inception")
	assert.Contains(t, body, "A3, A4")
	assert.Contains(t, body, "text/html")
}

func TestWelcomeAndResetEmails(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(Config{From: "tickets@example.test", FrontendURL: "http://localhost:3000/"}, zerolog.Nop()).WithSender(sender)
	ctx := context.Background()

	require.NoError(t, m.SendWelcome(ctx, "bob@example.test", "Bob"))
	require.NoError(t, m.SendPasswordReset(ctx, "bob@example.test", "http://localhost:3000/reset-password/abc"))
	require.Len(t, sender.sent, 2)
	assert.Contains(t, render(t, sender.sent[0]), "Hello Bob")
	assert.Contains(t, render(t, sender.sent[1]), "reset-password/abc")
}

func TestSendErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	m := NewMailer(Config{}, zerolog.Nop()).WithSender(sender)
	assert.Error(t, m.SendWelcome(context.Background(), "bob@example.test", "Bob"))
	assert.Error(t, m.SendWelcome(context.Background(), "", "Bob"))

	unconfigured := NewMailer(Config{}, zerolog.Nop())
	assert.NoError(t, unconfigured.SendWelcome(context.Background(), "bob@example.test", "Bob"))
}
