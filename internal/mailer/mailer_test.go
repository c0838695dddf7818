package mailer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m...)
	return nil
}

func TestSendListingCreatedEmail(t *testing.T) {
	rec := &recordingSender{}
	m := &SMTPMailer{from: "noreply@example.com", sender: rec, logger: logger.NewNop()}

	require.NoError(t, m.SendListingCreatedEmail("owner@example.com", "Test Listing"))

	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"New Listing Created"}, msg.GetHeader("Subject"))

	var body bytes.Buffer
	_, err := msg.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "Your listing 'Test Listing' has been created successfully.")
}

func TestSendListingCreatedEmail_Failure(t *testing.T) {
	m := &SMTPMailer{from: "noreply@example.com", sender: &recordingSender{err: errors.New("535 auth failed")}, logger: logger.NewNop()}
	assert.Error(t, m.SendListingCreatedEmail("owner@example.com", "x"))
}

func TestNewSMTPMailer_IncompleteConfig(t *testing.T) {
	testCases := []struct {
		name     string
		host     string
		from     string
		password string
	}{
		{"Missing Host", "", "a@example.com", "pw"},
		{"Missing Sender", "smtp.example.com", "", "pw"},
		{"Missing Password", "smtp.example.com", "a@example.com", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSMTPMailer(tc.host, 587, tc.from, tc.password, logger.NewNop())
			assert.ErrorIs(t, err, ErrIncompleteConfig)
		})
	}
}
