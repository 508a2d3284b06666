package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestNew_Disabled(t *testing.T) {
	_, err := New(Config{})
	assert.True(t, errors.Is(err, ErrDisabled))

	_, err = New(Config{Enabled: true})
	assert.Error(t, err)
}

func TestMailer_Send(t *testing.T) {
	var (
		gotFrom string
		gotTo   []string
		body    bytes.Buffer
	)
	m := NewWithSender("share@example.com", gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		gotFrom, gotTo = from, to
		_, err := msg.WriteTo(&body)
		return err
	}))

	err := m.Send(context.Background(), Mail{To: "guest@example.com", Subject: "Invitation", Body: "open http://x/redeem?token=abc"})
	require.NoError(t, err)
	assert.Equal(t, "share@example.com", gotFrom)
	assert.Equal(t, []string{"guest@example.com"}, gotTo)
	assert.Contains(t, body.String(), "Subject: Invitation")
}

func TestMailer_SendCancelled(t *testing.T) {
	called := false
	m := NewWithSender("a@example.com", gomail.SendFunc(func(string, []string, io.WriterTo) error {
		called = true
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.Send(ctx, Mail{To: "b@example.com"}))
	assert.False(t, called)
}
