package passwordresetsender

import (
	"context"
	"inboxflow/internal/core/domain/notification"
	"inboxflow/internal/core/domain/user"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestLink(t *testing.T) {
	cases := []struct {
		id       string
		baseURL  string
		token    user.PasswordResetToken
		expected string
	}{
		{
			id:       "default",
			baseURL:  "http://localhost:5000/reset-password",
			token:    "abc_-123",
			expected: "http://localhost:5000/reset-password?token=abc_-123",
		},
		{
			id:       "existing-query",
			baseURL:  "https://app.example.com/reset?lang=en",
			token:    "abc",
			expected: "https://app.example.com/reset?lang=en&token=abc",
		},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			sender := New(notification.NewFakeGateway(), mustParse(t, testcase.baseURL), time.Hour)
			require.Equal(t, testcase.expected, sender.Link(testcase.token))
		})
	}
}

func TestMessageDelivered(t *testing.T) {
	gateway := notification.NewFakeGateway()
	sender := New(gateway, mustParse(t, "http://localhost:5000/reset-password"), time.Hour)
	u := user.User{ID: 1, Email: "alice@example.com", Username: "alice", Name: "Alice"}

	err := sender.SendPasswordResetToken(context.Background(), u, user.PasswordResetToken("token-1"))

	require.NoError(t, err)
	message := gateway.LastDelivered()
	require.Equal(t, u.Email, message.To)
	require.Equal(t, subject, message.Subject)
	require.Contains(t, message.Text, "Hi Alice,")
	require.Contains(t, message.Text, "http://localhost:5000/reset-password?token=token-1")
	require.Contains(t, message.Text, "1h0m0s")
	require.Contains(t, message.HTML, `href="http://localhost:5000/reset-password?token=token-1"`)
}

func TestGatewayErrorReturned(t *testing.T) {
	gateway := notification.NewFakeGateway()
	gateway.ReturnError = true
	sender := New(gateway, mustParse(t, "http://localhost:5000/reset-password"), time.Hour)

	err := sender.SendPasswordResetToken(
		context.Background(),
		user.User{Email: "alice@example.com"},
		user.PasswordResetToken("token-1"),
	)
	require.Error(t, err)
}
