package passwordresetsender

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/notification"
	"inboxflow/internal/core/domain/user"
	"net/url"
	texttemplate "text/template"
	"time"
)

const subject = "Reset your password"

var textTemplate = texttemplate.Must(texttemplate.New("text").Parse(
	`Hi {{.Name}},

Somebody requested a password reset for your account.
Follow the link below to choose a new password:

{{.Link}}

The link expires in {{.TTL}} and can be used once.
If you did not request a reset, ignore this email.
`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<p>Hi {{.Name}},</p>
<p>Somebody requested a password reset for your account.
Follow the link below to choose a new password:</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in {{.TTL}} and can be used once.
If you did not request a reset, ignore this email.</p>
`))

type templateParams struct {
	Name string
	Link string
	TTL  string
}

// Sender renders password reset messages and hands them to a notification gateway.
type Sender struct {
	gateway notification.Gateway
	baseURL url.URL
	ttl     time.Duration
}

func New(gateway notification.Gateway, baseURL url.URL, ttl time.Duration) *Sender {
	if gateway == nil {
		panic(e.NewNilArgumentError("gateway"))
	}
	return &Sender{gateway: gateway, baseURL: baseURL, ttl: ttl}
}

// Link returns <base URL>?token=<token>, keeping query parameters of the base URL.
func (s *Sender) Link(token user.PasswordResetToken) string {
	link := s.baseURL
	query := link.Query()
	query.Set("token", string(token))
	link.RawQuery = query.Encode()
	return link.String()
}

func (s *Sender) render(u user.User, token user.PasswordResetToken) (message notification.Message, err error) {
	name := u.Name
	if name == "" {
		name = string(u.Username)
	}
	params := templateParams{Name: name, Link: s.Link(token), TTL: s.ttl.String()}

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, params); err != nil {
		return message, fmt.Errorf("could not render password reset text: %w", err)
	}
	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, params); err != nil {
		return message, fmt.Errorf("could not render password reset html: %w", err)
	}
	return notification.Message{
		To:      u.Email,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func (s *Sender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	message, err := s.render(u, token)
	if err != nil {
		return err
	}
	return s.gateway.Deliver(ctx, message)
}
