package smtp

import (
	"context"
	"inboxflow/internal/core/domain/notification"

	"gopkg.in/gomail.v2"
)

// MAX_PENDING_DELIVERIES caps sends running at the same time, including
// those whose caller has already given up.
const MAX_PENDING_DELIVERIES = 8

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Gateway delivers notifications through an SMTP relay.
type Gateway struct {
	dialer  sender
	from    string
	pending chan struct{}
}

func NewGateway(host string, port int, username string, password string, from string) *Gateway {
	return newGateway(gomail.NewDialer(host, port, username, password), from, MAX_PENDING_DELIVERIES)
}

func newGateway(dialer sender, from string, maxPending int) *Gateway {
	return &Gateway{
		dialer:  dialer,
		from:    from,
		pending: make(chan struct{}, maxPending),
	}
}

func (g *Gateway) newMessage(message notification.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", g.from)
	m.SetHeader("To", string(message.To))
	m.SetHeader("Subject", message.Subject)
	m.SetBody("text/plain", message.Text)
	if message.HTML != "" {
		m.AddAlternative("text/html", message.HTML)
	}
	return m
}

// Deliver returns when the relay has accepted the message or ctx is done.
// The dialer has no context support and gomail only bounds the connect step,
// so a send abandoned on ctx keeps its slot until the relay answers. When all
// slots are taken Deliver waits for one until ctx is done.
func (g *Gateway) Deliver(ctx context.Context, message notification.Message) error {
	select {
	case g.pending <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	m := g.newMessage(message)
	done := make(chan error, 1)
	go func() {
		defer func() { <-g.pending }()
		done <- g.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
