package notification

import (
	"context"
	c "inboxflow/internal/core/domain/common"
)

type Message struct {
	To      c.Email
	Subject string
	Text    string
	HTML    string
}

// Gateway delivers a rendered message to its recipient.
type Gateway interface {
	Deliver(ctx context.Context, message Message) error
}
