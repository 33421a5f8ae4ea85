package mailsink

import (
	"context"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/notification"
	"sync"
)

// MESSAGES_LIMIT is how many of the latest messages a development sink keeps.
const MESSAGES_LIMIT = 100

// Sink is the gateway used when no mail transport is configured.
// Outside production the latest messages are kept in memory and logged.
// In production nothing is stored or logged beyond the subject, since
// messages carry secrets such as reset links.
type Sink struct {
	log          logging.Logger
	isProduction bool
	limit        int
	messages     []notification.Message
	lock         sync.Mutex
}

func New(log logging.Logger, isProduction bool) *Sink {
	return newSink(log, isProduction, MESSAGES_LIMIT)
}

func newSink(log logging.Logger, isProduction bool, limit int) *Sink {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Sink{log: log, isProduction: isProduction, limit: limit}
}

func (s *Sink) Deliver(ctx context.Context, message notification.Message) error {
	if s.isProduction {
		s.log.Warning(
			ctx,
			"No mail transport configured, message dropped.",
			logging.Entry("subject", message.Subject),
		)
		return nil
	}

	s.lock.Lock()
	if len(s.messages) >= s.limit {
		s.messages = append(s.messages[:0], s.messages[len(s.messages)-s.limit+1:]...)
	}
	s.messages = append(s.messages, message)
	s.lock.Unlock()

	s.log.Info(
		ctx,
		"Message captured by mail sink.",
		logging.Entry("to", message.To),
		logging.Entry("subject", message.Subject),
		logging.Entry("text", message.Text),
	)
	return nil
}

// Messages returns the kept messages, oldest first.
func (s *Sink) Messages() []notification.Message {
	s.lock.Lock()
	defer s.lock.Unlock()
	messages := make([]notification.Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}
