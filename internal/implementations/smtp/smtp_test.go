package smtp

import (
	"bytes"
	"context"
	"inboxflow/internal/core/domain/notification"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	calls int
	block chan struct{}
	lock  sync.Mutex
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.lock.Lock()
	d.calls++
	d.lock.Unlock()
	if d.block != nil {
		<-d.block
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.sent = append(d.sent, m...)
	return nil
}

func (d *fakeDialer) callCount() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.calls
}

func TestMessageSent(t *testing.T) {
	dialer := &fakeDialer{}
	gateway := newGateway(dialer, "noreply@example.com", 1)

	err := gateway.Deliver(context.Background(), notification.Message{
		To:      "alice@example.com",
		Subject: "Reset your password",
		Text:    "text body",
		HTML:    "<p>html body</p>",
	})

	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)
	m := dialer.sent[0]
	require.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
	require.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	require.Equal(t, []string{"Reset your password"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "text body")
	require.Contains(t, buf.String(), "text/html")
}

func TestDeliveryStopsWhenContextDone(t *testing.T) {
	dialer := &fakeDialer{block: make(chan struct{})}
	defer close(dialer.block)
	gateway := newGateway(dialer, "noreply@example.com", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := gateway.Deliver(ctx, notification.Message{To: "alice@example.com"})

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAbandonedDeliveriesAreBounded(t *testing.T) {
	dialer := &fakeDialer{block: make(chan struct{})}
	gateway := newGateway(dialer, "noreply@example.com", 2)

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		err := gateway.Deliver(ctx, notification.Message{To: "alice@example.com"})
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	require.Eventually(t, func() bool { return dialer.callCount() == 2 }, time.Second, time.Millisecond)

	close(dialer.block)
	require.Eventually(t, func() bool { return len(gateway.pending) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, gateway.Deliver(context.Background(), notification.Message{To: "alice@example.com"}))
	require.Equal(t, 3, dialer.callCount())
}
