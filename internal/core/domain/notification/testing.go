package notification

import (
	"context"
	"fmt"
	"sync"
)

type FakeGateway struct {
	Delivered   []Message
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

func (g *FakeGateway) Deliver(ctx context.Context, message Message) error {
	if g.ReturnError {
		return fmt.Errorf("could not deliver message to %s", message.To)
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Delivered = append(g.Delivered, message)
	return nil
}

func (g *FakeGateway) LastDelivered() Message {
	g.lock.Lock()
	defer g.lock.Unlock()
	l := len(g.Delivered)
	if l == 0 {
		panic("Delivered count is 0.")
	}
	return g.Delivered[l-1]
}
