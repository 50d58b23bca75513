package mocks

import (
	"context"
	"sync"

	"arena/shared/event"
)

// Publisher records published events. Services publish from goroutines, so tests poll
// with Events instead of asserting immediately.
type Publisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

var _ event.Publisher = (*Publisher)(nil)

func NewPublisher() *Publisher {
	return &Publisher{}
}

// FailWith makes every later Publish return err after recording the events.
func (p *Publisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = err
}

func (p *Publisher) Publish(_ context.Context, events ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, events...)

	return p.err
}

func (p *Publisher) Close() error {
	return nil
}

func (p *Publisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]event.Event, len(p.events))
	copy(out, p.events)

	return out
}

// Types returns the recorded event types in publish order.
func (p *Publisher) Types() []event.Type {
	events := p.Events()
	types := make([]event.Type, 0, len(events))

	for _, evt := range events {
		types = append(types, evt.Type)
	}

	return types
}
