package mailbox

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

const (
	DEFAULT_MAILBOX_SIZE = 64
)

var ErrClosed = errors.New("mailbox is closed")

type job struct {
	f    func()
	done chan struct{}
}

// Mailbox runs posted jobs one at a time on the goroutine that called Run.
type Mailbox struct {
	c       chan job
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewMailbox(size int) *Mailbox {
	if size <= 0 {
		size = DEFAULT_MAILBOX_SIZE
	}
	return &Mailbox{
		c:       make(chan job, size),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run returns nil after Close and the context error when ctx ends first.
// Jobs still queued at that point are never run.
func (m *Mailbox) Run(ctx context.Context) error {
	defer close(m.stopped)
	for {
		select {
		case j := <-m.c:
			j.f()
			close(j.done)
		case <-m.quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Do posts f and waits for it to finish. A job that was already accepted
// still runs when ctx is cancelled while waiting.
func (m *Mailbox) Do(ctx context.Context, f func()) error {
	j := job{f: f, done: make(chan struct{})}
	select {
	case <-m.quit:
		return ErrClosed
	case <-m.stopped:
		return ErrClosed
	default:
	}

	select {
	case m.c <- j:
	case <-m.quit:
		return ErrClosed
	case <-m.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-m.stopped:
		select {
		case <-j.done:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mailbox) Close() {
	m.once.Do(func() {
		close(m.quit)
	})
}
