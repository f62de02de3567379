package mailbox

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startMailbox(t *testing.T) (*Mailbox, chan error) {
	t.Helper()
	m := NewMailbox(0)
	errc := make(chan error, 1)
	go func() {
		errc <- m.Run(context.Background())
	}()
	return m, errc
}

func TestDoRunsJobsOneAtATime(t *testing.T) {
	m, errc := startMailbox(t)

	var running, maxRunning, total int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Do(context.Background(), func() {
				running++
				if running > maxRunning {
					maxRunning = running
				}
				total++
				running--
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxRunning)
	assert.Equal(t, 50, total)

	m.Close()
	require.NoError(t, <-errc)
}

func TestDoAfterCloseFails(t *testing.T) {
	m, errc := startMailbox(t)
	m.Close()
	require.NoError(t, <-errc)

	err := m.Do(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDoHonoursContext(t *testing.T) {
	m, errc := startMailbox(t)
	defer func() {
		m.Close()
		<-errc
	}()

	release := make(chan struct{})
	go m.Do(context.Background(), func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)
	err := m.Do(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestRunStopsWithContext(t *testing.T) {
	m := NewMailbox(1)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.ErrorIs(t, m.Do(context.Background(), func() {}), ErrClosed)
}
