package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	fails int
	err   error
}

func (f *fakeMailer) Send(_ context.Context, to, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return f.err
	}
	f.sent = append(f.sent, to+"|"+body)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testConfig() DispatcherConfig {
	return DispatcherConfig{QueueSize: 8, MaxAttempts: 3, RetryDelay: time.Millisecond, SendTimeout: time.Second}
}

func TestDispatcherDelivers(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, testConfig())

	ok := d.Enqueue(Job{
		To:             "alice@example.com",
		Username:       "alice",
		InitialLat:     10, InitialLng: 20,
		FinalLat: 11, FinalLng: 21,
		EnterCount: 3, ExitCount: 1, ElapsedSeconds: 42.5,
	})
	if !ok {
		t.Fatalf("expected enqueue to succeed")
	}
	d.Close()

	if mailer.sentCount() != 1 {
		t.Fatalf("expected one delivery, got %d", mailer.sentCount())
	}
	body := mailer.sent[0]
	for _, want := range []string{"alice@example.com", "Hello alice", "Latitude 10", "Longitude 21", "Total Entries: 3", "Total Exits: 1", "42.5 seconds"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
}

func TestDispatcherRetriesTransientFailure(t *testing.T) {
	mailer := &fakeMailer{fails: 2, err: errors.New("connection refused")}
	d := NewDispatcher(mailer, testConfig())

	d.Enqueue(Job{To: "bob@example.com", Username: "bob"})
	d.Close()

	if mailer.sentCount() != 1 {
		t.Fatalf("expected delivery after retries, got %d", mailer.sentCount())
	}
}

func TestDispatcherDeadLettersAfterMaxAttempts(t *testing.T) {
	mailer := &fakeMailer{fails: 10, err: errors.New("mailbox unavailable")}
	d := NewDispatcher(mailer, testConfig())

	d.Enqueue(Job{To: "carol@example.com", Username: "carol"})
	d.Close()

	if mailer.sentCount() != 0 {
		t.Fatalf("expected no delivery, got %d", mailer.sentCount())
	}
}

func TestDispatcherEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(&fakeMailer{}, testConfig())
	d.Close()

	if d.Enqueue(Job{To: "dave@example.com"}) {
		t.Fatalf("expected enqueue to fail after close")
	}
	// Close again must not panic.
	d.Close()
}

func TestDispatcherQueueFullDrops(t *testing.T) {
	block := make(chan struct{})
	mailer := &blockingMailer{release: block, started: make(chan struct{})}
	d := NewDispatcher(mailer, DispatcherConfig{QueueSize: 1, MaxAttempts: 1, SendTimeout: time.Second})

	// First job occupies the worker, second fills the queue, third must drop.
	d.Enqueue(Job{To: "a@example.com"})
	<-mailer.started
	d.Enqueue(Job{To: "b@example.com"})
	if d.Enqueue(Job{To: "c@example.com"}) {
		t.Fatalf("expected full queue to drop the job")
	}

	close(block)
	d.Close()
}

type blockingMailer struct {
	release <-chan struct{}
	started chan struct{}
	once    sync.Once
}

func (b *blockingMailer) Send(_ context.Context, _, _, _ string) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil
}
