package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const subject = "Your Geotracking Results"

// Job is one result summary to be mailed. It carries everything the worker
// needs so delivery never reads back into request state.
type Job struct {
	To             string
	Username       string
	InitialLat     float64
	InitialLng     float64
	FinalLat       float64
	FinalLng       float64
	EnterCount     int
	ExitCount      int
	ElapsedSeconds float64
	DistanceM      float64
}

// Dispatcher consumes queued jobs on a worker goroutine and delivers them
// best-effort: bounded retries, then a dead-letter log line. Outcomes are
// never joined back to the request that enqueued the job.
type Dispatcher struct {
	mailer      Mailer
	jobs        chan Job
	wg          sync.WaitGroup
	maxAttempts int
	retryDelay  time.Duration
	sendTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// DispatcherConfig tunes queueing and retry behavior.
type DispatcherConfig struct {
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
	SendTimeout time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:   64,
		MaxAttempts: 3,
		RetryDelay:  time.Second,
		SendTimeout: 30 * time.Second,
	}
}

func NewDispatcher(mailer Mailer, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		mailer:      mailer,
		jobs:        make(chan Job, cfg.QueueSize),
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		sendTimeout: cfg.SendTimeout,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

// Enqueue hands a job to the worker without blocking. A full queue drops the
// job, which the best-effort contract allows; the drop is logged.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		log.Printf("notify: queue full, dropping mail for %s", job.To)
		return false
	}
}

// Close stops intake and waits for queued jobs to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job Job) {
	body := resultBody(job)

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.mailer.Send(ctx, job.To, subject, body)
		cancel()

		if err == nil {
			log.Printf("notify: result mail sent to %s", job.To)
			return
		}
		log.Printf("notify: send attempt %d/%d to %s failed: %v", attempt, d.maxAttempts, job.To, err)

		if attempt < d.maxAttempts {
			time.Sleep(d.retryDelay * time.Duration(attempt))
		}
	}
	log.Printf("notify: dead-letter, giving up on mail for %s", job.To)
}

func resultBody(job Job) string {
	return fmt.Sprintf("Hello %s,\n\n"+
		"Here are your geotracking results:\n\n"+
		"Initial Coordinates: Latitude %v, Longitude %v\n"+
		"Final Coordinates: Latitude %v, Longitude %v\n"+
		"Straight-Line Distance: %.1f meters\n"+
		"Total Entries: %d\n"+
		"Total Exits: %d\n"+
		"Total Elapsed Time: %v seconds\n\n"+
		"Thank you for using our service!",
		job.Username,
		job.InitialLat, job.InitialLng,
		job.FinalLat, job.FinalLng,
		job.DistanceM,
		job.EnterCount, job.ExitCount,
		job.ElapsedSeconds)
}
