package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"recruit-api/internal/domain"
)

const (
	defaultQueueSize   = 100
	defaultSendTimeout = 30 * time.Second
)

// Config is injected at construction; nothing here is read from the
// environment by this package.
type Config struct {
	FromAddress     string
	ScheduleBaseURL string
	QueueSize       int
	SendTimeout     time.Duration
}

// ContactSource resolves the addressing details of an application at send time.
type ContactSource interface {
	ApplicationContact(ctx context.Context, applicationID int64) (*domain.ApplicationContact, error)
}

// queuedCommand is one entry of the background queue.
type queuedCommand struct {
	cmd       Command
	Timestamp time.Time
}

// Dispatcher queues notification commands and delivers them from a single
// background worker, in enqueue order. Delivery is best effort: failures are
// logged and never reach the publisher.
type Dispatcher struct {
	cfg      Config
	contacts ContactSource
	sender   Sender

	mu     sync.RWMutex
	closed bool
	queue  chan queuedCommand
	done   chan struct{}
}

func NewDispatcher(cfg Config, contacts ContactSource, sender Sender) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &Dispatcher{
		cfg:      cfg,
		contacts: contacts,
		sender:   sender,
		queue:    make(chan queuedCommand, cfg.QueueSize),
		done:     make(chan struct{}),
	}
}

// Start launches the worker. Call it once.
func (d *Dispatcher) Start() {
	go d.worker()
	log.Println("[Dispatcher] Worker started")
}

// Publish enqueues cmd without blocking. It returns false when the queue is
// full or the dispatcher is closed; the command is then dropped.
func (d *Dispatcher) Publish(cmd Command) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("[Dispatcher] Closed, dropping %s for application %d", cmd.Kind(), cmd.Application())
		return false
	}

	select {
	case d.queue <- queuedCommand{cmd: cmd, Timestamp: time.Now()}:
		log.Printf("[Dispatcher] Queued %s for application %d", cmd.Kind(), cmd.Application())
		return true
	default:
		log.Printf("[Dispatcher] Queue full! Dropping %s for application %d", cmd.Kind(), cmd.Application())
		return false
	}
}

// Close stops intake and waits until the worker has drained the queue or ctx
// is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for job := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
		if err := d.Deliver(ctx, job.cmd); err != nil {
			log.Printf("[Dispatcher] %s for application %d failed: %v", job.cmd.Kind(), job.cmd.Application(), err)
		} else {
			log.Printf("[Dispatcher] %s for application %d delivered (took %v)",
				job.cmd.Kind(), job.cmd.Application(), time.Since(job.Timestamp))
		}
		cancel()
	}
}

// Deliver resolves, renders and sends cmd synchronously.
func (d *Dispatcher) Deliver(ctx context.Context, cmd Command) error {
	contact, err := d.contacts.ApplicationContact(ctx, cmd.Application())
	if err != nil {
		return err
	}
	msg, err := render(d.cfg, cmd, contact)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, msg)
}
