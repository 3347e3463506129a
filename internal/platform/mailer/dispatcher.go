package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
)

// Common errors returned by the Dispatcher
var (
	ErrQueueClosed = errors.New("mail queue is closed")
	ErrQueueFull   = errors.New("mail queue is full")
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 30 * time.Second

// DispatcherConfig sizes the queue and worker pool.
type DispatcherConfig struct {
	// QueueSize is the buffer capacity. If zero or negative, defaults to 100.
	QueueSize int
	// WorkerCount is the number of sending goroutines. If zero or negative, defaults to 1.
	WorkerCount int
}

// Dispatcher delivers mail in the background through a bounded queue and a
// fixed pool of workers, so request handlers never wait on the provider.
// Delivery failures are logged and counted, never retried.
type Dispatcher struct {
	mailer      Mailer
	queue       chan Message
	workerCount int
	logger      *slog.Logger
	sent        *prometheus.CounterVec

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. reg may be nil to skip metrics registration.
func NewDispatcher(
	mailer Mailer,
	cfg DispatcherConfig,
	logger *slog.Logger,
	reg prometheus.Registerer,
) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
		cfg.WorkerCount = 1
	}

	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskmanager",
		Name:      "emails_total",
		Help:      "Outbound e-mails by kind and delivery result.",
	}, []string{"kind", "result"})
	if reg != nil {
		if err := reg.Register(sent); err != nil {
			return nil, fmt.Errorf("failed to register mail metrics: %w", err)
		}
	}

	return &Dispatcher{
		mailer:      mailer,
		queue:       make(chan Message, cfg.QueueSize),
		workerCount: cfg.WorkerCount,
		logger:      logger.With(slog.String("component", "mail_dispatcher")),
		sent:        sent,
	}, nil
}

// Start launches the workers. Calling Start twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	d.logger.Info("mail dispatcher started", "worker_count", d.workerCount)
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	log := d.logger.With("worker_id", id)

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.mailer.Send(ctx, msg)
		cancel()

		if err != nil {
			d.sent.WithLabelValues(msg.Kind, "error").Inc()
			log.Error("failed to send email",
				"kind", msg.Kind,
				"error", err)
			continue
		}
		d.sent.WithLabelValues(msg.Kind, "sent").Inc()
		log.Debug("email sent", "kind", msg.Kind)
	}
}

// Enqueue adds a message for delivery.
// Returns ErrQueueFull or ErrQueueClosed without blocking.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		d.sent.WithLabelValues(msg.Kind, "dropped").Inc()
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// Stop closes the queue and waits for the workers to drain it, or for ctx
// to be done, whichever comes first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("mail dispatcher stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail dispatcher did not drain: %w", ctx.Err())
	}
}

// HandleEvent implements events.EventHandler: account events become
// welcome and cancellation messages.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *events.AccountEvent) error {
	var msg Message
	switch event.Type {
	case events.UserRegistered:
		msg = WelcomeMessage(event.Name, event.Email)
	case events.UserDeleted:
		msg = CancellationMessage(event.Name, event.Email)
	default:
		return nil
	}
	return d.Enqueue(msg)
}

var _ events.EventHandler = (*Dispatcher)(nil)
