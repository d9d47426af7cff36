package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/queue"
)

const defaultDialTimeout = 5 * time.Second

var (
	// ErrEventQueueFull is returned by EventDispatcher.Publish when the
	// buffer is full; the event is dropped.
	ErrEventQueueFull = errors.New("event queue full")
	// ErrDispatcherClosed is returned after Close.
	ErrDispatcherClosed = errors.New("event dispatcher closed")
)

// AMQPPublisher publishes booking events to a durable RabbitMQ queue.  The
// connection is opened lazily and reopened after any failure, so the
// server can start while the broker is down.  The lock only guards the
// cached channel; dialing happens outside it.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher does not dial; the first Publish does.
func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queueName}
}

// Publish sends ev as persistent JSON to the configured queue.  Messages
// carry a fresh UUID as MessageId and the event name as Type.  A dial is
// bounded by ctx's deadline.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    uuid.NewString(),
		Type:         ev.Event,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.drop(ch)
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// channel returns the cached channel or dials a new one.  Concurrent
// callers may dial in parallel; the first to finish wins and the others
// close their connection.
func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	p.mu.Lock()
	if p.ch != nil && !p.ch.IsClosed() {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	p.mu.Unlock()

	timeout, err := dialTimeout(ctx)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	conn, ch, err := p.open(timeout)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() {
		_ = ch.Close()
		_ = conn.Close()
		return p.ch, nil
	}
	p.reset()
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) open(timeout time.Duration) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: queue declare: %w", err)
	}
	return conn, ch, nil
}

// drop discards ch if it is still the cached channel.
func (p *AMQPPublisher) drop(ch *amqp.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.reset()
	}
}

// reset closes the cached connection.  Caller holds mu.
func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// dialTimeout is defaultDialTimeout capped by the time left on ctx.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := defaultDialTimeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}

// EventDispatcher decouples booking writes from the broker.  Publish only
// enqueues; a single worker forwards events to the wrapped publisher.
// When the buffer is full the event is dropped.
type EventDispatcher struct {
	next    EventPublisher
	log     logrus.FieldLogger
	timeout time.Duration
	queue   chan queue.BookingEvent
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewEventDispatcher starts the worker.  buffer < 1 means 100.
func NewEventDispatcher(next EventPublisher, buffer int, log logrus.FieldLogger) *EventDispatcher {
	if buffer < 1 {
		buffer = 100
	}
	d := &EventDispatcher{
		next:    next,
		log:     log,
		timeout: publishTimeout,
		queue:   make(chan queue.BookingEvent, buffer),
		done:    make(chan struct{}),
	}
	go d.worker()
	return d
}

// Publish enqueues ev without blocking.
func (d *EventDispatcher) Publish(_ context.Context, ev queue.BookingEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- ev:
		return nil
	default:
		return ErrEventQueueFull
	}
}

// Close stops accepting events and waits for the worker to drain the
// buffer or for ctx to end.
func (d *EventDispatcher) Close(ctx context.Context) error {
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

func (d *EventDispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.next.Publish(ctx, ev)
		cancel()
		if err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{"event": ev.Event, "booking_id": ev.BookingID}).Warn("booking: event publish failed")
		}
	}
}

// NoopPublisher drops every event.  Used when EVENTS_ENABLED=false.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.BookingEvent) error { return nil }
