package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Veraticus/spice-budget/internal/ledger"
)

// DefaultExchange is the exchange used when none is configured.
const DefaultExchange = "budget.events"

// publishTimeout bounds a single publish.
const publishTimeout = 5 * time.Second

// ErrClosed is returned when publishing after Close.
var ErrClosed = errors.New("notifier closed")

// Channel is the subset of *amqp091.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends StateChanged messages to a direct exchange, routed by RoutingKey.
type Publisher struct {
	channel  Channel
	conn     *amqp091.Connection
	exchange string
}

// Dial connects to the broker at url and declares the exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(channel, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares the exchange on an open channel.
func NewPublisher(channel Channel, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	err := channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{channel: channel, exchange: exchange}, nil
}

// Publish sends one message.
func (p *Publisher) Publish(ctx context.Context, msg StateChanged) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		msg.RoutingKey(), // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "published state change",
		"exchange", p.exchange,
		"routing_key", msg.RoutingKey(),
		"id", msg.ID)
	return nil
}

// Close closes the channel and, when the publisher dialled it, the connection.
func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// Sender publishes one message.
type Sender interface {
	Publish(ctx context.Context, msg StateChanged) error
}

// Notifier forwards store events to a Sender from a background goroutine, so
// store mutations never wait on the broker. Events that arrive while the
// buffer is full are dropped and counted.
type Notifier struct {
	sender  Sender
	events  chan StateChanged
	done    chan struct{}
	dropped int
	closed  bool
	mu      sync.Mutex
}

// NewNotifier starts the forwarding goroutine. It stops when Close is called.
func NewNotifier(sender Sender, buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	n := &Notifier{
		sender: sender,
		events: make(chan StateChanged, buffer),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	defer close(n.done)
	for msg := range n.events {
		if err := n.sender.Publish(context.Background(), msg); err != nil {
			slog.Warn("failed to publish state change",
				"routing_key", msg.RoutingKey(),
				"error", err)
		}
	}
}

// Notify enqueues ev. It never blocks.
func (n *Notifier) Notify(ev ledger.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.events <- FromEvent(ev):
	default:
		n.dropped++
		slog.Warn("notification buffer full, dropping state change",
			"entity", ev.Entity,
			"kind", ev.Kind)
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (n *Notifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Attach subscribes the notifier to store and returns the unsubscribe function.
func (n *Notifier) Attach(store *ledger.Store) func() {
	return store.Subscribe(n.Notify)
}

// Close stops accepting events, waits until queued ones are sent or ctx ends.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrClosed
	}
	n.closed = true
	close(n.events)
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
