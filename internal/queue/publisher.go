package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/invoice-dashboard/internal/logging"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
    PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
    IsClosed() bool
    Close() error
}

type dialFunc func() (io.Closer, amqpChannel, error)

// Publisher keeps one connection and channel open and publishes persistent
// JSON messages to a durable queue.  When the broker drops the channel the
// next Publish dials again, so a broker restart costs the events sent while
// it was down and nothing after.
type Publisher struct {
    mu     sync.Mutex
    dial   dialFunc
    conn   io.Closer
    ch     amqpChannel
    queue  string
    closed bool
}

// NewPublisher dials url and declares queue (durable).
func NewPublisher(url, queue string) (*Publisher, error) {
    p := newPublisher(queue, func() (io.Closer, amqpChannel, error) { return dialChannel(url, queue) })
    if err := p.connect(); err != nil {
        return nil, err
    }
    return p, nil
}

func newPublisher(queue string, dial dialFunc) *Publisher {
    return &Publisher{dial: dial, queue: queue}
}

func dialChannel(url, queue string) (io.Closer, amqpChannel, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, nil, fmt.Errorf("open channel: %w", err)
    }
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, nil, fmt.Errorf("declare queue: %w", err)
    }
    return conn, ch, nil
}

// connect replaces the current connection.  Callers hold p.mu.
func (p *Publisher) connect() error {
    p.drop()
    conn, ch, err := p.dial()
    if err != nil {
        return err
    }
    p.conn, p.ch = conn, ch
    return nil
}

func (p *Publisher) drop() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}

func (p *Publisher) reconnect() error {
    if err := p.connect(); err != nil {
        return fmt.Errorf("reconnect: %w", err)
    }
    log := logging.With("event-publisher")
    log.Info().Str("queue", p.queue).Msg("reconnected to broker")
    return nil
}

// Publish sends ev to the queue through the default exchange.  A closed
// channel is reopened first; a publish that fails because the channel died
// underneath it is retried once on a fresh one.
func (p *Publisher) Publish(ctx context.Context, ev InvoiceEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    if p.closed {
        return ErrPublisherClosed
    }
    if p.ch == nil || p.ch.IsClosed() {
        if err := p.reconnect(); err != nil {
            return err
        }
    }
    err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub)
    if errors.Is(err, amqp.ErrClosed) {
        if err := p.reconnect(); err != nil {
            return err
        }
        err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub)
    }
    if err != nil {
        return fmt.Errorf("publish %s: %w", ev.Type, err)
    }
    return nil
}

func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.closed = true
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        err := p.conn.Close()
        p.conn = nil
        return err
    }
    return nil
}
