package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/invoice-dashboard/internal/logging"
)

// AuditConsumer appends one line per invoice event to a log file.
type AuditConsumer struct {
    URL     string
    Queue   string
    LogPath string
}

// Run connects to RabbitMQ, declares the queue and consumes until ctx is
// cancelled, reconnecting with exponential backoff (capped at 30s) when
// the broker goes away.  Messages that cannot be handled are rejected
// without requeue so a bad payload cannot spin the loop.
func (c AuditConsumer) Run(ctx context.Context) error {
    log := logging.With("audit-consumer")
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("consume loop ended; reconnecting")
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    log := logging.With("audit-consumer")
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("set QoS failed")
    }
    if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := c.handleMessage(d.Body); err != nil {
            log.Error().Err(err).Msg("handle message failed")
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func (c AuditConsumer) handleMessage(body []byte) error {
    var ev InvoiceEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.InvoiceID == "" {
        return errors.New("event missing type or invoice id")
    }
    if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(auditLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// auditLine renders ev as a single newline-terminated line.
func auditLine(ev InvoiceEvent) string {
    if ev.Type == InvoiceDeleted {
        return fmt.Sprintf("[%s] %s | invoice_id=%s\n", ev.OccurredAt, ev.Type, ev.InvoiceID)
    }
    return fmt.Sprintf("[%s] %s | invoice_id=%s | customer_id=%s | amount=%d cents | status=%s\n",
        ev.OccurredAt, ev.Type, ev.InvoiceID, ev.CustomerID, ev.AmountCents, ev.Status)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
