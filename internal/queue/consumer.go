package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/chanaka-devx/L-essence/internal/config"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking events
// queue (durable), and appends every message to cfg.LogPath as a single
// human-friendly line.  It reconnects with exponential backoff and only
// returns once ctx is cancelled.  Malformed messages are rejected without
// requeue so one bad payload cannot stall the queue.
func StartBookingConsumer(ctx context.Context, cfg config.EventsConfig, log logrus.FieldLogger) error {
    if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", filepath.Dir(cfg.LogPath), err)
    }
    f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.WithError(err).Warnf("booking-consumer: failed to dial broker; retrying in %s", backoff)
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, cfg.Queue, f, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.WithError(err).Warn("booking-consumer: consume loop ended; reconnecting")
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, sink io.Writer, log logrus.FieldLogger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.WithError(err).Warn("booking-consumer: set QoS failed")
    }

    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(d.Body, sink); err != nil {
                log.WithError(err).WithField("message_id", d.MessageId).Error("booking-consumer: handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// handleMessage decodes one BookingEvent and writes its log line to sink.
func handleMessage(body []byte, sink io.Writer) error {
    var ev BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Event == "" || ev.BookingID == 0 {
        return errors.New("event name and booking_id are required")
    }
    if _, err := io.WriteString(sink, FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a newline-terminated log line.
func FormatLine(ev BookingEvent) string {
    switch ev.Event {
    case EventBookingStatusChanged:
        return fmt.Sprintf("[%s] Booking status changed | booking_id=%d | user_id=%d | table_id=%d | timeslot_id=%d | date=%s | %s -> %s\n",
            ev.OccurredAt, ev.BookingID, ev.UserID, ev.TableID, ev.TimeslotID, ev.BookingDate, ev.PreviousStatus, ev.Status)
    default:
        return fmt.Sprintf("[%s] Booking created | booking_id=%d | user_id=%d | table_id=%d | timeslot_id=%d | date=%s | status=%s\n",
            ev.OccurredAt, ev.BookingID, ev.UserID, ev.TableID, ev.TimeslotID, ev.BookingDate, ev.Status)
    }
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
