package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/model"
)

// DefaultDialTimeout bounds a broker dial, including the AMQP handshake.
const DefaultDialTimeout = 5 * time.Second

// Publisher sends reservation events to RabbitMQ. It holds one connection
// per process, redialling lazily if the broker dropped it, and opens a
// channel per publish.
type Publisher struct {
	url         string
	log         logrus.FieldLogger
	dialTimeout time.Duration
	now         func() time.Time

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewPublisher dials url and declares the event queue. The caller owns
// the publisher and must Close it.
func NewPublisher(url string, log logrus.FieldLogger) (*Publisher, error) {
	p := &Publisher{url: url, log: log, dialTimeout: DefaultDialTimeout, now: time.Now}
	conn, err := p.connection(context.Background())
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()
	if err := declare(ch); err != nil {
		return nil, err
	}
	return p, nil
}

// PublishReservationCreated publishes a persistent ReservationCreatedEvent.
func (p *Publisher) PublishReservationCreated(ctx context.Context, r model.Reservation) error {
	now := p.now()
	msg, err := publishing(NewReservationCreatedEvent(r, now), now)
	if err != nil {
		return err
	}
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.PublishWithContext(ctx,
		"",                      // default exchange
		ReservationCreatedQueue, // routing key = queue name
		false,                   // mandatory
		false,                   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p.log.WithField("reservation_id", r.ID).Debug("reservation.created published")
	return nil
}

// Close closes the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

// connection returns the live connection or dials a new one. The dial runs
// outside p.mu and gives up at ctx's deadline or after p.dialTimeout,
// whichever comes first.
func (p *Publisher) connection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.Lock()
	if p.conn != nil && !p.conn.IsClosed() {
		conn := p.conn
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx, p.dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		// another caller won the race
		_ = conn.Close()
		return p.conn, nil
	}
	p.conn = conn
	return conn, nil
}

// dialContext opens the TCP connection under ctx and sets a deadline that
// covers the handshake; the amqp client clears it once the connection is
// open.
func dialContext(ctx context.Context, timeout time.Duration) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		deadline := time.Now().Add(timeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		d := net.Dialer{Deadline: deadline}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

func declare(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		ReservationCreatedQueue, // name
		true,                    // durable
		false,                   // autoDelete
		false,                   // exclusive
		false,                   // noWait
		nil,                     // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}

func publishing(ev ReservationCreatedEvent, at time.Time) (amqp.Publishing, error) {
	if ev.ReservationID == "" {
		return amqp.Publishing{}, errors.New("event without reservation id")
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ReservationID,
		Timestamp:    at.UTC(),
		Type:         ReservationCreatedQueue,
		Body:         body,
	}, nil
}
