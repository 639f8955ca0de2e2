package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// EventIngestCompleted is the event name carried by run notifications
const EventIngestCompleted = "ingest.completed"

// RunCompleted is published after a bulk load commits
type RunCompleted struct {
	Event string           `json:"event"`
	Run   models.IngestRun `json:"run"`
}

// Publisher announces finished ingest runs
type Publisher interface {
	RunCompleted(ctx context.Context, run models.IngestRun) error
	Close()
}

// Noop discards every event
type Noop struct{}

func (Noop) RunCompleted(context.Context, models.IngestRun) error { return nil }
func (Noop) Close()                                                {}

// conn is the part of *nats.Conn the publisher uses
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes JSON events on one subject
type NATSPublisher struct {
	conn    conn
	subject string
	logger  *zap.Logger
}

// Connect dials the NATS server at url. The connection retries in the
// background, so an unreachable server does not fail startup.
func Connect(url, token, subject string, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name("locstore"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("events: nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("events: nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(nc, subject, logger), nil
}

func newPublisher(c conn, subject string, logger *zap.Logger) *NATSPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: c, subject: subject, logger: logger}
}

// RunCompleted publishes run and waits for the server to acknowledge
// the flush or for ctx to end.
func (p *NATSPublisher) RunCompleted(ctx context.Context, run models.IngestRun) error {
	payload, err := json.Marshal(RunCompleted{Event: EventIngestCompleted, Run: run})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", p.subject, err)
	}

	p.logger.Debug("events: published",
		zap.String("subject", p.subject),
		zap.String("run", run.ID))
	return nil
}

// Close drops the connection
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// New returns a NATS publisher when url is set and a Noop otherwise.
func New(url, token, subject string, logger *zap.Logger) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return Connect(url, token, subject, logger)
}
