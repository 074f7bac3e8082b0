package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
	"github.com/nats-io/nats.go"
)

type Publisher struct {
	conn         *nats.Conn
	subject      string
	flushTimeout time.Duration
}

type Options struct {
	ConnectTimeout time.Duration
	FlushTimeout   time.Duration
}

func New(url, subject string) (*Publisher, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}

	conn, err := nats.Connect(
		url,
		nats.Name("paperless-date-normalizer"),
		nats.Timeout(connectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats_disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	flushTimeout := options.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = 5 * time.Second
	}
	return &Publisher{conn: conn, subject: subject, flushTimeout: flushTimeout}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) PublishDocumentNormalized(ctx context.Context, event domain.DocumentNormalized) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal document normalized event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	// The process exits right after, so wait for the server to have it.
	if err := p.conn.FlushTimeout(p.flushTimeout); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	return nil
}

// Noop is used when no NATS server is configured.
type Noop struct{}

func (Noop) PublishDocumentNormalized(context.Context, domain.DocumentNormalized) error { return nil }
