// Package rabbitmq streams envelopes over AMQP as ordered chunk sequences.
//
// An envelope is flattened to its wire form, split into fixed-size chunks
// and published as one message per chunk, tagged with the envelope's content
// id and the chunk's index and count. The consuming side reassembles chunks
// by concatenation in sequence order.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/binwrap/binwrap-go/chunker"
	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/contracts"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	headerChunkIndex = "x-chunk-index"
	headerChunkCount = "x-chunk-count"
)

// ErrTransportClosed reports that the broker closed the delivery channel.
var ErrTransportClosed = errors.New("rabbitmq: transport closed")

// Transport publishes and consumes chunked envelopes on one AMQP connection.
type Transport struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	chunker *chunker.Chunker
	logger  *slog.Logger
}

// TransportConfig holds configuration for the transport.
type TransportConfig struct {
	ChunkSize int
	Logger    *slog.Logger
}

// TransportOption configures the transport.
type TransportOption func(*TransportConfig)

// WithChunkSize sets the chunk size for published envelopes.
func WithChunkSize(size int) TransportOption {
	return func(cfg *TransportConfig) {
		cfg.ChunkSize = size
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) TransportOption {
	return func(cfg *TransportConfig) {
		cfg.Logger = logger
	}
}

// Connect dials the broker and opens a channel.
func Connect(url string, opts ...TransportOption) (*Transport, error) {
	cfg := &TransportConfig{ChunkSize: chunker.DefaultChunkSize}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ck, err := chunker.New(cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Transport{conn: conn, ch: ch, chunker: ck, logger: cfg.Logger}, nil
}

// Publish sends an envelope to a queue as an ordered chunk sequence. The
// queue is declared durable if it does not exist yet.
func (t *Transport) Publish(ctx context.Context, queue string, env *contracts.Envelope) error {
	data, err := codec.Marshal(env)
	if err != nil {
		return err
	}
	if _, err := t.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	id := env.Metadata.ContentID
	if id == "" {
		id = uuid.NewString()
	}

	chunks := t.chunker.Split(data)
	for i, chunk := range chunks {
		publishing := amqp.Publishing{
			ContentType:  "application/octet-stream",
			DeliveryMode: amqp.Persistent,
			MessageId:    id,
			Headers: amqp.Table{
				headerChunkIndex: int32(i),
				headerChunkCount: int32(len(chunks)),
			},
			Body: chunk,
		}
		if err := t.ch.PublishWithContext(ctx, "", queue, false, false, publishing); err != nil {
			return fmt.Errorf("publish chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	t.logger.DebugContext(ctx, "envelope published",
		"queue", queue,
		"contentId", id,
		"chunks", len(chunks),
		"size", len(data))
	return nil
}

// Consume reads chunk deliveries from a queue, reassembles complete
// envelopes and passes each to handler. It blocks until the context is
// cancelled, the delivery channel closes, or the handler returns an error.
// Chunks that cannot be placed are rejected without requeue.
func (t *Transport) Consume(ctx context.Context, queue string, handler func(ctx context.Context, env *contracts.Envelope) error) error {
	if _, err := t.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	deliveries, err := t.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", queue, err)
	}

	collector := NewCollector()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrTransportClosed
			}
			env, complete, err := collector.Add(d.MessageId, d.Headers, d.Body)
			if err != nil {
				t.logger.WarnContext(ctx, "dropping undeliverable chunk",
					"queue", queue,
					"messageId", d.MessageId,
					"error", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
			if !complete {
				continue
			}
			if err := handler(ctx, env); err != nil {
				return err
			}
		}
	}
}

// Close releases the channel and connection.
func (t *Transport) Close() error {
	if err := t.ch.Close(); err != nil {
		t.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	return t.conn.Close()
}
