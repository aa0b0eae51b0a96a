package rabbitmq

import (
	"fmt"
	"sync"

	"github.com/binwrap/binwrap-go/chunker"
	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/contracts"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Collector reassembles chunk deliveries into envelopes. Chunks may arrive
// out of order and interleaved across envelopes; each envelope is grouped by
// its message id. Safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	pending map[string]*pendingEnvelope
}

type pendingEnvelope struct {
	chunks   [][]byte
	received int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{pending: make(map[string]*pendingEnvelope)}
}

// Add places one chunk. When the chunk completes its envelope, the
// reassembled envelope is returned with complete set to true and the
// collector forgets the id. Malformed chunk metadata or an envelope that
// fails to unmarshal after reassembly is reported as an error.
func (c *Collector) Add(messageID string, headers amqp.Table, body []byte) (env *contracts.Envelope, complete bool, err error) {
	if messageID == "" {
		return nil, false, fmt.Errorf("%w: chunk without message id", contracts.ErrInvalidArgument)
	}
	index, ok := headerInt(headers, headerChunkIndex)
	if !ok {
		return nil, false, fmt.Errorf("%w: chunk without %s header", contracts.ErrInvalidArgument, headerChunkIndex)
	}
	count, ok := headerInt(headers, headerChunkCount)
	if !ok {
		return nil, false, fmt.Errorf("%w: chunk without %s header", contracts.ErrInvalidArgument, headerChunkCount)
	}
	if count <= 0 || index < 0 || index >= count {
		return nil, false, fmt.Errorf("%w: chunk %d of %d out of range", contracts.ErrInvalidArgument, index, count)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pending[messageID]
	if p == nil {
		p = &pendingEnvelope{chunks: make([][]byte, count)}
		c.pending[messageID] = p
	}
	if len(p.chunks) != count {
		return nil, false, fmt.Errorf("%w: chunk count changed from %d to %d for envelope %s",
			contracts.ErrInvalidArgument, len(p.chunks), count, messageID)
	}
	if p.chunks[index] == nil {
		p.chunks[index] = body
		p.received++
	}
	if p.received < len(p.chunks) {
		return nil, false, nil
	}

	delete(c.pending, messageID)
	env, err = codec.Unmarshal(chunker.Join(p.chunks))
	if err != nil {
		return nil, false, err
	}
	return env, true, nil
}

// Pending returns how many envelopes are partially assembled.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// headerInt reads an integer AMQP header regardless of the wire-level
// integer width the broker round-tripped it through.
func headerInt(headers amqp.Table, key string) (int, bool) {
	switch v := headers[key].(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
